// Package audio implements the sound output of the chord pad: SoundFont
// and oscillator synth engines, realtime output and WAV export.
package audio

import (
	"math"
)

// Generator selects the oscillator waveform of the built-in synth
type Generator uint8

const (
	GenTriangle Generator = iota
	GenSawtooth
	GenSquare
	GenSawBig // 11-bit sawtooth like bytebeat
)

// ParseGenerator maps a waveform name to a Generator
func ParseGenerator(name string) (Generator, bool) {
	switch name {
	case "triangle", "tri", "":
		return GenTriangle, true
	case "sawtooth", "saw":
		return GenSawtooth, true
	case "square", "squ":
		return GenSquare, true
	case "sawbig":
		return GenSawBig, true
	}
	return GenTriangle, false
}

// Oscillator generates waveforms
type Oscillator struct {
	Type       Generator
	Phase      float64
	Frequency  float64
	SampleRate float64
	Duty       float64 // Duty cycle 0.0-1.0 (default 0.5 for square)
}

// NewOscillator creates a new oscillator
func NewOscillator(genType Generator, sampleRate float64) *Oscillator {
	return &Oscillator{
		Type:       genType,
		SampleRate: sampleRate,
		Duty:       0.5,
	}
}

// KeyToFreq converts a MIDI key to frequency, A4 = key 69 = 440 Hz
func KeyToFreq(key int) float64 {
	return 440.0 * math.Pow(2.0, float64(key-69)/12.0)
}

// Sample generates the next sample value (-1.0 to 1.0)
func (o *Oscillator) Sample() float64 {
	if o.Frequency <= 0 {
		return 0
	}

	o.Phase += o.Frequency / o.SampleRate
	if o.Phase >= 1.0 {
		o.Phase -= 1.0
	}

	switch o.Type {
	case GenTriangle:
		return o.triangle()
	case GenSawtooth:
		return o.sawtooth()
	case GenSquare:
		return o.square()
	case GenSawBig:
		return o.sawBig()
	default:
		return 0
	}
}

// Triangle wave: /\/\/\
func (o *Oscillator) triangle() float64 {
	p := o.Phase
	if p < 0.5 {
		return 4.0*p - 1.0
	}
	return 3.0 - 4.0*p
}

// Sawtooth wave: /|/|/|
func (o *Oscillator) sawtooth() float64 {
	return 2.0*o.Phase - 1.0
}

// Square wave: _|-|_|-|
func (o *Oscillator) square() float64 {
	if o.Phase < o.Duty {
		return 1.0
	}
	return -1.0
}

// SawBig mimics swb = x & 2047 in bytebeat
func (o *Oscillator) sawBig() float64 {
	val := int(o.Phase*2048) & 2047
	return float64(val)/1024.0 - 1.0
}

// Envelope is an ADSR volume envelope. Times are in render blocks.
type Envelope struct {
	Attack  uint8
	Decay   uint8
	Sustain uint8 // Sustain level (0-64)
	Release uint8
}

// PianoEnvelope is a quick attack with a long decay, loosely piano-like
var PianoEnvelope = Envelope{Attack: 1, Decay: 60, Sustain: 20, Release: 25}

const (
	envAttack = iota
	envDecay
	envSustain
	envRelease
)

// voice is one sounding note of the oscillator synth
type voice struct {
	key      int
	osc      *Oscillator
	active   bool
	volume   float64 // 0.0 to 1.0
	target   float64 // peak level from velocity
	envPhase int
	envPos   float64
	age      uint64
}

func (v *voice) trigger(key int, velocity float64, age uint64) {
	v.key = key
	v.active = true
	v.target = velocity
	v.volume = 0
	v.envPhase = envAttack
	v.envPos = 0
	v.age = age
	v.osc.Frequency = KeyToFreq(key)
	v.osc.Phase = 0
}

func (v *voice) release() {
	if v.envPhase != envRelease {
		v.envPhase = envRelease
		v.envPos = 0
	}
}

// step advances the envelope by one render block
func (v *voice) step(env Envelope) {
	switch v.envPhase {
	case envAttack:
		if env.Attack == 0 {
			v.volume = v.target
			v.envPhase = envDecay
		} else {
			v.envPos += 1.0 / float64(env.Attack)
			v.volume = v.target * v.envPos
			if v.envPos >= 1.0 {
				v.volume = v.target
				v.envPhase = envDecay
				v.envPos = 0
			}
		}
	case envDecay:
		sustainLevel := float64(env.Sustain) / 64.0 * v.target
		if env.Decay == 0 {
			v.volume = sustainLevel
			v.envPhase = envSustain
		} else {
			v.envPos += 1.0 / float64(env.Decay)
			v.volume = v.target - (v.target-sustainLevel)*v.envPos
			if v.envPos >= 1.0 {
				v.volume = sustainLevel
				v.envPhase = envSustain
				v.envPos = 0
			}
		}
	case envSustain:
		v.volume = float64(env.Sustain) / 64.0 * v.target
	case envRelease:
		if env.Release == 0 || v.volume <= 0.001 {
			v.volume = 0
			v.active = false
		} else {
			v.envPos += 1.0 / float64(env.Release)
			v.volume *= 1.0 - v.envPos*0.1
			if v.volume <= 0.001 {
				v.volume = 0
				v.active = false
			}
		}
	}
}
