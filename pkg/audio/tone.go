package audio

import (
	"math"
)

const toneVoices = 16

// toneSynth is the built-in polyphonic oscillator synth used when no
// SoundFont is configured. It satisfies synthesizer.
type toneSynth struct {
	sampleRate int
	env        Envelope
	voices     []*voice
	age        uint64
}

func newToneSynth(sampleRate int, gen Generator, env Envelope) *toneSynth {
	s := &toneSynth{
		sampleRate: sampleRate,
		env:        env,
		voices:     make([]*voice, toneVoices),
	}
	for i := range s.voices {
		s.voices[i] = &voice{osc: NewOscillator(gen, float64(sampleRate))}
	}
	return s
}

// NoteOn takes a free voice, or steals the oldest one
func (s *toneSynth) NoteOn(_, key, velocity int32) {
	s.age++
	var pick *voice
	for _, v := range s.voices {
		if !v.active {
			pick = v
			break
		}
		if pick == nil || v.age < pick.age {
			pick = v
		}
	}
	pick.trigger(int(key), float64(velocity)/127.0, s.age)
}

// NoteOff releases every voice sounding key
func (s *toneSynth) NoteOff(_, key int32) {
	for _, v := range s.voices {
		if v.active && v.key == int(key) {
			v.release()
		}
	}
}

// Render fills left and right with one block. The envelope advances once
// per call.
func (s *toneSynth) Render(left, right []float32) {
	active := 0
	for _, v := range s.voices {
		if v.active {
			v.step(s.env)
			active++
		}
	}

	for i := range left {
		var sample float64
		for _, v := range s.voices {
			if v.active && v.volume > 0 {
				sample += v.osc.Sample() * v.volume
			}
		}

		// Mix down with headroom (divide by sqrt of voices for proper gain staging)
		if active > 1 {
			sample /= math.Sqrt(float64(active))
		}
		sample = softLimit(sample * 0.5)

		left[i] = float32(sample)
		if i < len(right) {
			right[i] = float32(sample)
		}
	}
}

// softLimit is a tanh-style limiter that avoids hard clipping
func softLimit(sample float64) float64 {
	if sample > 0.9 {
		return 0.9 + 0.1*math.Tanh((sample-0.9)*10)
	}
	if sample < -0.9 {
		return -0.9 + 0.1*math.Tanh((sample+0.9)*10)
	}
	return sample
}
