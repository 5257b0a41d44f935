package arp

import (
	"time"

	"github.com/oisee/chordpad/pkg/chord"
)

// Limits bounds the user adjustable settings
type Limits struct {
	MinTempo     int
	MaxTempo     int
	MaxTranspose int // transpose is clamped to [-MaxTranspose, MaxTranspose]
}

// DefaultLimits matches the tempo slider and transpose buttons of the pad
var DefaultLimits = Limits{MinTempo: 60, MaxTempo: 200, MaxTranspose: 12}

// ClampTempo bounds bpm to the tempo range
func (l Limits) ClampTempo(bpm int) int {
	return clamp(bpm, l.MinTempo, l.MaxTempo)
}

// ClampTranspose bounds semitones to the symmetric transpose range
func (l Limits) ClampTranspose(semitones int) int {
	return clamp(semitones, -l.MaxTranspose, l.MaxTranspose)
}

func (l Limits) normalize() Limits {
	if l.MinTempo <= 0 {
		l.MinTempo = DefaultLimits.MinTempo
	}
	if l.MaxTempo < l.MinTempo {
		l.MaxTempo = l.MinTempo
	}
	if l.MaxTranspose < 0 {
		l.MaxTranspose = -l.MaxTranspose
	}
	return l
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Settings are the playback parameters of one arpeggio pass
type Settings struct {
	Tempo     int // beats per minute
	Transpose int // semitones
	Pattern   Pattern
	Beat      Beat
}

// DefaultSettings is 120 BPM, no transpose, up, straight
var DefaultSettings = Settings{Tempo: 120, Pattern: Up, Beat: Straight}

// BaseDelay is the length of one beat at tempo
func BaseDelay(tempo int) time.Duration {
	if tempo <= 0 {
		tempo = DefaultSettings.Tempo
	}
	return time.Minute / time.Duration(tempo)
}

// Step is one note trigger within a pass
type Step struct {
	Note   chord.Note
	Offset time.Duration // from the start of the pass
}

// Plan lays out one pass: transpose every note, order them with the
// pattern, then place each at the cumulative offset of the beat lengths
// before it. It returns the steps and the length of the pass, which is
// where the next pass starts.
func Plan(notes []chord.Note, s Settings) ([]Step, time.Duration) {
	ordered := s.Pattern.Apply(chord.TransposeAll(notes, s.Transpose))
	base := BaseDelay(s.Tempo)
	beats := s.Beat.Steps()

	steps := make([]Step, len(ordered))
	var at time.Duration
	for i, n := range ordered {
		steps[i] = Step{Note: n, Offset: at}
		at += time.Duration(float64(base) * beats[i%len(beats)])
	}
	return steps, at
}
