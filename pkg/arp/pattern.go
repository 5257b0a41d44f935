// Package arp implements the arpeggio scheduler
package arp

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/oisee/chordpad/pkg/chord"
)

// ErrUnknownPattern is returned for an arpeggio or beat pattern name that
// is not recognized
var ErrUnknownPattern = errors.New("unknown pattern")

// Pattern orders the notes of a chord for one arpeggio pass
type Pattern int

const (
	Up Pattern = iota
	Down
	UpDown
	Random
)

// Patterns lists arpeggio patterns in display order
var Patterns = []Pattern{Up, Down, UpDown, Random}

var patternNames = [...]string{"up", "down", "upDown", "random"}

func (p Pattern) String() string {
	if p < Up || p > Random {
		return fmt.Sprintf("Pattern(%d)", int(p))
	}
	return patternNames[p]
}

// Label is the human readable name shown in the UI
func (p Pattern) Label() string {
	switch p {
	case Down:
		return "Down"
	case UpDown:
		return "Up & Down"
	case Random:
		return "Random"
	}
	return "Up"
}

// Next cycles through Patterns
func (p Pattern) Next(step int) Pattern {
	n := len(Patterns)
	return Patterns[((int(p)+step)%n+n)%n]
}

// ParsePattern accepts the pattern names, case-insensitively
func ParsePattern(s string) (Pattern, error) {
	for i, name := range patternNames {
		if strings.EqualFold(s, name) {
			return Pattern(i), nil
		}
	}
	if strings.EqualFold(s, "up-down") || strings.EqualFold(s, "updown") {
		return UpDown, nil
	}
	return Up, fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

// Apply returns a new sequence; notes is never modified.
//
// UpDown climbs and comes back down without repeating either end, so the
// pass loops seamlessly: [A B C] plays A B C B.
// Random returns a shuffled copy.
func (p Pattern) Apply(notes []chord.Note) []chord.Note {
	out := append([]chord.Note(nil), notes...)
	switch p {
	case Down:
		reverse(out)
	case UpDown:
		if len(notes) > 2 {
			inner := append([]chord.Note(nil), notes[1:len(notes)-1]...)
			reverse(inner)
			out = append(out, inner...)
		}
	case Random:
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

func reverse(notes []chord.Note) {
	for i, j := 0, len(notes)-1; i < j; i, j = i+1, j-1 {
		notes[i], notes[j] = notes[j], notes[i]
	}
}

// Beat is a rhythmic pattern of relative note lengths, cycled across the
// notes of a pass
type Beat int

const (
	Straight Beat = iota
	Dotted
	Swing
	Triplet
)

// Beats lists beat patterns in display order
var Beats = []Beat{Straight, Dotted, Swing, Triplet}

var beatNames = [...]string{"straight", "dotted", "swing", "triplet"}

var beatSteps = [...][]float64{
	Straight: {1, 1, 1, 1},
	Dotted:   {1.5, 0.5, 1.5, 0.5},
	Swing:    {1.2, 0.8, 1.2, 0.8},
	Triplet:  {0.33, 0.33, 0.33, 1},
}

func (b Beat) String() string {
	if b < Straight || b > Triplet {
		return fmt.Sprintf("Beat(%d)", int(b))
	}
	return beatNames[b]
}

// Steps returns the beat multipliers
func (b Beat) Steps() []float64 {
	if b < Straight || b > Triplet {
		return beatSteps[Straight]
	}
	return beatSteps[b]
}

// Next cycles through Beats
func (b Beat) Next(step int) Beat {
	n := len(Beats)
	return Beats[((int(b)+step)%n+n)%n]
}

// ParseBeat accepts the beat pattern names, case-insensitively
func ParseBeat(s string) (Beat, error) {
	for i, name := range beatNames {
		if strings.EqualFold(s, name) {
			return Beat(i), nil
		}
	}
	return Straight, fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}
