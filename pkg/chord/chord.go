package chord

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownQuality is returned when a chord quality name is not recognized
var ErrUnknownQuality = errors.New("unknown chord quality")

// Quality is a chord type with a fixed list of semitone offsets from the root
type Quality int

const (
	Major Quality = iota
	Minor
	Diminished
	Augmented
	Major7
	Minor7
	Dominant7
)

// Qualities lists every supported quality
var Qualities = []Quality{Major, Minor, Diminished, Augmented, Major7, Minor7, Dominant7}

var qualityNames = [...]string{"major", "minor", "diminished", "augmented", "major7", "minor7", "dominant7"}

// Semitones above the root, ascending
var intervals = [...][]int{
	Major:      {0, 4, 7},
	Minor:      {0, 3, 7},
	Diminished: {0, 3, 6},
	Augmented:  {0, 4, 8},
	Major7:     {0, 4, 7, 11},
	Minor7:     {0, 3, 7, 10},
	Dominant7:  {0, 4, 7, 10},
}

func (q Quality) valid() bool {
	return q >= Major && int(q) < len(intervals)
}

func (q Quality) String() string {
	if !q.valid() {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityNames[q]
}

// Intervals returns a copy of the semitone offsets of q
func (q Quality) Intervals() []int {
	if !q.valid() {
		return nil
	}
	return append([]int(nil), intervals[q]...)
}

// Suffix is the short chord symbol suffix, e.g. "m" or "°"
func (q Quality) Suffix() string {
	switch q {
	case Minor:
		return "m"
	case Diminished:
		return "°"
	case Augmented:
		return "+"
	case Major7:
		return "maj7"
	case Minor7:
		return "m7"
	case Dominant7:
		return "7"
	}
	return ""
}

// ParseQuality accepts the quality names plus a few common aliases
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major", "maj", "":
		return Major, nil
	case "minor", "min", "m":
		return Minor, nil
	case "diminished", "dim":
		return Diminished, nil
	case "augmented", "aug":
		return Augmented, nil
	case "major7", "maj7":
		return Major7, nil
	case "minor7", "min7", "m7":
		return Minor7, nil
	case "dominant7", "dom7", "7":
		return Dominant7, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQuality, s)
}

// Builder constructs the notes of a chord
type Builder interface {
	BuildChord(root PitchClass, q Quality, octave int) ([]Note, error)
}

// Chromatic builds chords over all 12 pitch classes
type Chromatic struct {
	Flat bool // spell black keys with flats
}

// BuildChord builds a chord with the default sharp spelling
func BuildChord(root PitchClass, q Quality, octave int) ([]Note, error) {
	return Chromatic{}.BuildChord(root, q, octave)
}

// BuildChord returns one note per offset of q, root first. Octaves carry
// when root+offset passes B.
func (c Chromatic) BuildChord(root PitchClass, q Quality, octave int) ([]Note, error) {
	if !root.Valid() {
		return nil, &InvalidNoteError{Value: fmt.Sprint(int(root))}
	}
	if !q.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownQuality, q)
	}
	notes := make([]Note, 0, len(intervals[q]))
	for _, o := range intervals[q] {
		abs := int(root) + o
		notes = append(notes, Note{
			Class:  PitchClass(abs % 12),
			Octave: octave + abs/12,
			Flat:   c.Flat,
		})
	}
	return notes, nil
}

// Symbol returns a chord symbol such as "Bbm" or "E°"
func Symbol(root PitchClass, q Quality, flat bool) string {
	return Note{Class: root, Flat: flat}.Name() + q.Suffix()
}
