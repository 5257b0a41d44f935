// Package chord implements pitch classes, notes and chord construction
package chord

import (
	"fmt"
	"strconv"
	"strings"
)

// PitchClass is one of the 12 semitone classes, C = 0 through B = 11
type PitchClass int

const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// Flat spellings of the black keys
const (
	DFlat = CSharp
	EFlat = DSharp
	GFlat = FSharp
	AFlat = GSharp
	BFlat = ASharp
)

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// InvalidNoteError reports a pitch class or note name that cannot be used
type InvalidNoteError struct {
	Value string
}

func (e *InvalidNoteError) Error() string {
	return fmt.Sprintf("invalid note: %q", e.Value)
}

// Valid reports whether pc is within 0..11
func (pc PitchClass) Valid() bool {
	return pc >= C && pc <= B
}

// Name returns the sharp spelling of the pitch class
func (pc PitchClass) Name() string {
	if !pc.Valid() {
		return "?"
	}
	return sharpNames[pc]
}

func (pc PitchClass) String() string { return pc.Name() }

// ParsePitchClass accepts C, C#, Db ... B. The ♯ and ♭ signs are
// accepted in place of # and b.
func ParsePitchClass(s string) (PitchClass, error) {
	name := strings.NewReplacer("♯", "#", "♭", "b").Replace(strings.TrimSpace(s))
	if name == "" {
		return 0, &InvalidNoteError{Value: s}
	}
	letter := strings.ToUpper(name[:1])
	base := strings.Index("C D EF G A B", letter)
	if base < 0 || letter == " " {
		return 0, &InvalidNoteError{Value: s}
	}
	pc := base
	for _, acc := range name[1:] {
		switch acc {
		case '#':
			pc++
		case 'b':
			pc--
		default:
			return 0, &InvalidNoteError{Value: s}
		}
	}
	return PitchClass(((pc % 12) + 12) % 12), nil
}

// Note is a pitch class at an octave in scientific pitch notation.
// The octave number changes between B and C.
type Note struct {
	Class  PitchClass
	Octave int
	Flat   bool // spell black keys with flats
}

// NewNote creates a note spelled with sharps
func NewNote(pc PitchClass, octave int) Note {
	return Note{Class: pc, Octave: octave}
}

// Name returns the spelled pitch class without octave
func (n Note) Name() string {
	if !n.Class.Valid() {
		return "?"
	}
	if n.Flat {
		return flatNames[n.Class]
	}
	return sharpNames[n.Class]
}

// String returns the transport form, e.g. "C#4" or "Bb3"
func (n Note) String() string {
	return n.Name() + strconv.Itoa(n.Octave)
}

// MIDI returns the MIDI key number, C4 = 60
func (n Note) MIDI() int {
	return (n.Octave+1)*12 + int(n.Class)
}

// Transpose shifts the note by semitones, carrying octaves in either
// direction. The spelling preference is kept.
func (n Note) Transpose(semitones int) Note {
	if semitones == 0 {
		return n
	}
	abs := int(n.Class) + semitones
	octave := n.Octave + floorDiv(abs, 12)
	return Note{Class: PitchClass(mod12(abs)), Octave: octave, Flat: n.Flat}
}

// ParseNote parses a spelled note with octave, e.g. "F3", "Bb2", "C#-1"
func ParseNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool {
		return r == '-' || (r >= '0' && r <= '9')
	})
	if i <= 0 {
		return Note{}, &InvalidNoteError{Value: s}
	}
	pc, err := ParsePitchClass(s[:i])
	if err != nil {
		return Note{}, &InvalidNoteError{Value: s}
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return Note{}, &InvalidNoteError{Value: s}
	}
	return Note{Class: pc, Octave: octave, Flat: strings.ContainsAny(s[1:i], "b♭")}, nil
}

// TransposeAll returns a transposed copy of notes
func TransposeAll(notes []Note, semitones int) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Transpose(semitones)
	}
	return out
}

// Strings converts notes to their transport form
func Strings(notes []Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.String()
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod12(a int) int {
	return ((a % 12) + 12) % 12
}
