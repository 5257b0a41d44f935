package chord

import "fmt"

var majorSteps = [7]int{0, 2, 4, 5, 7, 9, 11}

var diatonicQualities = [7]Quality{Major, Minor, Minor, Major, Major, Minor, Diminished}

var degreeNumerals = [7]string{"I", "ii", "iii", "IV", "V", "vi", "vii°"}

// Scale is a seven-note major scale. Chords built from a Scale only use
// the scale's own pitch classes and spellings.
type Scale struct {
	Tonic   PitchClass
	Flat    bool
	members [7]PitchClass
}

// MajorScale returns the major scale starting at tonic. Keys with flats
// in their signature are spelled with flats.
func MajorScale(tonic PitchClass) *Scale {
	s := &Scale{Tonic: tonic}
	switch tonic {
	case F, BFlat, EFlat, AFlat, DFlat, GFlat:
		s.Flat = true
	}
	for i, step := range majorSteps {
		s.members[i] = PitchClass(mod12(int(tonic) + step))
	}
	return s
}

// Members returns the scale's pitch classes from the tonic up
func (s *Scale) Members() []PitchClass {
	return append([]PitchClass(nil), s.members[:]...)
}

// Names returns the spelled members, e.g. F G A Bb C D E
func (s *Scale) Names() []string {
	names := make([]string, len(s.members))
	for i, pc := range s.members {
		names[i] = Note{Class: pc, Flat: s.Flat}.Name()
	}
	return names
}

// Contains reports whether pc is a member of the scale
func (s *Scale) Contains(pc PitchClass) bool {
	return s.Degree(pc) >= 0
}

// Degree returns the zero-based scale degree of pc, or -1
func (s *Scale) Degree(pc PitchClass) int {
	for i, m := range s.members {
		if m == pc {
			return i
		}
	}
	return -1
}

// Triad returns the root and quality of the diatonic triad on degree
// (0..6), together with its roman numeral
func (s *Scale) Triad(degree int) (PitchClass, Quality, string) {
	degree = ((degree % 7) + 7) % 7
	return s.members[degree], diatonicQualities[degree], degreeNumerals[degree]
}

// BuildChord builds a chord restricted to the scale. The root must be a
// scale member. A chord tone outside the scale snaps up to the next
// scale member and always moves up one octave, so the snapped pitch
// sits above the tone it replaces.
func (s *Scale) BuildChord(root PitchClass, q Quality, octave int) ([]Note, error) {
	if !root.Valid() || !s.Contains(root) {
		return nil, &InvalidNoteError{Value: Note{Class: root, Flat: s.Flat}.Name()}
	}
	if !q.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownQuality, q)
	}
	notes := make([]Note, 0, len(intervals[q]))
	for _, o := range intervals[q] {
		abs := int(root) + o
		pc, oct := abs%12, octave+abs/12
		if !s.Contains(PitchClass(pc)) {
			oct++
			for !s.Contains(PitchClass(pc)) {
				pc = (pc + 1) % 12
			}
		}
		notes = append(notes, Note{Class: PitchClass(pc), Octave: oct, Flat: s.Flat})
	}
	return notes, nil
}
