package chord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorScaleNames(t *testing.T) {
	assert.Equal(t, []string{"F", "G", "A", "Bb", "C", "D", "E"}, MajorScale(F).Names())
	assert.Equal(t, []string{"D", "E", "F#", "G", "A", "B", "C#"}, MajorScale(D).Names())
}

func TestScaleDiatonicTriads(t *testing.T) {
	s := MajorScale(F)
	want := [][]string{
		{"F3", "A3", "C4"},
		{"G3", "Bb3", "D4"},
		{"A3", "C4", "E4"},
		{"Bb3", "D4", "F4"},
		{"C3", "E3", "G3"},
		{"D3", "F3", "A3"},
		{"E3", "G3", "Bb3"},
	}
	for degree := 0; degree < 7; degree++ {
		root, q, _ := s.Triad(degree)
		notes, err := s.BuildChord(root, q, 3)
		require.NoError(t, err)
		assert.Equal(t, want[degree], Strings(notes), "degree %d", degree)
	}
}

func TestScaleTriadNumerals(t *testing.T) {
	root, q, numeral := MajorScale(F).Triad(6)
	assert.Equal(t, E, root)
	assert.Equal(t, Diminished, q)
	assert.Equal(t, "vii°", numeral)
}

func TestScaleRejectsRootOutsideScale(t *testing.T) {
	_, err := MajorScale(F).BuildChord(B, Major, 3)

	var invalid *InvalidNoteError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "B", invalid.Value)
}

func TestScaleSnapsOutOfScaleTones(t *testing.T) {
	s := MajorScale(F)

	tests := []struct {
		root PitchClass
		q    Quality
		want []string
	}{
		// F#3 snaps to G and moves up an octave
		{D, Major, []string{"D3", "G4", "A3"}},
		// Ab3 snaps to A4
		{F, Minor, []string{"F3", "A4", "C4"}},
		// G#3 to A4, B3 to C4
		{E, Major, []string{"E3", "A4", "C4"}},
	}
	for _, tt := range tests {
		notes, err := s.BuildChord(tt.root, tt.q, 3)
		require.NoError(t, err)
		assert.Equal(t, tt.want, Strings(notes), "%v %v", tt.root, tt.q)
	}
}

func TestScaleSnapWrapsIntoNextOctave(t *testing.T) {
	s := MajorScale(F)

	// B3 is not in F major; the snap wraps to C and moves up exactly one octave
	notes, err := s.BuildChord(G, Major, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"G3", "C4", "D4"}, Strings(notes))

	// every snapped tone ends above the pitch it replaces
	for _, root := range s.Members() {
		for _, q := range []Quality{Major, Minor, Augmented, Dominant7} {
			notes, err := s.BuildChord(root, q, 3)
			require.NoError(t, err)
			raw, err := Chromatic{}.BuildChord(root, q, 3)
			require.NoError(t, err)
			for i := range notes {
				assert.GreaterOrEqual(t, notes[i].MIDI(), raw[i].MIDI())
			}
		}
	}
}
