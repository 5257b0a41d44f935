package chord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChord(t *testing.T) {
	tests := []struct {
		name    string
		root    PitchClass
		quality Quality
		octave  int
		want    []string
	}{
		{"F major", F, Major, 3, []string{"F3", "A3", "C4"}},
		{"C minor", C, Minor, 4, []string{"C4", "D#4", "G4"}},
		{"B diminished", B, Diminished, 2, []string{"B2", "D3", "F3"}},
		{"A minor 7th", A, Minor7, 4, []string{"A4", "C5", "E5", "G5"}},
		{"G# augmented", GSharp, Augmented, 1, []string{"G#1", "C2", "E2"}},
		{"negative octave", D, Dominant7, -1, []string{"D-1", "F#-1", "A-1", "C0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := BuildChord(tt.root, tt.quality, tt.octave)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Strings(notes))
		})
	}
}

func TestMajorChordIntervalsForEveryRoot(t *testing.T) {
	for pc := C; pc <= B; pc++ {
		notes, err := BuildChord(pc, Major, 4)
		require.NoError(t, err)
		require.Len(t, notes, 3)

		root := notes[0].MIDI()
		var got []int
		for _, n := range notes {
			got = append(got, n.MIDI()-root)
		}
		assert.Equal(t, []int{0, 4, 7}, got, "root %s", pc)
	}
}

func TestBuildChordLengthMatchesQuality(t *testing.T) {
	for _, q := range Qualities {
		notes, err := BuildChord(E, q, 3)
		require.NoError(t, err)
		assert.Len(t, notes, len(q.Intervals()), q.String())
	}
}

func TestBuildChordRejectsInvalidRoot(t *testing.T) {
	_, err := BuildChord(PitchClass(12), Major, 4)

	var invalid *InvalidNoteError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "12", invalid.Value)
}

func TestBuildChordRejectsUnknownQuality(t *testing.T) {
	_, err := BuildChord(C, Quality(42), 4)
	assert.ErrorIs(t, err, ErrUnknownQuality)
}

func TestChromaticFlatSpelling(t *testing.T) {
	notes, err := Chromatic{Flat: true}.BuildChord(BFlat, Major, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bb2", "D3", "F3"}, Strings(notes))
}

func TestParseQuality(t *testing.T) {
	for in, want := range map[string]Quality{
		"major": Major, "m": Minor, "DIM": Diminished, "aug": Augmented,
		"maj7": Major7, "min7": Minor7, "7": Dominant7,
	} {
		q, err := ParseQuality(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, q, in)
	}

	_, err := ParseQuality("sus4")
	assert.ErrorIs(t, err, ErrUnknownQuality)
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "Bb", Symbol(BFlat, Major, true))
	assert.Equal(t, "Gm", Symbol(G, Minor, false))
	assert.Equal(t, "E°", Symbol(E, Diminished, true))
}
