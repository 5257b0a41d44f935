package chord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePitchClass(t *testing.T) {
	tests := map[string]PitchClass{
		"C": C, "c": C, "C#": CSharp, "Db": DFlat, "E": E,
		"F": F, "Bb": BFlat, "B♭": BFlat, "A#": ASharp, "G♯": GSharp,
		"Cb": B, "B#": C,
	}
	for in, want := range tests {
		got, err := ParsePitchClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParsePitchClassInvalid(t *testing.T) {
	for _, in := range []string{"", "H", "C$", "X#"} {
		_, err := ParsePitchClass(in)
		var invalid *InvalidNoteError
		require.True(t, errors.As(err, &invalid), in)
		assert.Equal(t, in, invalid.Value)
	}
}

func TestParseNote(t *testing.T) {
	n, err := ParseNote("Bb3")
	require.NoError(t, err)
	assert.Equal(t, Note{Class: BFlat, Octave: 3, Flat: true}, n)
	assert.Equal(t, "Bb3", n.String())

	n, err = ParseNote("C#-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n.MIDI())

	for _, bad := range []string{"4", "C", "Q4", "C#x"} {
		_, err := ParseNote(bad)
		assert.Error(t, err, bad)
	}
}

func TestNoteMIDI(t *testing.T) {
	assert.Equal(t, 60, NewNote(C, 4).MIDI())
	assert.Equal(t, 69, NewNote(A, 4).MIDI())
	assert.Equal(t, 53, NewNote(F, 3).MIDI())
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		in    Note
		shift int
		want  string
	}{
		{NewNote(C, 4), 0, "C4"},
		{NewNote(A, 3), 3, "C4"},
		{NewNote(C, 4), -1, "B3"},
		{NewNote(E, 4), 12, "E5"},
		{NewNote(E, 4), -12, "E3"},
		{NewNote(D, 2), -14, "C1"},
		{Note{Class: F, Octave: 3, Flat: true}, 5, "Bb3"},
		{NewNote(G, 3), 13, "G#4"},
	}
	for _, tt := range tests {
		got := tt.in.Transpose(tt.shift)
		assert.Equal(t, tt.want, got.String(), "%s%+d", tt.in, tt.shift)
		assert.Equal(t, tt.in.MIDI()+tt.shift, got.MIDI())
	}
}

func TestTransposeAllCopies(t *testing.T) {
	in := []Note{NewNote(C, 4), NewNote(E, 4)}
	out := TransposeAll(in, 2)
	assert.Equal(t, []string{"D4", "F#4"}, Strings(out))
	assert.Equal(t, []string{"C4", "E4"}, Strings(in))
}
