package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/chordpad/pkg/chord"
)

func TestFMajorTable(t *testing.T) {
	m := FMajor()
	want := []Binding{
		{"f", chord.F, chord.Major, "F Major", "I"},
		{"g", chord.G, chord.Minor, "G Minor", "ii"},
		{"a", chord.A, chord.Minor, "A Minor", "iii"},
		{"b", chord.BFlat, chord.Major, "Bb Major", "IV"},
		{"c", chord.C, chord.Major, "C Major", "V"},
		{"d", chord.D, chord.Minor, "D Minor", "vi"},
		{"u", chord.E, chord.Diminished, "E Dim", "vii°"},
	}
	assert.Equal(t, want, m.Bindings)
	assert.Equal(t, []string{"f", "g", "a", "b", "c", "d", "u"}, m.Keys())
}

func TestLookup(t *testing.T) {
	m := FMajor()

	b, ok := m.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, chord.BFlat, b.Root)

	_, ok = m.Lookup("z")
	assert.False(t, ok)
	_, ok = m.Lookup("ctrl+c")
	assert.False(t, ok)
}

func TestEveryBindingBuildsInItsScale(t *testing.T) {
	m := FMajor()
	for _, b := range m.Bindings {
		notes, err := m.Scale.BuildChord(b.Root, b.Quality, 3)
		require.NoError(t, err, b.Label)
		assert.Len(t, notes, 3)
	}
}

func TestDiatonicOtherKey(t *testing.T) {
	m, err := Diatonic(chord.MajorScale(chord.D), "qwertyu")
	require.NoError(t, err)

	b, ok := m.Lookup("w")
	require.True(t, ok)
	assert.Equal(t, "E Minor", b.Label)

	b, ok = m.Lookup("u")
	require.True(t, ok)
	assert.Equal(t, "C# Dim", b.Label)
}

func TestDiatonicValidatesKeys(t *testing.T) {
	_, err := Diatonic(chord.MajorScale(chord.C), "asdf")
	assert.Error(t, err)

	_, err = Diatonic(chord.MajorScale(chord.C), "aasdfgh")
	assert.Error(t, err)
}

func TestDiatonicRejectsControlKeys(t *testing.T) {
	for _, k := range []string{"p", "P", "[", "]", "-", "=", "+", "?", " ", "\t"} {
		_, err := Diatonic(chord.MajorScale(chord.C), "asdfgh"+k)
		assert.ErrorContains(t, err, "pad control", "key %q", k)
	}
}
