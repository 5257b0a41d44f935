// Package keymap maps keyboard keys to chords
package keymap

import (
	"fmt"
	"strings"

	"github.com/oisee/chordpad/pkg/chord"
)

// Binding is one playable chord on the pad
type Binding struct {
	Key     string
	Root    chord.PitchClass
	Quality chord.Quality
	Label   string // e.g. "Bb Major"
	Degree  string // roman numeral within the scale
}

// Map is an ordered set of bindings
type Map struct {
	Scale    *chord.Scale
	Bindings []Binding
	byKey    map[string]int
}

// DefaultKeys plays the F major chords on the keys of their root letter,
// with u for the diminished E chord
const DefaultKeys = "fgabcdu"

// Reserved are the keys the pad UI uses for its own controls
const Reserved = "pP[]-=+? \t"

// Diatonic binds the seven triads of scale to keys, one key per degree in
// order I ii iii IV V vi vii°. keys must contain exactly seven distinct
// single-character keys, none of them Reserved.
func Diatonic(scale *chord.Scale, keys string) (*Map, error) {
	keys = strings.ToLower(keys)
	runes := []rune(keys)
	if len(runes) != 7 {
		return nil, fmt.Errorf("keymap: need 7 keys, got %q", keys)
	}

	m := &Map{Scale: scale, byKey: make(map[string]int, 7)}
	for degree, r := range runes {
		key := string(r)
		if strings.ContainsRune(Reserved, r) {
			return nil, fmt.Errorf("keymap: key %q is a pad control", key)
		}
		if _, dup := m.byKey[key]; dup {
			return nil, fmt.Errorf("keymap: key %q used twice", key)
		}
		root, q, numeral := scale.Triad(degree)
		m.byKey[key] = len(m.Bindings)
		m.Bindings = append(m.Bindings, Binding{
			Key:     key,
			Root:    root,
			Quality: q,
			Label:   label(root, q, scale.Flat),
			Degree:  numeral,
		})
	}
	return m, nil
}

// FMajor is the default pad: F Major (I) through E Dim (vii°)
func FMajor() *Map {
	m, err := Diatonic(chord.MajorScale(chord.F), DefaultKeys)
	if err != nil {
		panic(err)
	}
	return m
}

// Lookup resolves a key press. Unknown keys report ok=false.
func (m *Map) Lookup(key string) (Binding, bool) {
	i, ok := m.byKey[strings.ToLower(key)]
	if !ok {
		return Binding{}, false
	}
	return m.Bindings[i], true
}

// Keys returns the bound keys in degree order
func (m *Map) Keys() []string {
	keys := make([]string, len(m.Bindings))
	for i, b := range m.Bindings {
		keys[i] = b.Key
	}
	return keys
}

func label(root chord.PitchClass, q chord.Quality, flat bool) string {
	name := chord.Note{Class: root, Flat: flat}.Name()
	switch q {
	case chord.Minor:
		return name + " Minor"
	case chord.Diminished:
		return name + " Dim"
	case chord.Augmented:
		return name + " Aug"
	}
	return name + " Major"
}
