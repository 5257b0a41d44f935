package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/oisee/chordpad/pkg/keymap"
)

func newKey(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

// keyMap holds the pad controls. Chord keys come from the pad layout.
type keyMap struct {
	Chords        key.Binding
	Arpeggio      key.Binding
	NextPattern   key.Binding
	PrevPattern   key.Binding
	NextBeat      key.Binding
	TempoDown     key.Binding
	TempoUp       key.Binding
	TransposeDown key.Binding
	TransposeUp   key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func newKeyMap(pad *keymap.Map) keyMap {
	chordKeys := pad.Keys()
	return keyMap{
		Chords: key.NewBinding(
			key.WithKeys(chordKeys...),
			key.WithHelp(strings.Join(chordKeys, " "), "play chord"),
		),
		Arpeggio: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "arpeggio on/off"),
		),
		NextPattern:   newKey("next pattern", "p"),
		PrevPattern:   newKey("prev pattern", "P"),
		NextBeat:      newKey("next beat", "tab"),
		TempoDown:     newKey("tempo -5", "["),
		TempoUp:       newKey("tempo +5", "]"),
		TransposeDown: newKey("transpose -1", "-"),
		TransposeUp:   newKey("transpose +1", "=", "+"),
		Help:          newKey("help", "?"),
		Quit:          newKey("quit", "esc", "ctrl+c"),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Chords, k.Arpeggio, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Chords, k.Arpeggio},
		{k.NextPattern, k.PrevPattern, k.NextBeat},
		{k.TempoDown, k.TempoUp, k.TransposeDown, k.TransposeUp},
		{k.Help, k.Quit},
	}
}
