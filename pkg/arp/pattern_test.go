package arp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/chordpad/pkg/chord"
)

func notesOf(t *testing.T, names ...string) []chord.Note {
	t.Helper()
	out := make([]chord.Note, len(names))
	for i, name := range names {
		n, err := chord.ParseNote(name)
		require.NoError(t, err)
		out[i] = n
	}
	return out
}

func TestPatternApply(t *testing.T) {
	abc := notesOf(t, "C4", "E4", "G4")
	tests := []struct {
		pattern Pattern
		in      []chord.Note
		want    []string
	}{
		{Up, abc, []string{"C4", "E4", "G4"}},
		{Down, abc, []string{"G4", "E4", "C4"}},
		{UpDown, abc, []string{"C4", "E4", "G4", "E4"}},
		{UpDown, notesOf(t, "C4", "E4", "G4", "B4"), []string{"C4", "E4", "G4", "B4", "G4", "E4"}},
		{UpDown, notesOf(t, "C4", "E4"), []string{"C4", "E4"}},
		{UpDown, notesOf(t, "C4"), []string{"C4"}},
		{Down, nil, []string{}},
	}
	for _, tt := range tests {
		got := tt.pattern.Apply(tt.in)
		assert.Equal(t, tt.want, chord.Strings(got), "%s %v", tt.pattern, chord.Strings(tt.in))
	}
}

func TestPatternApplyDoesNotModifyInput(t *testing.T) {
	in := notesOf(t, "C4", "E4", "G4")
	for _, p := range Patterns {
		p.Apply(in)
		assert.Equal(t, []string{"C4", "E4", "G4"}, chord.Strings(in), p.String())
	}
}

func TestDownThenUpIsNotIdentity(t *testing.T) {
	in := notesOf(t, "C4", "E4", "G4")
	assert.NotEqual(t, in, Up.Apply(Down.Apply(in)))

	single := notesOf(t, "C4")
	assert.Equal(t, single, Up.Apply(Down.Apply(single)))
}

func TestRandomKeepsNotes(t *testing.T) {
	in := notesOf(t, "C4", "E4", "G4", "B4", "D5")
	for i := 0; i < 20; i++ {
		assert.ElementsMatch(t, in, Random.Apply(in))
	}
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("UPDOWN")
	require.NoError(t, err)
	assert.Equal(t, UpDown, p)

	p, err = ParsePattern("up-down")
	require.NoError(t, err)
	assert.Equal(t, UpDown, p)

	_, err = ParsePattern("sideways")
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestParseBeat(t *testing.T) {
	b, err := ParseBeat("Swing")
	require.NoError(t, err)
	assert.Equal(t, Swing, b)

	_, err = ParseBeat("shuffle")
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestNextCycles(t *testing.T) {
	assert.Equal(t, Up, Random.Next(1))
	assert.Equal(t, Random, Up.Next(-1))
	assert.Equal(t, Straight, Triplet.Next(1))
	assert.Equal(t, Triplet, Straight.Next(-1))
}

func TestPlanStraightOffsets(t *testing.T) {
	for _, tempo := range []int{60, 100, 120, 200} {
		notes := notesOf(t, "C4", "E4", "G4", "B4", "D5")
		steps, total := Plan(notes, Settings{Tempo: tempo, Beat: Straight})
		base := time.Duration(60000/tempo) * time.Millisecond

		require.Len(t, steps, 5)
		for i, st := range steps {
			assert.Equal(t, time.Duration(i)*base, st.Offset, "tempo %d step %d", tempo, i)
		}
		assert.Equal(t, 5*base, total)
	}
}

func TestPlanCyclesBeatPattern(t *testing.T) {
	notes := notesOf(t, "C4", "E4", "G4")
	steps, total := Plan(notes, Settings{Tempo: 120, Pattern: UpDown, Beat: Dotted})

	require.Len(t, steps, 4)
	var offsets []time.Duration
	for _, st := range steps {
		offsets = append(offsets, st.Offset)
	}
	assert.Equal(t, []time.Duration{0, 750 * time.Millisecond, time.Second, 1750 * time.Millisecond}, offsets)
	assert.Equal(t, 2*time.Second, total)
}

func TestPlanWrapsBeatsAcrossLongPasses(t *testing.T) {
	notes := notesOf(t, "C4", "E4", "G4", "B4", "D5", "F5")
	steps, total := Plan(notes, Settings{Tempo: 60, Beat: Triplet})

	require.Len(t, steps, 6)
	// 0.33 0.33 0.33 1 0.33 0.33
	assert.Equal(t, 2*330*time.Millisecond+330*time.Millisecond+time.Second, steps[4].Offset)
	assert.Equal(t, 5*330*time.Millisecond+time.Second, total)
}

func TestPlanAppliesTransposeBeforePattern(t *testing.T) {
	notes := notesOf(t, "A3", "C4", "E4")
	steps, _ := Plan(notes, Settings{Tempo: 120, Transpose: 3, Pattern: Down})

	var got []string
	for _, st := range steps {
		got = append(got, st.Note.String())
	}
	assert.Equal(t, []string{"G4", "D#4", "C4"}, got)
}

func TestLimitsClamp(t *testing.T) {
	assert.Equal(t, 60, DefaultLimits.ClampTempo(10))
	assert.Equal(t, 200, DefaultLimits.ClampTempo(500))
	assert.Equal(t, 90, DefaultLimits.ClampTempo(90))
	assert.Equal(t, -12, DefaultLimits.ClampTranspose(-40))
	assert.Equal(t, 12, DefaultLimits.ClampTranspose(13))
}
