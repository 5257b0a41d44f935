package pad

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/clock"
	"github.com/oisee/chordpad/pkg/keymap"
)

type fakePlayer struct {
	notes  []string
	voices []arp.Voice
}

func (f *fakePlayer) Play(n chord.Note, _ time.Duration, v arp.Voice) {
	f.notes = append(f.notes, n.String())
	f.voices = append(f.voices, v)
}

func newController(t *testing.T) (*Controller, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Unix(0, 0))
	sched := arp.New(nil, arp.WithClock(clk))
	return New(sched, keymap.FMajor(), 3), clk
}

func TestFirstTriggerWakesAudioAndIsDropped(t *testing.T) {
	c, _ := newController(t)

	out, err := c.Trigger("f")
	require.NoError(t, err)
	assert.Equal(t, Wake, out)
	assert.True(t, c.View().Loading)
	assert.Nil(t, c.View().Active)

	out, _ = c.Trigger("g")
	assert.Equal(t, Loading, out)

	p := &fakePlayer{}
	c.Ready(p)
	assert.Empty(t, p.notes)
	assert.True(t, c.View().Ready)
}

func TestPreloadThenTriggerWaitsForLoad(t *testing.T) {
	c, _ := newController(t)

	require.True(t, c.Preload())
	assert.True(t, c.View().Loading)
	assert.False(t, c.Preload())

	out, err := c.Trigger("f")
	require.NoError(t, err)
	assert.Equal(t, Loading, out)

	p := &fakePlayer{}
	c.Ready(p)
	assert.False(t, c.Preload())

	out, _ = c.Trigger("f")
	assert.Equal(t, Played, out)
	assert.Equal(t, []string{"F3", "A3", "C4"}, p.notes)
}

func TestPreloadFailureStillWakesOnTrigger(t *testing.T) {
	c, _ := newController(t)
	require.True(t, c.Preload())
	c.Failed(errors.New("no device"))

	out, _ := c.Trigger("f")
	assert.Equal(t, Wake, out)
}

func TestFailedLoadRetriesOnNextTrigger(t *testing.T) {
	c, _ := newController(t)
	c.Trigger("f")
	c.Failed(errors.New("no soundfont"))

	v := c.View()
	assert.False(t, v.Loading)
	assert.EqualError(t, v.Err, "no soundfont")

	out, _ := c.Trigger("f")
	assert.Equal(t, Wake, out)
	assert.Nil(t, c.View().Err)
}

func TestUnknownKeyIgnored(t *testing.T) {
	c, _ := newController(t)
	out, err := c.Trigger("z")
	assert.NoError(t, err)
	assert.Equal(t, Ignored, out)
	assert.False(t, c.View().Loading)
}

func TestBlockChordWhenArpeggioOff(t *testing.T) {
	c, _ := newController(t)
	p := &fakePlayer{}
	c.Ready(p)

	out, err := c.Trigger("b")
	require.NoError(t, err)
	assert.Equal(t, Played, out)
	assert.Equal(t, []string{"Bb3", "D4", "F4"}, p.notes)
	for _, v := range p.voices {
		assert.Equal(t, BlockVoice, v)
	}
	require.NotNil(t, c.View().Active)
	assert.Equal(t, "Bb Major", c.View().Active.Label)
}

func TestBlockChordIsTransposed(t *testing.T) {
	c, _ := newController(t)
	p := &fakePlayer{}
	c.Ready(p)
	c.NudgeTranspose(2)

	c.Trigger("f")
	assert.Equal(t, []string{"G3", "B3", "D4"}, p.notes)
}

func TestArpeggioStartsThenQueues(t *testing.T) {
	c, clk := newController(t)
	p := &fakePlayer{}
	c.Ready(p)
	require.True(t, c.ToggleArpeggio())

	out, _ := c.Trigger("f")
	assert.Equal(t, Started, out)
	out, _ = c.Trigger("c")
	assert.Equal(t, Queued, out)

	clk.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"F3", "A3", "C4", "C3"}, p.notes)
}

func TestToggleArpeggioReplaysLastChord(t *testing.T) {
	c, clk := newController(t)
	p := &fakePlayer{}
	c.Ready(p)
	c.Trigger("d")
	p.notes = nil

	c.ToggleArpeggio()
	clk.Advance(1200 * time.Millisecond)
	assert.Equal(t, []string{"D3", "F3", "A3"}, p.notes)
	assert.Equal(t, arp.AccentVoice, p.voices[len(p.voices)-1])

	assert.False(t, c.ToggleArpeggio())
	clk.Advance(10 * time.Second)
	assert.Len(t, p.notes, 3)
	assert.Equal(t, arp.Idle, c.View().Status.State)
}

func TestToggleBeforeReadyDoesNotStart(t *testing.T) {
	c, clk := newController(t)
	c.ToggleArpeggio()
	assert.Equal(t, 0, clk.Pending())
	assert.True(t, c.View().ArpOn)
}

func TestCycleControls(t *testing.T) {
	c, _ := newController(t)
	assert.Equal(t, arp.Down, c.CyclePattern(1))
	assert.Equal(t, arp.Up, c.CyclePattern(-1))
	assert.Equal(t, arp.Dotted, c.CycleBeat(1))
	assert.Equal(t, 125, c.NudgeTempo(5))
	assert.Equal(t, 200, c.NudgeTempo(500))
	assert.Equal(t, -12, c.NudgeTranspose(-20))
}
