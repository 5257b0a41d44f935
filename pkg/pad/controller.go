// Package pad holds the chord pad controller: the one owner of playback
// state between the input layer, the chord model and the scheduler.
package pad

import (
	"fmt"
	"time"

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/keymap"
	"github.com/oisee/chordpad/pkg/logger"
)

// BlockVoice sounds a chord played without the arpeggiator
var BlockVoice = arp.Voice{Duration: 4 * time.Second, Gain: 2}

// Outcome tells the caller what a key press did
type Outcome int

const (
	Ignored Outcome = iota // not a chord key
	Wake                   // audio not ready: caller should start loading, chord dropped
	Loading                // audio still loading, chord dropped
	Played                 // chord sounded once as a block
	Started                // arpeggiator started with the chord
	Queued                 // chord waits for the next pass
)

func (o Outcome) String() string {
	switch o {
	case Wake:
		return "wake"
	case Loading:
		return "loading"
	case Played:
		return "played"
	case Started:
		return "started"
	case Queued:
		return "queued"
	}
	return "ignored"
}

// Controller routes key presses to chords. It is not safe for concurrent
// use; the UI event loop owns it. The scheduler it drives synchronizes
// with its own timers.
type Controller struct {
	sched  *arp.Scheduler
	keys   *keymap.Map
	octave int

	player  arp.Player
	loading bool
	err     error

	arpOn  bool
	active *keymap.Binding
	last   []chord.Note
}

// New creates a controller playing chords of keys at octave
func New(sched *arp.Scheduler, keys *keymap.Map, octave int) *Controller {
	return &Controller{sched: sched, keys: keys, octave: octave}
}

// Trigger handles a key press
func (c *Controller) Trigger(key string) (Outcome, error) {
	b, ok := c.keys.Lookup(key)
	if !ok {
		return Ignored, nil
	}
	if c.player == nil {
		if !c.Preload() {
			return Loading, nil
		}
		return Wake, nil
	}

	notes, err := c.keys.Scale.BuildChord(b.Root, b.Quality, c.octave)
	if err != nil {
		return Ignored, fmt.Errorf("chord %s: %w", b.Label, err)
	}
	c.active = &b
	c.last = notes

	if c.arpOn {
		if c.sched.Queue(notes) {
			return Queued, nil
		}
		c.sched.Start(notes)
		return Started, nil
	}

	transpose := c.sched.Settings().Transpose
	for _, n := range chord.TransposeAll(notes, transpose) {
		c.player.Play(n, 0, BlockVoice)
	}
	return Played, nil
}

// Preload marks the audio as loading when it is neither ready nor
// already loading, and reports whether the caller should start the load.
func (c *Controller) Preload() bool {
	if c.player != nil || c.loading {
		return false
	}
	c.loading = true
	c.err = nil
	return true
}

// Ready installs the loaded player
func (c *Controller) Ready(p arp.Player) {
	c.player = p
	c.loading = false
	c.err = nil
	c.sched.SetPlayer(p)
	logger.Info("audio ready", nil)
}

// Failed records a loading failure; the next chord key retries
func (c *Controller) Failed(err error) {
	c.loading = false
	c.err = err
	logger.Error("audio init failed", err, nil)
}

// ToggleArpeggio switches the arpeggiator. Switching on starts it with
// the last chord played, if any; otherwise the next chord starts it.
func (c *Controller) ToggleArpeggio() bool {
	c.arpOn = !c.arpOn
	if !c.arpOn {
		c.sched.Stop()
		return false
	}
	if c.player != nil && len(c.last) > 0 {
		c.sched.Start(c.last)
	}
	return true
}

// NudgeTempo changes the tempo by delta BPM
func (c *Controller) NudgeTempo(delta int) int { return c.sched.NudgeTempo(delta) }

// NudgeTranspose changes the transpose by delta semitones
func (c *Controller) NudgeTranspose(delta int) int { return c.sched.NudgeTranspose(delta) }

// CyclePattern moves to the next or previous arpeggio pattern
func (c *Controller) CyclePattern(step int) arp.Pattern {
	p := c.sched.Settings().Pattern.Next(step)
	c.sched.SetPattern(p)
	return p
}

// CycleBeat moves to the next or previous beat pattern
func (c *Controller) CycleBeat(step int) arp.Beat {
	b := c.sched.Settings().Beat.Next(step)
	c.sched.SetBeat(b)
	return b
}

// Close stops playback
func (c *Controller) Close() {
	c.sched.Stop()
}

// View is a display snapshot
type View struct {
	Bindings []keymap.Binding
	Active   *keymap.Binding
	ArpOn    bool
	Ready    bool
	Loading  bool
	Err      error
	Status   arp.Status
}

// View returns what the UI needs to render
func (c *Controller) View() View {
	return View{
		Bindings: c.keys.Bindings,
		Active:   c.active,
		ArpOn:    c.arpOn,
		Ready:    c.player != nil,
		Loading:  c.loading,
		Err:      c.err,
		Status:   c.sched.Status(),
	}
}
