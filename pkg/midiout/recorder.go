package midiout

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/clock"
)

// Resolution is the ticks per quarter note of recorded files
const Resolution = smf.MetricTicks(960)

type recorded struct {
	at  time.Duration
	key uint8
	vel uint8
	on  bool
	seq int
}

// Recorder captures played notes against a clock and writes them as a
// single-track Standard MIDI File
type Recorder struct {
	Name    string
	Tempo   float64
	Channel uint8

	clock  clock.Clock
	origin time.Time

	mu     sync.Mutex
	events []recorded
}

var _ arp.Player = (*Recorder)(nil)

// NewRecorder starts recording at the clock's current time. tempo only
// sets the file's tempo map; event times are absolute.
func NewRecorder(name string, tempo int, clk clock.Clock) *Recorder {
	if clk == nil {
		clk = clock.Real()
	}
	return &Recorder{
		Name:   name,
		Tempo:  float64(tempo),
		clock:  clk,
		origin: clk.Now(),
	}
}

// Play records the note at its start time
func (r *Recorder) Play(note chord.Note, start time.Duration, v arp.Voice) {
	key := note.MIDI()
	if key < 0 || key > 127 {
		return
	}
	at := r.clock.Now().Sub(r.origin) + start

	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.events)
	r.events = append(r.events,
		recorded{at: at, key: uint8(key), vel: uint8(v.Velocity()), on: true, seq: n},
		recorded{at: at + v.Duration, key: uint8(key), seq: n + 1},
	)
}

// Len returns the number of notes recorded
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events) / 2
}

// SMF builds the file. Overlapping notes on one key are merged so every
// note-off closes the last note-on.
func (r *Recorder) SMF() (*smf.SMF, error) {
	r.mu.Lock()
	events := append([]recorded(nil), r.events...)
	r.mu.Unlock()

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		// note-offs first so a repeated key retriggers
		if events[i].on != events[j].on {
			return !events[i].on
		}
		return events[i].seq < events[j].seq
	})

	var track smf.Track
	if r.Name != "" {
		track.Add(0, smf.MetaTrackSequenceName(r.Name))
	}
	track.Add(0, smf.MetaTempo(r.Tempo))
	track.Add(0, smf.MetaMeter(4, 4))

	held := map[uint8]int{}
	var last uint32
	for _, ev := range events {
		var msg midi.Message
		if ev.on {
			held[ev.key]++
			msg = midi.NoteOn(r.Channel, ev.key, ev.vel)
		} else {
			held[ev.key]--
			if held[ev.key] > 0 {
				continue
			}
			delete(held, ev.key)
			msg = midi.NoteOff(r.Channel, ev.key)
		}
		tick := Resolution.Ticks(r.Tempo, ev.at)
		track.Add(tick-last, msg)
		last = tick
	}
	track.Close(0)

	s := smf.New()
	s.TimeFormat = Resolution
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("smf track: %w", err)
	}
	return s, nil
}

// WriteTo writes the recording as a Standard MIDI File
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	s, err := r.SMF()
	if err != nil {
		return 0, err
	}
	return s.WriteTo(w)
}
