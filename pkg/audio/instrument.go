package audio

import (
	"sort"
	"sync"
	"time"

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/chord"
)

const (
	// DefaultSampleRate is used when a Source leaves it unset
	DefaultSampleRate = 44100

	// block is the render granularity; note events are quantized to it
	block = 512

	midiChannel = 0
)

// synthesizer abstracts the subset of meltysynth.Synthesizer used by
// Instrument. The oscillator synth implements it too.
type synthesizer interface {
	NoteOn(channel, key, velocity int32)
	NoteOff(channel, key int32)
	Render(left, right []float32)
}

type noteEvent struct {
	at  int64 // sample position
	key int
	vel int
	on  bool
	seq uint64
}

// Instrument is a loaded, ready-to-play sound source. It implements
// arp.Player: Play queues note events against the instrument's own sample
// clock, and Render consumes them while producing audio. Play may be
// called from any goroutine.
type Instrument struct {
	Name       string
	SampleRate int

	mu     sync.Mutex
	synth  synthesizer
	pos    int64
	seq    uint64
	events []noteEvent
	held   map[int]int // overlapping notes on the same key
}

var _ arp.Player = (*Instrument)(nil)

func newInstrument(name string, sampleRate int, syn synthesizer) *Instrument {
	return &Instrument{
		Name:       name,
		SampleRate: sampleRate,
		synth:      syn,
		held:       make(map[int]int),
	}
}

// Velocity maps a player gain to a MIDI velocity; gain 2 is full scale
func Velocity(gain float64) int {
	return arp.Voice{Gain: gain}.Velocity()
}

func (in *Instrument) samples(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return (d.Nanoseconds()*int64(in.SampleRate) + int64(time.Second/2)) / int64(time.Second)
}

// Play schedules note to start after start and to be released after the
// voice duration
func (in *Instrument) Play(note chord.Note, start time.Duration, v arp.Voice) {
	key := note.MIDI()
	if key < 0 || key > 127 {
		return
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	on := in.pos + in.samples(start)
	off := on + in.samples(v.Duration)
	if off <= on {
		off = on + 1
	}
	in.seq++
	in.events = append(in.events, noteEvent{at: on, key: key, vel: Velocity(v.Gain), on: true, seq: in.seq})
	in.seq++
	in.events = append(in.events, noteEvent{at: off, key: key, on: false, seq: in.seq})
}

// Render produces len(left) stereo frames, firing note events as their
// block comes due
func (in *Instrument) Render(left, right []float32) {
	in.mu.Lock()
	defer in.mu.Unlock()

	sort.Slice(in.events, func(i, j int) bool {
		if in.events[i].at != in.events[j].at {
			return in.events[i].at < in.events[j].at
		}
		return in.events[i].seq < in.events[j].seq
	})

	for off := 0; off < len(left); off += block {
		n := block
		if off+n > len(left) {
			n = len(left) - off
		}
		end := in.pos + int64(n)

		fired := 0
		for _, ev := range in.events {
			if ev.at >= end {
				break
			}
			in.fire(ev)
			fired++
		}
		in.events = in.events[fired:]

		in.synth.Render(left[off:off+n], right[off:off+n])
		in.pos = end
	}
}

func (in *Instrument) fire(ev noteEvent) {
	if ev.on {
		in.held[ev.key]++
		in.synth.NoteOn(midiChannel, int32(ev.key), int32(ev.vel))
		return
	}
	if in.held[ev.key] <= 1 {
		delete(in.held, ev.key)
		in.synth.NoteOff(midiChannel, int32(ev.key))
		return
	}
	in.held[ev.key]--
}

// Position returns the number of frames rendered so far
func (in *Instrument) Position() int64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pos
}

// Pending returns the number of note events not yet rendered
func (in *Instrument) Pending() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.events)
}
