// Package midiout sends the pad's notes to MIDI: live to an output port,
// or recorded into a Standard MIDI File.
package midiout

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/clock"
	"github.com/oisee/chordpad/pkg/logger"
)

// Port plays notes on a MIDI output. Note-on and note-off are timed with
// the clock, so Play never blocks.
type Port struct {
	Name    string
	Channel uint8

	clock clock.Clock
	send  func(midi.Message) error

	mu     sync.Mutex
	held   map[uint8]int
	timers []clock.Timer
	closer func() error
}

var _ arp.Player = (*Port)(nil)

// NewPort wraps a send function, such as the one returned by midi.SendTo
func NewPort(name string, send func(midi.Message) error, clk clock.Clock) *Port {
	if clk == nil {
		clk = clock.Real()
	}
	return &Port{
		Name:  name,
		clock: clk,
		send:  send,
		held:  make(map[uint8]int),
	}
}

// Open finds an output port by name, or by number when name is numeric,
// and opens it. A driver must be registered by a blank import.
func Open(name string, program int) (*Port, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		n, convErr := strconv.Atoi(name)
		if convErr != nil {
			return nil, fmt.Errorf("midi out %q: %w", name, err)
		}
		if out, err = midi.OutPort(n); err != nil {
			return nil, fmt.Errorf("midi out %d: %w", n, err)
		}
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("midi out %s: %w", out, err)
	}

	p := NewPort(out.String(), send, nil)
	p.closer = out.Close
	if program > 0 {
		if err := send(midi.ProgramChange(p.Channel, uint8(program))); err != nil {
			return nil, fmt.Errorf("program change: %w", err)
		}
	}
	logger.Info("midi: output opened", logger.Fields{"port": p.Name, "program": program})
	return p, nil
}

// Ports lists the available output ports
func Ports() []string {
	var names []string
	for _, out := range midi.GetOutPorts() {
		names = append(names, out.String())
	}
	return names
}

// Play schedules a note-on after start and its note-off after the voice
// duration
func (p *Port) Play(note chord.Note, start time.Duration, v arp.Voice) {
	key := note.MIDI()
	if key < 0 || key > 127 {
		return
	}
	k, vel := uint8(key), uint8(v.Velocity())

	p.mu.Lock()
	defer p.mu.Unlock()
	p.timers = append(p.timers,
		p.clock.AfterFunc(start, func() { p.noteOn(k, vel) }),
		p.clock.AfterFunc(start+v.Duration, func() { p.noteOff(k) }),
	)
	if len(p.timers) > 256 {
		p.timers = p.timers[len(p.timers)-256:]
	}
}

func (p *Port) noteOn(key, vel uint8) {
	p.mu.Lock()
	p.held[key]++
	p.mu.Unlock()
	p.emit(midi.NoteOn(p.Channel, key, vel))
}

func (p *Port) noteOff(key uint8) {
	p.mu.Lock()
	n := p.held[key]
	if n > 1 {
		p.held[key] = n - 1
		p.mu.Unlock()
		return
	}
	delete(p.held, key)
	p.mu.Unlock()
	p.emit(midi.NoteOff(p.Channel, key))
}

func (p *Port) emit(msg midi.Message) {
	if err := p.send(msg); err != nil {
		logger.Warn("midi: send failed", logger.Fields{"port": p.Name, "msg": msg.String(), "error": err})
	}
}

// Close cancels scheduled notes, silences held keys and closes the port
func (p *Port) Close() error {
	p.mu.Lock()
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = nil
	held := p.held
	p.held = make(map[uint8]int)
	p.mu.Unlock()

	for key := range held {
		p.emit(midi.NoteOff(p.Channel, key))
	}
	if p.closer != nil {
		return p.closer()
	}
	return nil
}
