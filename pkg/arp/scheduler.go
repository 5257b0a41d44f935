package arp

import (
	"math"
	"sync"
	"time"

	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/clock"
	"github.com/oisee/chordpad/pkg/logger"
)

// Voice describes how a single note is sounded
type Voice struct {
	Duration time.Duration
	Gain     float64
}

// Velocity maps the gain to a MIDI velocity, gain 2 being full scale
func (v Voice) Velocity() int {
	vel := int(math.Round(v.Gain / 2 * 127))
	if vel < 1 {
		return 1
	}
	if vel > 127 {
		return 127
	}
	return vel
}

var (
	// LoopVoice sounds the notes of a repeating pass
	LoopVoice = Voice{Duration: 2 * time.Second, Gain: 1.2}
	// AccentVoice sounds the first pass after a start or a chord change
	AccentVoice = Voice{Duration: 2 * time.Second, Gain: 1.5}
)

// Player sounds notes. Play must not block; start is the delay from now
// at which the note should begin. The scheduler calls Play with its lock
// held, so Play must not call back into the Scheduler.
type Player interface {
	Play(note chord.Note, start time.Duration, v Voice)
}

// State is the scheduler state
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Status is a snapshot of the scheduler for display
type Status struct {
	State    State
	Settings Settings
	Limits   Limits
	Current  []chord.Note
	Pending  []chord.Note
	Last     chord.Note
	HasLast  bool
	Passes   int
}

// Scheduler plays a chord as a repeating arpeggio.
//
// Each pass is laid out with Plan when it starts, so setting changes are
// heard from the following pass. A chord queued while playing waits in a
// single pending slot, newest wins, and takes over at the next pass
// boundary with an accent.
type Scheduler struct {
	mu       sync.Mutex
	clock    clock.Clock
	player   Player
	limits   Limits
	settings Settings

	state   State
	current []chord.Note
	pending []chord.Note
	last    chord.Note
	hasLast bool
	passes  int

	gen    uint64 // bumped by Stop; stale callbacks compare and bail
	timers []clock.Timer
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock sets the timer source, clock.Real() by default
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLimits sets the tempo and transpose bounds
func WithLimits(l Limits) Option {
	return func(s *Scheduler) { s.limits = l.normalize() }
}

// WithSettings sets the initial settings; they are clamped to the limits
func WithSettings(st Settings) Option {
	return func(s *Scheduler) { s.settings = st }
}

// New creates an idle scheduler. player may be nil until SetPlayer.
func New(player Player, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    clock.Real(),
		player:   player,
		limits:   DefaultLimits,
		settings: DefaultSettings,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.settings.Tempo = s.limits.ClampTempo(s.settings.Tempo)
	s.settings.Transpose = s.limits.ClampTranspose(s.settings.Transpose)
	return s
}

// SetPlayer swaps the player used for subsequent triggers
func (s *Scheduler) SetPlayer(p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = p
}

// Start begins arpeggiating notes with an accented first pass. When
// already playing, notes are queued instead. Empty chords are ignored.
func (s *Scheduler) Start(notes []chord.Note) {
	if len(notes) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Playing {
		s.pending = append([]chord.Note(nil), notes...)
		return
	}
	s.state = Playing
	s.passes = 0
	logger.Debug("arp: start", logger.Fields{"chord": chord.Strings(notes), "tempo": s.settings.Tempo})
	s.runPass(append([]chord.Note(nil), notes...), true)
}

// Queue puts notes in the pending slot, replacing any chord already
// waiting there. It returns false, and does nothing, when idle.
func (s *Scheduler) Queue(notes []chord.Note) bool {
	if len(notes) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Playing {
		return false
	}
	s.pending = append([]chord.Note(nil), notes...)
	return true
}

// Stop cancels every outstanding trigger and the next pass. No note
// fires after Stop returns. Stopping an idle scheduler does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Idle {
		return
	}
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.gen++
	s.state = Idle
	s.pending = nil
	logger.Debug("arp: stop", logger.Fields{"passes": s.passes})
}

// Playing reports whether the loop is running
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Playing
}

// runPass schedules one pass of notes. Caller holds mu.
func (s *Scheduler) runPass(notes []chord.Note, accent bool) {
	steps, total := Plan(notes, s.settings)
	voice := LoopVoice
	if accent {
		voice = AccentVoice
	}

	gen := s.gen
	s.current = notes
	s.passes++
	s.timers = s.timers[:0]
	for _, st := range steps {
		note := st.Note
		s.timers = append(s.timers, s.clock.AfterFunc(st.Offset, func() {
			s.trigger(gen, note, voice)
		}))
	}
	s.timers = append(s.timers, s.clock.AfterFunc(total, func() {
		s.tick(gen)
	}))
}

func (s *Scheduler) trigger(gen uint64, note chord.Note, v Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != Playing {
		return
	}
	s.last, s.hasLast = note, true
	// under the lock, so a Stop that has returned cannot be overtaken
	if s.player != nil {
		s.player.Play(note, 0, v)
	}
}

// tick runs at each pass boundary: it consumes the pending chord if there
// is one, otherwise it repeats the current chord.
func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != Playing {
		return
	}
	if s.pending != nil {
		next := s.pending
		s.pending = nil
		logger.Debug("arp: chord change", logger.Fields{"chord": chord.Strings(next)})
		s.runPass(next, true)
		return
	}
	s.runPass(s.current, false)
}

// Settings returns the current settings
func (s *Scheduler) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetTempo sets the tempo, clamped to the limits, and returns the value used
func (s *Scheduler) SetTempo(bpm int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Tempo = s.limits.ClampTempo(bpm)
	return s.settings.Tempo
}

// NudgeTempo changes the tempo by delta BPM
func (s *Scheduler) NudgeTempo(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Tempo = s.limits.ClampTempo(s.settings.Tempo + delta)
	return s.settings.Tempo
}

// SetTranspose sets the transpose, clamped to the limits
func (s *Scheduler) SetTranspose(semitones int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Transpose = s.limits.ClampTranspose(semitones)
	return s.settings.Transpose
}

// NudgeTranspose changes the transpose by delta semitones
func (s *Scheduler) NudgeTranspose(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Transpose = s.limits.ClampTranspose(s.settings.Transpose + delta)
	return s.settings.Transpose
}

// SetPattern selects the arpeggio pattern
func (s *Scheduler) SetPattern(p Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p < Up || p > Random {
		p = Up
	}
	s.settings.Pattern = p
}

// SetBeat selects the beat pattern
func (s *Scheduler) SetBeat(b Beat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b < Straight || b > Triplet {
		b = Straight
	}
	s.settings.Beat = b
}

// Status returns a snapshot for display
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:    s.state,
		Settings: s.settings,
		Limits:   s.limits,
		Current:  append([]chord.Note(nil), s.current...),
		Pending:  append([]chord.Note(nil), s.pending...),
		Last:     s.last,
		HasLast:  s.hasLast,
		Passes:   s.passes,
	}
}
