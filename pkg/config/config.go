// Package config loads chordpad settings from the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/keymap"
)

const prefix = "CHORDPAD_"

// Config holds the application configuration
type Config struct {
	// Playback
	Tempo     int
	Transpose int
	Pattern   string
	Beat      string

	// Limits
	MinTempo     int
	MaxTempo     int
	MaxTranspose int

	// Pad layout
	Tonic  string // major scale the pad is laid out in
	Keys   string // seven keys, one per scale degree
	Octave int

	// Sound
	SoundFont  string // .sf2 path or URL; empty uses the built-in synth
	Program    int
	Waveform   string
	SampleRate int
	MIDIPort   string // play on a MIDI output instead

	// Observability
	LogFile   string
	SentryDSN string
	Debug     bool
}

// Default returns the built-in configuration: F major on f g a b c d u,
// 120 BPM, up pattern, straight beat
func Default() *Config {
	return &Config{
		Tempo:        arp.DefaultSettings.Tempo,
		Transpose:    0,
		Pattern:      arp.DefaultSettings.Pattern.String(),
		Beat:         arp.DefaultSettings.Beat.String(),
		MinTempo:     arp.DefaultLimits.MinTempo,
		MaxTempo:     arp.DefaultLimits.MaxTempo,
		MaxTranspose: arp.DefaultLimits.MaxTranspose,
		Tonic:        "F",
		Keys:         keymap.DefaultKeys,
		Octave:       3,
		Waveform:     "triangle",
		SampleRate:   44100,
	}
}

// Load reads an optional .env file, then CHORDPAD_* variables over the
// defaults. Values are not validated here; see Validate.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is normal, a broken one is not
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("env file: %w", err)
	}

	c := Default()
	var err error
	c.Pattern = getEnv("PATTERN", c.Pattern)
	c.Beat = getEnv("BEAT", c.Beat)
	c.Tonic = getEnv("TONIC", c.Tonic)
	c.Keys = getEnv("KEYS", c.Keys)
	c.SoundFont = getEnv("SOUNDFONT", c.SoundFont)
	c.Waveform = getEnv("WAVEFORM", c.Waveform)
	c.MIDIPort = getEnv("MIDI_PORT", c.MIDIPort)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.SentryDSN = getEnv("SENTRY_DSN", os.Getenv("SENTRY_DSN"))
	c.Debug = getEnv("DEBUG", "false") == "true"

	for _, f := range []struct {
		key string
		dst *int
	}{
		{"TEMPO", &c.Tempo},
		{"TRANSPOSE", &c.Transpose},
		{"MIN_TEMPO", &c.MinTempo},
		{"MAX_TEMPO", &c.MaxTempo},
		{"MAX_TRANSPOSE", &c.MaxTranspose},
		{"OCTAVE", &c.Octave},
		{"PROGRAM", &c.Program},
		{"SAMPLE_RATE", &c.SampleRate},
	} {
		if *f.dst, err = getEnvInt(f.key, *f.dst); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(prefix + key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(prefix + key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", prefix, key, err)
	}
	return n, nil
}

// Validate checks the fields that have no sensible fallback
func (c *Config) Validate() error {
	if _, err := c.Settings(); err != nil {
		return err
	}
	if _, err := c.KeyMap(); err != nil {
		return err
	}
	if c.MinTempo <= 0 || c.MaxTempo < c.MinTempo {
		return fmt.Errorf("tempo limits %d..%d", c.MinTempo, c.MaxTempo)
	}
	if c.MaxTranspose < 0 {
		return fmt.Errorf("max transpose %d", c.MaxTranspose)
	}
	if c.Program < 0 || c.Program > 127 {
		return fmt.Errorf("program %d out of range 0..127", c.Program)
	}
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate %d too low", c.SampleRate)
	}
	return nil
}

// Limits returns the tempo and transpose bounds
func (c *Config) Limits() arp.Limits {
	return arp.Limits{MinTempo: c.MinTempo, MaxTempo: c.MaxTempo, MaxTranspose: c.MaxTranspose}
}

// Settings returns the initial scheduler settings. Tempo and transpose
// are clamped by the scheduler, not here.
func (c *Config) Settings() (arp.Settings, error) {
	p, err := arp.ParsePattern(c.Pattern)
	if err != nil {
		return arp.Settings{}, err
	}
	b, err := arp.ParseBeat(c.Beat)
	if err != nil {
		return arp.Settings{}, err
	}
	return arp.Settings{Tempo: c.Tempo, Transpose: c.Transpose, Pattern: p, Beat: b}, nil
}

// KeyMap lays out the diatonic chords of the tonic's major scale
func (c *Config) KeyMap() (*keymap.Map, error) {
	tonic, err := chord.ParsePitchClass(c.Tonic)
	if err != nil {
		return nil, err
	}
	return keymap.Diatonic(chord.MajorScale(tonic), c.Keys)
}
