package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/audio"
	"github.com/oisee/chordpad/pkg/config"
	"github.com/oisee/chordpad/pkg/logger"
	"github.com/oisee/chordpad/pkg/midiout"
	"github.com/oisee/chordpad/pkg/pad"
	"github.com/oisee/chordpad/pkg/tui"
)

var cfg *config.Config

var flags struct {
	tempo, transpose, octave, program, sampleRate int
	pattern, beat, tonic, keys                    string
	soundFont, waveform, midiPort, logFile        string
	debug                                         bool
}

var rootCmd = &cobra.Command{
	Use:   "chordpad",
	Short: "Play diatonic chords and arpeggios from the keyboard",
	Long: `chordpad lays the seven chords of a major key out on seven keys.
Press a key to play its chord; switch the arpeggiator on with space to
loop the chord as an arpeggio at the chosen tempo, pattern and beat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		logger.SetDebug(cfg.Debug)
		return cfg.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPad(cmd.Context(), cfg)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flags.tempo, "tempo", 120, "tempo in BPM")
	pf.IntVar(&flags.transpose, "transpose", 0, "transpose in semitones")
	pf.StringVar(&flags.pattern, "pattern", "up", "arpeggio pattern: up, down, upDown, random")
	pf.StringVar(&flags.beat, "beat", "straight", "beat pattern: straight, dotted, swing, triplet")
	pf.StringVar(&flags.tonic, "tonic", "F", "major key the pad is laid out in")
	pf.StringVar(&flags.keys, "keys", "fgabcdu", "seven keys for degrees I to vii")
	pf.IntVar(&flags.octave, "octave", 3, "octave of the chord roots")
	pf.StringVar(&flags.soundFont, "soundfont", "", "SoundFont .sf2 file or URL (default: built-in synth)")
	pf.IntVar(&flags.program, "program", 0, "General MIDI program")
	pf.StringVar(&flags.waveform, "waveform", "triangle", "built-in synth waveform: triangle, saw, square, sawbig")
	pf.IntVar(&flags.sampleRate, "sample-rate", 44100, "audio sample rate")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to this file")
	pf.BoolVar(&flags.debug, "debug", false, "verbose logging")
	rootCmd.Flags().StringVar(&flags.midiPort, "midi-port", "", "play on a MIDI output port (name or number) instead of audio")
}

// applyFlags overrides the loaded configuration with flags set on the
// command line
func applyFlags(cmd *cobra.Command, c *config.Config) {
	changed := cmd.Flags().Changed
	setInt := func(name string, dst *int, v int) {
		if changed(name) {
			*dst = v
		}
	}
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setInt("tempo", &c.Tempo, flags.tempo)
	setInt("transpose", &c.Transpose, flags.transpose)
	setInt("octave", &c.Octave, flags.octave)
	setInt("program", &c.Program, flags.program)
	setInt("sample-rate", &c.SampleRate, flags.sampleRate)
	setString("pattern", &c.Pattern, flags.pattern)
	setString("beat", &c.Beat, flags.beat)
	setString("tonic", &c.Tonic, flags.tonic)
	setString("keys", &c.Keys, flags.keys)
	setString("soundfont", &c.SoundFont, flags.soundFont)
	setString("waveform", &c.Waveform, flags.waveform)
	setString("log-file", &c.LogFile, flags.logFile)
	setString("midi-port", &c.MIDIPort, flags.midiPort)
	if changed("debug") {
		c.Debug = flags.debug
	}
}

func audioSource(c *config.Config) audio.Source {
	return audio.Source{
		SoundFont:  c.SoundFont,
		Program:    c.Program,
		Waveform:   c.Waveform,
		SampleRate: c.SampleRate,
	}
}

// outputs remembers what the loader opened so it can be closed on exit
type outputs struct {
	mu      sync.Mutex
	closers []io.Closer
}

func (o *outputs) add(c io.Closer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closers = append(o.closers, c)
}

func (o *outputs) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, c := range o.closers {
		if err := c.Close(); err != nil {
			logger.Warn("close output", logger.Fields{"error": err})
		}
	}
	o.closers = nil
}

// loader returns the pad's player initialization: a MIDI port when one is
// configured, otherwise an instrument on the sound card. Failures are
// *audio.InitError either way.
func loader(c *config.Config, opened *outputs) tui.Loader {
	return func(ctx context.Context) (arp.Player, error) {
		if c.MIDIPort != "" {
			port, err := midiout.Open(c.MIDIPort, c.Program)
			if err != nil {
				return nil, &audio.InitError{Source: "midi:" + c.MIDIPort, Err: err}
			}
			opened.add(port)
			return port, nil
		}
		inst, err := audio.Load(ctx, audioSource(c))
		if err != nil {
			return nil, err
		}
		out, err := audio.OpenRealtime(inst)
		if err != nil {
			return nil, err
		}
		opened.add(out)
		return out, nil
	}
}

func runPad(ctx context.Context, c *config.Config) error {
	if c.LogFile != "" {
		f, err := tea.LogToFile(c.LogFile, "chordpad")
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
	} else {
		logger.Discard()
	}

	flush, err := logger.InitSentry(c.SentryDSN, "chordpad@"+releaseVersion)
	if err != nil {
		logger.Warn("sentry disabled", logger.Fields{"error": err})
	}
	defer flush()

	settings, err := c.Settings()
	if err != nil {
		return err
	}
	layout, err := c.KeyMap()
	if err != nil {
		return err
	}
	var opened outputs
	defer opened.Close()
	if c.MIDIPort != "" {
		defer midi.CloseDriver()
	}

	sched := arp.New(nil, arp.WithLimits(c.Limits()), arp.WithSettings(settings))
	ctrl := pad.New(sched, layout, c.Octave)
	defer ctrl.Close()

	load := loader(c, &opened)
	logger.Info("chordpad starting", logger.Fields{
		"tonic": c.Tonic, "tempo": settings.Tempo, "midi_port": c.MIDIPort,
	})
	p := tea.NewProgram(tui.NewModel(ctrl, layout, load), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
