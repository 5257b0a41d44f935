package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/audio"
	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/clock"
	"github.com/oisee/chordpad/pkg/config"
	"github.com/oisee/chordpad/pkg/logger"
	"github.com/oisee/chordpad/pkg/midiout"
)

var renderFlags struct {
	out      string
	each     time.Duration
	duration time.Duration
}

func init() {
	renderCmd.Flags().StringVarP(&renderFlags.out, "out", "o", "chordpad.wav", "output file, .wav or .mid")
	renderCmd.Flags().DurationVar(&renderFlags.each, "each", 4*time.Second, "how long each chord is held")
	renderCmd.Flags().DurationVar(&renderFlags.duration, "duration", 0, "total length (default: all chords plus release)")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render KEYS...",
	Short: "Render an arpeggiated chord progression to WAV or MIDI",
	Long: `Render an arpeggiated chord progression, given as pad keys, e.g.
"chordpad render -o song.mid f d b c". Each chord is arpeggiated for
--each and the next one takes over at the following pass boundary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetOutput(cmd.ErrOrStderr())
		return render(cmd.Context(), cfg, strings.Join(args, ""), renderFlags.out, renderFlags.each, renderFlags.duration)
	},
}

// progression resolves pad keys to chords
func progression(c *config.Config, keys string) ([][]chord.Note, error) {
	layout, err := c.KeyMap()
	if err != nil {
		return nil, err
	}
	var chords [][]chord.Note
	for _, r := range keys {
		b, ok := layout.Lookup(string(r))
		if !ok {
			return nil, fmt.Errorf("key %q is not on the pad (%s)", r, strings.Join(layout.Keys(), " "))
		}
		notes, err := layout.Scale.BuildChord(b.Root, b.Quality, c.Octave)
		if err != nil {
			return nil, err
		}
		chords = append(chords, notes)
	}
	return chords, nil
}

func render(ctx context.Context, c *config.Config, keys, out string, each, total time.Duration) error {
	chords, err := progression(c, keys)
	if err != nil {
		return err
	}
	settings, err := c.Settings()
	if err != nil {
		return err
	}
	if each <= 0 {
		return fmt.Errorf("--each must be positive")
	}
	length := each * time.Duration(len(chords))
	if total <= 0 {
		total = length + arp.LoopVoice.Duration
	}

	clk := clock.NewManual(time.Unix(0, 0))
	ext := strings.ToLower(filepath.Ext(out))
	midiFile := ext == ".mid" || ext == ".midi"

	var (
		player arp.Player
		rec    *midiout.Recorder
		inst   *audio.Instrument
	)
	if midiFile {
		rec = midiout.NewRecorder(strings.TrimSuffix(filepath.Base(out), ext), settings.Tempo, clk)
		player = rec
	} else {
		if inst, err = audio.Load(ctx, audioSource(c)); err != nil {
			return err
		}
		player = inst
	}

	sched := arp.New(player, arp.WithClock(clk), arp.WithLimits(c.Limits()), arp.WithSettings(settings))
	sched.Start(chords[0])
	for i, notes := range chords[1:] {
		notes := notes
		clk.AfterFunc(each*time.Duration(i+1), func() { sched.Queue(notes) })
	}
	clk.AfterFunc(length, sched.Stop)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if midiFile {
		clk.Advance(total)
		if _, err := rec.WriteTo(f); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
	} else if err := audio.ExportWAV(f, inst, clk, total); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	if fi, err := f.Stat(); err == nil {
		logger.Info("rendered", logger.Fields{
			"file":   out,
			"size":   humanize.Bytes(uint64(fi.Size())),
			"chords": len(chords),
			"length": total.String(),
		})
	}
	return f.Close()
}
