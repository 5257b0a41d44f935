package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oisee/chordpad/pkg/chord"
)

func init() {
	rootCmd.AddCommand(chordCmd)
}

var chordCmd = &cobra.Command{
	Use:   "chord ROOT QUALITY [OCTAVE]",
	Short: "Print the notes of a chord",
	Long: `Print the notes of a chord, e.g. "chordpad chord Bb major 3".
Qualities: major, minor, diminished, augmented, major7, minor7, dominant7.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := chord.ParsePitchClass(args[0])
		if err != nil {
			return err
		}
		q, err := chord.ParseQuality(args[1])
		if err != nil {
			return err
		}
		octave := cfg.Octave
		if len(args) == 3 {
			if octave, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("octave %q: %w", args[2], err)
			}
		}

		flat := strings.ContainsAny(args[0][1:], "b♭")
		notes, err := chord.Chromatic{Flat: flat}.BuildChord(root, q, octave)
		if err != nil {
			return err
		}
		notes = chord.TransposeAll(notes, cfg.Limits().ClampTranspose(cfg.Transpose))

		keys := make([]string, len(notes))
		for i, n := range notes {
			keys[i] = strconv.Itoa(n.MIDI())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t(%s)\n",
			chord.Symbol(root, q, flat),
			strings.Join(chord.Strings(notes), " "),
			strings.Join(keys, " "))
		return nil
	},
}
