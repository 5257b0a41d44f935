package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/midiout"
)

func init() {
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(portsCmd)
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print the pad layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := cfg.KeyMap()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tCHORD\tDEGREE\tNOTES")
		for _, b := range layout.Bindings {
			notes, err := layout.Scale.BuildChord(b.Root, b.Quality, cfg.Octave)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Key, b.Label, b.Degree, strings.Join(chord.Strings(notes), " "))
		}
		return w.Flush()
	},
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI output ports",
	Run: func(cmd *cobra.Command, args []string) {
		ports := midiout.Ports()
		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no MIDI output ports")
			return
		}
		for i, name := range ports {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, name)
		}
	},
}
