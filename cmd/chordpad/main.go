package main

import (
	"github.com/spf13/cobra"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
