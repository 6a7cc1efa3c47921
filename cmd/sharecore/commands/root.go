package commands

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sharecore",
	Short: "Index, search and list shared files over an ADC/DC++ style share index",
	Long: `sharecore builds and queries a local share index: scanning configured
share roots into a tree of TTH-identified files, running ADC-style search
queries against it, and generating DC++ filelist XML documents.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults to "+"~/.config/sharecore/config.yaml"+")")
}

// Execute runs the root command. loadConfig brings up tracing and
// profiling as each subcommand starts; Execute tears both down once
// the command finishes, regardless of outcome.
func Execute() error {
	defer shutdownAmbientStack()
	return rootCmd.Execute()
}
