package main

import (
	"os"

	"github.com/spf13/cobra"

	"adaptcall/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "adaptcall",
	Short: "Call-site adaptation layer tooling",
	Long:  `adaptcall inspects and manages the wrapper-shape cache and configuration for the default-supply, reorder, coerce, and promote adaptation pipeline.`,
}

// main registers every subcommand and global flag, then executes the root
// command. A non-nil error exits the process with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)

	rootCmd.PersistentFlags().String("color", "auto", "color mode (auto|on|off); accepted but not read by any command, color follows terminal detection")
	rootCmd.PersistentFlags().Bool("quiet", false, "accepted but not read by any command; output is unchanged")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
