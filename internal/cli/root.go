// internal/cli/root.go
package cli

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	ffbuild "github.com/anti-social/ffbuild"
)

var (
	defaultsFile string
	debug        bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ffbuild",
	Short: "FFmpeg build and binding orchestrator",
	Long: `ffbuild - FFmpeg build and binding orchestrator

Builds the vendored FFmpeg tree (optionally with the Rockchip
hardware-acceleration libraries), resolves the component libraries
into linkage directives and generates the cgo binding artifact.`,
	Version: "0.1.0",
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&defaultsFile, "defaults", "", "defaults file (default is ./"+ffbuild.DefaultsFileName+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(bindingsCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(versionCmd)
}

// newPipeline builds a pipeline from the global flags.
func newPipeline() *ffbuild.Pipeline {
	cfg := ffbuild.DefaultConfig()
	cfg.Debug = debug
	cfg.DefaultsFile = defaultsFile
	if debug {
		cfg.Logger = log.New(os.Stderr, "ffbuild: ", log.LstdFlags)
	}
	return ffbuild.NewPipeline(cfg)
}
