// internal/cli/probe.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Resolve the component libraries and print linkage directives",
	Long: `Resolve every FFmpeg component library with the platform linking
strategy and print the directives that would land in the binding
artifact. Nothing is built or written.

Examples:
  ffbuild probe
  FFMPEG_LINK_MODE=static ffbuild probe`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	p := newPipeline()

	cfg, _, err := p.LoadConfiguration()
	if err != nil {
		return err
	}

	result, err := p.Link(context.Background(), cfg, nil)
	if err != nil {
		return err
	}

	for _, d := range result.Directives {
		fmt.Println(d)
	}
	for _, dir := range result.IncludeDirs {
		fmt.Println("# include dir:", dir)
	}
	return nil
}
