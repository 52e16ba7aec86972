// internal/cli/bindings.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "Generate the binding artifact from installed libraries",
	Long: `Generate the binding artifact against an already installed library
tree, skipping the native builds. The libraries are resolved the same
way the full pipeline resolves them.

Examples:
  OUT_DIR=out ffbuild bindings
  FFMPEG_INCLUDE_DIR=/opt/ffmpeg/include FFMPEG_LIBS_DIR=/opt/ffmpeg/lib OUT_DIR=out ffbuild bindings`,
	Args: cobra.NoArgs,
	RunE: runBindings,
}

func runBindings(cmd *cobra.Command, args []string) error {
	p := newPipeline()

	cfg, _, err := p.LoadConfiguration()
	if err != nil {
		return err
	}
	if cfg.PrebuiltBindingPath != "" {
		return p.GenerateBindings(cfg, cfg.IncludeDir, nil)
	}
	if cfg.IncludeDir == "" {
		return fmt.Errorf("bindings requires FFMPEG_INCLUDE_DIR or FFMPEG_BINDING_PATH")
	}

	link, err := p.Link(context.Background(), cfg, nil)
	if err != nil {
		return err
	}
	return p.GenerateBindings(cfg, cfg.IncludeDir, link)
}
