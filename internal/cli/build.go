// internal/cli/build.go
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full build pipeline",
	Long: `Run the full build pipeline: unpack vendored sources, build the
native libraries, resolve linkage and generate the binding artifact.

Configuration is read from the environment (TARGET, OUT_DIR, NUM_JOBS,
FFMPEG_CONFIGURATION, ...) with fallbacks from the defaults file.

Examples:
  TARGET=x86_64-unknown-linux-gnu OUT_DIR=out NUM_JOBS=8 ffbuild build
  FFMPEG_ROCKCHIP_MPP=1 CROSS_TOOLCHAIN_PREFIX=aarch64-linux-gnu- ffbuild build`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	return newPipeline().Run(context.Background())
}
