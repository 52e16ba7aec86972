// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ffbuild version 0.1.0")
		fmt.Println("FFmpeg build and binding orchestrator")
		fmt.Println("https://github.com/anti-social/ffbuild")
	},
}
