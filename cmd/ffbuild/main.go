// cmd/ffbuild/main.go
package main

import (
	"os"

	"github.com/anti-social/ffbuild/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
