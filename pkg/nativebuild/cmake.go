// pkg/nativebuild/cmake.go
package nativebuild

import "context"

// CMakeOptions configures a cmake-based sub-build.
type CMakeOptions struct {
	// SourceDir is the project source tree.
	SourceDir string
	// BuildDir is the out-of-tree build directory.
	BuildDir string
	// InstallPrefix is the install prefix.
	InstallPrefix string
	// ToolchainFile is a cmake toolchain descriptor. Optional.
	ToolchainFile string
}

// CMake drives the cmake build tool with the Ninja generator.
type CMake struct {
	runner Runner
	env    Environment
}

// NewCMake creates a cmake wrapper using the given runner and spawn
// environment.
func NewCMake(runner Runner, env Environment) *CMake {
	return &CMake{runner: runner, env: env}
}

// Configure runs the cmake configure step.
func (c *CMake) Configure(ctx context.Context, opts CMakeOptions) error {
	args := []string{
		"-GNinja",
		"-DCMAKE_INSTALL_PREFIX=" + opts.InstallPrefix,
		"-S" + opts.SourceDir,
		"-B" + opts.BuildDir,
	}
	if opts.ToolchainFile != "" {
		args = append(args, "--toolchain", opts.ToolchainFile)
	}

	return c.runner.Run(ctx, Command{Path: "cmake", Args: args, Env: c.env})
}

// Ninja drives the ninja build tool.
type Ninja struct {
	runner Runner
	env    Environment
}

// NewNinja creates a ninja wrapper using the given runner and spawn
// environment.
func NewNinja(runner Runner, env Environment) *Ninja {
	return &Ninja{runner: runner, env: env}
}

// Install builds and installs the targets of buildDir.
func (n *Ninja) Install(ctx context.Context, buildDir string) error {
	return n.runner.Run(ctx, Command{Path: "ninja", Args: []string{"-C", buildDir, "install"}, Env: n.env})
}
