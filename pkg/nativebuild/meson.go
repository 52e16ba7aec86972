// pkg/nativebuild/meson.go
package nativebuild

import "context"

// MesonOptions configures a meson-based sub-build.
type MesonOptions struct {
	// CrossFile is a meson cross toolchain descriptor. Optional.
	CrossFile string
	// Prefix is the install prefix.
	Prefix string
	// BuildType is the meson buildtype, e.g. "release".
	BuildType string
	// DefaultLibrary selects "static" or "shared" outputs.
	DefaultLibrary string
	// ExtraArgs are project-specific -D options.
	ExtraArgs []string
}

// Meson drives the meson build tool.
type Meson struct {
	runner Runner
	env    Environment
}

// NewMeson creates a meson wrapper using the given runner and spawn
// environment.
func NewMeson(runner Runner, env Environment) *Meson {
	return &Meson{runner: runner, env: env}
}

// Setup runs "meson setup" for sourceDir into buildDir.
func (m *Meson) Setup(ctx context.Context, sourceDir, buildDir string, opts MesonOptions) error {
	args := []string{"setup", sourceDir, buildDir}
	if opts.CrossFile != "" {
		args = append(args, "--cross-file", opts.CrossFile)
	}
	if opts.Prefix != "" {
		args = append(args, "--prefix", opts.Prefix, "--libdir=lib")
	}
	if opts.BuildType != "" {
		args = append(args, "--buildtype="+opts.BuildType)
	}
	if opts.DefaultLibrary != "" {
		args = append(args, "--default-library="+opts.DefaultLibrary)
	}
	args = append(args, opts.ExtraArgs...)

	return m.runner.Run(ctx, Command{Path: "meson", Args: args, Env: m.env})
}

// Configure runs "meson configure" on an already set-up build directory.
func (m *Meson) Configure(ctx context.Context, buildDir string) error {
	return m.runner.Run(ctx, Command{Path: "meson", Args: []string{"configure", buildDir}, Env: m.env})
}
