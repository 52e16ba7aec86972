// pkg/ffmpeg/build.go

// Package ffmpeg configures, builds and installs the vendored FFmpeg
// tree and knows the fixed set of component libraries it produces.
package ffmpeg

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/anti-social/ffbuild/pkg/buildenv"
	"github.com/anti-social/ffbuild/pkg/nativebuild"
	"github.com/anti-social/ffbuild/pkg/toolchain"
)

// SourceDir is the vendored FFmpeg source tree.
const SourceDir = "third_party/ffmpeg"

// ComponentLibraries is the fixed, ordered set of libraries FFmpeg
// installs. Linkage directives are emitted in exactly this order.
var ComponentLibraries = []string{
	"libavcodec",
	"libavdevice",
	"libavfilter",
	"libavformat",
	"libavutil",
	"libswresample",
	"libswscale",
}

// defaultConfigureFlags disables everything unrelated and enables only
// the minimal feature set plus GPL/version3 licensing, keeping build
// time and binary size bounded. Consumers widen the set through the
// configuration's extra flags.
var defaultConfigureFlags = []string{
	"--enable-gpl",
	"--enable-version3",
	"--disable-iconv",
	"--disable-zlib",
	"--disable-everything",
	"--disable-programs",
	"--disable-doc",
}

// Result is the output of a primary library build.
type Result struct {
	// Install is the prefix holding headers and libraries.
	Install nativebuild.Artifact
	// Chain is the final pkgconfig search path: hardware-acceleration
	// directories first, FFmpeg's own pkgconfig directory last.
	Chain nativebuild.PkgConfigChain
}

// Builder builds the vendored FFmpeg tree.
type Builder struct {
	runner    nativebuild.Runner
	env       nativebuild.Environment
	logger    *log.Logger
	sourceDir string
}

// NewBuilder creates a primary library builder for the vendored tree.
func NewBuilder(runner nativebuild.Runner, env nativebuild.Environment, logger *log.Logger) *Builder {
	return &Builder{runner: runner, env: env, logger: logger, sourceDir: SourceDir}
}

// Build runs configure, clean, a parallel build bounded by the
// configured job count, and install, each as a separate process. Any
// non-zero exit is fatal with a phase-specific diagnostic.
func (b *Builder) Build(ctx context.Context, cfg *buildenv.BuildConfiguration, cross *toolchain.Descriptor, accel nativebuild.PkgConfigChain) (*Result, error) {
	install := nativebuild.Artifact{
		InstallDir: filepath.Join(cfg.OutDir, "ffmpeg", "install"),
	}

	configure, err := filepath.Abs(filepath.Join(b.sourceDir, "configure"))
	if err != nil {
		return nil, fmt.Errorf("resolving configure script: %w", err)
	}

	args := []string{"--prefix=" + install.InstallDir}
	args = append(args, defaultConfigureFlags...)
	if cross != nil {
		args = append(args, cross.ConfigureFlags()...)
	}
	args = append(args, cfg.ConfigureFlags...)

	env := b.env
	if !accel.Empty() {
		env = InjectPkgConfigPath(env, cfg, accel)
	}

	err = b.runner.Run(ctx, nativebuild.Command{
		Path: configure,
		Args: args,
		Dir:  b.sourceDir,
		Env:  env,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring ffmpeg: %w", err)
	}

	// FFmpeg produces object files inside the source tree, so a clean
	// precedes every build.
	mk := nativebuild.NewMake(b.runner, b.env, b.sourceDir)
	if err := mk.Clean(ctx); err != nil {
		return nil, fmt.Errorf("cleaning ffmpeg: %w", err)
	}
	if err := mk.Build(ctx, cfg.Jobs); err != nil {
		return nil, fmt.Errorf("building ffmpeg: %w", err)
	}
	if err := mk.Install(ctx); err != nil {
		return nil, fmt.Errorf("installing ffmpeg: %w", err)
	}

	return &Result{
		Install: install,
		Chain:   accel.Append(install.PkgConfigDir()),
	}, nil
}

// InjectPkgConfigPath returns env with the pkgconfig chain appended to
// the ambient search path, under PKG_CONFIG_PATH_FOR_TARGET when the
// surrounding shell defines it (the nix convention) and PKG_CONFIG_PATH
// otherwise. The ambient value, when present, keeps precedence.
func InjectPkgConfigPath(env nativebuild.Environment, cfg *buildenv.BuildConfiguration, chain nativebuild.PkgConfigChain) nativebuild.Environment {
	key := buildenv.EnvPkgConfigPath
	base := cfg.PkgConfigPath
	if cfg.HasPkgConfigPathForTarget {
		key = buildenv.EnvPkgConfigPathForTarget
		base = cfg.PkgConfigPathForTarget
	}

	value := chain.String()
	if base != "" {
		value = base + ":" + value
	}
	return env.With(key, value)
}
