// pkg/rockchip/rockchip.go

// Package rockchip builds the optional hardware-acceleration dependency
// pair from vendored sources: librga (graphics acceleration, meson) and
// then mpp (the media-processing platform, cmake). Both are configured
// for static linkage and release optimization and installed to
// independent prefixes.
package rockchip

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/anti-social/ffbuild/pkg/buildenv"
	"github.com/anti-social/ffbuild/pkg/nativebuild"
	"github.com/anti-social/ffbuild/pkg/toolchain"
)

// Vendored source locations relative to the repository root.
const (
	LibRGASourceDir = "third_party/rockchip-librga"
	MPPSourceDir    = "third_party/rockchip-mpp"
)

// mppStrayLibs are shared objects the mpp build installs even when only
// static outputs are wanted. They are deleted after install, otherwise the
// linker would prefer them and defeat static-only linking.
var mppStrayLibs = []string{
	"librockchip_mpp.so",
	"librockchip_vpu.so",
}

// Result is the output of a hardware-acceleration build.
type Result struct {
	// LibRGA and MPP are the two install prefixes.
	LibRGA nativebuild.Artifact
	MPP    nativebuild.Artifact
}

// PkgConfigDirs returns the pkgconfig directories of the pair in
// dependency order: librga first, then mpp.
func (r *Result) PkgConfigDirs() []string {
	return []string{r.LibRGA.PkgConfigDir(), r.MPP.PkgConfigDir()}
}

// Builder orchestrates the two sub-builds.
type Builder struct {
	runner nativebuild.Runner
	env    nativebuild.Environment
	logger *log.Logger
}

// NewBuilder creates a hardware-acceleration builder.
func NewBuilder(runner nativebuild.Runner, env nativebuild.Environment, logger *log.Logger) *Builder {
	return &Builder{runner: runner, env: env, logger: logger}
}

// Build runs both sub-builds. Any non-zero exit from a configure, build
// or install phase aborts with a named-stage diagnostic.
func (b *Builder) Build(ctx context.Context, cfg *buildenv.BuildConfiguration, cross *toolchain.Descriptor) (*Result, error) {
	librga, err := b.buildLibRGA(ctx, cfg, cross)
	if err != nil {
		return nil, err
	}

	mpp, err := b.buildMPP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := b.removeStrayLibs(mpp); err != nil {
		return nil, err
	}

	return &Result{LibRGA: librga, MPP: mpp}, nil
}

func (b *Builder) buildLibRGA(ctx context.Context, cfg *buildenv.BuildConfiguration, cross *toolchain.Descriptor) (nativebuild.Artifact, error) {
	outDir := filepath.Join(cfg.OutDir, "rockchip-librga")
	buildDir := filepath.Join(outDir, "meson")
	install := nativebuild.Artifact{InstallDir: filepath.Join(outDir, "install")}

	opts := nativebuild.MesonOptions{
		Prefix:         install.InstallDir,
		BuildType:      "release",
		DefaultLibrary: "static",
		ExtraArgs: []string{
			"-Dcpp_args=-fpermissive",
			"-Dlibdrm=false",
			"-Dlibrga_demo=false",
		},
	}
	if cross != nil {
		opts.CrossFile = cross.CrossFilePath
	}

	meson := nativebuild.NewMeson(b.runner, b.env)
	if err := meson.Setup(ctx, LibRGASourceDir, buildDir, opts); err != nil {
		return nativebuild.Artifact{}, fmt.Errorf("setting up rockchip-librga: %w", err)
	}
	if err := meson.Configure(ctx, buildDir); err != nil {
		return nativebuild.Artifact{}, fmt.Errorf("configuring rockchip-librga: %w", err)
	}
	if err := nativebuild.NewNinja(b.runner, b.env).Install(ctx, buildDir); err != nil {
		return nativebuild.Artifact{}, fmt.Errorf("building rockchip-librga: %w", err)
	}

	return install, nil
}

func (b *Builder) buildMPP(ctx context.Context, cfg *buildenv.BuildConfiguration) (nativebuild.Artifact, error) {
	outDir := filepath.Join(cfg.OutDir, "rockchip-mpp")
	buildDir := filepath.Join(outDir, "cmake")
	install := nativebuild.Artifact{InstallDir: filepath.Join(outDir, "install")}

	cmake := nativebuild.NewCMake(b.runner, b.env)
	err := cmake.Configure(ctx, nativebuild.CMakeOptions{
		SourceDir:     MPPSourceDir,
		BuildDir:      buildDir,
		InstallPrefix: install.InstallDir,
		ToolchainFile: cfg.CMakeToolchainFile,
	})
	if err != nil {
		return nativebuild.Artifact{}, fmt.Errorf("configuring rockchip-mpp: %w", err)
	}
	if err := nativebuild.NewNinja(b.runner, b.env).Install(ctx, buildDir); err != nil {
		return nativebuild.Artifact{}, fmt.Errorf("building rockchip-mpp: %w", err)
	}

	return install, nil
}

// removeStrayLibs deletes the undesired dynamic artifacts of the mpp
// install. A library that was never produced is not an error.
func (b *Builder) removeStrayLibs(mpp nativebuild.Artifact) error {
	for _, name := range mppStrayLibs {
		path := filepath.Join(mpp.LibDir(), name)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				if b.logger != nil {
					b.logger.Printf("no stray %s to remove", path)
				}
				continue
			}
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}
