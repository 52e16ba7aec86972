// pkg/linker/linker.go

// Package linker turns installed component libraries into build-graph
// linkage directives. Two strategies exist, selected once per build by
// platform: a pkg-config probing strategy and a directory-based one for
// platforms where pkg-config tooling is not assumed present.
package linker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anti-social/ffbuild/pkg/buildenv"
	"github.com/anti-social/ffbuild/pkg/ffmpeg"
	"github.com/anti-social/ffbuild/pkg/pkgconfig"
)

// Directive is one linkage instruction, rendered as a #cgo line inside
// the generated binding artifact.
type Directive struct {
	Flags string
}

// String renders the directive.
func (d Directive) String() string {
	return "#cgo LDFLAGS: " + d.Flags
}

// SearchPath returns a library search-path directive.
func SearchPath(dir string) Directive {
	return Directive{Flags: "-L" + dir}
}

// LinkDynamic returns a dynamic linkage directive for a component
// library name.
func LinkDynamic(name string) Directive {
	return Directive{Flags: "-l" + linkName(name)}
}

// LinkStatic returns a static linkage directive: the archive is named
// directly so the linker cannot fall back to a shared object.
func LinkStatic(dir, name string) Directive {
	return Directive{Flags: filepath.Join(dir, "lib"+linkName(name)+".a")}
}

// linkName strips the conventional "lib" prefix for -l style flags.
func linkName(name string) string {
	return strings.TrimPrefix(name, "lib")
}

// Result carries the emitted directives and the include directories
// collected while resolving the libraries.
type Result struct {
	Directives  []Directive
	IncludeDirs []string
}

// LibraryLinker resolves every component library and emits its linkage
// directives. Implementations must emit nothing at all when any library
// cannot be resolved.
type LibraryLinker interface {
	Link(ctx context.Context) (*Result, error)
}

// Select picks the linking strategy for goos. The decision happens once
// here rather than as scattered platform conditionals.
func Select(cfg *buildenv.BuildConfiguration, prober *pkgconfig.Prober, goos string) (LibraryLinker, error) {
	if goos == "windows" {
		if cfg.LibsDir == "" {
			return nil, fmt.Errorf("no linking method set: %s is required on windows", buildenv.EnvLibsDir)
		}
		mode := cfg.LinkMode
		if mode == buildenv.LinkModeUnset {
			mode = buildenv.LinkModeStatic
		}
		return NewDirectoryBasedLinker(cfg.LibsDir, cfg.IncludeDir, mode), nil
	}

	// Without an explicit mode, probing defaults to dynamic linkage.
	mode := cfg.LinkMode
	if mode == buildenv.LinkModeUnset {
		mode = buildenv.LinkModeDynamic
	}
	return NewProbeBasedLinker(prober, mode), nil
}

// componentLibraries is the fixed declared order directives follow.
var componentLibraries = ffmpeg.ComponentLibraries
