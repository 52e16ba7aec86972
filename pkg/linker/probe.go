// pkg/linker/probe.go
package linker

import (
	"context"

	"go.uber.org/multierr"

	"github.com/anti-social/ffbuild/pkg/buildenv"
	"github.com/anti-social/ffbuild/pkg/pkgconfig"
)

// ProbeBasedLinker resolves the component libraries through pkg-config.
// A first, side-effect-free pass probes every library so a missing one
// fails the build before any directive exists; only when the whole set
// resolves does a second pass collect metadata and emit directives.
// Probing is therefore atomic across the library set.
type ProbeBasedLinker struct {
	prober *pkgconfig.Prober
	mode   buildenv.LinkMode
}

// NewProbeBasedLinker creates the probing strategy.
func NewProbeBasedLinker(prober *pkgconfig.Prober, mode buildenv.LinkMode) *ProbeBasedLinker {
	return &ProbeBasedLinker{prober: prober, mode: mode}
}

// Link probes all component libraries and emits their directives.
func (l *ProbeBasedLinker) Link(ctx context.Context) (*Result, error) {
	opts := pkgconfig.Options{Static: l.mode.IsStatic()}

	// Dry-run pass: report every missing library at once, emit nothing.
	var missing error
	for _, name := range componentLibraries {
		if err := l.prober.Exists(ctx, name, opts); err != nil {
			missing = multierr.Append(missing, err)
		}
	}
	if missing != nil {
		return nil, missing
	}

	var (
		libs        []*pkgconfig.Library
		includeDirs []string
		searchDirs  []string
		seenInclude = map[string]bool{}
		seenSearch  = map[string]bool{}
	)
	for _, name := range componentLibraries {
		lib, err := l.prober.Probe(ctx, name, opts)
		if err != nil {
			return nil, err
		}
		libs = append(libs, lib)
		for _, dir := range lib.IncludeDirs {
			if !seenInclude[dir] {
				seenInclude[dir] = true
				includeDirs = append(includeDirs, dir)
			}
		}
		for _, dir := range lib.LibDirs {
			if !seenSearch[dir] {
				seenSearch[dir] = true
				searchDirs = append(searchDirs, dir)
			}
		}
	}

	result := &Result{IncludeDirs: includeDirs}
	for _, dir := range searchDirs {
		result.Directives = append(result.Directives, SearchPath(dir))
	}
	for _, lib := range libs {
		if l.mode.IsStatic() && len(lib.LibDirs) > 0 {
			// Archives are named against the library's own directory;
			// libraries probed without one (default system path) keep
			// the -l form, which the search-path directives resolve.
			result.Directives = append(result.Directives, LinkStatic(lib.LibDirs[0], lib.Name))
		} else {
			result.Directives = append(result.Directives, LinkDynamic(lib.Name))
		}
	}

	return result, nil
}
