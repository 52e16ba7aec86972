// pkg/linker/directory.go
package linker

import (
	"context"
	"fmt"
	"os"

	"github.com/anti-social/ffbuild/pkg/buildenv"
)

// DirectoryBasedLinker emits directives straight from an explicitly
// supplied library directory, without a probing phase. Used where
// pkg-config tooling is not assumed to be present.
type DirectoryBasedLinker struct {
	libsDir    string
	includeDir string
	mode       buildenv.LinkMode
}

// NewDirectoryBasedLinker creates the directory strategy.
func NewDirectoryBasedLinker(libsDir, includeDir string, mode buildenv.LinkMode) *DirectoryBasedLinker {
	return &DirectoryBasedLinker{libsDir: libsDir, includeDir: includeDir, mode: mode}
}

// Link emits one search-path directive and one linkage directive per
// component library, in the fixed declared order.
func (l *DirectoryBasedLinker) Link(_ context.Context) (*Result, error) {
	if _, err := os.Stat(l.libsDir); err != nil {
		return nil, fmt.Errorf("library directory %s: %w", l.libsDir, err)
	}

	result := &Result{
		Directives: []Directive{SearchPath(l.libsDir)},
	}
	if l.includeDir != "" {
		result.IncludeDirs = []string{l.includeDir}
	}

	for _, name := range componentLibraries {
		if l.mode.IsStatic() {
			result.Directives = append(result.Directives, LinkStatic(l.libsDir, name))
		} else {
			result.Directives = append(result.Directives, LinkDynamic(name))
		}
	}

	return result, nil
}
