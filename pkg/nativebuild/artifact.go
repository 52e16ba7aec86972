// pkg/nativebuild/artifact.go
package nativebuild

import (
	"path/filepath"
	"strings"
)

// Artifact is the installed output of one native sub-build: an install
// prefix holding include/ and lib/pkgconfig/. It is produced exclusively
// by its builder stage and consumed read-only afterwards.
type Artifact struct {
	InstallDir string
}

// IncludeDir returns the header directory of the prefix.
func (a Artifact) IncludeDir() string {
	return filepath.Join(a.InstallDir, "include")
}

// LibDir returns the library directory of the prefix.
func (a Artifact) LibDir() string {
	return filepath.Join(a.InstallDir, "lib")
}

// PkgConfigDir returns the pkgconfig metadata directory of the prefix.
func (a Artifact) PkgConfigDir() string {
	return filepath.Join(a.InstallDir, "lib", "pkgconfig")
}

// PkgConfigChain is an ordered pkgconfig search path. Order matters: a
// later entry may be shadowed by an earlier one during probing, so
// builders append in a fixed sequence, dependencies before dependents.
type PkgConfigChain []string

// Append returns the chain extended with dirs, in order.
func (c PkgConfigChain) Append(dirs ...string) PkgConfigChain {
	out := make(PkgConfigChain, 0, len(c)+len(dirs))
	out = append(out, c...)
	out = append(out, dirs...)
	return out
}

// String joins the chain with colons, the pkg-config search separator.
func (c PkgConfigChain) String() string {
	return strings.Join(c, ":")
}

// Empty reports whether the chain has no entries.
func (c PkgConfigChain) Empty() bool {
	return len(c) == 0
}
