// pkg/pkgconfig/pkgconfig.go

// Package pkgconfig locates installed libraries by querying the
// pkg-config tool. A probe is a read-only query: it reports location,
// version and include paths without emitting any linkage side effects.
package pkgconfig

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/anti-social/ffbuild/pkg/nativebuild"
)

// ErrNotFound indicates pkg-config could not locate the library.
var ErrNotFound = errors.New("library not found")

// Library is the parsed result of a successful probe.
type Library struct {
	Name        string
	Version     string
	IncludeDirs []string
	LibDirs     []string
	Libs        []string
}

// Options configures a probe.
type Options struct {
	// Static requests static-linking metadata (--static).
	Static bool
}

// ExecFunc runs the pkg-config binary and returns its stdout. Tests
// substitute a fake.
type ExecFunc func(ctx context.Context, env nativebuild.Environment, args ...string) (string, error)

// Prober queries pkg-config with a fixed spawn environment; search
// paths are injected into that environment by the caller, never into
// the global process environment.
type Prober struct {
	env  nativebuild.Environment
	exec ExecFunc
}

// NewProber creates a prober spawning pkg-config with env.
func NewProber(env nativebuild.Environment) *Prober {
	return &Prober{env: env, exec: runPkgConfig}
}

// NewProberWithExec creates a prober with a custom executor. Used by tests.
func NewProberWithExec(env nativebuild.Environment, exec ExecFunc) *Prober {
	return &Prober{env: env, exec: exec}
}

// Exists performs a side-effect-free existence probe, failing fast with
// a diagnostic naming the library.
func (p *Prober) Exists(ctx context.Context, name string, opts Options) error {
	args := []string{"--exists", "--print-errors"}
	if opts.Static {
		args = append(args, "--static")
	}
	args = append(args, name)

	if _, err := p.exec(ctx, p.env, args...); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)
	}
	return nil
}

// Probe locates name and returns its metadata.
func (p *Prober) Probe(ctx context.Context, name string, opts Options) (*Library, error) {
	version, err := p.exec(ctx, p.env, "--modversion", name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)
	}

	cflags, err := p.exec(ctx, p.env, "--cflags", name)
	if err != nil {
		return nil, fmt.Errorf("querying cflags for %s: %w", name, err)
	}

	libsArgs := []string{"--libs"}
	if opts.Static {
		libsArgs = append(libsArgs, "--static")
	}
	libsArgs = append(libsArgs, name)
	libs, err := p.exec(ctx, p.env, libsArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying libs for %s: %w", name, err)
	}

	lib := &Library{Name: name, Version: strings.TrimSpace(version)}
	for _, tok := range strings.Fields(cflags) {
		if strings.HasPrefix(tok, "-I") {
			lib.IncludeDirs = append(lib.IncludeDirs, tok[2:])
		}
	}
	for _, tok := range strings.Fields(libs) {
		switch {
		case strings.HasPrefix(tok, "-L"):
			lib.LibDirs = append(lib.LibDirs, tok[2:])
		case strings.HasPrefix(tok, "-l"):
			lib.Libs = append(lib.Libs, tok[2:])
		}
	}

	return lib, nil
}

// runPkgConfig spawns the pkg-config binary with an explicit environment.
func runPkgConfig(ctx context.Context, env nativebuild.Environment, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "pkg-config", args...)
	cmd.Env = env.Slice()

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("pkg-config %s: %s", strings.Join(args, " "), msg)
		}
		return "", fmt.Errorf("pkg-config %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
