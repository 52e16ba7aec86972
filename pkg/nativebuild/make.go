// pkg/nativebuild/make.go
package nativebuild

import (
	"context"
	"strconv"
)

// Make drives make-based builds in a fixed source directory.
type Make struct {
	runner Runner
	env    Environment
	dir    string
}

// NewMake creates a make wrapper for dir using the given runner and
// spawn environment.
func NewMake(runner Runner, env Environment, dir string) *Make {
	return &Make{runner: runner, env: env, dir: dir}
}

// Clean runs "make clean".
func (m *Make) Clean(ctx context.Context) error {
	return m.run(ctx, "clean")
}

// Build runs a parallel "make -j <jobs>".
func (m *Make) Build(ctx context.Context, jobs int) error {
	return m.run(ctx, "-j", strconv.Itoa(jobs))
}

// Install runs "make install".
func (m *Make) Install(ctx context.Context) error {
	return m.run(ctx, "install")
}

func (m *Make) run(ctx context.Context, args ...string) error {
	all := append([]string{"-C", m.dir}, args...)
	return m.runner.Run(ctx, Command{Path: "make", Args: all, Env: m.env})
}
