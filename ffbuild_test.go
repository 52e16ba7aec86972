// ffbuild_test.go
package ffbuild

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-social/ffbuild/pkg/buildenv"
	"github.com/anti-social/ffbuild/pkg/nativebuild"
)

// recordingRunner records every spawned command and succeeds.
type recordingRunner struct {
	commands []nativebuild.Command
}

func (r *recordingRunner) Run(_ context.Context, cmd nativebuild.Command) error {
	r.commands = append(r.commands, cmd)
	return nil
}

// fakePkgConfig answers every component-library query.
func fakePkgConfig(includeDir, libDir string) func(ctx context.Context, env nativebuild.Environment, args ...string) (string, error) {
	return func(_ context.Context, _ nativebuild.Environment, args ...string) (string, error) {
		lib := args[len(args)-1]
		switch args[0] {
		case "--exists":
			return "", nil
		case "--modversion":
			return "60.3.100\n", nil
		case "--cflags":
			return "-I" + includeDir + "\n", nil
		case "--libs":
			return "-L" + libDir + " -l" + strings.TrimPrefix(lib, "lib") + "\n", nil
		}
		return "", errors.New("unexpected pkg-config query")
	}
}

func mapLookup(env map[string]string) buildenv.LookupFunc {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func testConfig(t *testing.T, env map[string]string, runner nativebuild.Runner) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Lookup = mapLookup(env)
	cfg.Runner = runner
	cfg.GOOS = "linux"
	cfg.DefaultsFile = filepath.Join(t.TempDir(), "absent.yaml")
	return cfg
}

func TestPipelineRun(t *testing.T) {
	outDir := t.TempDir()

	// Pretend the install step already populated the prefix; the
	// recording runner never touches the filesystem.
	includeDir := filepath.Join(outDir, "ffmpeg", "install", "include")
	require.NoError(t, os.MkdirAll(filepath.Join(includeDir, "libavutil"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(includeDir, "libavutil", "avutil.h"),
		[]byte("#define LIBAVUTIL_VERSION_MAJOR 58\n"), 0o644))

	runner := &recordingRunner{}
	cfg := testConfig(t, map[string]string{
		"TARGET":               "x86_64-unknown-linux-gnu",
		"OUT_DIR":              outDir,
		"NUM_JOBS":             "4",
		"FFMPEG_CONFIGURATION": "--enable-libx264",
	}, runner)
	cfg.PkgConfigExec = fakePkgConfig(includeDir, filepath.Join(outDir, "lib"))

	require.NoError(t, NewPipeline(cfg).Run(context.Background()))

	// configure, make clean, make -j, make install
	require.Len(t, runner.commands, 4)
	assert.Contains(t, runner.commands[0].Path, "configure")
	assert.Contains(t, runner.commands[0].Args, "--enable-libx264")
	assert.Equal(t, "make", runner.commands[1].Path)
	assert.Contains(t, runner.commands[1].Args, "clean")

	binding, err := os.ReadFile(filepath.Join(outDir, "binding.go"))
	require.NoError(t, err)
	assert.Contains(t, string(binding), "package ffi")
	assert.Contains(t, string(binding), "#cgo LDFLAGS:")
	assert.Contains(t, string(binding), "LIBAVUTIL_VERSION_MAJOR = 58")

	stamp, err := os.ReadFile(filepath.Join(outDir, StampFileName))
	require.NoError(t, err)
	for _, name := range []string{"TARGET", "OUT_DIR", "NUM_JOBS", "FFMPEG_CONFIGURATION"} {
		assert.Contains(t, string(stamp), name+"=")
	}
}

func TestPipelineRunMissingInput(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"TARGET": "x86_64-unknown-linux-gnu",
	}, &recordingRunner{})

	err := NewPipeline(cfg).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUT_DIR")

	var buildErr *Error
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, "loading", buildErr.Op)
}

func TestPipelinePrebuiltBinding(t *testing.T) {
	outDir := t.TempDir()
	prebuilt := filepath.Join(t.TempDir(), "prebuilt.go")
	require.NoError(t, os.WriteFile(prebuilt, []byte("package ffi\n\n// prebuilt\n"), 0o644))

	cfg := testConfig(t, map[string]string{
		"TARGET":               "x86_64-pc-windows-msvc",
		"OUT_DIR":              outDir,
		"NUM_JOBS":             "2",
		"FFMPEG_CONFIGURATION": "",
		"FFMPEG_BINDING_PATH":  prebuilt,
	}, &recordingRunner{})

	p := NewPipeline(cfg)
	bcfg, _, err := p.LoadConfiguration()
	require.NoError(t, err)

	require.NoError(t, p.GenerateBindings(bcfg, "", nil))

	data, err := os.ReadFile(filepath.Join(outDir, "binding.go"))
	require.NoError(t, err)
	assert.Equal(t, "package ffi\n\n// prebuilt\n", string(data))
}
