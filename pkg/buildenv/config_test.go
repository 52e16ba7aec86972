// pkg/buildenv/config_test.go
package buildenv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		EnvTarget:        "aarch64-unknown-linux-gnu",
		EnvOutDir:        "/tmp/out",
		EnvNumJobs:       "8",
		EnvConfiguration: "",
	}
}

func TestLoadRequiredInputs(t *testing.T) {
	env := baseEnv()
	loader := NewLoader(WithLookup(mapLookup(env)))
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "aarch64-unknown-linux-gnu", cfg.Target)
	assert.Equal(t, "/tmp/out", cfg.OutDir)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Empty(t, cfg.ConfigureFlags)
	assert.Equal(t, LinkModeUnset, cfg.LinkMode)
	assert.False(t, cfg.RockchipMPP)
}

func TestLoadMissingInputNamesOffender(t *testing.T) {
	for _, missing := range []string{EnvTarget, EnvOutDir, EnvNumJobs, EnvConfiguration} {
		env := baseEnv()
		delete(env, missing)
		_, err := NewLoader(WithLookup(mapLookup(env))).Load()
		require.Error(t, err, "expected failure without %s", missing)
		assert.Contains(t, err.Error(), missing)
	}
}

func TestLoadSplitsQuotedConfigureFlags(t *testing.T) {
	env := baseEnv()
	env[EnvConfiguration] = `--enable-libx264 --extra-cflags="-O2 -g"`
	cfg, err := NewLoader(WithLookup(mapLookup(env))).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"--enable-libx264", "--extra-cflags=-O2 -g"}, cfg.ConfigureFlags)
}

func TestLoadLinkMode(t *testing.T) {
	env := baseEnv()
	env[EnvLinkMode] = "static"
	cfg, err := NewLoader(WithLookup(mapLookup(env))).Load()
	require.NoError(t, err)
	assert.Equal(t, LinkModeStatic, cfg.LinkMode)
	assert.True(t, cfg.LinkMode.IsStatic())

	env[EnvLinkMode] = "dynamic"
	cfg, err = NewLoader(WithLookup(mapLookup(env))).Load()
	require.NoError(t, err)
	assert.Equal(t, LinkModeDynamic, cfg.LinkMode)

	env[EnvLinkMode] = "shared"
	_, err = NewLoader(WithLookup(mapLookup(env))).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvLinkMode)
}

func TestLoadRockchipToggle(t *testing.T) {
	env := baseEnv()
	env[EnvRockchipMPP] = "true"
	cfg, err := NewLoader(WithLookup(mapLookup(env))).Load()
	require.NoError(t, err)
	assert.True(t, cfg.RockchipMPP)

	// Unparseable text defaults to disabled rather than failing.
	env[EnvRockchipMPP] = "yes please"
	cfg, err = NewLoader(WithLookup(mapLookup(env))).Load()
	require.NoError(t, err)
	assert.False(t, cfg.RockchipMPP)
}

func TestLoadInvalidJobs(t *testing.T) {
	env := baseEnv()
	env[EnvNumJobs] = "many"
	_, err := NewLoader(WithLookup(mapLookup(env))).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvNumJobs)

	env[EnvNumJobs] = "0"
	_, err = NewLoader(WithLookup(mapLookup(env))).Load()
	require.Error(t, err)
}

func TestLoadStripsVerbatimPrefix(t *testing.T) {
	env := baseEnv()
	env[EnvOutDir] = `\\?\C:\build\out`
	cfg, err := NewLoader(WithLookup(mapLookup(env))).Load()
	require.NoError(t, err)
	assert.Equal(t, `C:\build\out`, cfg.OutDir)
}

func TestLoadCMakeToolchainKeyedBySanitizedTarget(t *testing.T) {
	env := baseEnv()
	env["CMAKE_TOOLCHAIN_FILE_aarch64_unknown_linux_gnu"] = "/toolchains/aarch64.cmake"
	cfg, err := NewLoader(WithLookup(mapLookup(env))).Load()
	require.NoError(t, err)
	assert.Equal(t, "/toolchains/aarch64.cmake", cfg.CMakeToolchainFile)
}

func TestFileDefaultsOverriddenByEnvironment(t *testing.T) {
	enabled := true
	fc := &FileConfig{
		Jobs:        2,
		LinkMode:    "dynamic",
		RockchipMPP: &enabled,
	}
	env := baseEnv()
	env[EnvNumJobs] = "16"
	cfg, err := NewLoader(WithLookup(mapLookup(env)), WithDefaults(fc)).Load()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Jobs, "environment wins over file default")
	assert.Equal(t, LinkModeDynamic, cfg.LinkMode, "file default applies when env is absent")
	assert.True(t, cfg.RockchipMPP)
}

func TestLoadRegistersConsultedInputs(t *testing.T) {
	loader := NewLoader(WithLookup(mapLookup(baseEnv())))
	_, err := loader.Load()
	require.NoError(t, err)

	names := loader.Inputs().Names()
	for _, want := range []string{
		EnvTarget, EnvOutDir, EnvNumJobs, EnvConfiguration,
		EnvLinkMode, EnvRockchipMPP, EnvCrossToolchainPrefix,
	} {
		assert.Contains(t, names, want)
	}

	rendered := loader.Inputs().Render()
	assert.True(t, strings.Contains(rendered, "TARGET=aarch64-unknown-linux-gnu"))

	// Stable across renders.
	assert.Equal(t, rendered, loader.Inputs().Render())
}

func TestTargetComponents(t *testing.T) {
	cfg := &BuildConfiguration{Target: "aarch64-unknown-linux-gnu"}
	assert.Equal(t, "aarch64", cfg.TargetArch())
	assert.Equal(t, "linux", cfg.TargetOS())

	cfg = &BuildConfiguration{Target: "x86_64-pc-windows-gnu"}
	assert.Equal(t, "x86_64", cfg.TargetArch())
	assert.Equal(t, "windows", cfg.TargetOS())

	cfg = &BuildConfiguration{Target: "aarch64-apple-darwin"}
	assert.Equal(t, "darwin", cfg.TargetOS())
}
