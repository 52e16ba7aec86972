// pkg/buildenv/config.go
package buildenv

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// ErrMissingInput indicates a required configuration input is absent.
var ErrMissingInput = errors.New("missing configuration input")

// Environment input names read by the loader.
const (
	EnvTarget                 = "TARGET"
	EnvOutDir                 = "OUT_DIR"
	EnvNumJobs                = "NUM_JOBS"
	EnvConfiguration          = "FFMPEG_CONFIGURATION"
	EnvLinkMode               = "FFMPEG_LINK_MODE"
	EnvRockchipMPP            = "FFMPEG_ROCKCHIP_MPP"
	EnvDocsBuild              = "DOCS_RS"
	EnvCrossToolchainPrefix   = "CROSS_TOOLCHAIN_PREFIX"
	EnvLibsDir                = "FFMPEG_LIBS_DIR"
	EnvIncludeDir             = "FFMPEG_INCLUDE_DIR"
	EnvBindingPath            = "FFMPEG_BINDING_PATH"
	EnvPkgConfigPath          = "PKG_CONFIG_PATH"
	EnvPkgConfigPathForTarget = "PKG_CONFIG_PATH_FOR_TARGET"
)

// EnvCMakeToolchainFile returns the per-target toolchain file input name,
// keyed by the target triple with dashes replaced by underscores.
func EnvCMakeToolchainFile(target string) string {
	return "CMAKE_TOOLCHAIN_FILE_" + strings.ReplaceAll(target, "-", "_")
}

// BuildConfiguration is the validated, immutable record every pipeline
// stage reads from. It is assembled once per build and never mutated.
type BuildConfiguration struct {
	// Target is the target triple, e.g. "aarch64-unknown-linux-gnu".
	Target string
	// OutDir is the build output directory.
	OutDir string
	// Jobs bounds the parallelism of the native build tools.
	Jobs int
	// ConfigureFlags are extra flags passed to FFmpeg's configure script.
	ConfigureFlags []string
	// LinkMode selects static or dynamic linking; may be LinkModeUnset.
	LinkMode LinkMode
	// RockchipMPP enables the optional hardware-acceleration builds.
	RockchipMPP bool
	// DocsBuild marks a documentation-only build. Informational.
	DocsBuild bool
	// CrossToolchainPrefix is the cross-compiler binary prefix, e.g.
	// "aarch64-linux-gnu-". Empty for native builds.
	CrossToolchainPrefix string
	// CMakeToolchainFile is a per-target cmake toolchain file. Optional.
	CMakeToolchainFile string
	// LibsDir is an explicit library directory for directory-based
	// linking where pkg-config is not assumed present.
	LibsDir string
	// IncludeDir is an explicit include directory paired with LibsDir.
	IncludeDir string
	// PrebuiltBindingPath points at a pre-generated binding artifact to
	// copy verbatim instead of generating.
	PrebuiltBindingPath string
	// PkgConfigPath and PkgConfigPathForTarget are ambient search paths
	// passed through to spawned build tools.
	PkgConfigPath          string
	PkgConfigPathForTarget string
	// HasPkgConfigPathForTarget distinguishes an empty value from an
	// unset one; some shells (nix) define the _FOR_TARGET variant and
	// the chain must then be injected under that name.
	HasPkgConfigPathForTarget bool
}

// TargetArch returns the architecture component of the target triple.
func (c *BuildConfiguration) TargetArch() string {
	if i := strings.IndexByte(c.Target, '-'); i > 0 {
		return c.Target[:i]
	}
	return c.Target
}

// TargetOS returns the operating system component of the target triple.
func (c *BuildConfiguration) TargetOS() string {
	lower := strings.ToLower(c.Target)
	switch {
	case strings.Contains(lower, "windows"):
		return "windows"
	case strings.Contains(lower, "darwin"), strings.Contains(lower, "apple"):
		return "darwin"
	case strings.Contains(lower, "android"):
		return "android"
	default:
		return "linux"
	}
}

// LookupFunc resolves a configuration input by name.
type LookupFunc func(name string) (string, bool)

// OSLookup reads inputs from the process environment.
func OSLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Loader reads the configuration inputs and produces a BuildConfiguration.
type Loader struct {
	lookup   LookupFunc
	defaults *FileConfig
	inputs   *InvalidationList
	logger   *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLookup overrides the input source. Used by tests.
func WithLookup(lookup LookupFunc) Option {
	return func(l *Loader) { l.lookup = lookup }
}

// WithDefaults supplies file-level defaults consulted when an input is
// absent from the environment.
func WithDefaults(fc *FileConfig) Option {
	return func(l *Loader) { l.defaults = fc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		lookup: OSLookup,
		inputs: NewInvalidationList(),
		logger: log.New(os.Stderr, "", 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Inputs returns the invalidation list accumulated by Load.
func (l *Loader) Inputs() *InvalidationList {
	return l.inputs
}

// get reads one input, registering it on the invalidation list so the
// surrounding build re-runs the loader when the input changes.
func (l *Loader) get(name string) (string, bool) {
	value, ok := l.lookup(name)
	l.inputs.Register(name, value)
	return value, ok
}

// Load assembles the BuildConfiguration. Each absent required input is an
// error naming the input; optional inputs fall back to their defaults.
func (l *Loader) Load() (*BuildConfiguration, error) {
	cfg := &BuildConfiguration{}

	target, ok := l.get(EnvTarget)
	if !ok && l.defaults != nil {
		target, ok = l.defaults.Target, l.defaults.Target != ""
	}
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingInput, EnvTarget)
	}
	cfg.Target = target

	outDir, ok := l.get(EnvOutDir)
	if !ok && l.defaults != nil {
		outDir, ok = l.defaults.OutDir, l.defaults.OutDir != ""
	}
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingInput, EnvOutDir)
	}
	cfg.OutDir = removeVerbatim(outDir)

	jobsText, ok := l.get(EnvNumJobs)
	if !ok && l.defaults != nil && l.defaults.Jobs > 0 {
		jobsText, ok = strconv.Itoa(l.defaults.Jobs), true
	}
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingInput, EnvNumJobs)
	}
	jobs, err := strconv.Atoi(strings.TrimSpace(jobsText))
	if err != nil || jobs < 1 {
		return nil, fmt.Errorf("configuration input %s: not a positive integer: %q", EnvNumJobs, jobsText)
	}
	cfg.Jobs = jobs

	flagsText, ok := l.get(EnvConfiguration)
	if !ok && l.defaults != nil {
		flagsText, ok = l.defaults.ConfigureFlags, l.defaults.ConfigureFlags != ""
	}
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingInput, EnvConfiguration)
	}
	flags, err := shlex.Split(flagsText)
	if err != nil {
		return nil, fmt.Errorf("configuration input %s: %w", EnvConfiguration, err)
	}
	cfg.ConfigureFlags = flags

	modeText, ok := l.get(EnvLinkMode)
	if !ok && l.defaults != nil {
		modeText = l.defaults.LinkMode
	}
	mode, err := ParseLinkMode(modeText)
	if err != nil {
		return nil, fmt.Errorf("configuration input %s: %w", EnvLinkMode, err)
	}
	cfg.LinkMode = mode

	mppText, ok := l.get(EnvRockchipMPP)
	if !ok && l.defaults != nil && l.defaults.RockchipMPP != nil {
		cfg.RockchipMPP = *l.defaults.RockchipMPP
	} else {
		cfg.RockchipMPP = parseBool(mppText)
	}

	docsText, _ := l.get(EnvDocsBuild)
	cfg.DocsBuild = docsText != ""

	prefix, ok := l.get(EnvCrossToolchainPrefix)
	if !ok && l.defaults != nil {
		prefix = l.defaults.CrossToolchainPrefix
	}
	cfg.CrossToolchainPrefix = prefix

	cfg.CMakeToolchainFile, _ = l.get(EnvCMakeToolchainFile(cfg.Target))
	cfg.LibsDir, _ = l.get(EnvLibsDir)
	cfg.IncludeDir, _ = l.get(EnvIncludeDir)
	cfg.PrebuiltBindingPath, _ = l.get(EnvBindingPath)
	cfg.PkgConfigPath, _ = l.get(EnvPkgConfigPath)
	cfg.PkgConfigPathForTarget, cfg.HasPkgConfigPathForTarget = l.get(EnvPkgConfigPathForTarget)

	if l.logger != nil && cfg.DocsBuild {
		l.logger.Printf("documentation build indicated by %s", EnvDocsBuild)
	}

	return cfg, nil
}

// parseBool parses an optional boolean toggle. Unparseable text disables
// the toggle rather than failing the build.
func parseBool(text string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	return v
}

// removeVerbatim strips the Windows verbatim prefix; clang and the native
// build tools do not accept \\?\ paths.
func removeVerbatim(path string) string {
	return strings.TrimPrefix(path, `\\?\`)
}
