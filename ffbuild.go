// ffbuild.go
package ffbuild

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/anti-social/ffbuild/pkg/bindgen"
	"github.com/anti-social/ffbuild/pkg/buildenv"
	"github.com/anti-social/ffbuild/pkg/ffmpeg"
	"github.com/anti-social/ffbuild/pkg/linker"
	"github.com/anti-social/ffbuild/pkg/nativebuild"
	"github.com/anti-social/ffbuild/pkg/pkgconfig"
	"github.com/anti-social/ffbuild/pkg/rockchip"
	"github.com/anti-social/ffbuild/pkg/toolchain"
	"github.com/anti-social/ffbuild/pkg/vendorsrc"
)

// Re-export the types external tools work with.
type (
	BuildConfiguration = buildenv.BuildConfiguration
	LinkMode           = buildenv.LinkMode
	Directive          = linker.Directive
	LinkResult         = linker.Result
)

// Re-export link mode constants.
const (
	LinkModeUnset   = buildenv.LinkModeUnset
	LinkModeStatic  = buildenv.LinkModeStatic
	LinkModeDynamic = buildenv.LinkModeDynamic
)

// StampFileName is the configuration-input stamp written into OUT_DIR
// after a successful build.
const StampFileName = "ffbuild.env.d"

// DefaultsFileName is the optional yaml file consulted for input
// defaults, looked up in the working directory.
const DefaultsFileName = "ffbuild.yaml"

// Config carries the knobs of a build run.
type Config struct {
	// Logger receives progress and diagnostics. Defaults to stderr.
	Logger *log.Logger
	// Debug enables verbose diagnostics.
	Debug bool
	// Lookup resolves configuration inputs. Defaults to the process
	// environment.
	Lookup buildenv.LookupFunc
	// DefaultsFile overrides the yaml defaults path.
	DefaultsFile string
	// GOOS overrides the linking-strategy platform. Defaults to the
	// runtime platform.
	GOOS string
	// Runner overrides how native build tools are spawned. Used by tests.
	Runner nativebuild.Runner
	// PkgConfigExec overrides how pkg-config is invoked. Used by tests.
	PkgConfigExec pkgconfig.ExecFunc
	// BindingPackage is the package name declared by the generated
	// artifact. Defaults to "ffi".
	BindingPackage string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Logger: log.New(os.Stderr, "", log.LstdFlags),
		Lookup: buildenv.OSLookup,
		GOOS:   runtime.GOOS,
	}
}

// Pipeline is the build orchestrator: it loads the configuration, runs
// the native builds, resolves linkage and generates the binding
// artifact.
type Pipeline struct {
	config *Config
	logger *log.Logger
	runner nativebuild.Runner
	env    nativebuild.Environment
}

// NewPipeline creates a build pipeline.
func NewPipeline(config *Config) *Pipeline {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	runner := config.Runner
	if runner == nil {
		runner = nativebuild.NewExecRunner(logger)
	}
	return &Pipeline{
		config: config,
		logger: logger,
		runner: runner,
		env:    nativebuild.InheritEnvironment(),
	}
}

// LoadConfiguration reads the inputs and yaml defaults. The returned
// loader retains the invalidation list for stamping.
func (p *Pipeline) LoadConfiguration() (*buildenv.BuildConfiguration, *buildenv.Loader, error) {
	defaultsPath := p.config.DefaultsFile
	if defaultsPath == "" {
		defaultsPath = DefaultsFileName
	}
	defaults, err := buildenv.LoadFileConfig(defaultsPath)
	if err != nil {
		return nil, nil, &Error{Op: "loading", Stage: "defaults file", Err: err}
	}

	opts := []buildenv.Option{buildenv.WithLogger(p.logger)}
	if p.config.Lookup != nil {
		opts = append(opts, buildenv.WithLookup(p.config.Lookup))
	}
	if defaults != nil {
		opts = append(opts, buildenv.WithDefaults(defaults))
	}
	loader := buildenv.NewLoader(opts...)

	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, &Error{Op: "loading", Stage: "configuration", Err: err}
	}
	return cfg, loader, nil
}

// Run executes the whole build: vendored sources, native builds,
// linkage resolution, binding generation and the invalidation stamp.
func (p *Pipeline) Run(ctx context.Context) error {
	cfg, loader, err := p.LoadConfiguration()
	if err != nil {
		return err
	}

	if err := p.ensureSources(cfg); err != nil {
		return &Error{Op: "unpacking", Stage: "vendored sources", Err: err}
	}

	cross, err := toolchain.Generate(cfg)
	if err != nil {
		return &Error{Op: "generating", Stage: "cross descriptor", Err: err}
	}

	var accel nativebuild.PkgConfigChain
	if cfg.RockchipMPP {
		result, err := rockchip.NewBuilder(p.runner, p.env, p.logger).Build(ctx, cfg, cross)
		if err != nil {
			return &Error{Op: "building", Stage: "rockchip", Err: err}
		}
		accel = accel.Append(result.PkgConfigDirs()...)
	}

	ffResult, err := ffmpeg.NewBuilder(p.runner, p.env, p.logger).Build(ctx, cfg, cross, accel)
	if err != nil {
		return &Error{Op: "building", Stage: "ffmpeg", Err: err}
	}

	linkResult, err := p.Link(ctx, cfg, ffResult.Chain)
	if err != nil {
		return err
	}

	if err := p.GenerateBindings(cfg, ffResult.Install.IncludeDir(), linkResult); err != nil {
		return err
	}

	stamp := filepath.Join(cfg.OutDir, StampFileName)
	if err := loader.Inputs().WriteStamp(stamp); err != nil {
		return &Error{Op: "writing", Stage: "invalidation stamp", Err: err}
	}

	p.logger.Printf("build finished, binding artifact at %s", p.bindingPath(cfg))
	return nil
}

// Link resolves the component libraries into linkage directives using
// the platform strategy.
func (p *Pipeline) Link(ctx context.Context, cfg *buildenv.BuildConfiguration, chain nativebuild.PkgConfigChain) (*linker.Result, error) {
	env := p.env
	if !chain.Empty() {
		env = ffmpeg.InjectPkgConfigPath(env, cfg, chain)
	}
	goos := p.config.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	prober := pkgconfig.NewProber(env)
	if p.config.PkgConfigExec != nil {
		prober = pkgconfig.NewProberWithExec(env, p.config.PkgConfigExec)
	}
	strategy, err := linker.Select(cfg, prober, goos)
	if err != nil {
		return nil, &Error{Op: "selecting", Stage: "linker", Err: err}
	}
	result, err := strategy.Link(ctx)
	if err != nil {
		return nil, &Error{Op: "linking", Stage: "component libraries", Err: err}
	}
	return result, nil
}

// GenerateBindings writes the binding artifact, either by generating it
// from headers or by installing a prebuilt copy.
func (p *Pipeline) GenerateBindings(cfg *buildenv.BuildConfiguration, includeDir string, link *linker.Result) error {
	outPath := p.bindingPath(cfg)

	if cfg.PrebuiltBindingPath != "" {
		p.logger.Printf("installing prebuilt binding from %s", cfg.PrebuiltBindingPath)
		if err := bindgen.CopyPrebuilt(cfg.PrebuiltBindingPath, outPath); err != nil {
			return &Error{Op: "copying", Stage: "prebuilt binding", Err: err}
		}
		return nil
	}

	if cfg.IncludeDir != "" {
		includeDir = cfg.IncludeDir
	}
	gen := bindgen.NewGenerator(bindgen.Options{
		PackageName:      p.bindingPackage(),
		Directives:       link.Directives,
		ExtraIncludeDirs: link.IncludeDirs,
		Logger:           p.logger,
	})
	if err := gen.Generate(includeDir, outPath); err != nil {
		return &Error{Op: "generating", Stage: "bindings", Err: fmt.Errorf("%w: %v", ErrGenerationFailed, err)}
	}
	return nil
}

// ensureSources unpacks any vendored source archive whose tree is not
// yet extracted. Trees with no archive are expected to exist already.
func (p *Pipeline) ensureSources(cfg *buildenv.BuildConfiguration) error {
	unpacker := vendorsrc.NewUnpacker(p.logger)

	dirs := []string{ffmpeg.SourceDir}
	if cfg.RockchipMPP {
		dirs = append(dirs, rockchip.LibRGASourceDir, rockchip.MPPSourceDir)
	}
	for _, dir := range dirs {
		archive := dir + ".tar.xz"
		if _, err := os.Stat(archive); os.IsNotExist(err) {
			continue
		}
		if err := unpacker.EnsureSource(archive, dir); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) bindingPath(cfg *buildenv.BuildConfiguration) string {
	return filepath.Join(cfg.OutDir, "binding.go")
}

func (p *Pipeline) bindingPackage() string {
	if p.config.BindingPackage != "" {
		return p.config.BindingPackage
	}
	return "ffi"
}
