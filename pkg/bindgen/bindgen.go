// pkg/bindgen/bindgen.go
package bindgen

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/anti-social/ffbuild/pkg/linker"
)

// Options configures a binding artifact generation run.
type Options struct {
	// PackageName is the Go package declared by the artifact.
	PackageName string
	// Headers are include-dir-relative header paths, in emission order.
	// Defaults to DefaultHeaderWhitelist.
	Headers []string
	// MacroFilter names macros suppressed from constant emission.
	// Defaults to DefaultMacroFilter.
	MacroFilter map[string]bool
	// BlocklistTypes names typedefs never aliased. Defaults to
	// DefaultBlocklistTypes.
	BlocklistTypes map[string]bool
	// Directives are the cgo linker directives the artifact embeds.
	Directives []linker.Directive
	// ExtraIncludeDirs are added as -I flags alongside the primary
	// include directory.
	ExtraIncludeDirs []string

	Logger *log.Logger
}

// Generator produces the cgo binding artifact from installed headers.
type Generator struct {
	opts Options
	log  *log.Logger
}

func NewGenerator(opts Options) *Generator {
	if opts.PackageName == "" {
		opts.PackageName = "ffi"
	}
	if opts.Headers == nil {
		opts.Headers = DefaultHeaderWhitelist
	}
	if opts.MacroFilter == nil {
		opts.MacroFilter = DefaultMacroFilter
	}
	if opts.BlocklistTypes == nil {
		opts.BlocklistTypes = DefaultBlocklistTypes
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Generator{opts: opts, log: logger}
}

// Generate scans the whitelisted headers under includeDir and writes
// the artifact to outPath. A missing include directory is an error;
// individual missing headers are skipped with a diagnostic.
func (g *Generator) Generate(includeDir, outPath string) error {
	info, err := os.Stat(includeDir)
	if err != nil {
		return fmt.Errorf("include directory %s: %w", includeDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("include directory %s: not a directory", includeDir)
	}

	type scanned struct {
		header string
		decls  *Declarations
	}
	var results []scanned
	known := map[string]bool{}
	for _, header := range g.opts.Headers {
		src, err := os.ReadFile(filepath.Join(includeDir, filepath.FromSlash(header)))
		if os.IsNotExist(err) {
			g.log.Printf("skipping %s: not installed", header)
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", header, err)
		}
		decls := ScanHeader(src)
		for _, name := range decls.Typedefs {
			known[name] = true
		}
		for _, name := range decls.SkippedFuncs {
			g.log.Printf("%s: skipping %s: unsupported prototype", header, name)
		}
		results = append(results, scanned{header: header, decls: decls})
	}

	e := newEmitter(known, g.opts.MacroFilter, g.opts.BlocklistTypes)
	for _, r := range results {
		e.emitHeader(r.header, r.decls)
	}

	var out strings.Builder
	out.WriteString("// Code generated by ffbuild. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n\n", g.opts.PackageName)
	out.WriteString("/*\n")
	for _, d := range g.opts.Directives {
		fmt.Fprintf(&out, "%s\n", d.String())
	}
	fmt.Fprintf(&out, "#cgo CFLAGS: %s\n", strings.Join(g.includeFlags(includeDir), " "))
	for _, r := range results {
		fmt.Fprintf(&out, "#include <%s>\n", r.header)
	}
	out.WriteString("*/\n")
	out.WriteString("import \"C\"\n")
	if e.needsUnsafe {
		out.WriteString("\nimport \"unsafe\"\n")
	}
	out.WriteString("\n")
	out.WriteString(e.body.String())

	return writeAtomic(outPath, []byte(out.String()))
}

func (g *Generator) includeFlags(includeDir string) []string {
	flags := []string{"-I" + includeDir}
	for _, dir := range g.opts.ExtraIncludeDirs {
		if dir == includeDir {
			continue
		}
		flags = append(flags, "-I"+dir)
	}
	return flags
}

// CopyPrebuilt installs a previously generated artifact byte for byte.
func CopyPrebuilt(from, to string) error {
	data, err := os.ReadFile(from)
	if err != nil {
		return fmt.Errorf("reading prebuilt binding %s: %w", from, err)
	}
	return writeAtomic(to, data)
}

// writeAtomic publishes the artifact through a rename so a failed run
// never leaves a truncated file behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
