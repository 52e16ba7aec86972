// pkg/toolchain/cross.go
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/anti-social/ffbuild/pkg/buildenv"
)

// CrossFileName is the meson toolchain descriptor written under the
// output directory for cross builds.
const CrossFileName = "meson_cross.txt"

// Descriptor names the cross toolchain binaries and target machine
// properties consumed by the native build systems.
type Descriptor struct {
	// Prefix is the cross toolchain binary prefix, e.g. "aarch64-linux-gnu-".
	Prefix string
	// CPU is the primary library's expected CPU name for the target.
	CPU string
	// Arch is the raw target architecture.
	Arch string
	// OS is the target operating system.
	OS string
	// CrossFilePath is where the meson descriptor was written.
	CrossFilePath string
}

// CPUName translates a target architecture into the CPU name FFmpeg's
// configure script expects. aarch64 maps to its family name; everything
// else passes through unchanged.
func CPUName(arch string) string {
	if arch == "aarch64" {
		return "armv8-a"
	}
	return arch
}

// Generate writes the meson cross file under the output directory and
// returns the descriptor. It returns nil when no cross toolchain prefix
// is configured, which makes the build a native one.
func Generate(cfg *buildenv.BuildConfiguration) (*Descriptor, error) {
	if cfg.CrossToolchainPrefix == "" {
		return nil, nil
	}

	d := &Descriptor{
		Prefix: cfg.CrossToolchainPrefix,
		CPU:    CPUName(cfg.TargetArch()),
		Arch:   cfg.TargetArch(),
		OS:     cfg.TargetOS(),
	}

	path := filepath.Join(cfg.OutDir, CrossFileName)
	if err := os.WriteFile(path, []byte(d.mesonCrossFile()), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	d.CrossFilePath = path

	return d, nil
}

// mesonCrossFile renders the toolchain descriptor consumed by meson.
func (d *Descriptor) mesonCrossFile() string {
	return fmt.Sprintf(`[binaries]
c = '%[1]sgcc'
cpp = '%[1]sg++'
ar = '%[1]sar'
strip = '%[1]sstrip'

[host_machine]
system = '%[2]s'
cpu_family = '%[3]s'
cpu = '%[3]s'
endian = 'little'

[properties]
needs_exe_wrapper = true
`, d.Prefix, d.OS, d.Arch)
}

// ConfigureFlags returns the configure-style cross flags for the primary
// library's own configure script.
func (d *Descriptor) ConfigureFlags() []string {
	return []string{
		"--enable-cross-compile",
		"--cc=" + d.Prefix + "gcc",
		"--cxx=" + d.Prefix + "g++",
		"--ld=" + d.Prefix + "g++",
		"--ar=" + d.Prefix + "ar",
		"--strip=" + d.Prefix + "strip",
		"--cpu=" + d.CPU,
		"--target-os=" + d.OS,
		"--arch=" + d.Arch,
	}
}
