// Package vendorsrc materializes the vendored source archives the
// build consumes. Sources ship as tar.xz archives next to the module
// and are unpacked once into third_party/ before any native build runs.
package vendorsrc

import (
	"archive/tar"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Unpacker extracts tar.xz source archives into a destination tree.
type Unpacker struct {
	log *log.Logger
}

func NewUnpacker(logger *log.Logger) *Unpacker {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Unpacker{log: logger}
}

// EnsureSource unpacks archivePath into destDir unless destDir already
// exists, so repeated builds reuse the extracted tree.
func (u *Unpacker) EnsureSource(archivePath, destDir string) error {
	if _, err := os.Stat(destDir); err == nil {
		u.log.Printf("source %s already unpacked, skipping", destDir)
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return u.Unpack(archivePath, destDir)
}

// Unpack streams the tar.xz archive into destDir. Entry paths escaping
// destDir are rejected.
func (u *Unpacker) Unpack(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening source archive: %w", err)
	}
	defer f.Close()

	xzReader, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating xz reader for %s: %w", archivePath, err)
	}
	tarReader := tar.NewReader(xzReader)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}

	fileCount := 0
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		cleanPath := strings.TrimPrefix(header.Name, "./")
		if cleanPath == "" || cleanPath == "." {
			continue
		}
		targetPath, err := securePath(destDir, cleanPath)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", targetPath, err)
			}

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
				return fmt.Errorf("creating parent directory for symlink: %w", err)
			}
			os.Remove(targetPath)
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return fmt.Errorf("creating symlink %s: %w", targetPath, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
				return fmt.Errorf("creating parent directory for %s: %w", targetPath, err)
			}
			out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0o777)
			if err != nil {
				return fmt.Errorf("creating file %s: %w", targetPath, err)
			}
			if _, err := io.Copy(out, tarReader); err != nil {
				out.Close()
				return fmt.Errorf("extracting %s: %w", cleanPath, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", targetPath, err)
			}
			fileCount++

		default:
			u.log.Printf("skipping tar entry %s (type %d)", cleanPath, header.Typeflag)
		}
	}

	u.log.Printf("unpacked %d files from %s into %s", fileCount, filepath.Base(archivePath), destDir)
	return nil
}

// securePath joins name under destDir and rejects traversal outside it.
func securePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes destination directory", name)
	}
	return target, nil
}
