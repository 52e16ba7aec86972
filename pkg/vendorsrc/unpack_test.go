package vendorsrc

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// writeArchive builds a tar.xz with the given name/content pairs.
func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "src.tar.xz")
	f, err := os.Create(path)
	require.NoError(t, err)

	xzWriter, err := xz.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(xzWriter)

	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, xzWriter.Close())
	require.NoError(t, f.Close())
	return path
}

func TestUnpack(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"./ffmpeg/configure":        "#!/bin/sh\n",
		"ffmpeg/libavutil/avutil.h": "// avutil\n",
	})

	dest := filepath.Join(t.TempDir(), "third_party")
	require.NoError(t, NewUnpacker(nil).Unpack(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "ffmpeg", "configure"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(data))

	_, err = os.Stat(filepath.Join(dest, "ffmpeg", "libavutil", "avutil.h"))
	assert.NoError(t, err)
}

func TestUnpackRejectsTraversal(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"../escape.sh": "#!/bin/sh\n",
	})

	err := NewUnpacker(nil).Unpack(archive, filepath.Join(t.TempDir(), "third_party"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")
}

func TestEnsureSourceSkipsExisting(t *testing.T) {
	dest := t.TempDir()
	marker := filepath.Join(dest, "already-here")
	require.NoError(t, os.WriteFile(marker, nil, 0o644))

	// A bogus archive path proves the unpack never runs.
	require.NoError(t, NewUnpacker(nil).EnsureSource("/nonexistent.tar.xz", dest))

	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestEnsureSourceUnpacksWhenMissing(t *testing.T) {
	archive := writeArchive(t, map[string]string{"mpp/CMakeLists.txt": "project(mpp)\n"})

	dest := filepath.Join(t.TempDir(), "third_party")
	require.NoError(t, NewUnpacker(nil).EnsureSource(archive, dest))

	_, err := os.Stat(filepath.Join(dest, "mpp", "CMakeLists.txt"))
	assert.NoError(t, err)
}
