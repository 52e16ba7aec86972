// pkg/bindgen/bindgen_test.go
package bindgen

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-social/ffbuild/pkg/linker"
)

const sampleHeader = `
/* public API */
#define AV_NUM_DATA_POINTERS 8
#define AV_VERSION "60.3.100"
#define FP_NAN 0

enum AVMediaType {
    AVMEDIA_TYPE_UNKNOWN = -1,
    AVMEDIA_TYPE_VIDEO,
};

typedef struct AVFrame {
    int width;
    int height;
} AVFrame;

AVFrame *av_frame_alloc(void);
void av_frame_free(AVFrame **frame);
int av_frame_copy(AVFrame *dst, const AVFrame *src);
int av_dict_parse_string(void *pm, const char *str, ...);
`

func writeHeader(t *testing.T, dir, rel, src string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestScanHeader(t *testing.T) {
	decls := ScanHeader([]byte(sampleHeader))

	assert.Equal(t, []Macro{
		{Name: "AV_NUM_DATA_POINTERS", Value: "8"},
		{Name: "AV_VERSION", Value: `"60.3.100"`},
		{Name: "FP_NAN", Value: "0"},
	}, decls.Macros)

	require.Len(t, decls.Enums, 1)
	assert.Equal(t, "AVMediaType", decls.Enums[0].Tag)
	assert.Equal(t, []string{"AVMEDIA_TYPE_UNKNOWN", "AVMEDIA_TYPE_VIDEO"},
		decls.Enums[0].Enumerators)

	assert.Equal(t, []string{"AVFrame"}, decls.Typedefs)

	names := make([]string, 0, len(decls.Functions))
	for _, fn := range decls.Functions {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"av_frame_alloc", "av_frame_free", "av_frame_copy"}, names)
	assert.Contains(t, decls.SkippedFuncs, "av_dict_parse_string")
}

func TestScanMacroParens(t *testing.T) {
	decls := ScanHeader([]byte("#define A (8)\n#define B (8\n#define C 8)\n"))

	// Only a balanced parenthesis pair is stripped; unbalanced values
	// are not literals.
	assert.Equal(t, []Macro{{Name: "A", Value: "8"}}, decls.Macros)
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "AvFrameAlloc", exportName("av_frame_alloc"))
	assert.Equal(t, "AvcodecOpen2", exportName("avcodec_open2"))
	assert.Equal(t, "Av", exportName("av_"))
}

func TestMapCType(t *testing.T) {
	known := map[string]bool{"AVFrame": true}

	for _, tc := range []struct {
		ctype string
		want  string
	}{
		{"int", "C.int"},
		{"unsigned int", "C.uint"},
		{"const char *", "*C.char"},
		{"AVFrame *", "*C.AVFrame"},
		{"struct AVCodec *", "*C.struct_AVCodec"},
		{"enum AVMediaType", "C.enum_AVMediaType"},
		{"void *", "unsafe.Pointer"},
		{"void * *", "*unsafe.Pointer"},
	} {
		got, _, ok := mapCType(tc.ctype, known)
		require.True(t, ok, tc.ctype)
		assert.Equal(t, tc.want, got, tc.ctype)
	}

	_, _, ok := mapCType("SomeUnknownType", known)
	assert.False(t, ok)
}

func TestGenerate(t *testing.T) {
	includeDir := t.TempDir()
	writeHeader(t, includeDir, "libavutil/frame.h", sampleHeader)

	out := filepath.Join(t.TempDir(), "ffi.go")
	gen := NewGenerator(Options{
		PackageName: "ffi",
		Headers:     []string{"libavutil/frame.h", "libavutil/missing.h"},
		Directives: []linker.Directive{
			{Flags: "-L/opt/ffmpeg/lib -lavutil"},
		},
	})
	require.NoError(t, gen.Generate(includeDir, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "package ffi")
	assert.Contains(t, text, "#cgo LDFLAGS: -L/opt/ffmpeg/lib -lavutil")
	assert.Contains(t, text, "#cgo CFLAGS: -I"+includeDir)
	assert.Contains(t, text, "#include <libavutil/frame.h>")
	assert.NotContains(t, text, "missing.h")

	assert.Contains(t, text, "AV_NUM_DATA_POINTERS = 8")
	assert.Contains(t, text, "AVMEDIA_TYPE_VIDEO = C.AVMEDIA_TYPE_VIDEO")
	assert.Contains(t, text, "type AVFrame = C.AVFrame")
	assert.Contains(t, text, "func AvFrameAlloc() *C.AVFrame {")
	assert.Contains(t, text, "return C.av_frame_alloc()")
	assert.Contains(t, text, "func AvFrameCopy(dst *C.AVFrame, src *C.AVFrame) C.int {")

	// filtered macro stays out while same-named user macros survive
	assert.NotContains(t, text, "FP_NAN")
	assert.NotContains(t, text, "av_dict_parse_string")
}

func TestGenerateMacroFilterScope(t *testing.T) {
	includeDir := t.TempDir()
	writeHeader(t, includeDir, "libavutil/a.h", "#define FP_NAN 0\n#define AV_OK 1\n")

	out := filepath.Join(t.TempDir(), "ffi.go")
	gen := NewGenerator(Options{PackageName: "ffi", Headers: []string{"libavutil/a.h"}})
	require.NoError(t, gen.Generate(includeDir, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "FP_NAN")
	assert.Contains(t, string(data), "AV_OK = 1")
}

func TestGenerateDeduplicatesAcrossHeaders(t *testing.T) {
	includeDir := t.TempDir()
	writeHeader(t, includeDir, "libavutil/a.h", "#define AV_SHARED 1\nint av_shared_fn(int x);\n")
	writeHeader(t, includeDir, "libavutil/b.h", "#define AV_SHARED 2\nint av_shared_fn(int x);\n")

	out := filepath.Join(t.TempDir(), "ffi.go")
	gen := NewGenerator(Options{
		PackageName: "ffi",
		Headers:     []string{"libavutil/a.h", "libavutil/b.h"},
	})
	require.NoError(t, gen.Generate(includeDir, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)

	assert.Equal(t, 1, strings.Count(text, "AV_SHARED ="))
	assert.Contains(t, text, "AV_SHARED = 1")
	assert.Equal(t, 1, strings.Count(text, "func AvSharedFn("))
}

func TestGenerateIdempotent(t *testing.T) {
	includeDir := t.TempDir()
	writeHeader(t, includeDir, "libavutil/frame.h", sampleHeader)

	gen := NewGenerator(Options{
		PackageName: "ffi",
		Headers:     []string{"libavutil/frame.h"},
		Logger:      log.New(os.Stderr, "", 0),
	})

	first := filepath.Join(t.TempDir(), "ffi.go")
	second := filepath.Join(t.TempDir(), "ffi.go")
	require.NoError(t, gen.Generate(includeDir, first))
	require.NoError(t, gen.Generate(includeDir, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateMissingIncludeDir(t *testing.T) {
	gen := NewGenerator(Options{PackageName: "ffi"})
	err := gen.Generate(filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "ffi.go"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include directory")
}

func TestCopyPrebuilt(t *testing.T) {
	src := filepath.Join(t.TempDir(), "prebuilt.go")
	require.NoError(t, os.WriteFile(src, []byte("package ffi\n"), 0o644))

	dst := filepath.Join(t.TempDir(), "nested", "ffi.go")
	require.NoError(t, CopyPrebuilt(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "package ffi\n", string(data))
}
