// pkg/bindgen/headers.go
package bindgen

// DefaultHeaderWhitelist is the curated set of public FFmpeg headers the
// generator binds, in emission order. Headers absent from the installed
// include tree are skipped with a diagnostic; platform-specific hwaccel
// headers are deliberately not listed.
var DefaultHeaderWhitelist = []string{
	"libavcodec/ac3_parser.h",
	"libavcodec/adts_parser.h",
	"libavcodec/avcodec.h",
	"libavcodec/avdct.h",
	"libavcodec/avfft.h",
	"libavcodec/bsf.h",
	"libavcodec/codec.h",
	"libavcodec/codec_desc.h",
	"libavcodec/codec_id.h",
	"libavcodec/codec_par.h",
	"libavcodec/defs.h",
	"libavcodec/dirac.h",
	"libavcodec/dv_profile.h",
	"libavcodec/jni.h",
	"libavcodec/mediacodec.h",
	"libavcodec/packet.h",
	"libavcodec/version.h",
	"libavcodec/version_major.h",
	"libavcodec/vorbis_parser.h",
	"libavdevice/avdevice.h",
	"libavdevice/version.h",
	"libavdevice/version_major.h",
	"libavfilter/avfilter.h",
	"libavfilter/buffersink.h",
	"libavfilter/buffersrc.h",
	"libavfilter/version.h",
	"libavfilter/version_major.h",
	"libavformat/avformat.h",
	"libavformat/avio.h",
	"libavformat/version.h",
	"libavformat/version_major.h",
	"libavutil/adler32.h",
	"libavutil/aes.h",
	"libavutil/aes_ctr.h",
	"libavutil/ambient_viewing_environment.h",
	"libavutil/attributes.h",
	"libavutil/audio_fifo.h",
	"libavutil/avassert.h",
	"libavutil/avconfig.h",
	"libavutil/avstring.h",
	"libavutil/avutil.h",
	"libavutil/base64.h",
	"libavutil/blowfish.h",
	"libavutil/bprint.h",
	"libavutil/bswap.h",
	"libavutil/buffer.h",
	"libavutil/camellia.h",
	"libavutil/cast5.h",
	"libavutil/channel_layout.h",
	"libavutil/common.h",
	"libavutil/cpu.h",
	"libavutil/crc.h",
	"libavutil/csp.h",
	"libavutil/des.h",
	"libavutil/detection_bbox.h",
	"libavutil/dict.h",
	"libavutil/display.h",
	"libavutil/dovi_meta.h",
	"libavutil/downmix_info.h",
	"libavutil/encryption_info.h",
	"libavutil/error.h",
	"libavutil/eval.h",
	"libavutil/executor.h",
	"libavutil/ffversion.h",
	"libavutil/fifo.h",
	"libavutil/file.h",
	"libavutil/film_grain_params.h",
	"libavutil/frame.h",
	"libavutil/hash.h",
	"libavutil/hdr_dynamic_metadata.h",
	"libavutil/hdr_dynamic_vivid_metadata.h",
	"libavutil/hmac.h",
	"libavutil/hwcontext.h",
	"libavutil/imgutils.h",
	"libavutil/intfloat.h",
	"libavutil/intreadwrite.h",
	"libavutil/lfg.h",
	"libavutil/log.h",
	"libavutil/lzo.h",
	"libavutil/macros.h",
	"libavutil/mastering_display_metadata.h",
	"libavutil/mathematics.h",
	"libavutil/md5.h",
	"libavutil/mem.h",
	"libavutil/motion_vector.h",
	"libavutil/murmur3.h",
	"libavutil/opt.h",
	"libavutil/parseutils.h",
	"libavutil/pixdesc.h",
	"libavutil/pixelutils.h",
	"libavutil/pixfmt.h",
	"libavutil/random_seed.h",
	"libavutil/rational.h",
	"libavutil/rc4.h",
	"libavutil/replaygain.h",
	"libavutil/ripemd.h",
	"libavutil/samplefmt.h",
	"libavutil/sha.h",
	"libavutil/sha512.h",
	"libavutil/spherical.h",
	"libavutil/stereo3d.h",
	"libavutil/tea.h",
	"libavutil/threadmessage.h",
	"libavutil/time.h",
	"libavutil/timecode.h",
	"libavutil/timestamp.h",
	"libavutil/tree.h",
	"libavutil/twofish.h",
	"libavutil/tx.h",
	"libavutil/uuid.h",
	"libavutil/version.h",
	"libavutil/video_enc_params.h",
	"libavutil/video_hint.h",
	"libavutil/xtea.h",
	"libswresample/swresample.h",
	"libswresample/version.h",
	"libswresample/version_major.h",
	"libswscale/swscale.h",
	"libswscale/version.h",
	"libswscale/version_major.h",
}

// DefaultMacroFilter suppresses the floating-point classification macros
// from math.h; their definitions are only resolvable ambiguously and
// known to break binding parsers.
var DefaultMacroFilter = map[string]bool{
	"FP_NAN":       true,
	"FP_INFINITE":  true,
	"FP_ZERO":      true,
	"FP_SUBNORMAL": true,
	"FP_NORMAL":    true,
}

// DefaultBlocklistTypes are typedefs never aliased into the artifact;
// the mingw long-double shim type is unsupported on that toolchain
// family.
var DefaultBlocklistTypes = map[string]bool{
	"__mingw_ldbl_type_t": true,
}
