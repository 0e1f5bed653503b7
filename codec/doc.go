// Package codec provides the pluggable block-compression codec layer: a
// uniform contract for compressing and decompressing whole data blocks, a
// registry that builds validated codec instances from configured names and
// numeric arguments, and a hardware-assisted Zstandard variant with
// transparent software fallback.
//
// # Overview
//
// A block codec transforms one complete input buffer into one complete output
// buffer and back. There is no streaming state: callers hand the codec a
// whole block and a destination buffer sized by the codec's own bound.
//
//	codec, err := codec.Construct("ZSTD", 19)
//	...
//	dst := make([]byte, codec.MaxCompressedSize(len(block)))
//	n, err := codec.Compress(block, dst)
//	...
//	out := make([]byte, originalSize) // stored out-of-band by the caller
//	err = codec.Decompress(dst[:n], out)
//
// Every compressed block is tagged with the codec's one-byte wire method so
// readers can dispatch without re-parsing configuration:
//
//	codec, err := codec.ForMethod(method)
//
// # Supported Codecs
//
// **NONE** (format.MethodNone): stores blocks verbatim; keeps the sizing and
// tagging contract uniform when compression is disabled.
//
// **LZ4** (format.MethodLZ4): LZ4 block format; fastest decompression.
//
// **LZ4HC** (format.MethodLZ4): high-compression LZ4 with level 1..9; emits
// the same block format as LZ4, so readers dispatch it through MethodLZ4.
//
// **ZSTD** (format.MethodZSTD): Zstandard with level 0..22 and optional
// long-range matching over a configured window.
//
// **QATZSTD** (emits format.MethodZSTD): Zstandard offloaded to a hardware
// accelerator with level 1..12. The first compress call initializes the
// device; when it is unavailable the instance degrades permanently to
// software compression, logged once at warning level and never surfaced as
// an error.
//
// **S2** (format.MethodS2): S2 with mode 1 (default), 2 (better), or
// 3 (best).
//
// # Validation
//
// Constructors validate configuration before an instance exists: argument
// counts first (errs.ErrMalformedConfiguration), then value ranges against
// engine-reported bounds (errs.ErrParameterOutOfRange,
// errs.ErrUnsupportedParameter). A constructed codec can therefore never
// carry an invalid configuration.
//
// # Concurrency
//
// NONE, LZ4, LZ4HC, ZSTD, and S2 instances are safe for concurrent use with
// no external locking. QATZSTD serializes compression internally because it
// owns a single hardware session; create one instance per worker goroutine
// for parallel compression.
package codec
