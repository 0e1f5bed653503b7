// Package blockcodec provides pluggable block compression codecs with a
// uniform caller-owned-buffer contract.
//
// Each codec compresses and decompresses self-contained blocks: no framing,
// no streaming state, no hidden allocation. Callers size the destination with
// MaxCompressedSize, compress into it, and record the returned length
// themselves. Every compressed block carries a one-byte method tag in the
// surrounding container format, and readers dispatch on that byte to obtain
// a decoder.
//
// # Core Features
//
//   - Uniform block contract: compress into caller buffers, exact-size decompression
//   - Name-based construction from numeric configuration arguments ("ZSTD(19)")
//   - Wire method byte dispatch for readers (NONE, LZ4, ZSTD, S2)
//   - Engine-validated parameters: levels and window sizes checked at construction
//   - Hardware-assisted Zstandard with transparent software fallback
//   - Configuration fingerprints (64-bit xxHash64) for schema identity
//
// # Basic Usage
//
// Compressing and decompressing a block:
//
//	import "github.com/20orange/blockcodec"
//
//	// Construct a codec from its configuration
//	c, _ := blockcodec.Construct("ZSTD", 19)
//	defer c.Close()
//
//	// Compress into a caller-sized buffer
//	dst := make([]byte, c.MaxCompressedSize(len(block)))
//	n, _ := c.Compress(block, dst)
//	compressed := dst[:n]
//
//	// Store c.MethodByte() and len(block) alongside compressed, then later:
//	reader, _ := blockcodec.ForMethod(c.MethodByte())
//	out := make([]byte, len(block))
//	_ = reader.Decompress(compressed, out)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec
// package, simplifying the most common use cases. For advanced usage and
// fine-grained control (custom registries, codec-specific constructors), use
// the codec package directly.
package blockcodec

import (
	"log/slog"

	"github.com/20orange/blockcodec/codec"
	"github.com/20orange/blockcodec/format"
)

// Construct builds a codec from its registered name and ordered numeric
// configuration arguments, validated against engine-reported bounds.
//
// Parameters:
//   - name: The registered codec name ("NONE", "LZ4", "LZ4HC", "ZSTD", "QATZSTD", "S2")
//   - args: Ordered numeric arguments; omitted arguments take the codec's defaults
//
// Returns:
//   - codec.Codec: The constructed codec.
//   - error: errs.ErrUnknownCodec for unregistered names, errs.ErrMalformedConfiguration
//     for bad argument counts, errs.ErrParameterOutOfRange or errs.ErrUnsupportedParameter
//     for bad argument values.
//
// Example:
//
//	c, err := blockcodec.Construct("ZSTD", 19)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
func Construct(name string, args ...uint64) (codec.Codec, error) {
	return codec.Construct(name, args...)
}

// MustConstruct is like Construct but panics on error. Use it for fixed
// configurations known to be valid, typically in package initialization.
//
// Example:
//
//	var blockCompressor = blockcodec.MustConstruct("LZ4")
func MustConstruct(name string, args ...uint64) codec.Codec {
	c, err := codec.Construct(name, args...)
	if err != nil {
		panic(err)
	}

	return c
}

// ForMethod builds a default-configured codec for a wire method byte.
//
// Readers use it to dispatch a tagged compressed block to its decompressor.
// Construction parameters only shape the compression side, so the default
// instance decodes any block carrying the byte, including blocks produced by
// variants that share it (LZ4HC under the LZ4 byte, QATZSTD under the ZSTD
// byte).
//
// Parameters:
//   - method: The wire method byte read from the block header
//
// Returns:
//   - codec.Codec: A codec able to decode blocks tagged with method.
//   - error: errs.ErrUnknownCodec if no codec owns the byte.
func ForMethod(method format.Method) (codec.Codec, error) {
	return codec.ForMethod(method)
}

// Names returns the registered codec names in sorted order.
func Names() []string {
	return codec.Default().Names()
}

// NewNone creates the identity codec. Blocks are stored unchanged; it exists
// so code paths can treat "no compression" like any other codec.
func NewNone() *codec.None {
	return codec.NewNone()
}

// NewLZ4 creates the fast LZ4 block codec.
func NewLZ4() *codec.LZ4 {
	return codec.NewLZ4()
}

// NewLZ4HC creates the high-compression LZ4 codec. level ranges 1..9; higher
// levels compress better and slower. Output decodes as plain LZ4.
func NewLZ4HC(level int) (*codec.LZ4HC, error) {
	return codec.NewLZ4HC(level)
}

// NewZSTD creates the software Zstandard codec compressing at the given
// level, 0 up to the engine-reported maximum.
func NewZSTD(level int) (*codec.ZSTD, error) {
	return codec.NewZSTD(level)
}

// NewZSTDLongRange creates a software Zstandard codec with long-range
// matching over a 1<<windowLog byte window, improving the ratio on blocks
// with distant repetitions. windowLog 0 keeps the engine default window.
func NewZSTDLongRange(level, windowLog int) (*codec.ZSTD, error) {
	return codec.NewZSTDLongRange(level, windowLog)
}

// NewQATZSTD creates the hardware-assisted Zstandard codec. The offload
// device is acquired lazily on the first Compress call; when unavailable the
// codec degrades to software compression and keeps working. Output is
// standard Zstandard either way.
//
// Example:
//
//	c, err := blockcodec.NewQATZSTD(1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	n, err := c.Compress(block, dst) // initializes offload on first use
func NewQATZSTD(level int) (*codec.QATZSTD, error) {
	return codec.NewQATZSTD(level)
}

// NewS2 creates the S2 codec. mode selects the encoding effort:
// codec.S2ModeDefault, codec.S2ModeBetter, or codec.S2ModeBest.
func NewS2(mode int) (*codec.S2, error) {
	return codec.NewS2(mode)
}

// SetLogger replaces the logger used for codec lifecycle events, such as the
// hardware offload initialization outcome. Passing nil restores the process
// default logger.
func SetLogger(logger *slog.Logger) {
	codec.SetLogger(logger)
}
