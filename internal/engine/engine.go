// Package engine binds the Zstandard engine behind the ZSTD block codecs.
//
// It owns the capability queries the codec layer validates against (maximum
// level, window-log bounds), the worst-case output bound, and the block
// compress and decompress entry points. Compression runs through a Context
// that caches a configured encoder; decompression is a stateless one-shot
// with build-tag variants: libzstd through cgo when available, pure Go
// otherwise. Both variants produce and consume standard Zstandard frames, so
// blocks written by one build decode on the other.
package engine

import (
	"fmt"
	"math/bits"

	"github.com/klauspost/compress/zstd"
)

// Bounds is an engine-reported inclusive range for a tunable parameter.
type Bounds struct {
	Lower int
	Upper int
}

// maxCLevel mirrors the reference engine's maximum compression level. It
// lives next to encoderLevel so the level scale and its ceiling stay in one
// place.
const maxCLevel = 22

// MaxLevel returns the maximum compression level the engine accepts.
// Validators must query it instead of hardcoding a ceiling, since engine
// versions differ.
func MaxLevel() int {
	return maxCLevel
}

// WindowLogBounds returns the inclusive window-log range accepted for
// long-range matching, derived from the engine's window-size limits.
//
// The error return reports an engine build without usable window limits;
// the current engine always has them.
func WindowLogBounds() (Bounds, error) {
	lower := bits.Len(uint(zstd.MinWindowSize)) - 1
	upper := bits.Len(uint(zstd.MaxWindowSize)) - 1
	if lower <= 0 || upper <= lower {
		return Bounds{}, fmt.Errorf("engine reports unusable window limits [%d, %d]", zstd.MinWindowSize, zstd.MaxWindowSize)
	}

	return Bounds{Lower: lower, Upper: upper}, nil
}

// CompressBound returns the engine's worst-case compressed size for srcLen
// input bytes: the input size, a 1/256 expansion reserve, and a small-block
// margin covering frame and block headers. Callers size Compress destination
// buffers with it.
func CompressBound(srcLen int) int {
	margin := 0
	if srcLen < 128<<10 {
		margin = ((128 << 10) - srcLen) >> 11
	}

	return srcLen + srcLen>>8 + margin
}

// checkDecoded verifies a decode filled dst exactly and in place.
func checkDecoded(res, dst []byte) error {
	if len(res) != len(dst) {
		return fmt.Errorf("decoded size mismatch: got %d bytes, expected %d", len(res), len(dst))
	}
	if len(res) > 0 && &res[0] != &dst[0] {
		return fmt.Errorf("decoded %d bytes outside the caller buffer", len(res))
	}

	return nil
}
