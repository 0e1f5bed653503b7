//go:build !cgo

package engine

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// decoderPool pools one-shot decoders for reuse to eliminate allocation
// overhead. The engine is explicitly designed for decoder reuse: a stored
// decoder operates without allocations after a warmup.
var decoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1), // Single-threaded for predictable performance
			zstd.WithDecoderLowmem(false),  // Use more memory for better performance
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

// DecompressBlock decompresses src into dst. len(dst) must equal the exact
// original block size; any engine error or size mismatch fails the call, and
// dst contents are undefined afterwards.
func DecompressBlock(src, dst []byte) error {
	if len(src) == 0 && len(dst) == 0 {
		return nil
	}

	decoder := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(decoder)

	// DecodeAll is stateless, so the decoder stays reusable even after a
	// failed call.
	res, err := decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return fmt.Errorf("zstd decode: %w", err)
	}

	return checkDecoded(res, dst)
}
