//go:build cgo

package engine

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// DecompressBlock decompresses src into dst through libzstd. len(dst) must
// equal the exact original block size; any engine error or size mismatch
// fails the call, and dst contents are undefined afterwards.
func DecompressBlock(src, dst []byte) error {
	if len(src) == 0 && len(dst) == 0 {
		return nil
	}

	res, err := gozstd.Decompress(dst[:0], src)
	if err != nil {
		return fmt.Errorf("zstd decode: %w", err)
	}

	return checkDecoded(res, dst)
}
