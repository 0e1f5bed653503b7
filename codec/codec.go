package codec

import (
	"hash"

	"github.com/20orange/blockcodec/format"
)

// Codec is the block codec contract. One instance compresses and decompresses
// whole blocks; no streaming state survives across calls.
//
// Buffer contract: Compress requires len(dst) >= MaxCompressedSize(len(src))
// and returns the compressed size. Decompress requires len(dst) to equal the
// block's exact original size, which the caller stores out-of-band (e.g. in a
// block header). On failure the destination contents are undefined and must
// be discarded.
type Codec interface {
	// Descriptor returns the immutable identity of this instance.
	Descriptor() Descriptor

	// MethodByte returns the one-byte wire tag written next to blocks this
	// codec produces. Constant per codec kind.
	MethodByte() format.Method

	// MaxCompressedSize returns the worst-case compressed size of a block of
	// srcLen bytes. Pure, never fails.
	MaxCompressedSize(srcLen int) int

	// Compress compresses src into dst and returns the number of bytes
	// written.
	Compress(src, dst []byte) (int, error)

	// Decompress decompresses src into dst.
	Decompress(src, dst []byte) error

	// UpdateDigest feeds the codec's descriptor into h, deterministically and
	// order-sensitively over parameters.
	UpdateDigest(h hash.Hash)

	// Close releases resources owned by the instance. Codecs without owned
	// resources return nil. Close is idempotent; the codec must not be used
	// afterwards.
	Close() error
}
