package codec

import (
	"fmt"
	"hash"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/format"
)

func init() {
	mustRegisterWithMethod("NONE", format.MethodNone, func(args []uint64) (Codec, error) {
		if err := noArgs("NONE", args); err != nil {
			return nil, err
		}
		return NewNone(), nil
	})
}

// None is the identity block codec: blocks are stored verbatim. It keeps the
// sizing, tagging, and digest contract uniform for callers that disable
// compression. Instances are safe for concurrent use.
type None struct {
	desc Descriptor
}

var _ Codec = (*None)(nil)

// NewNone creates an identity codec.
func NewNone() *None {
	return &None{desc: NewDescriptor("NONE", format.MethodNone)}
}

// Descriptor returns the codec identity.
func (c *None) Descriptor() Descriptor { return c.desc }

// MethodByte returns the uncompressed-block wire tag.
func (c *None) MethodByte() format.Method { return format.MethodNone }

// MaxCompressedSize returns srcLen: identity blocks never expand.
func (c *None) MaxCompressedSize(srcLen int) int { return srcLen }

// Compress copies src into dst and returns len(src).
func (c *None) Compress(src, dst []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, fmt.Errorf("%w: destination undersized: need %d bytes, have %d",
			errs.ErrCompressionFailed, len(src), len(dst))
	}

	return copy(dst, src), nil
}

// Decompress copies src into dst. len(dst) must equal len(src) exactly.
func (c *None) Decompress(src, dst []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: stored size mismatch: got %d bytes, expected %d",
			errs.ErrDecompressionFailed, len(src), len(dst))
	}
	copy(dst, src)

	return nil
}

// UpdateDigest feeds the codec descriptor into h.
func (c *None) UpdateDigest(h hash.Hash) { c.desc.UpdateDigest(h) }

// Close is a no-op; None owns no resources.
func (c *None) Close() error { return nil }
