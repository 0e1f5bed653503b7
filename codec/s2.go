package codec

import (
	"fmt"
	"hash"

	"github.com/klauspost/compress/s2"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/format"
)

// S2 encoding modes, configured as the codec's single numeric argument.
const (
	S2ModeDefault = 1 // S2ModeDefault favors speed.
	S2ModeBetter  = 2 // S2ModeBetter trades some speed for ratio.
	S2ModeBest    = 3 // S2ModeBest favors ratio over speed.
)

func init() {
	mustRegisterWithMethod("S2", format.MethodS2, func(args []uint64) (Codec, error) {
		c, err := s2FromArgs(args)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// S2 is the S2 block codec, an extended Snappy dialect balancing speed and
// ratio. The mode selects the encoding effort; all modes emit the same
// format and decode identically. Instances are safe for concurrent use.
type S2 struct {
	desc Descriptor
	mode int
}

var _ Codec = (*S2)(nil)

// s2FromArgs builds a codec from registry arguments: S2() or S2(mode).
func s2FromArgs(args []uint64) (*S2, error) {
	if err := maxArgs("S2", args, 1); err != nil {
		return nil, err
	}

	mode := int64(S2ModeDefault)
	if len(args) == 1 {
		mode = int64(args[0])
	}
	if mode < S2ModeDefault || mode > S2ModeBest {
		return nil, fmt.Errorf("%w: S2 mode must be within [%d, %d], given %d",
			errs.ErrParameterOutOfRange, S2ModeDefault, S2ModeBest, mode)
	}

	return NewS2(int(mode))
}

// NewS2 creates an S2 codec with the given encoding mode.
func NewS2(mode int) (*S2, error) {
	if mode < S2ModeDefault || mode > S2ModeBest {
		return nil, fmt.Errorf("%w: S2 mode must be within [%d, %d], given %d",
			errs.ErrParameterOutOfRange, S2ModeDefault, S2ModeBest, mode)
	}

	return &S2{
		desc: NewDescriptor("S2", format.MethodS2, uint64(mode)),
		mode: mode,
	}, nil
}

// Descriptor returns the codec identity, including the effective mode.
func (c *S2) Descriptor() Descriptor { return c.desc }

// MethodByte returns the S2 wire tag.
func (c *S2) MethodByte() format.Method { return format.MethodS2 }

// MaxCompressedSize returns the engine's worst-case encoded size for srcLen
// input bytes.
func (c *S2) MaxCompressedSize(srcLen int) int {
	return s2.MaxEncodedLen(srcLen)
}

// Compress compresses src into dst, which must hold at least
// MaxCompressedSize(len(src)) bytes, and returns the compressed size.
func (c *S2) Compress(src, dst []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	var res []byte
	switch c.mode {
	case S2ModeBetter:
		res = s2.EncodeBetter(dst, src)
	case S2ModeBest:
		res = s2.EncodeBest(dst, src)
	default:
		res = s2.Encode(dst, src)
	}

	// The engine allocates a fresh buffer when dst cannot hold the result.
	if len(res) > len(dst) || &res[0] != &dst[0] {
		return 0, fmt.Errorf("%w: destination undersized: need %d bytes, have %d",
			errs.ErrCompressionFailed, len(res), len(dst))
	}

	return len(res), nil
}

// Decompress decompresses src into dst. len(dst) must equal the block's
// exact original size.
func (c *S2) Decompress(src, dst []byte) error {
	if len(src) == 0 && len(dst) == 0 {
		return nil
	}

	res, err := s2.Decode(dst, src)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrDecompressionFailed, err)
	}
	if len(res) != len(dst) || (len(res) > 0 && &res[0] != &dst[0]) {
		return fmt.Errorf("%w: decoded size mismatch: got %d bytes, expected %d",
			errs.ErrDecompressionFailed, len(res), len(dst))
	}

	return nil
}

// UpdateDigest feeds the codec descriptor into h.
func (c *S2) UpdateDigest(h hash.Hash) { c.desc.UpdateDigest(h) }

// Close is a no-op; S2 owns no resources.
func (c *S2) Close() error { return nil }
