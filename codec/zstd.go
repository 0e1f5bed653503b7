package codec

import (
	"fmt"
	"hash"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/format"
	"github.com/20orange/blockcodec/internal/engine"
)

// zstdDefaultLevel applies when a ZSTD configuration omits the level.
const zstdDefaultLevel = 1

func init() {
	mustRegisterWithMethod("ZSTD", format.MethodZSTD, func(args []uint64) (Codec, error) {
		c, err := zstdFromArgs(args)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// ZSTD is the software Zstandard block codec.
//
// A plain instance compresses at a fixed level. A long-range instance
// additionally widens the match window to 1<<windowLog bytes, improving the
// ratio on blocks with distant repetitions; window log 0 keeps the engine
// default window. Both decode the same frames.
//
// Instances are safe for concurrent use.
type ZSTD struct {
	desc Descriptor
	ctx  *engine.Context
}

var _ Codec = (*ZSTD)(nil)

// zstdFromArgs builds a codec from registry arguments: ZSTD(), ZSTD(level),
// or ZSTD(level, windowLog). The two-argument form enables long-range
// matching. Validation runs in the 64-bit literal domain so oversized
// configuration values fail range checks instead of wrapping on conversion.
func zstdFromArgs(args []uint64) (*ZSTD, error) {
	if err := maxArgs("ZSTD", args, 2); err != nil {
		return nil, err
	}

	level := int64(zstdDefaultLevel)
	if len(args) >= 1 {
		level = int64(args[0])
	}
	if err := levelInRange("ZSTD", level, 0, engine.MaxLevel()); err != nil {
		return nil, err
	}

	if len(args) == 2 {
		windowLog := int64(args[1])
		if err := windowLogInRange(windowLog); err != nil {
			return nil, err
		}
		return NewZSTDLongRange(int(level), int(windowLog))
	}

	return NewZSTD(int(level))
}

// NewZSTD creates a software Zstandard codec compressing at the given level.
// Levels above the engine-reported maximum fail with
// errs.ErrParameterOutOfRange.
func NewZSTD(level int) (*ZSTD, error) {
	return newZSTD(level, 0, false)
}

// NewZSTDLongRange creates a software Zstandard codec with long-range
// matching over a 1<<windowLog byte window. windowLog 0 keeps the engine
// default window; other values must fall within the engine-reported bounds.
func NewZSTDLongRange(level, windowLog int) (*ZSTD, error) {
	return newZSTD(level, windowLog, true)
}

func newZSTD(level, windowLog int, longRange bool) (*ZSTD, error) {
	if err := levelInRange("ZSTD", int64(level), 0, engine.MaxLevel()); err != nil {
		return nil, err
	}

	args := []uint64{uint64(level)}
	if longRange {
		if err := windowLogInRange(int64(windowLog)); err != nil {
			return nil, err
		}
		args = append(args, uint64(windowLog))
	}

	ctx, err := engine.NewContext(engine.Params{
		Level:     level,
		WindowLog: windowLog,
		LongRange: longRange,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: engine rejected validated configuration: %v", errs.ErrUnsupportedParameter, err)
	}

	return &ZSTD{
		desc: NewDescriptor("ZSTD", format.MethodZSTD, args...),
		ctx:  ctx,
	}, nil
}

// Descriptor returns the codec identity, including the effective level.
func (c *ZSTD) Descriptor() Descriptor { return c.desc }

// MethodByte returns the Zstandard wire tag.
func (c *ZSTD) MethodByte() format.Method { return format.MethodZSTD }

// MaxCompressedSize returns the engine's worst-case frame size for a block
// of srcLen bytes.
func (c *ZSTD) MaxCompressedSize(srcLen int) int {
	return engine.CompressBound(srcLen)
}

// Compress compresses src into dst, which must hold at least
// MaxCompressedSize(len(src)) bytes, and returns the compressed size.
// A zero-length block compresses to zero bytes.
func (c *ZSTD) Compress(src, dst []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	n, err := c.ctx.Compress(src, dst)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrCompressionFailed, err)
	}

	return n, nil
}

// Decompress decompresses src into dst. len(dst) must equal the block's
// exact original size.
func (c *ZSTD) Decompress(src, dst []byte) error {
	return zstdDecompress(src, dst)
}

// UpdateDigest feeds the codec descriptor into h.
func (c *ZSTD) UpdateDigest(h hash.Hash) { c.desc.UpdateDigest(h) }

// Close releases the cached engine context.
func (c *ZSTD) Close() error {
	if c.ctx != nil {
		c.ctx.Release()
		c.ctx = nil
	}

	return nil
}

// zstdDecompress is shared by the software and hardware-assisted codecs:
// offloaded output is standard Zstandard, so decoding never depends on the
// compression path.
func zstdDecompress(src, dst []byte) error {
	if len(src) == 0 && len(dst) == 0 {
		return nil
	}
	if err := engine.DecompressBlock(src, dst); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrDecompressionFailed, err)
	}

	return nil
}
