package codec

import (
	"fmt"
	"hash"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/format"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse. The compressor
// maintains an internal hash table that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4hcDefaultLevel applies when an LZ4HC configuration omits the level.
const lz4hcDefaultLevel = 9

// lz4hcLevels maps numeric configuration levels onto the engine's level
// constants. Index 0 is unused; valid levels run 1..lz4hcMaxLevel().
var lz4hcLevels = [...]lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

// lz4hcMaxLevel returns the highest level the engine's scale provides,
// queried by validation instead of hardcoded.
func lz4hcMaxLevel() int { return len(lz4hcLevels) - 1 }

func init() {
	mustRegisterWithMethod("LZ4", format.MethodLZ4, func(args []uint64) (Codec, error) {
		if err := noArgs("LZ4", args); err != nil {
			return nil, err
		}
		return NewLZ4(), nil
	})

	// LZ4HC emits the same block format as LZ4 and is read back through
	// MethodLZ4, so it registers without a method byte of its own.
	mustRegister("LZ4HC", func(args []uint64) (Codec, error) {
		c, err := lz4hcFromArgs(args)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// LZ4 is the plain LZ4 block codec. It takes no construction arguments and
// favors speed over ratio. Instances are safe for concurrent use.
type LZ4 struct {
	desc Descriptor
}

var _ Codec = (*LZ4)(nil)

// NewLZ4 creates a plain LZ4 block codec.
func NewLZ4() *LZ4 {
	return &LZ4{desc: NewDescriptor("LZ4", format.MethodLZ4)}
}

// Descriptor returns the codec identity.
func (c *LZ4) Descriptor() Descriptor { return c.desc }

// MethodByte returns the LZ4 wire tag.
func (c *LZ4) MethodByte() format.Method { return format.MethodLZ4 }

// MaxCompressedSize returns the engine's worst-case block size for srcLen
// input bytes.
func (c *LZ4) MaxCompressedSize(srcLen int) int {
	return lz4.CompressBlockBound(srcLen)
}

// Compress compresses src into dst, which must hold at least
// MaxCompressedSize(len(src)) bytes, and returns the compressed size.
func (c *LZ4) Compress(src, dst []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	// Get compressor from pool
	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	return lz4Finish(lc.CompressBlock(src, dst))
}

// Decompress decompresses an LZ4 block into dst. len(dst) must equal the
// block's exact original size.
func (c *LZ4) Decompress(src, dst []byte) error {
	return lz4Decompress(src, dst)
}

// UpdateDigest feeds the codec descriptor into h.
func (c *LZ4) UpdateDigest(h hash.Hash) { c.desc.UpdateDigest(h) }

// Close is a no-op; LZ4 owns no resources.
func (c *LZ4) Close() error { return nil }

// LZ4HC is the high-compression LZ4 block codec. Levels 1..9 trade
// compression speed for ratio. It emits the same block format as LZ4 and
// shares its wire method byte, so readers decode both identically.
// Instances are safe for concurrent use.
type LZ4HC struct {
	desc  Descriptor
	level lz4.CompressionLevel
}

var _ Codec = (*LZ4HC)(nil)

// lz4hcFromArgs builds a codec from registry arguments: LZ4HC() or
// LZ4HC(level).
func lz4hcFromArgs(args []uint64) (*LZ4HC, error) {
	if err := maxArgs("LZ4HC", args, 1); err != nil {
		return nil, err
	}

	level := int64(lz4hcDefaultLevel)
	if len(args) == 1 {
		level = int64(args[0])
	}
	if err := levelInRange("LZ4HC", level, 1, lz4hcMaxLevel()); err != nil {
		return nil, err
	}

	return NewLZ4HC(int(level))
}

// NewLZ4HC creates a high-compression LZ4 codec at the given level, 1 to
// lz4hcMaxLevel().
func NewLZ4HC(level int) (*LZ4HC, error) {
	if err := levelInRange("LZ4HC", int64(level), 1, lz4hcMaxLevel()); err != nil {
		return nil, err
	}

	return &LZ4HC{
		desc:  NewDescriptor("LZ4HC", format.MethodLZ4, uint64(level)),
		level: lz4hcLevels[level],
	}, nil
}

// Descriptor returns the codec identity, including the effective level.
func (c *LZ4HC) Descriptor() Descriptor { return c.desc }

// MethodByte returns the LZ4 wire tag shared with the plain codec.
func (c *LZ4HC) MethodByte() format.Method { return format.MethodLZ4 }

// MaxCompressedSize returns the engine's worst-case block size for srcLen
// input bytes; the bound is identical for the plain and high-compression
// paths.
func (c *LZ4HC) MaxCompressedSize(srcLen int) int {
	return lz4.CompressBlockBound(srcLen)
}

// Compress compresses src into dst, which must hold at least
// MaxCompressedSize(len(src)) bytes, and returns the compressed size.
func (c *LZ4HC) Compress(src, dst []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	compressor := lz4.CompressorHC{Level: c.level}

	return lz4Finish(compressor.CompressBlock(src, dst))
}

// Decompress decompresses an LZ4 block into dst. len(dst) must equal the
// block's exact original size.
func (c *LZ4HC) Decompress(src, dst []byte) error {
	return lz4Decompress(src, dst)
}

// UpdateDigest feeds the codec descriptor into h.
func (c *LZ4HC) UpdateDigest(h hash.Hash) { c.desc.UpdateDigest(h) }

// Close is a no-op; LZ4HC owns no resources.
func (c *LZ4HC) Close() error { return nil }

// lz4Finish maps a block-compression result onto the codec error contract.
// With a bound-sized destination the engine never reports zero bytes; zero
// means the caller undersized dst for incompressible input.
func lz4Finish(n int, err error) (int, error) {
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrCompressionFailed, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: destination undersized for incompressible input", errs.ErrCompressionFailed)
	}

	return n, nil
}

// lz4Decompress is shared by the plain and high-compression codecs; both
// emit the same block format.
func lz4Decompress(src, dst []byte) error {
	if len(src) == 0 && len(dst) == 0 {
		return nil
	}

	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrDecompressionFailed, err)
	}
	if n != len(dst) {
		return fmt.Errorf("%w: decoded size mismatch: got %d bytes, expected %d", errs.ErrDecompressionFailed, n, len(dst))
	}

	return nil
}
