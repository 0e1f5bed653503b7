package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/format"
	"github.com/20orange/blockcodec/internal/engine"
)

func TestZSTD_DefaultLevel(t *testing.T) {
	c, err := Construct("ZSTD")
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	require.Equal(t, "ZSTD(1)", c.Descriptor().String())
	require.Equal(t, []uint64{1}, c.Descriptor().Arguments())
}

func TestZSTD_LevelBounds(t *testing.T) {
	maxLevel := engine.MaxLevel()

	c, err := NewZSTD(maxLevel)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = NewZSTD(0)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = NewZSTD(maxLevel + 1)
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)
	require.ErrorContains(t, err, "ZSTD level")

	_, err = NewZSTD(-1)
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)
}

func TestZSTD_Construct_LevelBounds(t *testing.T) {
	c, err := Construct("ZSTD", uint64(engine.MaxLevel()))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = Construct("ZSTD", uint64(engine.MaxLevel()+1))
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)

	// A 64-bit literal far past the range must fail the range check rather
	// than wrap on conversion.
	_, err = Construct("ZSTD", uint64(1)<<40)
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)
}

func TestZSTD_Construct_ArgumentCount(t *testing.T) {
	// The count check runs before any range check: three out-of-range
	// arguments still report a malformed configuration.
	_, err := Construct("ZSTD", 99, 99, 99)
	require.ErrorIs(t, err, errs.ErrMalformedConfiguration)
	require.NotErrorIs(t, err, errs.ErrParameterOutOfRange)
	require.ErrorContains(t, err, "at most 2 arguments")
}

func TestZSTD_WindowLogBounds(t *testing.T) {
	bounds, err := engine.WindowLogBounds()
	require.NoError(t, err)

	// Zero always passes and keeps the engine default window.
	c, err := Construct("ZSTD", 3, 0)
	require.NoError(t, err)
	require.Equal(t, "ZSTD(3, 0)", c.Descriptor().String())
	require.NoError(t, c.Close())

	_, err = Construct("ZSTD", 3, uint64(bounds.Lower-1))
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)
	require.ErrorContains(t, err, "window log")

	_, err = Construct("ZSTD", 3, uint64(bounds.Upper+1))
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)

	_, err = NewZSTDLongRange(3, bounds.Upper+1)
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)
}

func TestZSTD_LongRangeRoundTrip(t *testing.T) {
	// Distant repetitions: the same 64-byte chunk recurs far apart.
	chunk := generateTestPayload(64)
	data := bytes.Repeat(chunk, 4096) // 256KB

	c, err := NewZSTDLongRange(3, 20)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	require.Equal(t, "ZSTD(3, 20)", c.Descriptor().String())

	dst := make([]byte, c.MaxCompressedSize(len(data)))
	n, err := c.Compress(data, dst)
	require.NoError(t, err)
	require.Less(t, n, len(data))

	out := make([]byte, len(data))
	require.NoError(t, c.Decompress(dst[:n], out))
	require.Equal(t, data, out)
}

func TestZSTD_ConstructedScenario(t *testing.T) {
	c, err := Construct("ZSTD", 19)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	require.Equal(t, format.MethodZSTD, c.MethodByte())
	require.Equal(t, engine.CompressBound(1000), c.MaxCompressedSize(1000))
	require.Equal(t, 1066, c.MaxCompressedSize(1000))

	data := make([]byte, 1000)
	dst := make([]byte, c.MaxCompressedSize(len(data)))
	n, err := c.Compress(data, dst)
	require.NoError(t, err)
	require.Less(t, n, len(data), "zeros must compress")

	out := make([]byte, len(data))
	require.NoError(t, c.Decompress(dst[:n], out))
	require.Equal(t, data, out)
}

func TestZSTD_CloseIdempotent(t *testing.T) {
	c, err := NewZSTD(1)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
