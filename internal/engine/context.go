package engine

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Params configures a compression context.
type Params struct {
	// Level is the compression level, 0..MaxLevel(). The engine maps 0 onto
	// its fastest preset.
	Level int
	// WindowLog bounds the match window to 1<<WindowLog bytes when LongRange
	// is set. Zero keeps the engine default window.
	WindowLog int
	// LongRange enables long-range matching.
	LongRange bool
}

// OffloadFunc compresses one block into dst at the given level and returns
// the number of bytes written. Implementations must emit a complete standard
// Zstandard frame so any decoder can read the result. Returning an error
// hands the block back to the context, which falls back to the internal
// encoder when fallback is enabled and fails the call otherwise.
type OffloadFunc func(src, dst []byte, level int) (int, error)

// Context is a reusable compression context bound to fixed Params.
//
// The internal encoder is created once and reused across calls; its one-shot
// entry point is safe for concurrent use, so a plain Context can serve many
// goroutines. A Context with a registered offload producer is single-owner:
// offload sessions are not reentrant, and the owner must serialize Compress.
type Context struct {
	params   Params
	enc      *zstd.Encoder
	offload  OffloadFunc
	fallback bool
}

// NewContext creates a context with an encoder configured from p.
func NewContext(p Params) (*Context, error) {
	opts := []zstd.EOption{
		zstd.WithEncoderLevel(encoderLevel(p.Level)),
		zstd.WithEncoderCRC(false),
	}
	if p.LongRange && p.WindowLog > 0 {
		opts = append(opts, zstd.WithWindowSize(1<<p.WindowLog))
	}

	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("engine context setup: %w", err)
	}

	return &Context{params: p, enc: enc}, nil
}

// encoderLevel maps a numeric Zstandard level onto the engine's level scale.
func encoderLevel(level int) zstd.EncoderLevel {
	return zstd.EncoderLevelFromZstd(level)
}

// RegisterOffload installs fn as the context's offload producer. Subsequent
// Compress calls try fn before the internal encoder.
func (c *Context) RegisterOffload(fn OffloadFunc) {
	c.offload = fn
}

// EnableFallback makes Compress fall back to the internal encoder when the
// offload producer fails, instead of failing the call.
func (c *Context) EnableFallback() {
	c.fallback = true
}

// Compress compresses src into dst and returns the number of bytes written.
// dst must hold at least CompressBound(len(src)) bytes.
func (c *Context) Compress(src, dst []byte) (int, error) {
	if c.offload != nil {
		n, err := c.offload(src, dst, c.params.Level)
		if err == nil {
			return n, nil
		}
		if !c.fallback {
			return 0, fmt.Errorf("offload producer: %w", err)
		}
	}

	return encodeInto(c.enc, src, dst)
}

// Release frees the encoder. The context must not be used afterwards.
func (c *Context) Release() {
	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}
}

// CompressBlock compresses one block through a transient context, mirroring
// the engine's one-shot API. Hot paths hold a Context instead to amortize
// encoder setup.
func CompressBlock(p Params, src, dst []byte) (int, error) {
	ctx, err := NewContext(p)
	if err != nil {
		return 0, err
	}
	defer ctx.Release()

	return ctx.Compress(src, dst)
}

// encodeInto runs the encoder's one-shot path into dst without growing it.
func encodeInto(enc *zstd.Encoder, src, dst []byte) (int, error) {
	res := enc.EncodeAll(src, dst[:0])
	if len(res) > len(dst) || (len(res) > 0 && &res[0] != &dst[0]) {
		return 0, fmt.Errorf("destination undersized: need %d bytes, have %d", len(res), len(dst))
	}

	return len(res), nil
}
