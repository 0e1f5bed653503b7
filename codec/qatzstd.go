package codec

import (
	"fmt"
	"hash"
	"sync"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/format"
	"github.com/20orange/blockcodec/internal/engine"
	"github.com/20orange/blockcodec/internal/qat"
)

// qatDefaultLevel applies when a QATZSTD configuration omits the level.
const qatDefaultLevel = 1

func init() {
	// No method byte of its own: QATZSTD emits standard Zstandard frames,
	// and readers dispatch them through MethodZSTD.
	mustRegister("QATZSTD", func(args []uint64) (Codec, error) {
		c, err := qatZSTDFromArgs(args)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// offloadState is the lifecycle of a QATZSTD instance's hardware session.
// The transition away from offloadUninitialized happens exactly once, on the
// first Compress call, and the reached state is terminal for the instance.
type offloadState uint8

const (
	// offloadUninitialized: no initialization attempt has happened yet.
	offloadUninitialized offloadState = iota
	// offloadReady: the device started and blocks go through the offload
	// session first, with engine-level software fallback armed.
	offloadReady
	// offloadDegraded: the device was unavailable at first use; the instance
	// compresses in software for the rest of its life.
	offloadDegraded
)

func (s offloadState) String() string {
	switch s {
	case offloadUninitialized:
		return "uninitialized"
	case offloadReady:
		return "ready"
	case offloadDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// QATZSTD is the hardware-assisted Zstandard block codec.
//
// The first Compress call starts the offload device, creates a session, and
// caches an engine context with the session registered as offload producer
// and software fallback enabled. Device unavailability is a degradation, not
// an error: the outcome is logged once at warning level with the numeric
// device status, and the instance keeps producing correct output in
// software. Output is standard Zstandard either way, tagged and decoded as
// format.MethodZSTD.
//
// Unlike the software ZSTD codec, instances serialize Compress internally
// because a hardware session has a single owner. Create one instance per
// worker goroutine for parallel compression.
type QATZSTD struct {
	desc  Descriptor
	level int

	initOnce sync.Once
	mu       sync.Mutex
	state    offloadState
	session  qat.Session
	ctx      *engine.Context
}

var _ Codec = (*QATZSTD)(nil)

// qatZSTDFromArgs builds a codec from registry arguments: QATZSTD() or
// QATZSTD(level).
func qatZSTDFromArgs(args []uint64) (*QATZSTD, error) {
	if err := maxArgs("QATZSTD", args, 1); err != nil {
		return nil, err
	}

	level := int64(qatDefaultLevel)
	if len(args) == 1 {
		level = int64(args[0])
	}
	if err := levelInRange("QATZSTD", level, qat.MinLevel(), qat.MaxLevel()); err != nil {
		return nil, err
	}

	return NewQATZSTD(int(level))
}

// NewQATZSTD creates a hardware-assisted Zstandard codec. The level must
// fall within the device-supported range, which is narrower than the
// software engine's.
//
// The offload device is not touched here; acquisition is deferred to the
// first Compress call so constructing codecs from configuration stays cheap
// and side-effect free.
func NewQATZSTD(level int) (*QATZSTD, error) {
	if err := levelInRange("QATZSTD", int64(level), qat.MinLevel(), qat.MaxLevel()); err != nil {
		return nil, err
	}

	return &QATZSTD{
		desc:  NewDescriptor("QATZSTD", format.MethodZSTD, uint64(level)),
		level: level,
	}, nil
}

// initialize performs the one-time offload setup: start the device, create a
// session, then cache an engine context with the session registered as
// offload producer and fallback enabled. Any failure lands the instance in
// the degraded state with a software-only context. Runs under initOnce, and
// holds mu so concurrent Offloaded and Close observers see a consistent
// state.
func (c *QATZSTD) initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := qat.Start()
	if status == qat.StatusOK {
		sess, err := qat.NewSession()
		if err != nil {
			status = qat.StatusFail
		} else {
			c.session = sess
		}
	}

	ctx, err := engine.NewContext(engine.Params{Level: c.level})
	if err != nil {
		// Without a context each block runs through the engine's one-shot
		// path instead; compression still works.
		if c.session != nil {
			_ = c.session.Release()
			c.session = nil
			status = qat.StatusFail
		}
	} else {
		c.ctx = ctx
		if c.session != nil {
			c.ctx.RegisterOffload(c.session.CompressBlock)
			c.ctx.EnableFallback()
		}
	}

	if c.session != nil {
		c.state = offloadReady
	} else {
		c.state = offloadDegraded
	}

	log.Warn("hardware-assisted ZSTD codec initialization result",
		"status", int(status),
		"state", c.state.String(),
	)
}

// Descriptor returns the codec identity, including the effective level.
func (c *QATZSTD) Descriptor() Descriptor { return c.desc }

// MethodByte returns the Zstandard wire tag shared with the software codec.
func (c *QATZSTD) MethodByte() format.Method { return format.MethodZSTD }

// MaxCompressedSize returns the engine's worst-case frame size for a block
// of srcLen bytes. The bound holds for offloaded and software frames alike.
func (c *QATZSTD) MaxCompressedSize(srcLen int) int {
	return engine.CompressBound(srcLen)
}

// Compress compresses src into dst, initializing the offload session on the
// first call. Offload failure never surfaces to the caller: failed blocks
// fall back to software compression inside the engine.
func (c *QATZSTD) Compress(src, dst []byte) (int, error) {
	c.initOnce.Do(c.initialize)

	if len(src) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		n   int
		err error
	)
	if c.ctx != nil {
		n, err = c.ctx.Compress(src, dst)
	} else {
		n, err = engine.CompressBlock(engine.Params{Level: c.level}, src, dst)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrCompressionFailed, err)
	}

	return n, nil
}

// Decompress decompresses src into dst. len(dst) must equal the block's
// exact original size. Decompression never involves the offload device.
func (c *QATZSTD) Decompress(src, dst []byte) error {
	return zstdDecompress(src, dst)
}

// UpdateDigest feeds the codec descriptor into h.
func (c *QATZSTD) UpdateDigest(h hash.Hash) { c.desc.UpdateDigest(h) }

// Offloaded reports whether blocks currently go through the hardware
// session. It is false before the first Compress call and permanently false
// when the device was unavailable at initialization.
func (c *QATZSTD) Offloaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state == offloadReady
}

// Close releases the offload session and then the cached engine context. A
// never-initialized instance owns nothing and releases nothing. Close is
// idempotent; the codec must not be used afterwards.
func (c *QATZSTD) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.session != nil {
		err = c.session.Release()
		c.session = nil
	}
	if c.ctx != nil {
		c.ctx.Release()
		c.ctx = nil
	}

	return err
}
