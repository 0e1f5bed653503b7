// Package qat models the hardware compression offload behind the
// hardware-assisted ZSTD codec.
//
// It exposes the device lifecycle (Start), per-codec offload sessions
// (NewSession), and the level range the device supports. Real device support
// is installed at program start through SetBackend, typically by a cgo
// binding to the vendor driver; without an installed backend the device
// reports StatusNoDevice and the codec layer degrades to software
// compression.
package qat

import (
	"errors"
	"fmt"
	"sync"
)

// Status is the numeric outcome of device startup. The codec layer logs it
// verbatim so operators can tell a missing device from a failed one.
type Status int

const (
	// StatusOK means the device started and offload sessions may be created.
	StatusOK Status = 0
	// StatusNoDevice means no offload device is present.
	StatusNoDevice Status = -1
	// StatusFail means a device is present but could not be brought up.
	StatusFail Status = -2
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoDevice:
		return "no device"
	case StatusFail:
		return "start failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ErrNoBackend is returned by NewSession when no usable backend is installed.
var ErrNoBackend = errors.New("qat: no offload backend installed")

// Session is one hardware offload session. A session belongs to exactly one
// codec instance and is not safe for concurrent use.
type Session interface {
	// CompressBlock compresses src into dst at the given level and returns
	// the number of bytes written. The output must be a complete standard
	// Zstandard frame so any decoder can read it. An error hands the block
	// back to the engine's software fallback.
	CompressBlock(src, dst []byte, level int) (int, error)

	// Release frees the session's device resources.
	Release() error
}

// Backend is a device binding. Implementations come from vendor drivers and
// are installed with SetBackend; the default backend reports StatusNoDevice.
type Backend interface {
	// Start brings the device up and reports its status. Start is safe to
	// call more than once; repeated calls report the same outcome.
	Start() Status

	// NewSession allocates an offload session. Only meaningful after a Start
	// that returned StatusOK.
	NewSession() (Session, error)
}

var (
	backendMu sync.RWMutex
	backend   Backend = noBackend{}
)

// SetBackend installs the device binding used by Start and NewSession.
// Passing nil restores the default no-device backend. Call it during program
// initialization, before any codec compresses.
func SetBackend(b Backend) {
	backendMu.Lock()
	defer backendMu.Unlock()

	if b == nil {
		b = noBackend{}
	}
	backend = b
}

// Start brings the offload device up and reports its status. It never fails
// hard: callers treat anything but StatusOK as a degradation signal.
func Start() Status {
	backendMu.RLock()
	defer backendMu.RUnlock()

	return backend.Start()
}

// NewSession allocates an offload session from the installed backend.
func NewSession() (Session, error) {
	backendMu.RLock()
	defer backendMu.RUnlock()

	return backend.NewSession()
}

// MinLevel returns the lowest compression level the device interface accepts.
func MinLevel() int { return 1 }

// MaxLevel returns the highest compression level the device interface
// accepts. The device scale is narrower than the software engine's.
func MaxLevel() int { return 12 }

// noBackend is the default binding for builds without device support.
type noBackend struct{}

func (noBackend) Start() Status { return StatusNoDevice }

func (noBackend) NewSession() (Session, error) { return nil, ErrNoBackend }
