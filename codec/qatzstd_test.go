package codec

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/format"
	"github.com/20orange/blockcodec/internal/engine"
	"github.com/20orange/blockcodec/internal/qat"
)

// recordingHandler captures log records so tests can assert on the one-time
// initialization warning.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())

	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) warnings() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []slog.Record
	for _, r := range h.records {
		if r.Level == slog.LevelWarn {
			out = append(out, r)
		}
	}

	return out
}

// recordAttr extracts a top-level attribute from a captured record.
func recordAttr(t *testing.T, r slog.Record, key string) slog.Value {
	t.Helper()

	var val slog.Value
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			val = a.Value
			found = true
			return false
		}
		return true
	})
	require.True(t, found, "record missing attribute %q", key)

	return val
}

func captureWarnings(t *testing.T) *recordingHandler {
	t.Helper()

	h := &recordingHandler{}
	SetLogger(slog.New(h))
	t.Cleanup(func() { SetLogger(nil) })

	return h
}

func installBackend(t *testing.T, b qat.Backend) {
	t.Helper()

	qat.SetBackend(b)
	t.Cleanup(func() { qat.SetBackend(nil) })
}

// fakeSession stands in for a hardware compression session. It emits real
// Zstandard frames so decoders cannot tell offloaded output apart from
// software output.
type fakeSession struct {
	mu            sync.Mutex
	compressCalls int
	releaseCalls  int
	lastLevel     int
	fail          error
}

func (s *fakeSession) CompressBlock(src, dst []byte, level int) (int, error) {
	s.mu.Lock()
	s.compressCalls++
	s.lastLevel = level
	fail := s.fail
	s.mu.Unlock()

	if fail != nil {
		return 0, fail
	}

	return engine.CompressBlock(engine.Params{Level: level}, src, dst)
}

func (s *fakeSession) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseCalls++

	return nil
}

func (s *fakeSession) counts() (compress, release int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.compressCalls, s.releaseCalls
}

type fakeBackend struct {
	mu         sync.Mutex
	status     qat.Status
	startCalls int
	session    *fakeSession
	sessionErr error
}

func (b *fakeBackend) Start() qat.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.startCalls++

	return b.status
}

func (b *fakeBackend) NewSession() (qat.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sessionErr != nil {
		return nil, b.sessionErr
	}

	return b.session, nil
}

func (b *fakeBackend) starts() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.startCalls
}

func TestQATZSTD_DefaultLevel(t *testing.T) {
	c, err := Construct("QATZSTD")
	require.NoError(t, err)

	require.Equal(t, "QATZSTD(1)", c.Descriptor().String())
	require.Equal(t, format.MethodZSTD, c.MethodByte())
	require.NoError(t, c.Close())
}

func TestQATZSTD_LevelBounds(t *testing.T) {
	c, err := NewQATZSTD(qat.MaxLevel())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = NewQATZSTD(qat.MaxLevel() + 1)
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)
	require.ErrorContains(t, err, "QATZSTD level")

	_, err = NewQATZSTD(0)
	require.ErrorIs(t, err, errs.ErrParameterOutOfRange)

	_, err = Construct("QATZSTD", 1, 2)
	require.ErrorIs(t, err, errs.ErrMalformedConfiguration)
}

func TestQATZSTD_SoftwareFallbackWithoutDevice(t *testing.T) {
	h := captureWarnings(t)
	installBackend(t, nil) // default backend: no device

	c, err := NewQATZSTD(3)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	data := generateTestPayload(4096)
	dst := make([]byte, c.MaxCompressedSize(len(data)))
	n, err := c.Compress(data, dst)
	require.NoError(t, err, "device unavailability must not fail compression")
	require.False(t, c.Offloaded())

	out := make([]byte, len(data))
	require.NoError(t, c.Decompress(dst[:n], out))
	require.Equal(t, data, out)

	warns := h.warnings()
	require.Len(t, warns, 1)
	require.Equal(t, "hardware-assisted ZSTD codec initialization result", warns[0].Message)
	require.Equal(t, int64(qat.StatusNoDevice), recordAttr(t, warns[0], "status").Int64())
	require.Equal(t, "degraded", recordAttr(t, warns[0], "state").String())

	// Later calls reuse the degraded state silently.
	_, err = c.Compress(data, dst)
	require.NoError(t, err)
	require.Len(t, h.warnings(), 1)
}

func TestQATZSTD_OffloadPath(t *testing.T) {
	h := captureWarnings(t)
	sess := &fakeSession{}
	backend := &fakeBackend{status: qat.StatusOK, session: sess}
	installBackend(t, backend)

	c, err := NewQATZSTD(5)
	require.NoError(t, err)
	require.False(t, c.Offloaded(), "no device contact before the first compress")

	data := generateTestPayload(4096)
	dst := make([]byte, c.MaxCompressedSize(len(data)))
	n, err := c.Compress(data, dst)
	require.NoError(t, err)
	require.True(t, c.Offloaded())

	compress, _ := sess.counts()
	require.Equal(t, 1, compress)
	require.Equal(t, 5, sess.lastLevel)

	out := make([]byte, len(data))
	require.NoError(t, c.Decompress(dst[:n], out))
	require.Equal(t, data, out)

	warns := h.warnings()
	require.Len(t, warns, 1)
	require.Equal(t, int64(qat.StatusOK), recordAttr(t, warns[0], "status").Int64())
	require.Equal(t, "ready", recordAttr(t, warns[0], "state").String())

	require.NoError(t, c.Close())
	_, release := sess.counts()
	require.Equal(t, 1, release)
	require.Equal(t, 1, backend.starts())

	// Close is idempotent and does not release the session twice.
	require.NoError(t, c.Close())
	_, release = sess.counts()
	require.Equal(t, 1, release)
}

func TestQATZSTD_OffloadErrorFallsBackPerBlock(t *testing.T) {
	captureWarnings(t)
	sess := &fakeSession{fail: errors.New("device timeout")}
	installBackend(t, &fakeBackend{status: qat.StatusOK, session: sess})

	c, err := NewQATZSTD(3)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	data := generateTestPayload(4096)
	dst := make([]byte, c.MaxCompressedSize(len(data)))
	n, err := c.Compress(data, dst)
	require.NoError(t, err, "per-block offload failure must fall back to software")

	compress, _ := sess.counts()
	require.Equal(t, 1, compress)

	out := make([]byte, len(data))
	require.NoError(t, c.Decompress(dst[:n], out))
	require.Equal(t, data, out)
}

func TestQATZSTD_SessionCreationFailure(t *testing.T) {
	h := captureWarnings(t)
	backend := &fakeBackend{status: qat.StatusOK, sessionErr: errors.New("no free session")}
	installBackend(t, backend)

	c, err := NewQATZSTD(3)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	data := generateTestPayload(1024)
	dst := make([]byte, c.MaxCompressedSize(len(data)))
	n, err := c.Compress(data, dst)
	require.NoError(t, err)
	require.False(t, c.Offloaded())

	out := make([]byte, len(data))
	require.NoError(t, c.Decompress(dst[:n], out))
	require.Equal(t, data, out)

	warns := h.warnings()
	require.Len(t, warns, 1)
	require.Equal(t, int64(qat.StatusFail), recordAttr(t, warns[0], "status").Int64())
	require.Equal(t, "degraded", recordAttr(t, warns[0], "state").String())
}

func TestQATZSTD_CloseWithoutUse(t *testing.T) {
	sess := &fakeSession{}
	backend := &fakeBackend{status: qat.StatusOK, session: sess}
	installBackend(t, backend)

	c, err := NewQATZSTD(1)
	require.NoError(t, err)

	// Never compressed: nothing was acquired, nothing to release.
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.Equal(t, 0, backend.starts())
	_, release := sess.counts()
	require.Equal(t, 0, release)
}

func TestQATZSTD_ConcurrentFirstUse(t *testing.T) {
	const numGoroutines = 8

	h := captureWarnings(t)
	sess := &fakeSession{}
	backend := &fakeBackend{status: qat.StatusOK, session: sess}
	installBackend(t, backend)

	c, err := NewQATZSTD(3)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	data := generateTestPayload(4096)
	done := make(chan error, numGoroutines)

	for range numGoroutines {
		go func() {
			dst := make([]byte, c.MaxCompressedSize(len(data)))
			n, err := c.Compress(data, dst)
			if err != nil {
				done <- err
				return
			}
			out := make([]byte, len(data))
			if err := c.Decompress(dst[:n], out); err != nil {
				done <- err
				return
			}
			done <- nil
		}()
	}

	for range numGoroutines {
		require.NoError(t, <-done)
	}

	// Exactly one initialization regardless of how many goroutines raced.
	require.Equal(t, 1, backend.starts())
	require.Len(t, h.warnings(), 1)
	require.True(t, c.Offloaded())

	compress, _ := sess.counts()
	require.Equal(t, numGoroutines, compress)
}
