package codec

import (
	"hash"
	"strconv"
	"strings"

	"github.com/20orange/blockcodec/endian"
	"github.com/20orange/blockcodec/format"
	idhash "github.com/20orange/blockcodec/internal/hash"
)

// Descriptor is the immutable identity of a codec instance: its registered
// name, wire method byte, and the ordered construction parameters. It is
// created once at construction time and never mutated; String reproduces the
// configuration form, and UpdateDigest/ID fingerprint it for schema
// identity and deduplication.
type Descriptor struct {
	name   string
	method format.Method
	args   []uint64
}

// NewDescriptor builds a descriptor. The args slice is copied so later
// mutation by the caller cannot change the identity.
func NewDescriptor(name string, method format.Method, args ...uint64) Descriptor {
	d := Descriptor{name: name, method: method}
	if len(args) > 0 {
		d.args = make([]uint64, len(args))
		copy(d.args, args)
	}

	return d
}

// Name returns the registered codec name.
func (d Descriptor) Name() string { return d.name }

// Method returns the wire method byte of the codec kind.
func (d Descriptor) Method() format.Method { return d.method }

// Arguments returns a copy of the ordered construction parameters.
func (d Descriptor) Arguments() []uint64 {
	if len(d.args) == 0 {
		return nil
	}
	out := make([]uint64, len(d.args))
	copy(out, d.args)

	return out
}

// String renders the serialized configuration form, e.g. "ZSTD(19)",
// "ZSTD(3, 24)", or "LZ4" for argument-free codecs.
func (d Descriptor) String() string {
	if len(d.args) == 0 {
		return d.name
	}

	var sb strings.Builder
	sb.WriteString(d.name)
	sb.WriteByte('(')
	for i, arg := range d.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(arg, 10))
	}
	sb.WriteByte(')')

	return sb.String()
}

// UpdateDigest feeds the descriptor into h: the length-prefixed name, the
// argument count, then each argument as a little-endian 64-bit value in
// construction order. The encoding is unambiguous, so distinct
// configurations never produce the same byte stream and equal configurations
// always hash equal.
func (d Descriptor) UpdateDigest(h hash.Hash) {
	eng := endian.GetLittleEndianEngine()

	var buf [8]byte
	eng.PutUint64(buf[:], uint64(len(d.name)))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(d.name))

	eng.PutUint64(buf[:], uint64(len(d.args)))
	_, _ = h.Write(buf[:])
	for _, arg := range d.args {
		eng.PutUint64(buf[:], arg)
		_, _ = h.Write(buf[:])
	}
}

// ID returns a 64-bit fingerprint of the configuration, stable across
// processes and releases. Equal configurations always produce equal IDs.
func (d Descriptor) ID() uint64 {
	return idhash.ID(d.String())
}
