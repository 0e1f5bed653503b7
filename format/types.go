// Package format defines the wire-level identifiers shared by codec producers
// and block readers.
package format

import "fmt"

// Method identifies the codec kind that produced a compressed block.
//
// The byte is stored next to each compressed block on disk or on the wire so a
// reader can pick the matching decompressor without re-parsing configuration.
// The values for NONE, LZ4, and ZSTD follow the established block-storage wire
// convention and must never change; codecs added later take values outside the
// historical range.
type Method byte

const (
	MethodNone Method = 0x02 // MethodNone tags blocks stored without compression.
	MethodLZ4  Method = 0x82 // MethodLZ4 tags LZ4 block frames, plain and high-compression.
	MethodZSTD Method = 0x90 // MethodZSTD tags Zstandard frames, software or hardware-assisted.
	MethodS2   Method = 0xa0 // MethodS2 tags S2-encoded blocks.
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "NONE"
	case MethodLZ4:
		return "LZ4"
	case MethodZSTD:
		return "ZSTD"
	case MethodS2:
		return "S2"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", byte(m))
	}
}
