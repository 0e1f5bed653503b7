// Package errs defines the sentinel errors shared across blockcodec packages.
//
// Callers classify failures with errors.Is against these sentinels. Call sites
// add context by wrapping, e.g.:
//
//	fmt.Errorf("%w: ZSTD accepts at most 2 arguments, given 3", errs.ErrMalformedConfiguration)
package errs

import "errors"

// Construction errors, surfaced when a codec is built from configuration.
// They indicate caller misconfiguration and are never worth retrying.
var (
	// ErrMalformedConfiguration indicates a codec received the wrong number or
	// shape of construction arguments. It is always raised before any range
	// validation runs.
	ErrMalformedConfiguration = errors.New("malformed codec configuration")

	// ErrParameterOutOfRange indicates a numeric argument fell outside the
	// bounds reported by the compression engine or offload device.
	ErrParameterOutOfRange = errors.New("codec parameter out of range")

	// ErrUnsupportedParameter indicates the engine could not report bounds for
	// a tunable parameter, so the parameter cannot be honored.
	ErrUnsupportedParameter = errors.New("codec parameter not supported by engine")

	// ErrUnknownCodec indicates a registry lookup by an unregistered codec
	// name or wire method byte.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Runtime errors, surfaced per compress or decompress call. The destination
// buffer contents are undefined after either of them.
var (
	// ErrCompressionFailed indicates the engine reported an error while
	// compressing a block. The wrapped message carries the engine diagnostic.
	ErrCompressionFailed = errors.New("block compression failed")

	// ErrDecompressionFailed indicates the engine reported an error while
	// decompressing a block, including corrupt, truncated, or size-mismatched
	// input. The wrapped message carries the engine diagnostic.
	ErrDecompressionFailed = errors.New("block decompression failed")
)
