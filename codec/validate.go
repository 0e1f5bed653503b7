package codec

import (
	"fmt"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/internal/engine"
)

// Construction-time argument validation. Count checks always run before
// range checks so a misshapen configuration reports as malformed rather than
// out of range.

// noArgs rejects any construction arguments for codecs that take none.
func noArgs(name string, args []uint64) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: %s accepts no arguments, given %d", errs.ErrMalformedConfiguration, name, len(args))
	}

	return nil
}

// maxArgs rejects configurations with more than max construction arguments.
// Missing arguments are legal; they take the codec's documented defaults.
func maxArgs(name string, args []uint64, max int) error {
	if len(args) > max {
		return fmt.Errorf("%w: %s accepts at most %d arguments, given %d", errs.ErrMalformedConfiguration, name, max, len(args))
	}

	return nil
}

// levelInRange validates a compression level against an engine-reported
// inclusive range. The int64 domain keeps 64-bit configuration literals
// comparable without overflow on any platform.
func levelInRange(name string, level int64, lo, hi int) error {
	if level < int64(lo) || level > int64(hi) {
		return fmt.Errorf("%w: %s level must be within [%d, %d], given %d", errs.ErrParameterOutOfRange, name, lo, hi, level)
	}

	return nil
}

// windowLogInRange validates a long-range window log against the
// engine-reported bounds. Zero is always accepted and means "engine default
// window". A bounds-query failure reports the parameter as unsupported.
func windowLogInRange(windowLog int64) error {
	if windowLog == 0 {
		return nil
	}

	bounds, err := engine.WindowLogBounds()
	if err != nil {
		return fmt.Errorf("%w: long-range window: %v", errs.ErrUnsupportedParameter, err)
	}
	if windowLog < int64(bounds.Lower) || windowLog > int64(bounds.Upper) {
		return fmt.Errorf("%w: ZSTD window log must be within [%d, %d], given %d",
			errs.ErrParameterOutOfRange, bounds.Lower, bounds.Upper, windowLog)
	}

	return nil
}
