package codec

import "log/slog"

// log is the package logger. The only event this package emits is the
// warning on hardware-assisted initialization outcome.
var log = slog.Default()

// SetLogger replaces the package logger. Call it during program
// initialization, before any hardware-assisted codec compresses; a nil
// logger restores the process default.
func SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	log = logger
}
