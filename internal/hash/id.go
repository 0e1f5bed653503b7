// Package hash provides the identity hash used to fingerprint codec
// configurations.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a codec configuration string.
//
// The hash is stable across processes and releases, so it can identify and
// deduplicate codec configurations in persisted schema fingerprints.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
