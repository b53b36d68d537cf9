package info

import (
	"github.com/viant/fieldlineage/checksum"
	"github.com/viant/fieldlineage/linage"
)

// Canonicalize returns the JSON array of operation records sorted by name.
// The same set of operations always yields the same bytes regardless of insertion order.
// Stored checksums are computed over this form, so any change requires migrating them.
func Canonicalize(ops []linage.Operation) ([]byte, error) {
	return linage.EncodeJSON(sortByName(ops))
}

// Checksum returns the 64-bit Rabin fingerprint of the canonical form of ops
func Checksum(ops []linage.Operation) (int64, error) {
	data, err := Canonicalize(ops)
	if err != nil {
		return 0, err
	}
	return checksum.Fingerprint64(data), nil
}
