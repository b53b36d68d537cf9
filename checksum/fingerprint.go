// Package checksum computes the 64-bit Rabin fingerprint (CRC-64-AVRO) used by Avro for
// schema fingerprints. Stored lineage checksums depend on this exact algorithm; changing it
// requires migrating every persisted checksum.
package checksum

// Empty is the fingerprint of zero bytes and the seed of every computation
const Empty uint64 = 0xc15d213aa4d7a795

var table = func() [256]uint64 {
	var t [256]uint64
	for i := range t {
		fp := uint64(i)
		for j := 0; j < 8; j++ {
			fp = (fp >> 1) ^ (Empty & -(fp & 1))
		}
		t[i] = fp
	}
	return t
}()

// Fingerprint64 returns the fingerprint of data as a signed value, matching how it is persisted
func Fingerprint64(data []byte) int64 {
	return int64(Sum64(data))
}

// Sum64 returns the unsigned fingerprint of data
func Sum64(data []byte) uint64 {
	result := Empty
	for _, b := range data {
		result = (result >> 8) ^ table[byte(result)^b]
	}
	return result
}
