package linage

import (
	"encoding/json"

	"github.com/minio/highwayhash"
)

// operationKey seeds the content key; highwayhash requires exactly 32 bytes
var operationKey = []byte("fieldlineage-operation-key-00000")

// Key returns a 64-bit HighwayHash of the operation's wire form.
// Structurally equal operations share a key; distinct ones may collide, so callers confirm with Equal.
func Key(op Operation) (uint64, error) {
	data, err := json.Marshal(ToRecord(op))
	if err != nil {
		return 0, err
	}
	return highwayhash.Sum64(data, operationKey), nil
}
