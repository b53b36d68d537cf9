package linage

import "fmt"

// OperationType identifies the variant of a field lineage operation
type OperationType string

const (
	Read      OperationType = "READ"
	Transform OperationType = "TRANSFORM"
	Write     OperationType = "WRITE"
)

// Valid reports whether t is one of the known operation types
func (t OperationType) Valid() bool {
	switch t {
	case Read, Transform, Write:
		return true
	}
	return false
}

// ParseOperationType converts a wire value into an OperationType
func ParseOperationType(value string) (OperationType, error) {
	t := OperationType(value)
	if !t.Valid() {
		return "", fmt.Errorf("unsupported operation type: %q", value)
	}
	return t, nil
}
