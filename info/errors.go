package info

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicateOperationName     = errors.New("duplicate operation name")
	ErrMissingSourceEndpoint      = errors.New("missing source endpoint")
	ErrMissingDestinationEndpoint = errors.New("missing destination endpoint")
	ErrUnknownOrigin              = errors.New("unknown origin")
	ErrEmptyReadSet               = errors.New("at least one operation of type 'READ' is required")
	ErrEmptyWriteSet              = errors.New("at least one operation of type 'WRITE' is required")
	ErrCycleDetected              = errors.New("cycle detected")
	ErrChecksumMismatch           = errors.New("checksum mismatch")
	ErrSummaryMismatch            = errors.New("summary mismatch")
)

// ValidationError reports why a collection of operations does not form a valid lineage graph.
// Use errors.Is with the Err* sentinels to classify it.
type ValidationError struct {
	Err       error
	Operation string   // offending operation, if any
	Origins   []string // unresolved origins, sorted
}

func (e *ValidationError) Error() string {
	switch {
	case len(e.Origins) > 0:
		return fmt.Sprintf("invalid field lineage: %v: no operation is associated with the origins '%s'", e.Err, strings.Join(e.Origins, "', '"))
	case e.Operation != "":
		return fmt.Sprintf("invalid field lineage: %v: operation '%s'", e.Err, e.Operation)
	}
	return fmt.Sprintf("invalid field lineage: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CycleError is returned by TopologicalSort when operations consume each other's outputs.
type CycleError struct {
	// Residual maps an operation name to the consumers still connected to it after sorting
	Residual map[string][]string
}

func (e *CycleError) Error() string {
	names := make([]string, 0, len(e.Residual))
	for name := range e.Residual {
		names = append(names, name)
	}
	sort.Strings(names)
	builder := strings.Builder{}
	for i, name := range names {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(name)
		builder.WriteString("=[")
		builder.WriteString(strings.Join(e.Residual[name], ", "))
		builder.WriteString("]")
	}
	return fmt.Sprintf("%v in graph for operations {%s}", ErrCycleDetected, builder.String())
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }
