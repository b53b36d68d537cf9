package linage

import "slices"

// Operation is a single named step of a field lineage graph.
// It is implemented by *ReadOperation, *TransformOperation and *WriteOperation only.
type Operation interface {
	// Name returns the operation name, unique within a snapshot
	Name() string
	// Type returns the operation variant
	Type() OperationType
	// Description returns an optional human readable description
	Description() string
	operation()
	isNil() bool
}

type base struct {
	name        string
	description string
}

func (b *base) Name() string        { return b.name }
func (b *base) Description() string { return b.description }
func (b *base) operation()          {}

// ReadOperation reads fields from a source endpoint
type ReadOperation struct {
	base
	source  *EndPoint
	outputs []string
}

// NewRead creates a read operation producing outputs from source
func NewRead(name, description string, source *EndPoint, outputs ...string) *ReadOperation {
	return &ReadOperation{
		base:    base{name: name, description: description},
		source:  cloneEndPoint(source),
		outputs: slices.Clone(outputs),
	}
}

func (r *ReadOperation) Type() OperationType { return Read }

func (r *ReadOperation) isNil() bool { return r == nil }

// Source returns the source endpoint or nil when it was not supplied
func (r *ReadOperation) Source() *EndPoint { return cloneEndPoint(r.source) }

// Outputs returns the names of fields produced by the read
func (r *ReadOperation) Outputs() []string { return slices.Clone(r.outputs) }

// HasOutput reports whether the read produces the named field
func (r *ReadOperation) HasOutput(field string) bool {
	return slices.Contains(r.outputs, field)
}

// TransformOperation computes output fields from input fields of other operations
type TransformOperation struct {
	base
	inputs  []InputField
	outputs []string
}

// NewTransform creates a transform operation
func NewTransform(name, description string, inputs []InputField, outputs ...string) *TransformOperation {
	return &TransformOperation{
		base:    base{name: name, description: description},
		inputs:  slices.Clone(inputs),
		outputs: slices.Clone(outputs),
	}
}

func (t *TransformOperation) Type() OperationType { return Transform }

func (t *TransformOperation) isNil() bool { return t == nil }

// Inputs returns the consumed input fields
func (t *TransformOperation) Inputs() []InputField { return slices.Clone(t.inputs) }

// Outputs returns the names of produced fields
func (t *TransformOperation) Outputs() []string { return slices.Clone(t.outputs) }

// WriteOperation writes input fields to a destination endpoint
type WriteOperation struct {
	base
	destination *EndPoint
	inputs      []InputField
}

// NewWrite creates a write operation
func NewWrite(name, description string, destination *EndPoint, inputs ...InputField) *WriteOperation {
	return &WriteOperation{
		base:        base{name: name, description: description},
		destination: cloneEndPoint(destination),
		inputs:      slices.Clone(inputs),
	}
}

func (w *WriteOperation) Type() OperationType { return Write }

func (w *WriteOperation) isNil() bool { return w == nil }

// Destination returns the destination endpoint or nil when it was not supplied
func (w *WriteOperation) Destination() *EndPoint { return cloneEndPoint(w.destination) }

// Inputs returns the written input fields
func (w *WriteOperation) Inputs() []InputField { return slices.Clone(w.inputs) }

// Inputs returns a copy of the input fields consumed by op; reads consume none
func Inputs(op Operation) []InputField {
	return slices.Clone(inputs(op))
}

// Outputs returns a copy of the field names produced by op; writes produce none
func Outputs(op Operation) []string {
	return slices.Clone(outputs(op))
}

func inputs(op Operation) []InputField {
	switch actual := op.(type) {
	case *TransformOperation:
		return actual.inputs
	case *WriteOperation:
		return actual.inputs
	}
	return nil
}

func outputs(op Operation) []string {
	switch actual := op.(type) {
	case *ReadOperation:
		return actual.outputs
	case *TransformOperation:
		return actual.outputs
	}
	return nil
}

// IsNil reports whether op is nil, including a nil pointer of one of the operation types
func IsNil(op Operation) bool {
	return op == nil || op.isNil()
}

// Consumes reports whether op declares input among its inputs
func Consumes(op Operation, input InputField) bool {
	if IsNil(op) {
		return false
	}
	return slices.Contains(inputs(op), input)
}

// Equal reports whether two operations are structurally equal
func Equal(a, b Operation) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	if a.Type() != b.Type() || a.Name() != b.Name() || a.Description() != b.Description() {
		return false
	}
	switch x := a.(type) {
	case *ReadOperation:
		y := b.(*ReadOperation)
		return equalEndPoint(x.source, y.source) && slices.Equal(x.outputs, y.outputs)
	case *TransformOperation:
		y := b.(*TransformOperation)
		return slices.Equal(x.inputs, y.inputs) && slices.Equal(x.outputs, y.outputs)
	case *WriteOperation:
		y := b.(*WriteOperation)
		return equalEndPoint(x.destination, y.destination) && slices.Equal(x.inputs, y.inputs)
	}
	return false
}

func equalEndPoint(a, b *EndPoint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneEndPoint(e *EndPoint) *EndPoint {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}
