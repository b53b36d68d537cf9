package linage

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Record is the wire form of an Operation.
// Field order is part of the canonical form and must not change.
type Record struct {
	Name        string        `json:"name" yaml:"name"`
	Type        OperationType `json:"type" yaml:"type"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Source      *EndPoint     `json:"source,omitempty" yaml:"source,omitempty"`
	Inputs      []InputField  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     []string      `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Destination *EndPoint     `json:"destination,omitempty" yaml:"destination,omitempty"`
}

// ToRecord converts an operation into its wire form
func ToRecord(op Operation) Record {
	record := Record{Name: op.Name(), Type: op.Type(), Description: op.Description()}
	switch actual := op.(type) {
	case *ReadOperation:
		record.Source = actual.Source()
		record.Outputs = actual.Outputs()
	case *TransformOperation:
		record.Inputs = actual.Inputs()
		record.Outputs = actual.Outputs()
	case *WriteOperation:
		record.Destination = actual.Destination()
		record.Inputs = actual.Inputs()
	}
	return record
}

// Operation converts the record back into an operation
func (r *Record) Operation() (Operation, error) {
	if _, err := ParseOperationType(string(r.Type)); err != nil {
		return nil, fmt.Errorf("operation %q: %w", r.Name, err)
	}
	switch r.Type {
	case Read:
		if len(r.Inputs) > 0 || r.Destination != nil {
			return nil, fmt.Errorf("read operation %q cannot declare inputs or destination", r.Name)
		}
		return NewRead(r.Name, r.Description, r.Source, r.Outputs...), nil
	case Transform:
		if r.Source != nil || r.Destination != nil {
			return nil, fmt.Errorf("transform operation %q cannot declare source or destination", r.Name)
		}
		return NewTransform(r.Name, r.Description, r.Inputs, r.Outputs...), nil
	default:
		if len(r.Outputs) > 0 || r.Source != nil {
			return nil, fmt.Errorf("write operation %q cannot declare outputs or source", r.Name)
		}
		return NewWrite(r.Name, r.Description, r.Destination, r.Inputs...), nil
	}
}

// ToRecords converts operations into wire records, preserving order
func ToRecords(ops []Operation) []Record {
	records := make([]Record, 0, len(ops))
	for _, op := range ops {
		records = append(records, ToRecord(op))
	}
	return records
}

// FromRecords converts wire records into operations, preserving order
func FromRecords(records []Record) ([]Operation, error) {
	ops := make([]Operation, 0, len(records))
	for i := range records {
		op, err := records[i].Operation()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// EncodeJSON encodes operations as a JSON array of records
func EncodeJSON(ops []Operation) ([]byte, error) {
	return json.Marshal(ToRecords(ops))
}

// DecodeJSON decodes a JSON array of records
func DecodeJSON(data []byte) ([]Operation, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode operations: %w", err)
	}
	return FromRecords(records)
}

// EncodeYAML encodes operations as a YAML sequence of records
func EncodeYAML(ops []Operation) ([]byte, error) {
	return yaml.Marshal(ToRecords(ops))
}

// DecodeYAML decodes a YAML sequence of records
func DecodeYAML(data []byte) ([]Operation, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode operations: %w", err)
	}
	return FromRecords(records)
}
