package info

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/viant/fieldlineage/linage"
)

// payload is the transport form of a FieldLineage; summaries travel with the operations
// so a receiver does not have to recompute them
type payload struct {
	Operations        []linage.Record    `json:"operations"`
	Checksum          int64              `json:"checksum"`
	DestinationFields []destinationEntry `json:"destinationFields,omitempty"`
	IncomingSummary   []summaryEntry     `json:"incomingSummary,omitempty"`
	OutgoingSummary   []summaryEntry     `json:"outgoingSummary,omitempty"`
	DroppedFields     []string           `json:"droppedFields,omitempty"`
}

type destinationEntry struct {
	EndPoint linage.EndPoint `json:"endPoint"`
	Fields   []string        `json:"fields"`
}

type summaryEntry struct {
	Field  linage.EndPointField   `json:"field"`
	Fields []linage.EndPointField `json:"fields"`
}

// MarshalJSON encodes operations, checksum and all derived views, computing them if needed
func (f *FieldLineage) MarshalJSON() ([]byte, error) {
	incoming, outgoing := f.summaries()
	p := payload{
		Operations:      linage.ToRecords(f.operations),
		Checksum:        f.checksum,
		IncomingSummary: summaryEntries(incoming),
		OutgoingSummary: summaryEntries(outgoing),
		DroppedFields:   f.DroppedFields(),
	}
	destinations := f.DestinationFields()
	for _, endPoint := range f.Destinations() {
		p.DestinationFields = append(p.DestinationFields, destinationEntry{EndPoint: endPoint, Fields: destinations[endPoint]})
	}
	return json.Marshal(p)
}

// UnmarshalJSON restores a FieldLineage; it must be called on a zero value.
// Operations are re-validated and the checksum verified. Views carried in the payload are not trusted:
// they are recomputed from the operations and any disagreement is reported as ErrSummaryMismatch.
func (f *FieldLineage) UnmarshalJSON(data []byte) error {
	if f.operations != nil {
		return errors.New("field lineage is immutable: unmarshal into a zero value")
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	ops, err := linage.FromRecords(p.Operations)
	if err != nil {
		return err
	}
	if ops, err = linage.Distinct(ops); err != nil {
		return err
	}
	if err := validate(ops); err != nil {
		return err
	}
	sorted := sortByName(ops)
	sum, err := Checksum(sorted)
	if err != nil {
		return err
	}
	if sum != p.Checksum {
		return fmt.Errorf("%w: expected %d, computed %d", ErrChecksumMismatch, p.Checksum, sum)
	}
	restored := &FieldLineage{operations: sorted, checksum: sum}
	if err := restored.verify(&p); err != nil {
		return err
	}
	f.operations = sorted
	f.checksum = sum
	f.logger = slog.Default()
	f.graphOnce.Do(func() { f.graph = restored.graph })
	f.summaryOnce.Do(func() { f.incoming, f.outgoing = restored.incoming, restored.outgoing })
	f.destinationOnce.Do(func() { f.destinationFields = restored.destinationFields })
	return nil
}

// verify compares the views carried by p with those derived from the operations
func (f *FieldLineage) verify(p *payload) error {
	incoming, outgoing := f.summaries()
	destinations := f.DestinationFields()
	if p.IncomingSummary != nil && !equalSummary(incoming, fromSummaryEntries(p.IncomingSummary)) {
		return fmt.Errorf("%w: incoming summary", ErrSummaryMismatch)
	}
	if p.OutgoingSummary != nil && !equalSummary(outgoing, fromSummaryEntries(p.OutgoingSummary)) {
		return fmt.Errorf("%w: outgoing summary", ErrSummaryMismatch)
	}
	if p.DestinationFields != nil {
		carried := make(map[linage.EndPoint][]string, len(p.DestinationFields))
		for _, entry := range p.DestinationFields {
			carried[entry.EndPoint] = entry.Fields
		}
		if !maps.EqualFunc(destinations, carried, slices.Equal[[]string, string]) {
			return fmt.Errorf("%w: destination fields", ErrSummaryMismatch)
		}
	}
	if p.DroppedFields != nil && !slices.Equal(f.DroppedFields(), p.DroppedFields) {
		return fmt.Errorf("%w: dropped fields", ErrSummaryMismatch)
	}
	return nil
}

func equalSummary(a, b Summary) bool {
	return maps.EqualFunc(a, b, slices.Equal[[]linage.EndPointField, linage.EndPointField])
}

func summaryEntries(summary Summary) []summaryEntry {
	entries := make([]summaryEntry, 0, len(summary))
	for _, field := range summary.Fields() {
		entries = append(entries, summaryEntry{Field: field, Fields: summary[field]})
	}
	return entries
}

func fromSummaryEntries(entries []summaryEntry) Summary {
	summary := make(Summary, len(entries))
	for _, entry := range entries {
		fields := entry.Fields
		if fields == nil {
			fields = []linage.EndPointField{}
		}
		summary[entry.Field] = fields
	}
	return summary
}
