// Package info builds field level lineage for a single program run.
//
// A FieldLineage validates a collection of read, transform and write operations,
// derives which destination fields were computed from which source fields (and the inverse),
// answers per-field operation queries and identifies the snapshot with a checksum of its
// canonical form. Instances are immutable; derived views are computed once and cached.
package info

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/viant/fieldlineage/linage"
)

// FieldLineage is an immutable, validated snapshot of field lineage operations
type FieldLineage struct {
	operations []linage.Operation // sorted by name
	checksum   int64
	logger     *slog.Logger

	graphOnce sync.Once
	graph     *graph

	summaryOnce sync.Once
	incoming    Summary
	outgoing    Summary

	destinationOnce   sync.Once
	destinationFields map[linage.EndPoint][]string

	endPointOnce sync.Once
	sources      []linage.EndPoint
	destinations []linage.EndPoint
}

// New validates ops and creates a FieldLineage.
// Structurally equal operations collapse into one. All operations must have unique names,
// there must be at least one read and one write, and every input origin must name an operation.
// Whether a path exists from sources to destinations is not validated; without one the lineage is incomplete.
func New(ops []linage.Operation, opts ...Option) (*FieldLineage, error) {
	o := newOptions(opts)
	distinct, err := linage.Distinct(ops)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("received field lineage operations", "count", len(distinct), "operations", operationsValue(distinct))
	if err := validate(distinct); err != nil {
		o.logger.Debug("rejected field lineage operations", "error", err)
		return nil, err
	}
	sorted := sortByName(distinct)
	sum, err := Checksum(sorted)
	if err != nil {
		return nil, err
	}
	result := &FieldLineage{operations: sorted, checksum: sum, logger: o.logger}
	result.index()
	if o.summaries {
		result.DestinationFields()
		result.summaries()
	}
	return result, nil
}

// index returns the graph indices, rebuilding them when the instance was restored without them
func (f *FieldLineage) index() *graph {
	f.graphOnce.Do(func() {
		f.graph = newGraph(f.operations)
	})
	return f.graph
}

func (f *FieldLineage) summaries() (Summary, Summary) {
	f.summaryOnce.Do(func() {
		s := newSummarizer(f.index())
		f.incoming = s.incoming()
		f.outgoing = s.outgoing(f.incoming)
	})
	return f.incoming, f.outgoing
}

// Checksum returns the fingerprint of the canonical form; it identifies the snapshot
func (f *FieldLineage) Checksum() int64 {
	return f.checksum
}

// Operations returns the operations sorted by name
func (f *FieldLineage) Operations() []linage.Operation {
	return append([]linage.Operation{}, f.operations...)
}

// Operation returns the named operation
func (f *FieldLineage) Operation(name string) (linage.Operation, bool) {
	op, ok := f.index().operations[name]
	return op, ok
}

// DestinationFields returns, per destination endpoint, the fields written to it including dropped fields
func (f *FieldLineage) DestinationFields() map[linage.EndPoint][]string {
	f.destinationOnce.Do(func() {
		g := f.index()
		fields := map[linage.EndPoint]map[string]struct{}{}
		for _, write := range g.writes {
			destination := *write.Destination()
			set, ok := fields[destination]
			if !ok {
				set = map[string]struct{}{}
				fields[destination] = set
			}
			for _, input := range linage.Inputs(write) {
				set[input.Name] = struct{}{}
			}
			for name := range g.dropped {
				set[name] = struct{}{}
			}
		}
		f.destinationFields = make(map[linage.EndPoint][]string, len(fields))
		for endPoint, set := range fields {
			f.destinationFields[endPoint] = sortedKeys(set)
		}
	})
	result := make(map[linage.EndPoint][]string, len(f.destinationFields))
	for endPoint, fields := range f.destinationFields {
		result[endPoint] = append([]string{}, fields...)
	}
	return result
}

// IncomingSummary maps each destination field to the source fields that were responsible for generating it
func (f *FieldLineage) IncomingSummary() Summary {
	incoming, _ := f.summaries()
	return incoming.clone()
}

// OutgoingSummary maps each source field to the destination fields generated from it.
// A dropped field maps to an empty slice under every source endpoint it could have come from.
func (f *FieldLineage) OutgoingSummary() Summary {
	_, outgoing := f.summaries()
	return outgoing.clone()
}

// DroppedFields returns the field names consumed by a transform but not re-emitted, sorted
func (f *FieldLineage) DroppedFields() []string {
	return f.index().droppedFields()
}

// Sources returns the distinct source endpoints of read operations
func (f *FieldLineage) Sources() []linage.EndPoint {
	f.populateEndPoints()
	return append([]linage.EndPoint{}, f.sources...)
}

// Destinations returns the distinct destination endpoints of write operations
func (f *FieldLineage) Destinations() []linage.EndPoint {
	f.populateEndPoints()
	return append([]linage.EndPoint{}, f.destinations...)
}

func (f *FieldLineage) populateEndPoints() {
	f.endPointOnce.Do(func() {
		g := f.index()
		sources := map[linage.EndPoint]struct{}{}
		for _, read := range g.reads {
			sources[*read.Source()] = struct{}{}
		}
		destinations := map[linage.EndPoint]struct{}{}
		for _, write := range g.writes {
			destinations[*write.Destination()] = struct{}{}
		}
		f.sources = sortedEndPoints(sources)
		f.destinations = sortedEndPoints(destinations)
	})
}

// IncomingOperations returns the operations responsible for computing destinationField, sorted by name.
// For
//
//	pRead: personFile -> (offset, body)
//	parse: body -> (id, name, address)
//	cRead: codeFile -> id
//	codeGen: (parse.id, cRead.id) -> id
//	sWrite: (codeGen.id, parse.name, parse.address) -> secureStore
//	iWrite: (parse.id, parse.name, parse.address) -> insecureStore
//
// insecureStore.id yields iWrite, parse, pRead and secureStore.id yields sWrite, codeGen, parse, pRead, cRead.
func (f *FieldLineage) IncomingOperations(destinationField linage.EndPointField) []linage.Operation {
	return f.index().incomingOperations(destinationField)
}

// OutgoingOperations returns the operations that used sourceField, sorted by name.
// With the operations of IncomingOperations, codeFile.id yields cRead, codeGen, sWrite and
// personFile.body yields pRead, parse, codeGen, sWrite, iWrite.
func (f *FieldLineage) OutgoingOperations(sourceField linage.EndPointField) []linage.Operation {
	return f.index().outgoingOperations(sourceField)
}

// IncomingOperationsSorted returns IncomingOperations in topological order
func (f *FieldLineage) IncomingOperationsSorted(destinationField linage.EndPointField) ([]linage.Operation, error) {
	return TopologicalSort(f.IncomingOperations(destinationField))
}

// OutgoingOperationsSorted returns OutgoingOperations in topological order
func (f *FieldLineage) OutgoingOperationsSorted(sourceField linage.EndPointField) ([]linage.Operation, error) {
	return TopologicalSort(f.OutgoingOperations(sourceField))
}

// Equal reports whether both snapshots have the same checksum; checksum is the sole identity
func (f *FieldLineage) Equal(other *FieldLineage) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.checksum == other.checksum
}

func sortedEndPoints(set map[linage.EndPoint]struct{}) []linage.EndPoint {
	result := make([]linage.EndPoint, 0, len(set))
	for endPoint := range set {
		result = append(result, endPoint)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Namespace != result[j].Namespace {
			return result[i].Namespace < result[j].Namespace
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// operationsValue defers encoding operations until a log record is actually emitted
type operationsValue []linage.Operation

func (v operationsValue) LogValue() slog.Value {
	data, err := json.Marshal(linage.ToRecords(v))
	if err != nil {
		return slog.StringValue(err.Error())
	}
	return slog.StringValue(string(data))
}
