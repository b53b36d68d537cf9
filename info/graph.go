package info

import (
	"sort"

	"github.com/viant/fieldlineage/linage"
)

// graph indexes a collection of operations by name; edges are name references resolved on lookup
type graph struct {
	operations map[string]linage.Operation
	reads      []*linage.ReadOperation  // sorted by name
	writes     []*linage.WriteOperation // sorted by name
	// outgoing maps an operation name to the operations consuming its output;
	// operations without consumers map to an empty slice
	outgoing map[string][]linage.Operation
	// dropped holds field names consumed by a transform but not re-emitted
	dropped map[string]struct{}
	// droppedBy holds, per transform, the input names it drops
	droppedBy map[string]map[string]struct{}
	// droppedInputs holds the consumed input fields behind dropped
	droppedInputs []linage.InputField
}

// validate checks that ops form a well formed lineage graph; ops must already be distinct
func validate(ops []linage.Operation) error {
	names := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		if _, ok := names[op.Name()]; ok {
			return &ValidationError{Err: ErrDuplicateOperationName, Operation: op.Name()}
		}
		names[op.Name()] = struct{}{}
	}

	var hasRead, hasWrite bool
	for _, op := range ops {
		if read, ok := op.(*linage.ReadOperation); ok {
			hasRead = true
			if read.Source() == nil {
				return &ValidationError{Err: ErrMissingSourceEndpoint, Operation: read.Name()}
			}
		}
	}
	for _, op := range ops {
		if write, ok := op.(*linage.WriteOperation); ok {
			hasWrite = true
			if write.Destination() == nil {
				return &ValidationError{Err: ErrMissingDestinationEndpoint, Operation: write.Name()}
			}
		}
	}
	if !hasRead {
		return &ValidationError{Err: ErrEmptyReadSet}
	}
	if !hasWrite {
		return &ValidationError{Err: ErrEmptyWriteSet}
	}

	unknown := map[string]struct{}{}
	for _, op := range ops {
		for _, input := range linage.Inputs(op) {
			if _, ok := names[input.Origin]; !ok {
				unknown[input.Origin] = struct{}{}
			}
		}
	}
	if len(unknown) > 0 {
		return &ValidationError{Err: ErrUnknownOrigin, Origins: sortedKeys(unknown)}
	}
	return nil
}

// newGraph builds the indices; origins missing from ops are tolerated and simply never resolve
func newGraph(ops []linage.Operation) *graph {
	g := &graph{
		operations: make(map[string]linage.Operation, len(ops)),
		outgoing:   make(map[string][]linage.Operation, len(ops)),
		dropped:    map[string]struct{}{},
		droppedBy:  map[string]map[string]struct{}{},
	}
	for _, op := range ops {
		g.operations[op.Name()] = op
	}

	names := sortedKeys(g.operations)
	for _, name := range names {
		op := g.operations[name]
		if _, ok := g.outgoing[name]; !ok {
			g.outgoing[name] = []linage.Operation{}
		}
		switch actual := op.(type) {
		case *linage.ReadOperation:
			g.reads = append(g.reads, actual)
		case *linage.TransformOperation:
			g.addConsumer(actual)
			g.addDropped(actual)
		case *linage.WriteOperation:
			g.writes = append(g.writes, actual)
			g.addConsumer(actual)
		}
	}
	return g
}

// addConsumer registers op under every distinct origin of its inputs; names are visited in order so consumers stay sorted
func (g *graph) addConsumer(op linage.Operation) {
	seen := map[string]struct{}{}
	for _, input := range linage.Inputs(op) {
		if _, ok := seen[input.Origin]; ok {
			continue
		}
		seen[input.Origin] = struct{}{}
		g.outgoing[input.Origin] = append(g.outgoing[input.Origin], op)
	}
}

// addDropped accumulates the input names of a transform whose consumed names strictly contain its produced names
func (g *graph) addDropped(transform *linage.TransformOperation) {
	consumed := map[string]struct{}{}
	for _, input := range linage.Inputs(transform) {
		consumed[input.Name] = struct{}{}
	}
	produced := map[string]struct{}{}
	for _, output := range linage.Outputs(transform) {
		produced[output] = struct{}{}
	}
	if len(consumed) <= len(produced) {
		return
	}
	for name := range produced {
		if _, ok := consumed[name]; !ok {
			return
		}
	}
	drops := map[string]struct{}{}
	g.droppedBy[transform.Name()] = drops
	for _, input := range linage.Inputs(transform) {
		if _, ok := produced[input.Name]; ok {
			continue
		}
		drops[input.Name] = struct{}{}
		g.dropped[input.Name] = struct{}{}
		g.droppedInputs = append(g.droppedInputs, input)
	}
}

func (g *graph) drops(transform, field string) bool {
	_, ok := g.droppedBy[transform][field]
	return ok
}

func (g *graph) droppedFields() []string {
	return sortedKeys(g.dropped)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortByName(ops []linage.Operation) []linage.Operation {
	sorted := make([]linage.Operation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name() < sorted[j].Name()
	})
	return sorted
}
