package info

import "github.com/viant/fieldlineage/linage"

// incomingOperations returns the operations that contributed to a destination field.
// Origins absent from the graph end the traversal at that point.
func (g *graph) incomingOperations(field linage.EndPointField) []linage.Operation {
	visited := map[string]linage.Operation{}
	var pending []string
	for _, write := range g.writes {
		destination := write.Destination()
		if destination == nil || *destination != field.EndPoint {
			continue
		}
		for _, input := range linage.Inputs(write) {
			if input.Name != field.Field {
				continue
			}
			visited[write.Name()] = write
			pending = append(pending, input.Origin)
		}
	}

	for len(pending) > 0 {
		name := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := visited[name]; ok {
			continue
		}
		op, ok := g.operations[name]
		if !ok {
			continue
		}
		visited[name] = op
		// reads are the leaves of the backward traversal
		if op.Type() != linage.Transform {
			continue
		}
		for _, input := range linage.Inputs(op) {
			pending = append(pending, input.Origin)
		}
	}
	return collect(visited)
}

// outgoingOperations returns the operations that depend on a source field.
// The first hop only follows consumers that declare the field as an input.
func (g *graph) outgoingOperations(field linage.EndPointField) []linage.Operation {
	visited := map[string]linage.Operation{}
	var pending []linage.Operation
	for _, read := range g.reads {
		source := read.Source()
		if source == nil || *source != field.EndPoint || !read.HasOutput(field.Field) {
			continue
		}
		visited[read.Name()] = read
		input := linage.NewInputField(read.Name(), field.Field)
		for _, consumer := range g.outgoing[read.Name()] {
			if linage.Consumes(consumer, input) {
				pending = append(pending, consumer)
			}
		}
	}

	for len(pending) > 0 {
		op := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := visited[op.Name()]; ok {
			continue
		}
		visited[op.Name()] = op
		// writes end the forward traversal
		if op.Type() != linage.Transform {
			continue
		}
		pending = append(pending, g.outgoing[op.Name()]...)
	}
	return collect(visited)
}

func collect(visited map[string]linage.Operation) []linage.Operation {
	result := make([]linage.Operation, 0, len(visited))
	for _, name := range sortedKeys(visited) {
		result = append(result, visited[name])
	}
	return result
}
