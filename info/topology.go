package info

import (
	"slices"

	"github.com/viant/fieldlineage/linage"
)

// TopologicalSort orders operations so that each one precedes every operation consuming its output.
//
// ops may be a subset of a snapshot (i.e. the result of a field query): inputs whose origin is not
// part of ops are ignored. For example
//
//	read-----------------------write
//	   \                        /
//	    ----parse----normalize--
//
// yields read, parse, normalize, write. Operations ready at the same time are ordered by name.
// A *CycleError carrying the residual adjacency is returned when ops consume each other's outputs.
func TopologicalSort(ops []linage.Operation) ([]linage.Operation, error) {
	byName := make(map[string]linage.Operation, len(ops))
	for _, op := range ops {
		if !linage.IsNil(op) {
			byName[op.Name()] = op
		}
	}

	// outgoing: origin -> consumers, incoming: consumer -> origins
	outgoing := make(map[string]map[string]struct{}, len(byName))
	incoming := make(map[string]map[string]struct{}, len(byName))
	for name := range byName {
		outgoing[name] = map[string]struct{}{}
		incoming[name] = map[string]struct{}{}
	}
	for name, op := range byName {
		for _, input := range linage.Inputs(op) {
			if _, ok := byName[input.Origin]; !ok {
				continue
			}
			outgoing[input.Origin][name] = struct{}{}
			incoming[name][input.Origin] = struct{}{}
		}
	}

	var frontier []string
	for _, name := range sortedKeys(byName) {
		if len(incoming[name]) == 0 {
			frontier = append(frontier, name)
		}
	}

	ordered := make([]linage.Operation, 0, len(byName))
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		ordered = append(ordered, byName[current])
		for _, next := range sortedKeys(outgoing[current]) {
			delete(outgoing[current], next)
			delete(incoming[next], current)
			if len(incoming[next]) == 0 {
				at, _ := slices.BinarySearch(frontier, next)
				frontier = slices.Insert(frontier, at, next)
			}
		}
	}

	residual := map[string][]string{}
	for name, consumers := range outgoing {
		if len(consumers) > 0 {
			residual[name] = sortedKeys(consumers)
		}
	}
	if len(residual) > 0 {
		return nil, &CycleError{Residual: residual}
	}
	return ordered, nil
}
