package info

import (
	"sort"

	"github.com/viant/fieldlineage/linage"
)

// Summary maps an endpoint field to related endpoint fields, sorted
type Summary map[linage.EndPointField][]linage.EndPointField

// Fields returns the summary keys, sorted
func (s Summary) Fields() []linage.EndPointField {
	fields := make([]linage.EndPointField, 0, len(s))
	for field := range s {
		fields = append(fields, field)
	}
	sortFields(fields)
	return fields
}

func (s Summary) clone() Summary {
	if s == nil {
		return nil
	}
	result := make(Summary, len(s))
	for k, v := range s {
		result[k] = append([]linage.EndPointField{}, v...)
	}
	return result
}

type fieldSet map[linage.EndPointField]struct{}

func (s fieldSet) addAll(other fieldSet) {
	for field := range other {
		s[field] = struct{}{}
	}
}

func (s fieldSet) sorted() []linage.EndPointField {
	fields := make([]linage.EndPointField, 0, len(s))
	for field := range s {
		fields = append(fields, field)
	}
	sortFields(fields)
	return fields
}

func sortFields(fields []linage.EndPointField) {
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Less(fields[j])
	})
}

// summarizer holds, per transform, the source fields reachable backward from its inputs
type summarizer struct {
	graph    *graph
	memo     map[string]fieldSet
	resolved bool
}

func newSummarizer(g *graph) *summarizer {
	return &summarizer{graph: g, memo: map[string]fieldSet{}}
}

// incoming computes, for every written field, the source fields that fed it
func (s *summarizer) incoming() Summary {
	summary := map[linage.EndPointField]fieldSet{}
	for _, write := range s.graph.writes {
		destination := write.Destination()
		for _, input := range linage.Inputs(write) {
			sources := s.inputSources(input)
			if len(sources) == 0 {
				continue
			}
			key := linage.NewEndPointField(*destination, input.Name)
			set, ok := summary[key]
			if !ok {
				set = fieldSet{}
				summary[key] = set
			}
			set.addAll(sources)
		}
	}
	result := make(Summary, len(summary))
	for k, v := range summary {
		result[k] = v.sorted()
	}
	return result
}

// outgoing inverts incoming and marks dropped fields with an empty entry per source endpoint that produced them
func (s *summarizer) outgoing(incoming Summary) Summary {
	summary := map[linage.EndPointField]fieldSet{}
	for destination, sources := range incoming {
		for _, source := range sources {
			set, ok := summary[source]
			if !ok {
				set = fieldSet{}
				summary[source] = set
			}
			set[destination] = struct{}{}
		}
	}
	for _, input := range s.graph.droppedInputs {
		for _, endPoint := range s.originEndPoints(input) {
			key := linage.NewEndPointField(endPoint, input.Name)
			if _, ok := summary[key]; !ok {
				summary[key] = fieldSet{}
			}
		}
	}
	result := make(Summary, len(summary))
	for k, v := range summary {
		result[k] = v.sorted()
	}
	return result
}

// inputSources resolves a single consumed field to the source fields behind it
func (s *summarizer) inputSources(input linage.InputField) fieldSet {
	switch origin := s.graph.operations[input.Origin].(type) {
	case *linage.ReadOperation:
		if source := origin.Source(); source != nil {
			return fieldSet{linage.NewEndPointField(*source, input.Name): {}}
		}
	case *linage.TransformOperation:
		return s.sources(origin.Name())
	}
	return nil
}

// originEndPoints returns the distinct source endpoints that could have produced input
func (s *summarizer) originEndPoints(input linage.InputField) []linage.EndPoint {
	seen := map[linage.EndPoint]struct{}{}
	var result []linage.EndPoint
	switch origin := s.graph.operations[input.Origin].(type) {
	case *linage.ReadOperation:
		if source := origin.Source(); source != nil {
			result = append(result, *source)
		}
	case *linage.TransformOperation:
		for _, field := range s.sources(origin.Name()).sorted() {
			if _, ok := seen[field.EndPoint]; ok {
				continue
			}
			seen[field.EndPoint] = struct{}{}
			result = append(result, field.EndPoint)
		}
	}
	return result
}

// sources returns the source fields reachable backward from the named transform, excluding inputs it drops
func (s *summarizer) sources(name string) fieldSet {
	if !s.resolved {
		s.resolve()
		s.resolved = true
	}
	return s.memo[name]
}

// dependencies returns the distinct transforms feeding name through inputs it does not drop
func (s *summarizer) dependencies(name string) []string {
	var result []string
	seen := map[string]struct{}{}
	for _, input := range linage.Inputs(s.graph.operations[name]) {
		if s.graph.drops(name, input.Name) {
			continue
		}
		if _, ok := s.graph.operations[input.Origin].(*linage.TransformOperation); !ok {
			continue
		}
		if _, ok := seen[input.Origin]; ok {
			continue
		}
		seen[input.Origin] = struct{}{}
		result = append(result, input.Origin)
	}
	return result
}

// resolve computes the source fields of every transform. Transforms consuming each other's outputs
// form a strongly connected component (Tarjan, explicit stack); all members share the component's sources.
// Components complete before any component depending on them, so their sources are final when read.
func (s *summarizer) resolve() {
	type frame struct {
		name string
		deps []string
		next int
	}
	index := map[string]int{}
	low := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	counter := 0
	visit := func(name string) frame {
		index[name], low[name] = counter, counter
		counter++
		stack = append(stack, name)
		onStack[name] = true
		return frame{name: name, deps: s.dependencies(name)}
	}

	for _, name := range sortedKeys(s.graph.operations) {
		if _, ok := s.graph.operations[name].(*linage.TransformOperation); !ok {
			continue
		}
		if _, ok := index[name]; ok {
			continue
		}
		calls := []frame{visit(name)}
		for len(calls) > 0 {
			top := &calls[len(calls)-1]
			if top.next < len(top.deps) {
				dep := top.deps[top.next]
				top.next++
				if _, ok := index[dep]; !ok {
					calls = append(calls, visit(dep))
				} else if onStack[dep] {
					low[top.name] = min(low[top.name], index[dep])
				}
				continue
			}
			current := top.name
			calls = calls[:len(calls)-1]
			if len(calls) > 0 {
				parent := calls[len(calls)-1].name
				low[parent] = min(low[parent], low[current])
			}
			if low[current] != index[current] {
				continue
			}
			var component []string
			for {
				member := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[member] = false
				component = append(component, member)
				if member == current {
					break
				}
			}
			s.assign(component)
		}
	}
}

// assign stores the union of the component's direct sources and those of the components it depends on
func (s *summarizer) assign(component []string) {
	members := make(map[string]struct{}, len(component))
	for _, name := range component {
		members[name] = struct{}{}
	}
	set := fieldSet{}
	for _, name := range component {
		for _, input := range linage.Inputs(s.graph.operations[name]) {
			// a dropped input produced nothing the transform emitted
			if s.graph.drops(name, input.Name) {
				continue
			}
			switch origin := s.graph.operations[input.Origin].(type) {
			case *linage.ReadOperation:
				if source := origin.Source(); source != nil {
					set[linage.NewEndPointField(*source, input.Name)] = struct{}{}
				}
			case *linage.TransformOperation:
				if _, ok := members[origin.Name()]; !ok {
					set.addAll(s.memo[origin.Name()])
				}
			}
		}
	}
	for _, name := range component {
		s.memo[name] = set
	}
}
