package info

import (
	"context"

	"github.com/viant/fieldlineage/linage"
)

// Node kinds of an exported graph
const (
	NodeEndPoint  = "ENDPOINT"
	NodeOperation = "OPERATION"
)

// Node represents an operation or an endpoint in an exported graph
type Node struct {
	ID         string         `json:"id" yaml:"id"`                                     // endpoint "ns:name" or operation name
	Kind       string         `json:"kind" yaml:"kind"`                                 // NodeEndPoint or NodeOperation
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"` // type, description, namespace
}

// Edge carries a single field from Source to Target
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Field  string `json:"field" yaml:"field"`
}

// Graph is a flat node and edge rendition of a field lineage, ready for graph stores and visualizers
type Graph struct {
	Checksum int64  `json:"checksum" yaml:"checksum"`
	Nodes    []Node `json:"nodes" yaml:"nodes"`
	Edges    []Edge `json:"edges" yaml:"edges"`
}

// Exporter sends a graph to an external backend (i.e. a graph database or a file)
type Exporter interface {
	Export(ctx context.Context, graph *Graph) error
}

// Graph builds the node and edge rendition; nodes and edges follow operation name order
func (f *FieldLineage) Graph() *Graph {
	result := &Graph{Checksum: f.checksum}
	endPoints := map[linage.EndPoint]bool{}
	addEndPoint := func(endPoint linage.EndPoint) string {
		id := endPoint.String()
		if !endPoints[endPoint] {
			endPoints[endPoint] = true
			result.Nodes = append(result.Nodes, Node{ID: id, Kind: NodeEndPoint,
				Properties: map[string]any{"namespace": endPoint.Namespace, "name": endPoint.Name}})
		}
		return id
	}
	for _, op := range f.operations {
		properties := map[string]any{"type": string(op.Type())}
		if op.Description() != "" {
			properties["description"] = op.Description()
		}
		result.Nodes = append(result.Nodes, Node{ID: op.Name(), Kind: NodeOperation, Properties: properties})
		switch actual := op.(type) {
		case *linage.ReadOperation:
			source := addEndPoint(*actual.Source())
			for _, output := range linage.Outputs(actual) {
				result.Edges = append(result.Edges, Edge{Source: source, Target: op.Name(), Field: output})
			}
		case *linage.TransformOperation:
			for _, input := range linage.Inputs(actual) {
				result.Edges = append(result.Edges, Edge{Source: input.Origin, Target: op.Name(), Field: input.Name})
			}
		case *linage.WriteOperation:
			for _, input := range linage.Inputs(actual) {
				result.Edges = append(result.Edges, Edge{Source: input.Origin, Target: op.Name(), Field: input.Name})
			}
			destination := addEndPoint(*actual.Destination())
			for _, input := range linage.Inputs(actual) {
				result.Edges = append(result.Edges, Edge{Source: op.Name(), Target: destination, Field: input.Name})
			}
		}
	}
	return result
}

// Export renders the graph and hands it to exporter
func (f *FieldLineage) Export(ctx context.Context, exporter Exporter) error {
	return exporter.Export(ctx, f.Graph())
}
