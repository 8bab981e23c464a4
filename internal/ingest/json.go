package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Default JSONPath selectors for JSONSource.
const (
	DefaultVertexSelector = "$.vertices[*]"
	DefaultEdgeSelector   = "$.edges[*]"
)

// JSONSource reads a graph from a JSON document. Vertex objects carry an
// "id" key and edge objects "source" and "target"; every other key is a
// field value.
type JSONSource struct {
	Path string
	// Vertices and Edges are JSONPath selectors. Empty selects the default.
	Vertices string
	Edges    string
}

func (s *JSONSource) Name() string { return "json:" + s.Path }

// Records implements Source.
func (s *JSONSource) Records(ctx context.Context) ([]Record, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	root, err := oj.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return decodeJSON(ctx, root, s.vertexSelector(), s.edgeSelector())
}

func (s *JSONSource) vertexSelector() string {
	if s.Vertices == "" {
		return DefaultVertexSelector
	}
	return s.Vertices
}

func (s *JSONSource) edgeSelector() string {
	if s.Edges == "" {
		return DefaultEdgeSelector
	}
	return s.Edges
}

func decodeJSON(ctx context.Context, root any, vsel, esel string) ([]Record, error) {
	vx, err := jp.ParseString(vsel)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", vsel, err)
	}
	ex, err := jp.ParseString(esel)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", esel, err)
	}

	var out []Record
	for i, m := range vx.Get(root) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		obj, ok := m.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("vertex %d: got %T, want object", i, m)
		}
		id, err := vertexID(obj["id"])
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		out = append(out, Record{Kind: KindVertex, ID: id, Values: without(obj, "id")})
	}
	for i, m := range ex.Get(root) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		obj, ok := m.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("edge %d: got %T, want object", i, m)
		}
		src, err := vertexID(obj["source"])
		if err != nil {
			return nil, fmt.Errorf("edge %d source: %w", i, err)
		}
		dst, err := vertexID(obj["target"])
		if err != nil {
			return nil, fmt.Errorf("edge %d target: %w", i, err)
		}
		out = append(out, Record{Kind: KindEdge, Source: src, Target: dst, Values: without(obj, "source", "target")})
	}
	return out, nil
}

// without copies m minus the given keys. Returns nil when nothing is left.
func without(m map[string]any, keys ...string) map[string]any {
	var out map[string]any
next:
	for k, v := range m {
		for _, skip := range keys {
			if k == skip {
				continue next
			}
		}
		if out == nil {
			out = make(map[string]any, len(m))
		}
		out[k] = v
	}
	return out
}
