package ingest

import (
	"context"
	"fmt"
	"math"

	"github.com/agentic-research/shardgraph/internal/graph"
)

// Kind distinguishes vertex records from edge records.
type Kind uint8

const (
	KindVertex Kind = iota
	KindEdge
)

func (k Kind) String() string {
	if k == KindEdge {
		return "edge"
	}
	return "vertex"
}

// Record is one decoded vertex or edge. ID is set for vertices; Source and
// Target for edges. Values holds field values keyed by field name.
type Record struct {
	Kind   Kind
	ID     graph.VertexID
	Source graph.VertexID
	Target graph.VertexID
	Values map[string]any
}

// Source produces records from some external store.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Records decodes every record. Vertices and edges may be interleaved.
	Records(ctx context.Context) ([]Record, error)
}

// vertexID converts a decoded JSON or SQL value to a vertex id.
func vertexID(x any) (graph.VertexID, error) {
	switch n := x.(type) {
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("negative vertex id %d", n)
		}
		return graph.VertexID(n), nil
	case uint64:
		return graph.VertexID(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("negative vertex id %d", n)
		}
		return graph.VertexID(n), nil
	case float64:
		if n < 0 || n != math.Trunc(n) || n >= 1<<64 {
			return 0, fmt.Errorf("invalid vertex id %v", n)
		}
		return graph.VertexID(n), nil
	case nil:
		return 0, fmt.Errorf("missing vertex id")
	}
	return 0, fmt.Errorf("vertex id has type %T", x)
}
