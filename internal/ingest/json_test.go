package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentic-research/shardgraph/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestJSONSource_DefaultSelectors(t *testing.T) {
	path := writeJSON(t, `{
		"vertices": [{"id": 1, "rank": 0.25}, {"id": 2}],
		"edges": [{"source": 1, "target": 2, "weight": 3}, {"source": 2, "target": 1}]
	}`)

	recs, err := (&JSONSource{Path: path}).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, Record{Kind: KindVertex, ID: 1, Values: map[string]any{"rank": 0.25}}, recs[0])
	assert.Equal(t, Record{Kind: KindVertex, ID: 2}, recs[1])
	assert.Equal(t, Record{Kind: KindEdge, Source: 1, Target: 2, Values: map[string]any{"weight": int64(3)}}, recs[2])
	assert.Equal(t, Record{Kind: KindEdge, Source: 2, Target: 1}, recs[3])
}

func TestJSONSource_CustomSelectors(t *testing.T) {
	path := writeJSON(t, `{
		"graph": {
			"nodes": [{"id": 7}],
			"links": [{"source": 7, "target": 8}]
		}
	}`)

	src := &JSONSource{Path: path, Vertices: "$.graph.nodes[*]", Edges: "$.graph.links[*]"}
	assert.Equal(t, "json:"+path, src.Name())

	recs, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, graph.VertexID(7), recs[0].ID)
	assert.Equal(t, graph.VertexID(8), recs[1].Target)
}

func TestJSONSource_MissingSections(t *testing.T) {
	path := writeJSON(t, `{"edges": [{"source": 0, "target": 0}]}`)

	recs, err := (&JSONSource{Path: path}).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, KindEdge, recs[0].Kind)
}

func TestJSONSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		src  JSONSource
	}{
		{name: "syntax", body: `{"vertices": [`},
		{name: "missing id", body: `{"vertices": [{"rank": 1}]}`},
		{name: "string id", body: `{"vertices": [{"id": "a"}]}`},
		{name: "fractional id", body: `{"vertices": [{"id": 1.5}]}`},
		{name: "missing target", body: `{"edges": [{"source": 1}]}`},
		{name: "edge not object", body: `{"edges": [3]}`},
		{name: "bad selector", body: `{}`, src: JSONSource{Edges: "$.edges["}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src
			src.Path = writeJSON(t, tt.body)
			_, err := src.Records(context.Background())
			assert.Error(t, err)
		})
	}

	_, err := (&JSONSource{Path: filepath.Join(t.TempDir(), "missing.json")}).Records(context.Background())
	assert.Error(t, err)
}

func TestJSONSource_Cancelled(t *testing.T) {
	path := writeJSON(t, `{"vertices": [{"id": 1}]}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&JSONSource{Path: path}).Records(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
