package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentic-research/shardgraph/internal/row"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
shards = 4

vertex {
  field "rank" {
    type = "double"
  }
  field "name" {
    type    = "string"
    indexed = true
  }
}

edge {
  field "weight" {
    type = "double"
  }
}

source "sqlite" {
  path = "edges.db"
}

source "json" {
  path  = "graph.json"
  edges = "$.links[*]"
}
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig("graph.hcl", []byte(testConfig))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Shards)

	vf, err := cfg.VertexFields()
	require.NoError(t, err)
	assert.Equal(t, []row.Field{
		{Name: "rank", Type: row.Double},
		{Name: "name", Type: row.String, Indexed: true},
	}, vf)

	ef, err := cfg.EdgeFields()
	require.NoError(t, err)
	assert.Equal(t, []row.Field{{Name: "weight", Type: row.Double}}, ef)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, SourceSQLite, cfg.Sources[0].Kind)
	assert.Equal(t, "edges.db", cfg.Sources[0].Path)
	assert.Equal(t, SourceJSON, cfg.Sources[1].Kind)
	assert.Equal(t, "$.links[*]", cfg.Sources[1].Edges)
	assert.Empty(t, cfg.Sources[1].Vertices)
}

func TestParseConfig_MinimalJSON(t *testing.T) {
	cfg, err := ParseConfig("graph.json", []byte(`{"shards": 2}`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Shards)
	assert.Nil(t, cfg.Vertex)

	vf, err := cfg.VertexFields()
	require.NoError(t, err)
	assert.Empty(t, vf)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"zero shards", `shards = 0`},
		{"missing shards", `edge {}`},
		{"bad type", "shards = 1\nvertex {\n  field \"x\" {\n    type = \"decimal\"\n  }\n}\n"},
		{"duplicate field", "shards = 1\nedge {\n  field \"x\" {\n    type = \"int\"\n  }\n  field \"x\" {\n    type = \"int\"\n  }\n}\n"},
		{"unknown source", "shards = 1\nsource \"csv\" {\n  path = \"a.csv\"\n}\n"},
		{"empty path", "shards = 1\nsource \"json\" {\n  path = \"\"\n}\n"},
		{"syntax", `shards = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("bad.hcl", []byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shardgraph.hcl")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Shards)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}
