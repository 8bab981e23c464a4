package api

import (
	"fmt"

	"github.com/agentic-research/shardgraph/internal/row"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Source kinds understood by the loader.
const (
	SourceSQLite = "sqlite"
	SourceJSON   = "json"
)

// Config is the root configuration of a graph database: its shard count,
// the vertex and edge schemas, and where to load data from.
//
//	shards = 4
//
//	vertex {
//	  field "rank" { type = "double" }
//	}
//
//	edge {
//	  field "weight" { type = "double" }
//	}
//
//	source "json" {
//	  path  = "graph.json"
//	  edges = "$.links[*]"
//	}
type Config struct {
	// Shards is the fixed number of shards.
	Shards int `hcl:"shards"`
	// Vertex is the vertex schema. Optional; vertices carry no fields without it.
	Vertex *Schema `hcl:"vertex,block"`
	// Edge is the edge schema. Optional.
	Edge *Schema `hcl:"edge,block"`
	// Sources are loaded in declaration order.
	Sources []SourceSpec `hcl:"source,block"`
}

// Schema is an ordered list of fields.
type Schema struct {
	Fields []FieldSpec `hcl:"field,block"`
}

// FieldSpec declares one column.
type FieldSpec struct {
	Name    string `hcl:"name,label"`
	Type    string `hcl:"type"`
	Indexed bool   `hcl:"indexed,optional"`
}

// SourceSpec declares one data source.
type SourceSpec struct {
	// Kind is "sqlite" or "json".
	Kind string `hcl:"kind,label"`
	Path string `hcl:"path"`
	// Vertices and Edges are JSONPath selectors for json sources.
	Vertices string `hcl:"vertices,optional"`
	Edges    string `hcl:"edges,optional"`
}

// LoadConfig reads and validates a configuration file. Files ending in
// .json use the JSON variant of the syntax; everything else is HCL.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// ParseConfig decodes configuration source. The filename only selects the
// syntax and labels diagnostics.
func ParseConfig(filename string, src []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return &cfg, nil
}

// Validate checks the shard count, field declarations and sources.
func (c *Config) Validate() error {
	if c.Shards < 1 {
		return fmt.Errorf("shards must be at least 1, got %d", c.Shards)
	}
	if _, err := c.VertexFields(); err != nil {
		return fmt.Errorf("vertex: %w", err)
	}
	if _, err := c.EdgeFields(); err != nil {
		return fmt.Errorf("edge: %w", err)
	}
	for i, s := range c.Sources {
		switch s.Kind {
		case SourceSQLite, SourceJSON:
		default:
			return fmt.Errorf("source %d: unknown kind %q", i, s.Kind)
		}
		if s.Path == "" {
			return fmt.Errorf("source %d (%s): path is required", i, s.Kind)
		}
	}
	return nil
}

// VertexFields converts the vertex schema.
func (c *Config) VertexFields() ([]row.Field, error) {
	return c.Vertex.fields()
}

// EdgeFields converts the edge schema.
func (c *Config) EdgeFields() ([]row.Field, error) {
	return c.Edge.fields()
}

func (s *Schema) fields() ([]row.Field, error) {
	if s == nil {
		return nil, nil
	}
	seen := make(map[string]bool, len(s.Fields))
	out := make([]row.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field with empty name")
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		t, err := row.ParseType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out = append(out, row.Field{Name: f.Name, Type: t, Indexed: f.Indexed})
	}
	return out, nil
}
