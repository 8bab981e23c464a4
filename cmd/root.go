package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentic-research/shardgraph/api"
	"github.com/agentic-research/shardgraph/internal/graph"
	"github.com/agentic-research/shardgraph/internal/ingest"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "shardgraph.hcl", "Path to graph configuration (.hcl or .json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-source ingest progress")
}

var rootCmd = &cobra.Command{
	Use:           "shardgraph",
	Short:         "Sharded in-memory property graph",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase builds a database from the configuration at path and loads
// every configured source into it. Relative source paths resolve against
// the configuration file's directory.
func openDatabase(ctx context.Context, path string) (*graph.SharedMem, ingest.Stats, error) {
	cfg, err := api.LoadConfig(path)
	if err != nil {
		return nil, ingest.Stats{}, err
	}
	vf, err := cfg.VertexFields()
	if err != nil {
		return nil, ingest.Stats{}, err
	}
	ef, err := cfg.EdgeFields()
	if err != nil {
		return nil, ingest.Stats{}, err
	}
	db, err := graph.NewSharedMem(vf, ef, cfg.Shards)
	if err != nil {
		return nil, ingest.Stats{}, err
	}

	sources := sourcesFor(cfg, filepath.Dir(path))
	loader := &ingest.Loader{Verbose: verbose}
	st, err := loader.Load(ctx, db, sources...)
	if err != nil {
		_ = db.Close()
		return nil, st, fmt.Errorf("load %s: %w", path, err)
	}
	return db, st, nil
}

func sourcesFor(cfg *api.Config, base string) []ingest.Source {
	out := make([]ingest.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		p := s.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		switch s.Kind {
		case api.SourceSQLite:
			out = append(out, &ingest.SQLiteSource{Path: p})
		case api.SourceJSON:
			out = append(out, &ingest.JSONSource{Path: p, Vertices: s.Vertices, Edges: s.Edges})
		}
	}
	return out
}
