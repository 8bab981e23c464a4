package ingest

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"

	"github.com/agentic-research/shardgraph/internal/graph"
	"github.com/agentic-research/shardgraph/internal/row"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"
)

const exportSchema = `
CREATE TABLE IF NOT EXISTS vertices (
	id INTEGER NOT NULL UNIQUE,
	record JSON
);
CREATE TABLE IF NOT EXISTS edges (
	source INTEGER NOT NULL,
	target INTEGER NOT NULL,
	record JSON
);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
`

// WriteSQLite dumps every shard of db into a SQLite file in the layout
// SQLiteSource reads, replacing any rows already there. Shards are written
// in id order so that reloading into the same shard count restores each
// shard's edge order.
func WriteSQLite(ctx context.Context, db graph.Database, path string) (Stats, error) {
	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return Stats{}, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer func() { _ = sdb.Close() }() // safe to ignore

	if _, err := sdb.ExecContext(ctx, "PRAGMA journal_mode = MEMORY"); err != nil {
		return Stats{}, err
	}
	if _, err := sdb.ExecContext(ctx, exportSchema); err != nil {
		return Stats{}, fmt.Errorf("create schema: %w", err)
	}

	tx, err := sdb.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	for _, table := range []string{"vertices", "edges"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return Stats{}, fmt.Errorf("reset %s: %w", table, err)
		}
	}

	stmtVertex, err := tx.PrepareContext(ctx, "INSERT INTO vertices (id, record) VALUES (?, ?)")
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = stmtVertex.Close() }()
	stmtEdge, err := tx.PrepareContext(ctx, "INSERT INTO edges (source, target, record) VALUES (?, ?, ?)")
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = stmtEdge.Close() }()

	st := Stats{Sources: 1}
	for i := 0; i < db.NumShards(); i++ {
		s, err := db.GetShard(graph.ShardID(i))
		if err != nil {
			return st, err
		}
		for j := 0; j < s.NumVertices(); j++ {
			vid, _ := s.Vertex(j)
			if _, err := stmtVertex.ExecContext(ctx, storeID(vid), encodeRow(s.VertexData(j))); err != nil {
				return st, fmt.Errorf("write vertex %d: %w", vid, err)
			}
			st.Vertices++
		}
		for j := 0; j < s.NumEdges(); j++ {
			src, dst, _ := s.Edge(j)
			if _, err := stmtEdge.ExecContext(ctx, storeID(src), storeID(dst), encodeRow(s.EdgeData(j))); err != nil {
				return st, fmt.Errorf("write edge %d->%d: %w", src, dst, err)
			}
			st.Edges++
		}
	}
	if err := tx.Commit(); err != nil {
		return st, fmt.Errorf("commit export: %w", err)
	}
	return st, nil
}

// encodeRow renders the non-null fields of r as a JSON object, or nil when
// every field is null. Blobs are base64 strings.
func encodeRow(r *row.Row) any {
	if r == nil {
		return nil
	}
	m := make(map[string]any, r.NumFields())
	for i, f := range r.Schema() {
		v := r.Field(i)
		if v.IsNull() {
			continue
		}
		if v.Type() == row.Blob {
			m[f.Name] = base64.StdEncoding.EncodeToString(v.Bytes())
			continue
		}
		m[f.Name] = v.Interface()
	}
	if len(m) == 0 {
		return nil
	}
	return oj.JSON(m)
}
