package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentic-research/shardgraph/internal/graph"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"
)

// SQLiteSource reads a graph from a SQLite database with the tables
//
//	vertices(id INTEGER, record TEXT)                  -- optional
//	edges(source INTEGER, target INTEGER, record TEXT)
//
// where record is a JSON object of field values, or NULL. Ids are read as
// the unsigned reinterpretation of the stored integer.
type SQLiteSource struct {
	Path string
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.Path }

// Records implements Source.
func (s *SQLiteSource) Records(ctx context.Context) ([]Record, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", s.Path, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	var out []Record
	hasVertices, err := tableExists(ctx, db, "vertices")
	if err != nil {
		return nil, err
	}
	if hasVertices {
		if out, err = s.vertices(ctx, db, out); err != nil {
			return nil, err
		}
	}
	return s.edges(ctx, db, out)
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect schema: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteSource) vertices(ctx context.Context, db *sql.DB, out []Record) ([]Record, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, record FROM vertices ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query vertices: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var id int64
		var raw sql.NullString
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan vertex: %w", err)
		}
		vid := loadID(id)
		values, err := parseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", id, err)
		}
		out = append(out, Record{Kind: KindVertex, ID: vid, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vertices: %w", err)
	}
	return out, nil
}

func (s *SQLiteSource) edges(ctx context.Context, db *sql.DB, out []Record) ([]Record, error) {
	rows, err := db.QueryContext(ctx, "SELECT source, target, record FROM edges ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var src, dst int64
		var raw sql.NullString
		if err := rows.Scan(&src, &dst, &raw); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		from, to := loadID(src), loadID(dst)
		values, err := parseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("edge %d->%d: %w", src, dst, err)
		}
		out = append(out, Record{Kind: KindEdge, Source: from, Target: to, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}
	return out, nil
}

// SQLite integers are signed. Vertex ids are stored as the int64 with the
// same bit pattern, so ids above MaxInt64 appear negative in the file.
func storeID(vid graph.VertexID) int64 { return int64(vid) }

func loadID(n int64) graph.VertexID { return graph.VertexID(uint64(n)) }

func parseRecord(raw sql.NullString) (map[string]any, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	parsed, err := oj.ParseString(raw.String)
	if err != nil {
		return nil, fmt.Errorf("parse record json: %w", err)
	}
	m, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("record is %T, want object", parsed)
	}
	return m, nil
}
