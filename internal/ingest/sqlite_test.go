package ingest

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/agentic-research/shardgraph/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type sqliteEdge struct {
	src, dst int64
	record   any
}

func createGraphDB(t *testing.T, vertices map[int64]any, edges []sqliteEdge) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "graph.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	if vertices != nil {
		_, err = db.Exec("CREATE TABLE vertices (id INTEGER PRIMARY KEY, record TEXT)")
		require.NoError(t, err)
		for id, rec := range vertices {
			_, err = db.Exec("INSERT INTO vertices (id, record) VALUES (?, ?)", id, rec)
			require.NoError(t, err)
		}
	}

	_, err = db.Exec("CREATE TABLE edges (source INTEGER NOT NULL, target INTEGER NOT NULL, record TEXT)")
	require.NoError(t, err)
	for _, e := range edges {
		_, err = db.Exec("INSERT INTO edges (source, target, record) VALUES (?, ?, ?)", e.src, e.dst, e.record)
		require.NoError(t, err)
	}
	return dbPath
}

func TestSQLiteSource_Records(t *testing.T) {
	path := createGraphDB(t,
		map[int64]any{1: `{"rank":0.5,"name":"a"}`, 2: nil},
		[]sqliteEdge{
			{1, 2, `{"weight":1.5}`},
			{2, 3, nil},
			{3, 1, ""},
		})

	src := &SQLiteSource{Path: path}
	assert.Equal(t, "sqlite:"+path, src.Name())

	recs, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 5)

	var vertices, edges []Record
	for _, r := range recs {
		if r.Kind == KindVertex {
			vertices = append(vertices, r)
		} else {
			edges = append(edges, r)
		}
	}
	require.Len(t, vertices, 2)
	byID := map[graph.VertexID]Record{}
	for _, v := range vertices {
		byID[v.ID] = v
	}
	assert.Equal(t, 0.5, byID[1].Values["rank"])
	assert.Equal(t, "a", byID[1].Values["name"])
	assert.Nil(t, byID[2].Values)

	require.Len(t, edges, 3)
	assert.Equal(t, graph.VertexID(1), edges[0].Source)
	assert.Equal(t, graph.VertexID(2), edges[0].Target)
	assert.Equal(t, 1.5, edges[0].Values["weight"])
	assert.Nil(t, edges[1].Values)
	assert.Nil(t, edges[2].Values)
}

func TestSQLiteSource_NoVertexTable(t *testing.T) {
	path := createGraphDB(t, nil, []sqliteEdge{{4, 5, `{}`}})

	recs, err := (&SQLiteSource{Path: path}).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, KindEdge, recs[0].Kind)
	assert.Empty(t, recs[0].Values)
}

func TestSQLiteSource_Errors(t *testing.T) {
	t.Run("bad json", func(t *testing.T) {
		path := createGraphDB(t, nil, []sqliteEdge{{1, 2, `{not json`}})
		_, err := (&SQLiteSource{Path: path}).Records(context.Background())
		assert.Error(t, err)
	})

	t.Run("record not an object", func(t *testing.T) {
		path := createGraphDB(t, nil, []sqliteEdge{{1, 2, `[1,2]`}})
		_, err := (&SQLiteSource{Path: path}).Records(context.Background())
		assert.Error(t, err)
	})

	t.Run("no edges table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.db")
		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		_, err = db.Exec("CREATE TABLE other (x INTEGER)")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = (&SQLiteSource{Path: path}).Records(context.Background())
		assert.Error(t, err)
	})
}

func TestSQLiteSource_HighIDs(t *testing.T) {
	// Ids above MaxInt64 are stored as the int64 with the same bits.
	path := createGraphDB(t, map[int64]any{-2: nil}, []sqliteEdge{{-2, 1, nil}, {-1, 0, nil}})

	recs, err := (&SQLiteSource{Path: path}).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, graph.VertexID(math.MaxUint64-1), recs[0].ID)
	assert.Equal(t, graph.VertexID(math.MaxUint64-1), recs[1].Source)
	assert.Equal(t, graph.VertexID(1), recs[1].Target)
	assert.Equal(t, graph.VertexID(math.MaxUint64), recs[2].Source)
}
