package graph

import (
	"errors"
	"fmt"

	"github.com/agentic-research/shardgraph/internal/row"
)

// VertexID identifies a vertex. Ids are never reused within a database.
type VertexID uint64

// ShardID identifies a shard in [0, NumShards()).
type ShardID uint32

var (
	ErrNotFound          = errors.New("not found")
	ErrUnsupported       = fmt.Errorf("find vertex by field: %w", errors.ErrUnsupported)
	ErrSchemaMismatch    = errors.New("row does not match schema")
	ErrNotLocal          = errors.New("shard holds no adjacency for vertex")
	ErrStaleHandle       = errors.New("handle refers to a released shard")
	ErrReleased          = errors.New("already released")
	ErrResidentShard     = errors.New("shard is owned by the database")
	ErrInvalidShardCount = errors.New("shard count must be at least 1")
	ErrClosed            = errors.New("database is closed")
	ErrShardFull         = errors.New("shard edge capacity exceeded")

	// ErrInconsistent marks a broken internal invariant. Operations that
	// detect one panic with an error wrapping it.
	ErrInconsistent = errors.New("internal consistency violation")
)

// Database is the contract every graph backend implements. Today there is
// one backend (SharedMem); a networked backend plugs in behind the same
// interface without callers changing.
type Database interface {
	NumVertices() uint64
	NumEdges() uint64
	VertexFields() []row.Field
	EdgeFields() []row.Field

	// -------- fine grained --------

	// AddVertex stores vid on its master shard. It returns false if vid is
	// already present. A nil row stores all-null values.
	AddVertex(vid VertexID, data *row.Row) (bool, error)
	// AddEdge stores an edge, creating unknown endpoints on the way.
	AddEdge(source, target VertexID, data *row.Row) error
	// GetVertex returns ErrNotFound for an unknown vid.
	GetVertex(vid VertexID) (Vertex, error)
	// FindVertex looks up vertices by an indexed field. Always ErrUnsupported.
	FindVertex(field int, value *row.Value) ([]VertexID, error)
	FreeVertex(v Vertex)
	FreeEdge(e Edge)
	FreeEdgeVector(edges *[]Edge)

	// -------- coarse grained --------

	NumShards() int
	GetShard(id ShardID) (*Shard, error)
	GetShardCopy(id ShardID) (*Shard, error)
	GetShardContentsAdjTo(shardID, adjacentTo ShardID) (*Shard, error)
	FreeShard(s *Shard) error
	AdjacentShards(id ShardID) ([]ShardID, error)
	CommitShard(s *Shard) error
}

// Vertex is a short-lived view of one vertex.
type Vertex interface {
	ID() VertexID
	// Data returns the vertex row. In shared memory this is the stored row
	// itself, so edits are visible immediately.
	Data() (*row.Row, error)

	WriteChanges() error
	WriteChangesAsync() error
	Refresh() error
	WriteAndRefresh() error

	MasterShard() ShardID
	// NumShards counts the master plus the mirrors.
	NumShards() int
	// ShardList returns the mirror shards as seen when the handle was made.
	ShardList() []ShardID

	// AdjList returns the part of the adjacency stored on shardID. Only the
	// requested directions are computed.
	AdjList(shardID ShardID, wantIn, wantOut bool) (in, out []Edge, err error)
}

// Edge is a short-lived view of one edge.
type Edge interface {
	Source() VertexID
	Target() VertexID
	Data() (*row.Row, error)

	// The write and refresh calls round-trip to storage in a remote backend.
	WriteChanges() error
	WriteChangesAsync() error
	Refresh() error
	WriteAndRefresh() error

	MasterShard() ShardID
}

// releaser is implemented by handles that can be invalidated by the
// database that issued them.
type releaser interface {
	release()
}
