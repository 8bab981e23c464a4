package graph

import (
	"sync"

	"github.com/agentic-research/shardgraph/internal/row"
)

// SyncDatabase serializes every call to the wrapped Database behind one
// mutex, and allows swapping the backend while callers hold the wrapper.
//
// Only the calls are serialized. Handles and shards it returns point into
// the wrapped backend and must still be used from one goroutine at a time.
type SyncDatabase struct {
	mu      sync.Mutex
	current Database
}

func NewSyncDatabase(initial Database) *SyncDatabase {
	return &SyncDatabase{current: initial}
}

// Swap replaces the wrapped database and returns the previous one. Closing
// the old backend is left to the caller.
func (d *SyncDatabase) Swap(next Database) Database {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.current
	d.current = next
	return prev
}

func (d *SyncDatabase) NumVertices() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.NumVertices()
}

func (d *SyncDatabase) NumEdges() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.NumEdges()
}

func (d *SyncDatabase) VertexFields() []row.Field {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.VertexFields()
}

func (d *SyncDatabase) EdgeFields() []row.Field {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.EdgeFields()
}

func (d *SyncDatabase) AddVertex(vid VertexID, data *row.Row) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.AddVertex(vid, data)
}

func (d *SyncDatabase) AddEdge(source, target VertexID, data *row.Row) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.AddEdge(source, target, data)
}

func (d *SyncDatabase) GetVertex(vid VertexID) (Vertex, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.GetVertex(vid)
}

func (d *SyncDatabase) FindVertex(field int, value *row.Value) ([]VertexID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.FindVertex(field, value)
}

func (d *SyncDatabase) FreeVertex(v Vertex) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current.FreeVertex(v)
}

func (d *SyncDatabase) FreeEdge(e Edge) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current.FreeEdge(e)
}

func (d *SyncDatabase) FreeEdgeVector(edges *[]Edge) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current.FreeEdgeVector(edges)
}

func (d *SyncDatabase) NumShards() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.NumShards()
}

func (d *SyncDatabase) GetShard(id ShardID) (*Shard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.GetShard(id)
}

func (d *SyncDatabase) GetShardCopy(id ShardID) (*Shard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.GetShardCopy(id)
}

func (d *SyncDatabase) GetShardContentsAdjTo(shardID, adjacentTo ShardID) (*Shard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.GetShardContentsAdjTo(shardID, adjacentTo)
}

func (d *SyncDatabase) FreeShard(s *Shard) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.FreeShard(s)
}

func (d *SyncDatabase) AdjacentShards(id ShardID) ([]ShardID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.AdjacentShards(id)
}

func (d *SyncDatabase) CommitShard(s *Shard) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.CommitShard(s)
}

var _ Database = (*SyncDatabase)(nil)
