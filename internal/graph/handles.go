package graph

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/shardgraph/internal/row"
)

// slotRef locates a row inside a shard. The generation pins the shard
// state the slot was taken from.
type slotRef struct {
	shard      *Shard
	slot       int
	generation uint64
	released   bool
}

func (r *slotRef) check() error {
	if r.released {
		return ErrReleased
	}
	if r.shard.generation != r.generation {
		return ErrStaleHandle
	}
	return nil
}

func (r *slotRef) release() {
	r.released = true
}

// sharedMemVertex is a Vertex whose row lives in its master shard.
// Not safe for concurrent use.
type sharedMemVertex struct {
	slotRef
	vid     VertexID
	master  ShardID
	mirrors *roaring.Bitmap // snapshot taken at construction
	db      *SharedMem
}

func (v *sharedMemVertex) ID() VertexID { return v.vid }

func (v *sharedMemVertex) Data() (*row.Row, error) {
	if err := v.check(); err != nil {
		return nil, fmt.Errorf("vertex %d: %w", v.vid, err)
	}
	return v.shard.vertices[v.slot].data, nil
}

// WriteChanges commits every modified value of the row in place.
func (v *sharedMemVertex) WriteChanges() error {
	data, err := v.Data()
	if err != nil {
		return err
	}
	data.PostCommit()
	return nil
}

func (v *sharedMemVertex) WriteChangesAsync() error {
	return v.WriteChanges()
}

// Refresh is a no-op: the handle already reads the stored row.
func (v *sharedMemVertex) Refresh() error {
	return v.check()
}

func (v *sharedMemVertex) WriteAndRefresh() error {
	return v.WriteChanges()
}

func (v *sharedMemVertex) MasterShard() ShardID { return v.master }

func (v *sharedMemVertex) NumShards() int {
	return int(v.mirrors.GetCardinality()) + 1
}

func (v *sharedMemVertex) ShardList() []ShardID {
	return toShardIDs(v.mirrors)
}

// AdjList builds edge handles for the edges of v stored on shardID, which
// must be the master or one of the mirrors.
func (v *sharedMemVertex) AdjList(shardID ShardID, wantIn, wantOut bool) (in, out []Edge, err error) {
	if err := v.check(); err != nil {
		return nil, nil, fmt.Errorf("vertex %d: %w", v.vid, err)
	}
	if shardID != v.master && !v.mirrors.Contains(uint32(shardID)) {
		return nil, nil, fmt.Errorf("vertex %d on shard %d: %w", v.vid, shardID, ErrNotLocal)
	}
	shard, err := v.db.GetShard(shardID)
	if err != nil {
		return nil, nil, err
	}
	inPos, outPos := v.db.edgeIndex[shardID].Positions(v.vid, wantIn, wantOut)
	if wantIn {
		in = make([]Edge, 0, len(inPos))
		for _, pos := range inPos {
			in = append(in, v.db.newEdge(shard, pos))
		}
	}
	if wantOut {
		out = make([]Edge, 0, len(outPos))
		for _, pos := range outPos {
			out = append(out, v.db.newEdge(shard, pos))
		}
	}
	return in, out, nil
}

// sharedMemEdge is an Edge whose row lives in its shard. The write and
// refresh calls have nothing to do because the row is the stored copy.
type sharedMemEdge struct {
	slotRef
	source VertexID
	target VertexID
	master ShardID
	db     *SharedMem
}

func (e *sharedMemEdge) Source() VertexID { return e.source }
func (e *sharedMemEdge) Target() VertexID { return e.target }

func (e *sharedMemEdge) Data() (*row.Row, error) {
	if err := e.check(); err != nil {
		return nil, fmt.Errorf("edge %d->%d: %w", e.source, e.target, err)
	}
	return e.shard.edges[e.slot].data, nil
}

func (e *sharedMemEdge) WriteChanges() error      { return e.check() }
func (e *sharedMemEdge) WriteChangesAsync() error { return e.check() }
func (e *sharedMemEdge) Refresh() error           { return e.check() }
func (e *sharedMemEdge) WriteAndRefresh() error   { return e.check() }

func (e *sharedMemEdge) MasterShard() ShardID { return e.master }

func toShardIDs(bm *roaring.Bitmap) []ShardID {
	ids := make([]ShardID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, ShardID(it.Next()))
	}
	return ids
}

var (
	_ Vertex = (*sharedMemVertex)(nil)
	_ Edge   = (*sharedMemEdge)(nil)
)
