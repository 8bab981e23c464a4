package graph

import (
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/shardgraph/internal/row"
)

// vertexRef is one vertex store entry: where the vertex row lives.
type vertexRef struct {
	shard ShardID
	slot  int
}

// SharedMem is an in-process Database. All shards live in memory and
// handles point straight into shard storage.
//
// SharedMem is not safe for concurrent use; wrap it in a SyncDatabase to
// serialize access from several goroutines.
type SharedMem struct {
	vertexFields []row.Field
	edgeFields   []row.Field

	shards      []*Shard
	vertexStore []vertexRef
	constraint  *ShardingConstraint

	vertexIndex *VertexIndex
	// edgeIndex[i] indexes the edges of shards[i].
	edgeIndex []*EdgeIndex

	vid2master  map[VertexID]ShardID
	vid2mirrors map[VertexID]*roaring.Bitmap

	numEdges uint64
	closed   bool
}

// NewSharedMem creates an empty database with fixed schemas and numShards
// shards connected by a grid constraint.
func NewSharedMem(vertexFields, edgeFields []row.Field, numShards int) (*SharedMem, error) {
	if numShards < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShardCount, numShards)
	}
	db := &SharedMem{
		vertexFields: slices.Clone(vertexFields),
		edgeFields:   slices.Clone(edgeFields),
		shards:       make([]*Shard, numShards),
		constraint:   NewGridConstraint(numShards),
		vertexIndex:  NewVertexIndex(),
		edgeIndex:    make([]*EdgeIndex, numShards),
		vid2master:   make(map[VertexID]ShardID),
		vid2mirrors:  make(map[VertexID]*roaring.Bitmap),
	}
	for i := range numShards {
		db.shards[i] = newShard(ShardID(i), true)
		db.edgeIndex[i] = NewEdgeIndex()
	}
	return db, nil
}

func (db *SharedMem) NumVertices() uint64 { return uint64(len(db.vertexStore)) }
func (db *SharedMem) NumEdges() uint64    { return db.numEdges }
func (db *SharedMem) NumShards() int      { return len(db.shards) }

func (db *SharedMem) VertexFields() []row.Field { return slices.Clone(db.vertexFields) }
func (db *SharedMem) EdgeFields() []row.Field   { return slices.Clone(db.edgeFields) }

// Constraint returns the shard adjacency relation.
func (db *SharedMem) Constraint() *ShardingConstraint { return db.constraint }

// Close releases every resident shard. Outstanding handles become stale.
func (db *SharedMem) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true
	for _, s := range db.shards {
		s.clear()
	}
	return nil
}

func (db *SharedMem) shardInRange(id ShardID) error {
	if int(id) >= len(db.shards) {
		return fmt.Errorf("shard %d: %w", id, ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Fine grained API
// ---------------------------------------------------------------------------

// Master returns the master shard of vid.
func (db *SharedMem) Master(vid VertexID) (ShardID, error) {
	m, ok := db.vid2master[vid]
	if !ok {
		return 0, fmt.Errorf("vertex %d: %w", vid, ErrNotFound)
	}
	return m, nil
}

// Mirrors returns the mirror shards of vid in ascending order.
func (db *SharedMem) Mirrors(vid VertexID) ([]ShardID, error) {
	if !db.vertexIndex.Has(vid) {
		return nil, fmt.Errorf("vertex %d: %w", vid, ErrNotFound)
	}
	bm, ok := db.vid2mirrors[vid]
	if !ok {
		return []ShardID{}, nil
	}
	return toShardIDs(bm), nil
}

// GetVertex returns a handle bound to the row in the vertex's master shard.
func (db *SharedMem) GetVertex(vid VertexID) (Vertex, error) {
	if db.closed {
		return nil, ErrClosed
	}
	idx, ok := db.vertexIndex.Slot(vid)
	if !ok || idx >= len(db.vertexStore) {
		return nil, fmt.Errorf("vertex %d: %w", vid, ErrNotFound)
	}
	ref := db.vertexStore[idx]
	shard := db.shards[ref.shard]
	mirrors := roaring.New()
	if bm, ok := db.vid2mirrors[vid]; ok {
		mirrors = bm.Clone()
	}
	return &sharedMemVertex{
		slotRef: slotRef{shard: shard, slot: ref.slot, generation: shard.generation},
		vid:     vid,
		master:  db.vid2master[vid],
		mirrors: mirrors,
		db:      db,
	}, nil
}

func (db *SharedMem) newEdge(shard *Shard, pos int) *sharedMemEdge {
	e := shard.edges[pos]
	return &sharedMemEdge{
		slotRef: slotRef{shard: shard, slot: pos, generation: shard.generation},
		source:  e.source,
		target:  e.target,
		master:  shard.id,
		db:      db,
	}
}

// FindVertex is reserved for indexed-field lookup and is not implemented by
// the shared memory backend.
func (db *SharedMem) FindVertex(field int, value *row.Value) ([]VertexID, error) {
	return nil, ErrUnsupported
}

// FreeVertex invalidates v. The row it points at is untouched.
func (db *SharedMem) FreeVertex(v Vertex) {
	if r, ok := v.(releaser); ok {
		r.release()
	}
}

// FreeEdge invalidates e. The row it points at is untouched.
func (db *SharedMem) FreeEdge(e Edge) {
	if r, ok := e.(releaser); ok {
		r.release()
	}
}

// FreeEdgeVector invalidates every edge in the slice and empties it.
func (db *SharedMem) FreeEdgeVector(edges *[]Edge) {
	if edges == nil {
		return
	}
	for _, e := range *edges {
		db.FreeEdge(e)
	}
	*edges = (*edges)[:0]
}

// ---------------------------------------------------------------------------
// Modification API
// ---------------------------------------------------------------------------

// rowFor returns the row to store: a clone of data, or a null row when
// data is nil.
func (db *SharedMem) rowFor(data *row.Row, vertex bool) (*row.Row, error) {
	schema := db.edgeFields
	if vertex {
		schema = db.vertexFields
	}
	if data == nil {
		r := row.New(schema)
		r.IsVertex = vertex
		return r, nil
	}
	if !data.Matches(schema) {
		kind := "edge"
		if vertex {
			kind = "vertex"
		}
		return nil, fmt.Errorf("%s row with %d fields: %w", kind, data.NumFields(), ErrSchemaMismatch)
	}
	r := data.Clone()
	r.IsVertex = vertex
	return r, nil
}

// AddVertex stores vid on shard hash(vid) mod NumShards. It returns false
// without error when vid is already present. The row is copied; the
// caller keeps ownership of data.
func (db *SharedMem) AddVertex(vid VertexID, data *row.Row) (bool, error) {
	if db.closed {
		return false, ErrClosed
	}
	if db.vertexIndex.Has(vid) {
		return false, nil
	}
	r, err := db.rowFor(data, true)
	if err != nil {
		return false, fmt.Errorf("add vertex %d: %w", vid, err)
	}
	db.insertVertex(vid, r)
	return true, nil
}

func (db *SharedMem) insertVertex(vid VertexID, r *row.Row) {
	master := vertexShard(vid, len(db.shards))
	slot := db.shards[master].addVertex(vid, r)
	db.vid2master[vid] = master
	db.vertexStore = append(db.vertexStore, vertexRef{shard: master, slot: slot})
	db.vertexIndex.Add(vid, len(db.vertexStore)-1)
}

// AddEdge stores the edge on shard hash(source, target) mod NumShards.
// Unknown endpoints are created with null rows first, and every endpoint
// whose master differs from the edge's shard gains that shard as a mirror.
// Nothing is stored when an error is returned.
func (db *SharedMem) AddEdge(source, target VertexID, data *row.Row) error {
	if db.closed {
		return ErrClosed
	}
	r, err := db.rowFor(data, false)
	if err != nil {
		return fmt.Errorf("add edge %d->%d: %w", source, target, err)
	}
	shardID := edgeShard(source, target, len(db.shards))
	shard := db.shards[shardID]
	if uint64(shard.NumEdges()) >= math.MaxUint32 {
		return fmt.Errorf("add edge %d->%d on shard %d: %w", source, target, shardID, ErrShardFull)
	}

	for _, vid := range [2]VertexID{source, target} {
		if !db.vertexIndex.Has(vid) {
			vr, _ := db.rowFor(nil, true)
			db.insertVertex(vid, vr)
		}
	}

	pos := shard.addEdge(source, target, r)
	db.numEdges++
	db.edgeIndex[shardID].Add(source, target, pos)

	db.addMirror(source, shardID)
	db.addMirror(target, shardID)
	return nil
}

func (db *SharedMem) addMirror(vid VertexID, shardID ShardID) {
	if db.vid2master[vid] == shardID {
		return
	}
	bm, ok := db.vid2mirrors[vid]
	if !ok {
		bm = roaring.New()
		db.vid2mirrors[vid] = bm
	}
	bm.Add(uint32(shardID))
}

// ---------------------------------------------------------------------------
// Coarse grained API
// ---------------------------------------------------------------------------

// GetShard returns the live shard. The database keeps ownership.
func (db *SharedMem) GetShard(id ShardID) (*Shard, error) {
	if db.closed {
		return nil, ErrClosed
	}
	if err := db.shardInRange(id); err != nil {
		return nil, err
	}
	return db.shards[id], nil
}

// GetShardCopy returns a deep copy of the shard owned by the caller.
func (db *SharedMem) GetShardCopy(id ShardID) (*Shard, error) {
	s, err := db.GetShard(id)
	if err != nil {
		return nil, err
	}
	return s.clone(), nil
}

// GetShardContentsAdjTo copies the edges of shard adjacentTo that touch the
// vertices mastered on shardID. A vertex contributes when both shards are
// the same or when adjacentTo is one of its mirrors; its incoming edges are
// copied before its outgoing ones. The result has no vertices, is tagged
// with adjacentTo and records each edge's position in adjacentTo.
func (db *SharedMem) GetShardContentsAdjTo(shardID, adjacentTo ShardID) (*Shard, error) {
	if db.closed {
		return nil, ErrClosed
	}
	if err := db.shardInRange(shardID); err != nil {
		return nil, err
	}
	if err := db.shardInRange(adjacentTo); err != nil {
		return nil, err
	}

	ret := newShard(adjacentTo, false)
	from := db.shards[adjacentTo]
	index := db.edgeIndex[adjacentTo]

	for _, v := range db.shards[shardID].vertices {
		if shardID != adjacentTo {
			bm, ok := db.vid2mirrors[v.vid]
			if !ok || !bm.Contains(uint32(adjacentTo)) {
				continue
			}
		}
		in, out := index.Positions(v.vid, true, true)
		for _, pos := range slices.Concat(in, out) {
			e := from.edges[pos]
			ret.addEdge(e.source, e.target, e.data.Clone())
			ret.edgeID = append(ret.edgeID, pos)
		}
	}
	return ret, nil
}

// FreeShard releases a shard obtained from GetShardCopy or
// GetShardContentsAdjTo. Its rows are dropped; the origin is unaffected.
func (db *SharedMem) FreeShard(s *Shard) error {
	if s == nil {
		return nil
	}
	if s.resident {
		return fmt.Errorf("free shard %d: %w", s.id, ErrResidentShard)
	}
	if s.released {
		return fmt.Errorf("free shard %d: %w", s.id, ErrReleased)
	}
	s.clear()
	return nil
}

// AdjacentShards returns the shards the constraint links to id.
func (db *SharedMem) AdjacentShards(id ShardID) ([]ShardID, error) {
	if err := db.shardInRange(id); err != nil {
		return nil, err
	}
	return db.constraint.Neighbors(id), nil
}

// CommitShard commits the modified values of s.
//
// Vertex rows are committed in place. Each modified edge value is committed
// and copied into the matching row of the resident shard s.ID(): the row at
// the same position for a primary-shaped shard, or the row at the recorded
// origin position for a derived one. Unmodified values are left alone.
//
// The back-mapping is validated before anything changes. A shard whose
// edges do not resolve to origin rows means an invariant broke elsewhere,
// and CommitShard panics.
func (db *SharedMem) CommitShard(s *Shard) error {
	if db.closed {
		return ErrClosed
	}
	if s == nil {
		return fmt.Errorf("commit shard: %w", ErrNotFound)
	}
	if s.released {
		return fmt.Errorf("commit shard %d: %w", s.id, ErrReleased)
	}

	origins := db.resolveOrigins(s)

	for _, v := range s.vertices {
		v.data.PostCommit()
	}

	for i, e := range s.edges {
		local, origin := e.data, origins[i]
		for j := 0; j < local.NumFields(); j++ {
			val := local.Field(j)
			if !val.Modified() {
				continue
			}
			val.PostCommit()
			if origin == local {
				continue
			}
			dst := origin.Field(j)
			dst.Reset()
			dst.CopyFrom(val)
		}
	}
	return nil
}

// resolveOrigins maps every edge of s to its row in the resident shard.
func (db *SharedMem) resolveOrigins(s *Shard) []*row.Row {
	if int(s.id) >= len(db.shards) {
		panic(fmt.Errorf("commit shard %d: no such resident shard: %w", s.id, ErrInconsistent))
	}
	home := db.shards[s.id]
	derived := s.Derived()
	if derived && len(s.edgeID) != len(s.edges) {
		panic(fmt.Errorf("commit shard %d: %d origin positions for %d edges: %w",
			s.id, len(s.edgeID), len(s.edges), ErrInconsistent))
	}

	origins := make([]*row.Row, len(s.edges))
	for i, e := range s.edges {
		pos := i
		if derived {
			pos = s.edgeID[i]
		}
		origin := home.EdgeData(pos)
		if origin == nil {
			panic(fmt.Errorf("commit shard %d: edge %d has no origin row at %d: %w",
				s.id, i, pos, ErrInconsistent))
		}
		if origin.NumFields() != e.data.NumFields() {
			panic(fmt.Errorf("commit shard %d: edge %d has %d fields, origin has %d: %w",
				s.id, i, e.data.NumFields(), origin.NumFields(), ErrInconsistent))
		}
		origins[i] = origin
	}
	return origins
}

var _ Database = (*SharedMem)(nil)
