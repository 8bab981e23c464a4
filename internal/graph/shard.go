package graph

import (
	"slices"

	"github.com/agentic-research/shardgraph/internal/row"
)

type vertexEntry struct {
	vid  VertexID
	data *row.Row
}

type edgeEntry struct {
	source VertexID
	target VertexID
	data   *row.Row
}

// Shard is the physical container of a shard's master vertices and edges.
//
// A primary shard is filled by direct insertion. A derived shard is built by
// GetShardContentsAdjTo and carries, for each local edge, the position of
// the edge it was copied from in shard ID().
//
// Shards handed out by GetShard are resident: the database owns them and
// they must not be freed. Copies and derived shards belong to the caller
// and are released with FreeShard.
type Shard struct {
	id       ShardID
	vertices []vertexEntry
	edges    []edgeEntry
	edgeID   []int

	// generation moves on every release so handles can detect that the
	// rows they point at are gone.
	generation uint64
	resident   bool
	released   bool
}

func newShard(id ShardID, resident bool) *Shard {
	return &Shard{id: id, resident: resident}
}

// ID returns the shard id. For a derived shard this is the origin shard.
func (s *Shard) ID() ShardID { return s.id }

func (s *Shard) NumVertices() int { return len(s.vertices) }
func (s *Shard) NumEdges() int    { return len(s.edges) }

// Derived reports whether the shard carries an origin back-mapping.
func (s *Shard) Derived() bool { return len(s.edgeID) > 0 }

// Resident reports whether the shard is owned by the database.
func (s *Shard) Resident() bool { return s.resident }

// Released reports whether FreeShard was called on the shard.
func (s *Shard) Released() bool { return s.released }

// Vertex returns the vid stored at position i.
func (s *Shard) Vertex(i int) (VertexID, bool) {
	if i < 0 || i >= len(s.vertices) {
		return 0, false
	}
	return s.vertices[i].vid, true
}

// VertexData returns the row at vertex position i, or nil.
func (s *Shard) VertexData(i int) *row.Row {
	if i < 0 || i >= len(s.vertices) {
		return nil
	}
	return s.vertices[i].data
}

// Edge returns the endpoints of the edge at position i.
func (s *Shard) Edge(i int) (source, target VertexID, ok bool) {
	if i < 0 || i >= len(s.edges) {
		return 0, 0, false
	}
	e := s.edges[i]
	return e.source, e.target, true
}

// EdgeData returns the row at edge position i, or nil.
func (s *Shard) EdgeData(i int) *row.Row {
	if i < 0 || i >= len(s.edges) {
		return nil
	}
	return s.edges[i].data
}

// EdgeIDs returns a copy of the origin back-mapping. Empty for primary shards.
func (s *Shard) EdgeIDs() []int {
	return slices.Clone(s.edgeID)
}

// OriginPosition returns the origin position of local edge i in a derived shard.
func (s *Shard) OriginPosition(i int) (int, bool) {
	if i < 0 || i >= len(s.edgeID) {
		return 0, false
	}
	return s.edgeID[i], true
}

func (s *Shard) addVertex(vid VertexID, data *row.Row) int {
	s.vertices = append(s.vertices, vertexEntry{vid: vid, data: data})
	return len(s.vertices) - 1
}

func (s *Shard) addEdge(source, target VertexID, data *row.Row) int {
	s.edges = append(s.edges, edgeEntry{source: source, target: target, data: data})
	return len(s.edges) - 1
}

// clone returns a caller-owned deep copy with an empty back-mapping.
func (s *Shard) clone() *Shard {
	c := newShard(s.id, false)
	c.vertices = make([]vertexEntry, len(s.vertices))
	for i, v := range s.vertices {
		c.vertices[i] = vertexEntry{vid: v.vid, data: v.data.Clone()}
	}
	c.edges = make([]edgeEntry, len(s.edges))
	for i, e := range s.edges {
		c.edges[i] = edgeEntry{source: e.source, target: e.target, data: e.data.Clone()}
	}
	return c
}

// clear drops every row and invalidates outstanding handles.
func (s *Shard) clear() {
	s.vertices = nil
	s.edges = nil
	s.edgeID = nil
	s.generation++
	s.released = true
}
