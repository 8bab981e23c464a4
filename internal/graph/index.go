package graph

import "github.com/RoaringBitmap/roaring"

// VertexIndex maps a vid to its dense slot in the database's vertex store.
// Entries are only ever added.
type VertexIndex struct {
	slots map[VertexID]int
}

func NewVertexIndex() *VertexIndex {
	return &VertexIndex{slots: make(map[VertexID]int)}
}

func (x *VertexIndex) Add(vid VertexID, slot int) {
	x.slots[vid] = slot
}

func (x *VertexIndex) Has(vid VertexID) bool {
	_, ok := x.slots[vid]
	return ok
}

// Slot returns the vertex store slot for vid.
func (x *VertexIndex) Slot(vid VertexID) (int, bool) {
	slot, ok := x.slots[vid]
	return slot, ok
}

func (x *VertexIndex) Len() int {
	return len(x.slots)
}

// adjacency holds edge positions within one shard's edge sequence.
type adjacency struct {
	in  *roaring.Bitmap // edges whose target is the vertex
	out *roaring.Bitmap // edges whose source is the vertex
}

// EdgeIndex maps a vid to the positions of its incoming and outgoing edges
// inside a single shard. Positions are appended in increasing order, so
// bitmap iteration yields them in insertion order.
type EdgeIndex struct {
	entries map[VertexID]*adjacency
}

func NewEdgeIndex() *EdgeIndex {
	return &EdgeIndex{entries: make(map[VertexID]*adjacency)}
}

func (x *EdgeIndex) entry(vid VertexID) *adjacency {
	a, ok := x.entries[vid]
	if !ok {
		a = &adjacency{in: roaring.New(), out: roaring.New()}
		x.entries[vid] = a
	}
	return a
}

// Add records the edge at pos as outgoing for source and incoming for target.
// A self loop lands in both lists of the same vertex.
func (x *EdgeIndex) Add(source, target VertexID, pos int) {
	x.entry(source).out.Add(uint32(pos))
	x.entry(target).in.Add(uint32(pos))
}

// Positions returns the edge positions of vid. A direction that is not
// requested comes back nil.
func (x *EdgeIndex) Positions(vid VertexID, wantIn, wantOut bool) (in, out []int) {
	a, ok := x.entries[vid]
	if !ok {
		return nil, nil
	}
	if wantIn {
		in = toPositions(a.in)
	}
	if wantOut {
		out = toPositions(a.out)
	}
	return in, out
}

// Degree returns the number of incoming and outgoing edges of vid.
func (x *EdgeIndex) Degree(vid VertexID) (in, out int) {
	a, ok := x.entries[vid]
	if !ok {
		return 0, 0
	}
	return int(a.in.GetCardinality()), int(a.out.GetCardinality())
}

func toPositions(bm *roaring.Bitmap) []int {
	pos := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		pos = append(pos, int(it.Next()))
	}
	return pos
}
