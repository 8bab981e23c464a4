package graph

import "slices"

// ShardingConstraint is the static adjacency relation between shards.
// Shards are laid out row-major on a side×side grid with side = ⌈√n⌉; two
// shards are adjacent when they share a row or a column. Every shard is
// adjacent to itself.
type ShardingConstraint struct {
	numShards int
	side      int
	neighbors [][]ShardID
}

// NewGridConstraint builds the grid relation for n shards.
func NewGridConstraint(n int) *ShardingConstraint {
	side := 1
	for side*side < n {
		side++
	}
	c := &ShardingConstraint{
		numShards: n,
		side:      side,
		neighbors: make([][]ShardID, n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if c.Adjacent(ShardID(i), ShardID(j)) {
				c.neighbors[i] = append(c.neighbors[i], ShardID(j))
			}
		}
	}
	return c
}

func (c *ShardingConstraint) NumShards() int { return c.numShards }

// Side returns the grid's edge length.
func (c *ShardingConstraint) Side() int { return c.side }

// Adjacent reports whether a and b share a grid row or column.
func (c *ShardingConstraint) Adjacent(a, b ShardID) bool {
	if int(a) >= c.numShards || int(b) >= c.numShards {
		return false
	}
	ra, ca := int(a)/c.side, int(a)%c.side
	rb, cb := int(b)/c.side, int(b)%c.side
	return ra == rb || ca == cb
}

// Neighbors returns the shards adjacent to s in ascending order, s included.
// It returns nil for an unknown shard.
func (c *ShardingConstraint) Neighbors(s ShardID) []ShardID {
	if int(s) >= c.numShards {
		return nil
	}
	return slices.Clone(c.neighbors[s])
}
