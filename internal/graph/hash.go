package graph

// Shard placement is a pure function of ids, so it never changes for the
// lifetime of a database.

const goldenRatio = 0x9e3779b9

// hashVertex is the identity, so consecutive vids spread round-robin.
func hashVertex(vid VertexID) uint64 {
	return uint64(vid)
}

func hashCombine(seed, v uint64) uint64 {
	return seed ^ (v + goldenRatio + (seed << 6) + (seed >> 2))
}

// hashEdge folds the ordered pair, so (a, b) and (b, a) usually differ.
func hashEdge(source, target VertexID) uint64 {
	var seed uint64
	seed = hashCombine(seed, hashVertex(source))
	seed = hashCombine(seed, hashVertex(target))
	return seed
}

func vertexShard(vid VertexID, numShards int) ShardID {
	return ShardID(hashVertex(vid) % uint64(numShards))
}

func edgeShard(source, target VertexID, numShards int) ShardID {
	return ShardID(hashEdge(source, target) % uint64(numShards))
}
