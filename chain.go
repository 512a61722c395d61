package fat16

import "encoding/binary"

// FAT16 special cluster values, per spec.md §6.
const (
	clusterFree    = 0x0000
	clusterBadMin  = 0xFFF0
	clusterBad     = 0xFFF7
	clusterEOCMin  = 0xFFF8
	clusterMinData = 2
)

// fatEntry reads the cluster-successor packed into FAT table fat at
// cluster index idx. FAT16 entries are little-endian u16, entry i holding
// the successor of cluster i.
func fatEntry(fat []byte, idx uint32) uint16 {
	return binary.LittleEndian.Uint16(fat[idx*2:])
}

// buildChain materializes the ordered list of cluster numbers belonging to
// the chain starting at firstCluster, per spec.md §4.3. An empty/zero
// firstCluster (or an empty FAT) yields a nil chain, not an error: callers
// treat that as "no data" (e.g. a zero-length file).
//
// Traversal stops, without error, the first time it sees a value below 2 or
// at/above the bad-cluster marker 0xFFF7 (0xFFF7 itself is a bad-cluster
// marker treated as end-of-chain for read purposes, same as any value
// >=0xFFF8). Iteration is bounded at len(fat)/2 steps to guard against a
// cyclic (torn) FAT; exceeding that bound is InvalidFormat.
func buildChain(fat []byte, firstCluster uint16) ([]uint32, error) {
	if firstCluster == 0 || len(fat) == 0 {
		return nil, nil
	}
	chain := []uint32{uint32(firstCluster)}
	maxSteps := len(fat) / 2
	cur := fatEntry(fat, uint32(firstCluster))
	steps := 0
	for cur >= clusterMinData && cur < clusterBad {
		chain = append(chain, uint32(cur))
		steps++
		if steps > maxSteps {
			return nil, ErrInvalidFormat
		}
		cur = fatEntry(fat, uint32(cur))
	}
	return chain, nil
}
