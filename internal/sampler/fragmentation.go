package sampler

// Fragmentation indexes are policy choices, not reverse-engineered
// contracts. The formulas below are kept stable by the property tests:
// results always land in [0,1] and move monotonically with the input
// that stands in for "more fragmented".

// memoryFragIndex estimates memory fragmentation from buddy-allocator
// free-block counts as 1 - largest_contiguous_free/total_free. A free
// pool that is all low-order blocks scores close to 1; a pool dominated
// by one high-order block scores close to 0. ok is false when the
// platform exposed no free-block granularity.
func memoryFragIndex(freeBlockCounts []uint64, pageSize uint64) (float64, bool) {
	if pageSize == 0 || len(freeBlockCounts) == 0 {
		return 0, false
	}
	var totalFree, largest uint64
	for order, count := range freeBlockCounts {
		if count == 0 {
			continue
		}
		blockBytes := pageSize << uint(order)
		totalFree += count * blockBytes
		largest = blockBytes
	}
	if totalFree == 0 {
		return 0, false
	}
	return clampUnit(1 - float64(largest)/float64(totalFree)), true
}

// swapFragProxy is the fallback memory estimate where free-block
// granularity is unavailable: swap pressure relative to total memory in
// use, used_swap/(used_swap+used_ram).
func swapFragProxy(swapUsed, ramUsed uint64) float64 {
	total := swapUsed + ramUsed
	if total == 0 {
		return 0
	}
	return clampUnit(float64(swapUsed) / float64(total))
}

// diskFragIndex normalizes the sampled file (or free-extent) count by
// the partition's size class, one slot per 64 MiB. More objects packed
// into the same partition reads as more fragmented; the index is
// monotonic non-decreasing in sampledCount.
func diskFragIndex(sampledCount, partitionBytes uint64) float64 {
	const sizeClassBytes = 64 << 20
	if partitionBytes == 0 {
		return 0
	}
	slots := partitionBytes / sizeClassBytes
	if slots == 0 {
		slots = 1
	}
	return clampUnit(float64(sampledCount) / float64(slots))
}
