package source

import (
	"strconv"
	"strings"
)

// parseBuddyInfo sums /proc/buddyinfo free-block counts per order across
// all zones. Lines look like:
//
//	Node 0, zone   Normal   124    53    12     4     1     0 ...
//
// where the trailing columns count free blocks of 2^order pages.
func parseBuddyInfo(raw []byte) []uint64 {
	var orders []uint64
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 5 || fields[0] != "Node" {
			continue
		}
		// Counts start after the zone name column.
		zoneIdx := -1
		for i, f := range fields {
			if f == "zone" {
				zoneIdx = i
				break
			}
		}
		if zoneIdx < 0 || zoneIdx+2 >= len(fields) {
			continue
		}
		counts := fields[zoneIdx+2:]
		for order, field := range counts {
			value, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				break
			}
			for len(orders) <= order {
				orders = append(orders, 0)
			}
			orders[order] += value
		}
	}
	return orders
}
