// Package memlimit turns the build command's -memory percentage flag into
// a concrete byte budget, giving that existing teacher flag (previously
// declared but unused beyond the percentage itself) a real effect: sizing
// the initial capacity hint for each Article's link slice during the
// Graph Builder's pass-2 edge population.
package memlimit

import "github.com/pbnjay/memory"

// bytesPerLinkSlot is the size of one []NodeID slice entry (the 4-byte
// NodeID payload; slice growth overhead is not counted), used only to turn
// a byte budget into a link-count hint.
const bytesPerLinkSlot = 4

// Budget is the resolved memory budget for one build invocation.
type Budget struct {
	TotalBytes     uint64
	BudgetBytes    uint64
	LinkCapacity   int
	estimatedNodes int
}

// Resolve computes a Budget from a -memory percentage (1-100) and the
// estimated node count the builder expects to admit (0 if unknown, in
// which case LinkCapacity is left at 0 and append grows slices normally).
func Resolve(percent int, estimatedNodes int) Budget {
	total := memory.TotalMemory()
	if percent <= 0 || percent > 100 {
		percent = 100
	}
	budget := total * uint64(percent) / 100

	b := Budget{TotalBytes: total, BudgetBytes: budget, estimatedNodes: estimatedNodes}
	if estimatedNodes > 0 && budget > 0 {
		perNode := budget / uint64(estimatedNodes)
		hint := int(perNode / bytesPerLinkSlot)
		if hint > 64 {
			hint = 64 // cap: most articles link to far fewer than 64 others
		}
		b.LinkCapacity = hint
	}
	return b
}
