package cart

import "github.com/zora-fashion/storefront/internal/catalog"

// Line is one (product, size, quantity) entry. It serializes as the product fields plus
// selectedSize and quantity.
type Line struct {
	catalog.Product
	SelectedSize string `json:"selectedSize"`
	Quantity     int    `json:"quantity"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

func (l Line) matches(productID, size string) bool {
	return l.ID == productID && l.SelectedSize == size
}

// Snapshot is the ordered list of lines persisted for a session.
type Snapshot []Line

// Total sums price times quantity over all lines.
func (s Snapshot) Total() int64 {
	var total int64
	for _, l := range s {
		total += l.Subtotal()
	}
	return total
}

// Count sums quantities over all lines.
func (s Snapshot) Count() int {
	count := 0
	for _, l := range s {
		count += l.Quantity
	}
	return count
}

// normalize clamps quantities and merges lines sharing a (product, size) pair, keeping the
// position of the first occurrence.
func (s Snapshot) normalize() Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, l := range s {
		l.Quantity = clampQuantity(l.Quantity)
		merged := false
		for i := range out {
			if out[i].matches(l.ID, l.SelectedSize) {
				out[i].Quantity = addQuantity(out[i].Quantity, l.Quantity)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, l)
		}
	}
	return out
}

// MaxQuantity caps a single line so totals stay well inside int64.
const MaxQuantity = 999

func clampQuantity(n int) int {
	return min(max(n, 1), MaxQuantity)
}

// addQuantity merges two clamped quantities, saturating at MaxQuantity.
func addQuantity(a, b int) int {
	a, b = clampQuantity(a), clampQuantity(b)
	if a > MaxQuantity-b {
		return MaxQuantity
	}
	return a + b
}
