package valuation

import (
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/saveformat"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/uid"
)

// LineItem is one priced identifier's contribution to a deposit.
type LineItem struct {
	ID        uid.UID `json:"id"`
	Name      string  `json:"name"`
	Quantity  uint64  `json:"quantity"`
	UnitPrice uint64  `json:"unit_price"`
	Subtotal  uint64  `json:"subtotal"`
}

// DepositResult is the immutable output of one successful pipeline run,
// handed across the ledger boundary.
type DepositResult struct {
	Seed         uint32     `json:"seed"`
	TotalCredits uint64     `json:"total_credits"`
	LineItems    []LineItem `json:"line_items"`
}

// Aggregate sums priced stacks across all containers. Identifiers absent
// from the table are skipped, not an error. Accumulation is commutative per
// identifier, so traversal order never changes the result; line items come
// out in table declaration order, zero-quantity identifiers omitted. An
// empty or unpriced inventory is a valid zero-credit result.
func Aggregate(containers []*saveformat.Container, table *PriceTable) (uint64, []LineItem) {
	quantities := make(map[uid.UID]uint64)
	for _, c := range containers {
		for _, s := range c.Stacks {
			if _, ok := table.Lookup(s.ID); !ok {
				continue
			}
			quantities[s.ID] += uint64(s.Quantity)
		}
	}

	var total uint64
	items := make([]LineItem, 0, len(quantities))
	for _, it := range table.Items() {
		qty := quantities[it.ID]
		if qty == 0 {
			continue
		}
		subtotal := qty * it.UnitPrice
		items = append(items, LineItem{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  qty,
			UnitPrice: it.UnitPrice,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	return total, items
}
