package cart

import "github.com/zora-fashion/storefront/pkg/money"

// View is the read model returned to the storefront.
type View struct {
	Lines          Snapshot `json:"items"`
	Total          int64    `json:"total"`
	FormattedTotal string   `json:"formattedTotal"`
	Count          int      `json:"count"`
	IsPanelOpen    bool     `json:"isCartOpen"`
}

func newView(lines Snapshot, panelOpen bool) View {
	if lines == nil {
		lines = Snapshot{}
	}
	total := lines.Total()
	return View{
		Lines:          lines,
		Total:          total,
		FormattedTotal: money.Format(total),
		Count:          lines.Count(),
		IsPanelOpen:    panelOpen,
	}
}
