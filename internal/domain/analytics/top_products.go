package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TopSellingProducts ranks products by quantity sold within [start, end], then
// by revenue, then by product id. limit <= 0 returns every product.
func TopSellingProducts(orders []Order, start, end *time.Time, limit int) ([]TopProductRow, error) {
	if err := validate("analytics.top_selling_products", orders); err != nil {
		return nil, err
	}
	g := newGroups[uint, TopProductRow]()
	for _, o := range orders {
		if !inRange(o.OrderDate, start, end) {
			continue
		}
		for _, it := range o.Items {
			row := g.get(it.Product.ID, func() TopProductRow {
				return TopProductRow{ProductID: it.Product.ID, ProductName: it.Product.Name, TotalRevenue: decimal.Zero}
			})
			row.TotalQuantitySold += it.Quantity
			row.TotalRevenue = row.TotalRevenue.Add(it.LineTotal())
		}
	}
	out := append(make([]TopProductRow, 0, len(g.vals)), g.vals...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TotalQuantitySold != b.TotalQuantitySold {
			return a.TotalQuantitySold > b.TotalQuantitySold
		}
		if c := a.TotalRevenue.Cmp(b.TotalRevenue); c != 0 {
			return c > 0
		}
		return a.ProductID < b.ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
