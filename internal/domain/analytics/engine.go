package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type dayCategoryKey struct {
	day          dayKey
	categoryID   uint
	categoryName string
}

type categoryKey struct {
	categoryID   uint
	categoryName string
}

// OrdersOverTime counts (line, category) rows per day and category.
//
// A non-nil categoryID keeps whole orders that contain at least one line in
// that category; those orders still contribute rows for all their categories.
func OrdersOverTime(orders []Order, categoryID *uint) ([]OrdersOverTimeRow, error) {
	if err := validate("analytics.orders_over_time", orders); err != nil {
		return nil, err
	}
	g := newGroups[dayCategoryKey, OrdersOverTimeRow]()
	for _, o := range orders {
		if categoryID != nil && !orderHasCategory(o, *categoryID) {
			continue
		}
		for _, r := range expandOrder(o) {
			k := dayCategoryKey{day: keyOfDay(r.day), categoryID: r.categoryID, categoryName: r.categoryName}
			row := g.get(k, func() OrdersOverTimeRow {
				return OrdersOverTimeRow{Date: r.day, CategoryID: r.categoryID, CategoryName: r.categoryName}
			})
			row.TotalOrders++
		}
	}
	out := append(make([]OrdersOverTimeRow, 0, len(g.vals)), g.vals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// RevenueOverTime sums line totals per day and category, with the same
// order-level category filter as OrdersOverTime.
func RevenueOverTime(orders []Order, categoryID *uint) ([]RevenueOverTimeRow, error) {
	if err := validate("analytics.revenue_over_time", orders); err != nil {
		return nil, err
	}
	g := newGroups[dayCategoryKey, RevenueOverTimeRow]()
	for _, o := range orders {
		if categoryID != nil && !orderHasCategory(o, *categoryID) {
			continue
		}
		for _, r := range expandOrder(o) {
			k := dayCategoryKey{day: keyOfDay(r.day), categoryID: r.categoryID, categoryName: r.categoryName}
			row := g.get(k, func() RevenueOverTimeRow {
				return RevenueOverTimeRow{Date: r.day, TotalRevenue: decimal.Zero, CategoryID: r.categoryID, CategoryName: r.categoryName}
			})
			row.TotalRevenue = row.TotalRevenue.Add(r.lineTotal)
		}
	}
	out := append(make([]RevenueOverTimeRow, 0, len(g.vals)), g.vals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// OrdersByCategory sums quantities per category for orders dated within
// [start, end]. Nil bounds are open. Rows are ordered by category id.
func OrdersByCategory(orders []Order, start, end *time.Time) ([]OrdersByCategoryRow, error) {
	if err := validate("analytics.orders_by_category", orders); err != nil {
		return nil, err
	}
	g := newGroups[categoryKey, OrdersByCategoryRow]()
	for _, o := range orders {
		if !inRange(o.OrderDate, start, end) {
			continue
		}
		for _, r := range expandOrder(o) {
			row := g.get(categoryKey{r.categoryID, r.categoryName}, func() OrdersByCategoryRow {
				return OrdersByCategoryRow{CategoryID: r.categoryID, CategoryName: r.categoryName}
			})
			row.TotalQuantitySold += r.quantity
		}
	}
	out := append(make([]OrdersByCategoryRow, 0, len(g.vals)), g.vals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

// AovByCategory averages line totals per category and day for orders dated
// within [start, end].
//
// Unlike OrdersOverTime the category filter applies to rows after expansion,
// so an order spanning two categories only contributes its matching rows.
func AovByCategory(orders []Order, start, end *time.Time, categoryID *uint) ([]AovByCategoryRow, error) {
	if err := validate("analytics.aov_by_category", orders); err != nil {
		return nil, err
	}
	type acc struct {
		row   AovByCategoryRow
		sum   decimal.Decimal
		count int64
	}
	g := newGroups[dayCategoryKey, acc]()
	for _, o := range orders {
		if !inRange(o.OrderDate, start, end) {
			continue
		}
		for _, r := range expandOrder(o) {
			if categoryID != nil && r.categoryID != *categoryID {
				continue
			}
			k := dayCategoryKey{day: keyOfDay(r.day), categoryID: r.categoryID, categoryName: r.categoryName}
			a := g.get(k, func() acc {
				return acc{
					row: AovByCategoryRow{CategoryID: r.categoryID, CategoryName: r.categoryName, Date: r.day},
					sum: decimal.Zero,
				}
			})
			a.sum = a.sum.Add(r.lineTotal)
			a.count++
		}
	}
	out := make([]AovByCategoryRow, 0, len(g.vals))
	for _, a := range g.vals {
		a.row.AverageOrderValue = a.sum.Div(decimal.NewFromInt(a.count))
		out = append(out, a.row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out, nil
}
