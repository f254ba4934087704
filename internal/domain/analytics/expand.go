package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
)

// categoryRow is one (line, category) pair.
type categoryRow struct {
	day          time.Time
	categoryID   uint
	categoryName string
	quantity     int
	lineTotal    decimal.Decimal
}

// Day truncates t to midnight in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func validate(op string, orders []Order) error {
	for _, o := range orders {
		for idx, it := range o.Items {
			if it.Quantity < 1 {
				return domainagg.NewError(domainagg.CodeInvalidArgument, op,
					fmt.Sprintf("order %d item %d: quantity %d is below 1", o.ID, idx, it.Quantity), nil)
			}
			if it.Product.Price.IsNegative() {
				return domainagg.NewError(domainagg.CodeInvalidArgument, op,
					fmt.Sprintf("order %d item %d: product %d has negative price", o.ID, idx, it.Product.ID), nil)
			}
		}
	}
	return nil
}

func expandOrder(o Order) []categoryRow {
	day := Day(o.OrderDate)
	var rows []categoryRow
	for _, it := range o.Items {
		total := it.LineTotal()
		for _, c := range it.Product.Categories {
			rows = append(rows, categoryRow{
				day:          day,
				categoryID:   c.ID,
				categoryName: c.Name,
				quantity:     it.Quantity,
				lineTotal:    total,
			})
		}
	}
	return rows
}

func orderHasCategory(o Order, categoryID uint) bool {
	for _, it := range o.Items {
		for _, c := range it.Product.Categories {
			if c.ID == categoryID {
				return true
			}
		}
	}
	return false
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

type dayKey struct {
	year  int
	month time.Month
	day   int
	loc   string
}

func keyOfDay(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{year: y, month: m, day: d, loc: t.Location().String()}
}

// groups keeps values in first-seen key order.
type groups[K comparable, V any] struct {
	index map[K]int
	vals  []V
}

func newGroups[K comparable, V any]() *groups[K, V] {
	return &groups[K, V]{index: map[K]int{}}
}

func (g *groups[K, V]) get(k K, init func() V) *V {
	if i, ok := g.index[k]; ok {
		return &g.vals[i]
	}
	g.index[k] = len(g.vals)
	g.vals = append(g.vals, init())
	return &g.vals[len(g.vals)-1]
}
