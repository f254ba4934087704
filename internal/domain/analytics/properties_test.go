package analytics

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func randomOrders(r *rand.Rand, n int) []Order {
	catalog := []Product{serum, shampoo, oil, giftCard}
	out := make([]Order, 0, n)
	for i := 0; i < n; i++ {
		when := at(1+r.Intn(5), r.Intn(24), r.Intn(60))
		var items []Item
		for j := 0; j <= r.Intn(3); j++ {
			items = append(items, line(catalog[r.Intn(len(catalog))], 1+r.Intn(4)))
		}
		out = append(out, order(uint(i+1), when, items...))
	}
	return out
}

func categoryBearingItems(o Order) int {
	n := 0
	for _, it := range o.Items {
		if len(it.Product.Categories) > 0 {
			n++
		}
	}
	return n
}

func TestFanOutNeverUndercountsOrders(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		orders := randomOrders(r, 20)
		rows, err := OrdersOverTime(orders, nil)
		if err != nil {
			t.Fatalf("OrdersOverTime: %v", err)
		}

		rowTotals := map[time.Time]int{}
		for _, row := range rows {
			rowTotals[row.Date] += row.TotalOrders
		}
		ordersPerDay := map[time.Time]int{}
		exact := map[time.Time]bool{}
		for _, o := range orders {
			if categoryBearingItems(o) == 0 {
				continue
			}
			d := Day(o.OrderDate)
			ordersPerDay[d]++
			if _, ok := exact[d]; !ok {
				exact[d] = true
			}
			if categoryBearingItems(o) != 1 || len(o.Items[firstCategorized(o)].Product.Categories) != 1 {
				exact[d] = false
			}
		}
		for d, n := range ordersPerDay {
			if rowTotals[d] < n {
				t.Fatalf("round %d day %s: row total %d below order count %d", round, d.Format("2006-01-02"), rowTotals[d], n)
			}
			if exact[d] && rowTotals[d] != n {
				t.Fatalf("round %d day %s: single-category orders should match exactly: %d vs %d", round, d.Format("2006-01-02"), rowTotals[d], n)
			}
		}
	}
}

func firstCategorized(o Order) int {
	for i, it := range o.Items {
		if len(it.Product.Categories) > 0 {
			return i
		}
	}
	return -1
}

func TestOrdersOverTimeIgnoresInputOrder(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	orders := randomOrders(r, 40)

	shuffled := append([]Order(nil), orders...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	a, err := OrdersOverTime(orders, nil)
	if err != nil {
		t.Fatalf("OrdersOverTime: %v", err)
	}
	b, err := OrdersOverTime(shuffled, nil)
	if err != nil {
		t.Fatalf("OrdersOverTime shuffled: %v", err)
	}

	less := func(x, y OrdersOverTimeRow) bool {
		if !x.Date.Equal(y.Date) {
			return x.Date.Before(y.Date)
		}
		return x.CategoryID < y.CategoryID
	}
	if diff := cmp.Diff(a, b, cmpopts.SortSlices(less)); diff != "" {
		t.Fatalf("grouping depends on input order (-orig +shuffled):\n%s", diff)
	}
	if !sort.SliceIsSorted(b, func(i, j int) bool { return b[i].Date.Before(b[j].Date) }) {
		t.Fatalf("result not sorted by date")
	}
}
