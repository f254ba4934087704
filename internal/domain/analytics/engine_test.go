package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
)

var decimalEq = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

var (
	skincare = Category{ID: 1, Name: "Skincare"}
	haircare = Category{ID: 2, Name: "Haircare"}

	serum    = Product{ID: 1, Name: "Serum", Price: decimal.NewFromInt(10), Categories: []Category{skincare}}
	shampoo  = Product{ID: 2, Name: "Shampoo", Price: decimal.NewFromInt(5), Categories: []Category{haircare}}
	oil      = Product{ID: 3, Name: "Oil", Price: decimal.NewFromInt(20), Categories: []Category{skincare, haircare}}
	giftCard = Product{ID: 4, Name: "Gift card", Price: decimal.NewFromInt(25)}
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func order(id uint, when time.Time, items ...Item) Order {
	return Order{ID: id, CustomerID: "c-1", OrderDate: when, Items: items}
}

func line(p Product, qty int) Item { return Item{Product: p, Quantity: qty} }

func ptr[T any](v T) *T { return &v }

func TestOrdersOverTimeSameDayGroupsIntoOneRow(t *testing.T) {
	orders := []Order{
		order(1, at(15, 14, 30), line(serum, 1)),
		order(2, at(15, 9, 0), line(serum, 3)),
	}
	got, err := OrdersOverTime(orders, nil)
	require.NoError(t, err)

	want := []OrdersOverTimeRow{{Date: at(15, 0, 0), TotalOrders: 2, CategoryID: 1, CategoryName: "Skincare"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OrdersOverTime mismatch (-want +got):\n%s", diff)
	}
}

func TestOrdersOverTimeSortedByDateStable(t *testing.T) {
	orders := []Order{
		order(1, at(16, 10, 0), line(shampoo, 1)),
		order(2, at(15, 10, 0), line(shampoo, 1), line(serum, 1)),
		order(3, at(15, 11, 0), line(serum, 1)),
	}
	got, err := OrdersOverTime(orders, nil)
	require.NoError(t, err)

	want := []OrdersOverTimeRow{
		{Date: at(15, 0, 0), TotalOrders: 1, CategoryID: 2, CategoryName: "Haircare"},
		{Date: at(15, 0, 0), TotalOrders: 2, CategoryID: 1, CategoryName: "Skincare"},
		{Date: at(16, 0, 0), TotalOrders: 1, CategoryID: 2, CategoryName: "Haircare"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OrdersOverTime mismatch (-want +got):\n%s", diff)
	}
}

func TestRevenueOverTimeSumsLineTotalsPerCategory(t *testing.T) {
	orders := []Order{
		order(1, at(15, 8, 0), line(serum, 2)),
		order(2, at(15, 18, 0), line(oil, 1)),
	}
	got, err := RevenueOverTime(orders, nil)
	require.NoError(t, err)

	want := []RevenueOverTimeRow{
		{Date: at(15, 0, 0), TotalRevenue: decimal.NewFromInt(40), CategoryID: 1, CategoryName: "Skincare"},
		{Date: at(15, 0, 0), TotalRevenue: decimal.NewFromInt(20), CategoryID: 2, CategoryName: "Haircare"},
	}
	if diff := cmp.Diff(want, got, decimalEq); diff != "" {
		t.Fatalf("RevenueOverTime mismatch (-want +got):\n%s", diff)
	}
}

func TestRevenueOverTimeCategoryFilterKeepsWholeOrder(t *testing.T) {
	orders := []Order{
		order(1, at(15, 8, 0), line(serum, 1), line(shampoo, 2)),
		order(2, at(15, 9, 0), line(shampoo, 1)),
	}
	got, err := RevenueOverTime(orders, ptr(uint(1)))
	require.NoError(t, err)

	want := []RevenueOverTimeRow{
		{Date: at(15, 0, 0), TotalRevenue: decimal.NewFromInt(10), CategoryID: 1, CategoryName: "Skincare"},
		{Date: at(15, 0, 0), TotalRevenue: decimal.NewFromInt(10), CategoryID: 2, CategoryName: "Haircare"},
	}
	if diff := cmp.Diff(want, got, decimalEq); diff != "" {
		t.Fatalf("RevenueOverTime mismatch (-want +got):\n%s", diff)
	}
}

func TestOrdersByCategoryInclusiveRange(t *testing.T) {
	start, end := at(10, 0, 0), at(20, 0, 0)
	orders := []Order{
		order(1, start, line(shampoo, 2)),
		order(2, end, line(serum, 1)),
		order(3, at(9, 23, 59), line(serum, 50)),
		order(4, at(20, 0, 1), line(serum, 50)),
		order(5, at(12, 12, 0), line(oil, 3)),
	}
	got, err := OrdersByCategory(orders, &start, &end)
	require.NoError(t, err)

	want := []OrdersByCategoryRow{
		{CategoryID: 1, CategoryName: "Skincare", TotalQuantitySold: 4},
		{CategoryID: 2, CategoryName: "Haircare", TotalQuantitySold: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OrdersByCategory mismatch (-want +got):\n%s", diff)
	}
}

func TestOrdersByCategoryOpenBounds(t *testing.T) {
	orders := []Order{
		order(1, at(1, 0, 0), line(serum, 1)),
		order(2, at(31, 0, 0), line(serum, 2)),
	}
	got, err := OrdersByCategory(orders, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].TotalQuantitySold)

	start := at(2, 0, 0)
	got, err = OrdersByCategory(orders, &start, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].TotalQuantitySold)
}

func TestAovByCategoryMeanOfLineTotals(t *testing.T) {
	orders := []Order{
		order(1, at(15, 8, 0), line(serum, 1)),
		order(2, at(15, 9, 0), line(serum, 3)),
		order(3, at(14, 9, 0), line(shampoo, 1), line(serum, 1)),
	}
	got, err := AovByCategory(orders, nil, nil, nil)
	require.NoError(t, err)

	want := []AovByCategoryRow{
		{CategoryID: 2, CategoryName: "Haircare", Date: at(14, 0, 0), AverageOrderValue: decimal.NewFromInt(5)},
		{CategoryID: 1, CategoryName: "Skincare", Date: at(14, 0, 0), AverageOrderValue: decimal.NewFromInt(10)},
		{CategoryID: 1, CategoryName: "Skincare", Date: at(15, 0, 0), AverageOrderValue: decimal.NewFromInt(20)},
	}
	if diff := cmp.Diff(want, got, decimalEq); diff != "" {
		t.Fatalf("AovByCategory mismatch (-want +got):\n%s", diff)
	}
}

func TestAovByCategoryDateRange(t *testing.T) {
	start, end := at(15, 0, 0), at(15, 23, 59)
	orders := []Order{
		order(1, at(14, 23, 0), line(serum, 9)),
		order(2, at(15, 12, 0), line(serum, 1)),
		order(3, at(16, 0, 0), line(serum, 9)),
	}
	got, err := AovByCategory(orders, &start, &end, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].AverageOrderValue.Equal(decimal.NewFromInt(10)), "aov = %s", got[0].AverageOrderValue)
}

func TestFilterAsymmetry(t *testing.T) {
	orders := []Order{order(1, at(15, 10, 0), line(serum, 1), line(shampoo, 1))}
	skincareID := uint(1)

	overTime, err := OrdersOverTime(orders, &skincareID)
	require.NoError(t, err)
	var overTimeCats []uint
	for _, r := range overTime {
		overTimeCats = append(overTimeCats, r.CategoryID)
	}
	assert.ElementsMatch(t, []uint{1, 2}, overTimeCats, "order-level filter keeps the haircare row")

	aov, err := AovByCategory(orders, nil, nil, &skincareID)
	require.NoError(t, err)
	require.Len(t, aov, 1, "row-level filter drops the haircare row")
	assert.Equal(t, uint(1), aov[0].CategoryID)
}

func TestCategoryFilterExcludesUnrelatedOrders(t *testing.T) {
	orders := []Order{
		order(1, at(15, 10, 0), line(shampoo, 1)),
		order(2, at(15, 11, 0), line(serum, 1)),
	}
	got, err := OrdersOverTime(orders, ptr(uint(2)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].CategoryID)
	assert.Equal(t, 1, got[0].TotalOrders)
}

func TestUncategorizedProductsAreDropped(t *testing.T) {
	orders := []Order{order(1, at(15, 10, 0), line(giftCard, 2))}

	overTime, err := OrdersOverTime(orders, nil)
	require.NoError(t, err)
	assert.Empty(t, overTime)

	revenue, err := RevenueOverTime(orders, nil)
	require.NoError(t, err)
	assert.Empty(t, revenue)

	byCategory, err := OrdersByCategory(orders, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, byCategory)

	aov, err := AovByCategory(orders, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, aov)
}

func TestEmptyInputYieldsEmptyResults(t *testing.T) {
	for _, orders := range [][]Order{nil, {}} {
		a, err := OrdersOverTime(orders, nil)
		require.NoError(t, err)
		assert.NotNil(t, a)
		assert.Empty(t, a)

		b, err := RevenueOverTime(orders, ptr(uint(1)))
		require.NoError(t, err)
		assert.NotNil(t, b)
		assert.Empty(t, b)

		c, err := OrdersByCategory(orders, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, c)
		assert.Empty(t, c)

		d, err := AovByCategory(orders, nil, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, d)
		assert.Empty(t, d)

		e, err := TopSellingProducts(orders, nil, nil, 5)
		require.NoError(t, err)
		assert.NotNil(t, e)
		assert.Empty(t, e)
	}
}

func TestMalformedLinesAreInvalidArgument(t *testing.T) {
	zeroQty := []Order{order(1, at(15, 10, 0), line(serum, 0))}
	_, err := OrdersOverTime(zeroQty, nil)
	require.Error(t, err)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeInvalidArgument), "code = %q", domainagg.CodeOf(err))

	negative := serum
	negative.Price = decimal.NewFromInt(-1)
	_, err = AovByCategory([]Order{order(1, at(15, 10, 0), line(negative, 1))}, nil, nil, nil)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeInvalidArgument), "code = %q", domainagg.CodeOf(err))
}

// Line totals read the price carried in the snapshot, so a catalog price
// change rewrites historical revenue once orders are reloaded.
func TestRevenueFollowsCurrentCatalogPrice(t *testing.T) {
	before := []Order{order(1, at(15, 10, 0), line(serum, 2))}
	repriced := serum
	repriced.Price = decimal.NewFromInt(12)
	after := []Order{order(1, at(15, 10, 0), line(repriced, 2))}

	r1, err := RevenueOverTime(before, nil)
	require.NoError(t, err)
	r2, err := RevenueOverTime(after, nil)
	require.NoError(t, err)

	assert.Equal(t, "20", r1[0].TotalRevenue.String())
	assert.Equal(t, "24", r2[0].TotalRevenue.String())
}

func TestDayKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	got := Day(time.Date(2024, 1, 15, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestTopSellingProducts(t *testing.T) {
	orders := []Order{
		order(1, at(15, 10, 0), line(serum, 3), line(giftCard, 1)),
		order(2, at(16, 10, 0), line(shampoo, 3), line(oil, 1)),
		order(3, at(17, 10, 0), line(oil, 1)),
	}
	got, err := TopSellingProducts(orders, nil, nil, 0)
	require.NoError(t, err)

	want := []TopProductRow{
		{ProductID: 1, ProductName: "Serum", TotalQuantitySold: 3, TotalRevenue: decimal.NewFromInt(30)},
		{ProductID: 2, ProductName: "Shampoo", TotalQuantitySold: 3, TotalRevenue: decimal.NewFromInt(15)},
		{ProductID: 3, ProductName: "Oil", TotalQuantitySold: 2, TotalRevenue: decimal.NewFromInt(40)},
		{ProductID: 4, ProductName: "Gift card", TotalQuantitySold: 1, TotalRevenue: decimal.NewFromInt(25)},
	}
	if diff := cmp.Diff(want, got, decimalEq); diff != "" {
		t.Fatalf("TopSellingProducts mismatch (-want +got):\n%s", diff)
	}

	limited, err := TopSellingProducts(orders, nil, nil, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, uint(2), limited[1].ProductID)

	end := at(15, 23, 0)
	windowed, err := TopSellingProducts(orders, nil, &end, 0)
	require.NoError(t, err)
	require.Len(t, windowed, 2)
}
