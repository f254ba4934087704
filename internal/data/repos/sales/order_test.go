package sales

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/storefront-backend/internal/data/repos/testutil"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
)

func TestOrderRepoListForAnalytics(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewOrderRepo(db, testutil.Logger(t))
	cust := testutil.SeedCustomer(t, ctx, tx, testutil.UniqueEmail("analytics"))
	cat := testutil.SeedCategory(t, ctx, tx, "Bath-OrderRepo")
	p := testutil.SeedProduct(t, ctx, tx, "Bath Salt", "8.00", cat)

	day := func(d int) time.Time { return time.Date(2031, time.March, d, 12, 0, 0, 0, time.UTC) }
	testutil.SeedOrder(t, ctx, tx, cust.ID, day(1), 1, p)
	inside := testutil.SeedOrder(t, ctx, tx, cust.ID, day(5), 2, p)
	testutil.SeedOrder(t, ctx, tx, cust.ID, day(9), 3, p)

	start, end := day(5), day(5)
	rows, err := repo.ListForAnalytics(dbc, &start, &end)
	if err != nil {
		t.Fatalf("ListForAnalytics: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != inside.ID {
		t.Fatalf("ListForAnalytics inclusive bounds: got %d rows", len(rows))
	}
	o := rows[0]
	if len(o.Items) != 1 || o.Items[0].Product == nil {
		t.Fatalf("items/product not preloaded: %+v", o.Items)
	}
	if names := o.Items[0].Product.CategoryNames(); len(names) != 1 || names[0] != "Bath-OrderRepo" {
		t.Fatalf("categories not preloaded: %v", names)
	}
	if got := o.Items[0].LineTotal().String(); got != "16" {
		t.Fatalf("LineTotal: got %s", got)
	}
}

func TestOrderRepoDeleteRemovesItems(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	orders := NewOrderRepo(db, testutil.Logger(t))
	items := NewOrderItemRepo(db, testutil.Logger(t))
	cust := testutil.SeedCustomer(t, ctx, tx, testutil.UniqueEmail("delete"))
	p := testutil.SeedProduct(t, ctx, tx, "Comb", "3.00")
	o := testutil.SeedOrder(t, ctx, tx, cust.ID, time.Now().UTC(), 1, p)

	deleted, err := orders.Delete(dbc, o.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete: err=%v deleted=%v", err, deleted)
	}
	left, err := items.ListByOrderID(dbc, o.ID)
	if err != nil || len(left) != 0 {
		t.Fatalf("items after delete: err=%v len=%d", err, len(left))
	}
}

func TestCartItemRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCartItemRepo(db, testutil.Logger(t))
	cust := testutil.SeedCustomer(t, ctx, tx, testutil.UniqueEmail("cartitem"))
	p1 := testutil.SeedProduct(t, ctx, tx, "Brush", "4.00")
	p2 := testutil.SeedProduct(t, ctx, tx, "Mirror", "9.00")
	cart := testutil.SeedCart(t, ctx, tx, cust.ID, testutil.Line{Product: p1, Quantity: 1}, testutil.Line{Product: p2, Quantity: 2})

	rows, err := repo.ListByCartID(dbc, cart.ID)
	if err != nil || len(rows) != 2 || rows[0].ProductID != p1.ID {
		t.Fatalf("ListByCartID: err=%v rows=%v", err, rows)
	}
	ok, err := repo.UpdateQuantity(dbc, rows[0].ID, 7)
	if err != nil || !ok {
		t.Fatalf("UpdateQuantity: err=%v ok=%v", err, ok)
	}
	got, err := repo.GetByID(dbc, rows[0].ID)
	if err != nil || got.Quantity != 7 || got.Product == nil {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}
	n, err := repo.DeleteByIDs(dbc, []uint{rows[1].ID})
	if err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: err=%v n=%d", err, n)
	}
}
