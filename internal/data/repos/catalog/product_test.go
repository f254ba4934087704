package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/data/repos/testutil"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
)

func TestProductRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewProductRepo(db, testutil.Logger(t))
	skin := testutil.SeedCategory(t, ctx, tx, "Skincare-ProductRepo")
	hair := testutil.SeedCategory(t, ctx, tx, "Haircare-ProductRepo")

	created, err := repo.Create(dbc, []*types.Product{{Name: "Rose Serum", Price: decimal.RequireFromString("12.50")}})
	if err != nil || len(created) != 1 || created[0].ID == 0 {
		t.Fatalf("Create: err=%v created=%v", err, created)
	}
	p := created[0]

	if err := repo.SetCategories(dbc, p.ID, []uint{skin.ID, hair.ID, skin.ID}); err != nil {
		t.Fatalf("SetCategories: %v", err)
	}
	got, err := repo.GetByID(dbc, p.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if ids := got.CategoryIDs(); len(ids) != 2 {
		t.Fatalf("CategoryIDs: got %v", ids)
	}
	if names := got.CategoryNames(); len(names) != 2 {
		t.Fatalf("CategoryNames: got %v", names)
	}
	if !got.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("price round trip: got %s", got.Price)
	}

	byName, err := repo.ListByCategoryName(dbc, "haircare-productrepo")
	if err != nil || len(byName) != 1 || byName[0].ID != p.ID {
		t.Fatalf("ListByCategoryName: err=%v rows=%d", err, len(byName))
	}

	if err := repo.SetCategories(dbc, p.ID, []uint{skin.ID}); err != nil {
		t.Fatalf("SetCategories replace: %v", err)
	}
	byName, err = repo.ListByCategoryName(dbc, "Haircare-ProductRepo")
	if err != nil || len(byName) != 0 {
		t.Fatalf("ListByCategoryName after replace: err=%v rows=%d", err, len(byName))
	}

	existing, err := repo.ExistingIDs(dbc, []uint{p.ID, 999999})
	if err != nil || len(existing) != 1 || existing[0] != p.ID {
		t.Fatalf("ExistingIDs: err=%v ids=%v", err, existing)
	}

	p.Name = "Rose Serum XL"
	p.Price = decimal.RequireFromString("15")
	if err := repo.Update(dbc, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(dbc, p.ID)
	if err != nil || got.Name != "Rose Serum XL" || !got.Price.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("after Update: err=%v got=%+v", err, got)
	}

	deleted, err := repo.Delete(dbc, p.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete: err=%v deleted=%v", err, deleted)
	}
	if got, err := repo.GetByID(dbc, p.ID); err != nil || got != nil {
		t.Fatalf("GetByID after delete: err=%v got=%v", err, got)
	}
}

func TestProductCategoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewProductCategoryRepo(db, testutil.Logger(t))
	cat := testutil.SeedCategory(t, ctx, tx, "Fragrance-PCRepo")
	p := testutil.SeedProduct(t, ctx, tx, "Musk", "30.00")

	if err := repo.Add(dbc, p.ID, cat.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Add(dbc, p.ID, cat.ID); err != nil {
		t.Fatalf("Add twice: %v", err)
	}
	rows, err := repo.ListByProductIDs(dbc, []uint{p.ID})
	if err != nil || len(rows) != 1 || rows[0].Category == nil {
		t.Fatalf("ListByProductIDs: err=%v rows=%v", err, rows)
	}

	removed, err := repo.Delete(dbc, p.ID, cat.ID)
	if err != nil || !removed {
		t.Fatalf("Delete: err=%v removed=%v", err, removed)
	}
	removed, err = repo.Delete(dbc, p.ID, cat.ID)
	if err != nil || removed {
		t.Fatalf("Delete missing: err=%v removed=%v", err, removed)
	}
}
