package aggregates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/domain/reconcile"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
)

func validateLines(op string, lines []domainagg.LineInput) error {
	for i, l := range lines {
		if l.ProductID == 0 {
			return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("items[%d]: product_id is required", i), nil)
		}
		if l.Quantity < 1 {
			return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("items[%d]: quantity must be at least 1", i), nil)
		}
	}
	return nil
}

func validatePrice(op string, price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return domainagg.NewError(domainagg.CodeValidation, op, "price must not be negative", nil)
	}
	return nil
}

func distinctProductIDs(lines []domainagg.LineInput) []uint {
	seen := make(map[uint]struct{}, len(lines))
	out := make([]uint, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		out = append(out, l.ProductID)
	}
	return out
}

// loadProducts returns every requested product keyed by id, or a validation
// error listing the ids that do not exist.
func loadProducts(dbc dbctx.Context, products repos.ProductRepo, op string, lines []domainagg.LineInput) (map[uint]*types.Product, error) {
	ids := distinctProductIDs(lines)
	byID := make(map[uint]*types.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	rows, err := products.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		byID[p.ID] = p
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		parts := make([]string, 0, len(missing))
		for _, id := range missing {
			parts = append(parts, fmt.Sprint(id))
		}
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "products not found: "+strings.Join(parts, ", "), nil)
	}
	return byID, nil
}

func requireCustomer(dbc dbctx.Context, customers repos.CustomerRepo, op string, id uuid.UUID) error {
	if id == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "customer_id is required", nil)
	}
	found, err := customers.ExistingIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return domainagg.NewError(domainagg.CodeNotFound, op, "customer not found: "+id.String(), nil)
	}
	return nil
}

// resolvePrice keeps an explicit price and otherwise sums current unit prices.
func resolvePrice(given *decimal.Decimal, lines []domainagg.LineInput, products map[uint]*types.Product) decimal.Decimal {
	if given != nil {
		return given.Round(2)
	}
	total := decimal.Zero
	for _, l := range lines {
		if p := products[l.ProductID]; p != nil {
			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}
	return total.Round(2)
}

type lineStore interface {
	UpdateQuantity(dbc dbctx.Context, id uint, quantity int) (bool, error)
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

// applyMutations writes removes, quantity updates and inserts. insert
// receives the Insert mutations in order.
func applyMutations(dbc dbctx.Context, store lineStore, muts []reconcile.Mutation, insert func([]reconcile.Mutation) error) error {
	var removeIDs []uint
	var inserts []reconcile.Mutation
	for _, m := range muts {
		switch m.Kind {
		case reconcile.KindRemove:
			removeIDs = append(removeIDs, m.ItemID)
		case reconcile.KindSetQuantity:
			ok, err := store.UpdateQuantity(dbc, m.ItemID, m.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return domainagg.NewError(domainagg.CodeConflict, "aggregate.lines", fmt.Sprintf("item %d changed during update", m.ItemID), nil)
			}
		case reconcile.KindInsert:
			inserts = append(inserts, m)
		}
	}
	if len(removeIDs) > 0 {
		n, err := store.DeleteByIDs(dbc, removeIDs)
		if err != nil {
			return err
		}
		if int(n) != len(removeIDs) {
			return domainagg.NewError(domainagg.CodeConflict, "aggregate.lines", "items changed during update", nil)
		}
	}
	if len(inserts) == 0 {
		return nil
	}
	return insert(inserts)
}
