// Package reconcile computes the item mutations that turn a stored cart or
// order line list into a requested one.
package reconcile

// Kind is the mutation type.
type Kind string

const (
	KindRemove      Kind = "remove"
	KindSetQuantity Kind = "set_quantity"
	KindInsert      Kind = "insert"
)

// ExistingItem is a stored line.
type ExistingItem struct {
	ItemID    uint
	ProductID uint
	Quantity  int
}

// DesiredItem is a requested line. It has no identity of its own.
type DesiredItem struct {
	ProductID uint
	Quantity  int
}

// Mutation is one step of a reconciliation. Remove and SetQuantity address a
// stored item by ItemID; Insert carries ProductID.
type Mutation struct {
	Kind      Kind
	ItemID    uint
	ProductID uint
	Quantity  int
}

func Remove(itemID uint) Mutation {
	return Mutation{Kind: KindRemove, ItemID: itemID}
}

func SetQuantity(itemID uint, qty int) Mutation {
	return Mutation{Kind: KindSetQuantity, ItemID: itemID, Quantity: qty}
}

func Insert(productID uint, qty int) Mutation {
	return Mutation{Kind: KindInsert, ProductID: productID, Quantity: qty}
}

// Reconcile matches lines by product id.
//
// Existing items are visited in stored order: one whose product is requested
// gets SetQuantity (even when the quantity is unchanged), the rest get Remove.
// Requested lines that matched nothing follow as Inserts, in request order.
//
// When the request repeats a product id only its first occurrence matches a
// stored item; later occurrences become Inserts. When the stored lines repeat
// a product id every one of them gets SetQuantity to the requested quantity,
// so duplicate stored lines survive, all at that quantity.
func Reconcile(existing []ExistingItem, desired []DesiredItem) []Mutation {
	firstDesired := make(map[uint]int, len(desired))
	for i, d := range desired {
		if _, seen := firstDesired[d.ProductID]; !seen {
			firstDesired[d.ProductID] = i
		}
	}

	stored := make(map[uint]struct{}, len(existing))
	out := make([]Mutation, 0, len(existing)+len(desired))
	for _, e := range existing {
		stored[e.ProductID] = struct{}{}
		if idx, ok := firstDesired[e.ProductID]; ok {
			out = append(out, SetQuantity(e.ItemID, desired[idx].Quantity))
			continue
		}
		out = append(out, Remove(e.ItemID))
	}

	for i, d := range desired {
		if _, ok := stored[d.ProductID]; ok && firstDesired[d.ProductID] == i {
			continue
		}
		out = append(out, Insert(d.ProductID, d.Quantity))
	}
	return out
}

// Counts tallies mutations by kind.
type Counts struct {
	Removed  int
	Updated  int
	Inserted int
}

func Count(muts []Mutation) Counts {
	var c Counts
	for _, m := range muts {
		switch m.Kind {
		case KindRemove:
			c.Removed++
		case KindSetQuantity:
			c.Updated++
		case KindInsert:
			c.Inserted++
		}
	}
	return c
}

// InsertedProductIDs returns the distinct product ids referenced by Inserts.
func InsertedProductIDs(muts []Mutation) []uint {
	seen := map[uint]struct{}{}
	var out []uint
	for _, m := range muts {
		if m.Kind != KindInsert {
			continue
		}
		if _, ok := seen[m.ProductID]; ok {
			continue
		}
		seen[m.ProductID] = struct{}{}
		out = append(out, m.ProductID)
	}
	return out
}
