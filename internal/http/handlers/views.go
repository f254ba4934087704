package handlers

import (
	types "github.com/yungbote/storefront-backend/internal/domain"
)

func newProductView(p *types.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Featured:    p.Featured,
		ImageURL:    p.ImageURL,
		CategoryIDs: p.CategoryIDs(),
		Categories:  p.CategoryNames(),
	}
}

func productViews(in []*types.Product) []productView {
	out := make([]productView, 0, len(in))
	for _, p := range in {
		out = append(out, newProductView(p))
	}
	return out
}
