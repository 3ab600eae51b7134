// internal/model/product.go
package model

import (
	"encoding/json"

	"github.com/unclebandit/orders-backend/internal/routes"
)

const ProductResource = "product"

// Product is a row of the products table
type Product struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

var ProductSchema = Schema[Product]{
	Resource: ProductResource,
	Fields: []Field[Product]{
		StringField("name", true, func(p *Product) *string { return &p.Name }),
	},
}

func ImportProduct(body map[string]json.RawMessage) (*Product, error) {
	p := &Product{}
	if err := p.Import(body); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Import(body map[string]json.RawMessage) error {
	return ProductSchema.Import(p, body)
}

func (p *Product) URL(l routes.Links) string {
	return l.URLFor(routes.GetProduct, p.ID)
}

// Export renders the JSON representation: self_url, name
func (p *Product) Export(l routes.Links) map[string]any {
	out := ProductSchema.Export(p)
	out["self_url"] = p.URL(l)
	return out
}
