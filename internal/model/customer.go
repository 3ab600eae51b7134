// internal/model/customer.go
package model

import (
	"encoding/json"

	"github.com/unclebandit/orders-backend/internal/routes"
)

const CustomerResource = "customer"

// Customer is a row of the customers table. A customer has many orders; only
// the link to them is exposed.
type Customer struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

var CustomerSchema = Schema[Customer]{
	Resource: CustomerResource,
	Fields: []Field[Customer]{
		StringField("name", true, func(c *Customer) *string { return &c.Name }),
	},
}

// ImportCustomer builds a new, not yet persisted customer from a request body
func ImportCustomer(body map[string]json.RawMessage) (*Customer, error) {
	c := &Customer{}
	if err := c.Import(body); err != nil {
		return nil, err
	}
	return c, nil
}

// Import replaces the mutable fields of c from body
func (c *Customer) Import(body map[string]json.RawMessage) error {
	return CustomerSchema.Import(c, body)
}

// URL is the canonical URL of the customer
func (c *Customer) URL(l routes.Links) string {
	return l.URLFor(routes.GetCustomer, c.ID)
}

// Export renders the JSON representation: self_url, name, orders_url
func (c *Customer) Export(l routes.Links) map[string]any {
	out := CustomerSchema.Export(c)
	out["self_url"] = c.URL(l)
	out["orders_url"] = l.URLFor(routes.GetCustomerOrders, c.ID)
	return out
}
