// Package routes declares the HTTP routing table. The router mounts handlers
// by route name and the link builder renders canonical URLs from the same
// patterns, so a path only ever exists in one place.
package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type Name string

const (
	ListCustomers     Name = "list_customers"
	GetCustomer       Name = "get_customer"
	NewCustomer       Name = "new_customer"
	EditCustomer      Name = "edit_customer"
	GetCustomerOrders Name = "get_customer_orders"

	ListProducts Name = "list_products"
	GetProduct   Name = "get_product"
	NewProduct   Name = "new_product"
	EditProduct  Name = "edit_product"

	Health Name = "health"
)

// Route is one entry of the routing table
type Route struct {
	Name    Name
	Method  string
	Pattern string
}

var Table = []Route{
	{ListCustomers, http.MethodGet, "/customers/"},
	{GetCustomer, http.MethodGet, "/customers/{id}"},
	{NewCustomer, http.MethodPost, "/customers/"},
	{EditCustomer, http.MethodPut, "/customers/{id}"},
	{GetCustomerOrders, http.MethodGet, "/customers/{id}/orders"},

	{ListProducts, http.MethodGet, "/products/"},
	{GetProduct, http.MethodGet, "/products/{id}"},
	{NewProduct, http.MethodPost, "/products/"},
	{EditProduct, http.MethodPut, "/products/{id}"},

	{Health, http.MethodGet, "/health"},
}

// Lookup returns the route registered under name
func Lookup(name Name) (Route, bool) {
	for _, r := range Table {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Path expands the route pattern with params. Panics on an unknown route or a
// missing parameter; both are programming errors.
func Path(name Name, params map[string]string) string {
	r, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("routes: unknown route %q", name))
	}
	p := r.Pattern
	for k, v := range params {
		p = strings.ReplaceAll(p, "{"+k+"}", v)
	}
	if strings.Contains(p, "{") {
		panic(fmt.Sprintf("routes: unresolved parameter in %q for route %q", p, name))
	}
	return p
}

// Links renders absolute URLs against a fixed base (scheme + host)
type Links struct {
	base string
}

func NewLinks(base string) Links {
	return Links{base: strings.TrimRight(base, "/")}
}

// LinksFromRequest uses publicBase when set, otherwise derives the base from
// the request's scheme and Host header.
func LinksFromRequest(r *http.Request, publicBase string) Links {
	if publicBase != "" {
		return NewLinks(publicBase)
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return NewLinks(scheme + "://" + r.Host)
}

// URLFor returns the absolute URL of a route whose only parameter is {id}
func (l Links) URLFor(name Name, id int64) string {
	return l.base + Path(name, map[string]string{"id": strconv.FormatInt(id, 10)})
}
