package routes

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLFor(t *testing.T) {
	l := NewLinks("http://host/")

	assert.Equal(t, "http://host/customers/1", l.URLFor(GetCustomer, 1))
	assert.Equal(t, "http://host/customers/1/orders", l.URLFor(GetCustomerOrders, 1))
	assert.Equal(t, "http://host/products/42", l.URLFor(GetProduct, 42))
}

func TestLinksFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		publicBase string
		proto      string
		tls        bool
		want       string
	}{
		{name: "plain http", want: "http://example.com/customers/3"},
		{name: "tls", tls: true, want: "https://example.com/customers/3"},
		{name: "forwarded proto", proto: "https, http", want: "https://example.com/customers/3"},
		{name: "public base wins", publicBase: "https://api.example.org", proto: "http", want: "https://api.example.org/customers/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/customers/", nil)
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}

			l := LinksFromRequest(req, tt.publicBase)
			assert.Equal(t, tt.want, l.URLFor(GetCustomer, 3))
		})
	}
}

func TestPathPanicsOnUnknownRoute(t *testing.T) {
	assert.Panics(t, func() { Path("nope", nil) })
	assert.Panics(t, func() { Path(GetCustomer, nil) })
}

func TestTableNamesAreUnique(t *testing.T) {
	seen := map[Name]bool{}
	for _, r := range Table {
		assert.False(t, seen[r.Name], "duplicate route %s", r.Name)
		seen[r.Name] = true
	}
}
