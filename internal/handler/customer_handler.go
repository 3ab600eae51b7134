// internal/handler/customer_handler.go
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/unclebandit/orders-backend/internal/model"
	"github.com/unclebandit/orders-backend/internal/routes"
)

// CustomerService is what the customer endpoints need from the service layer
type CustomerService interface {
	List(ctx context.Context) ([]model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, body map[string]json.RawMessage) (*model.Customer, error)
	Update(ctx context.Context, id int64, body map[string]json.RawMessage) (*model.Customer, error)
}

// CustomerHandler holds the dependencies for customer HTTP handlers
type CustomerHandler struct {
	Service       CustomerService
	PublicBaseURL string
	Logger        *slog.Logger
}

func NewCustomerHandler(svc CustomerService, publicBaseURL string, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{Service: svc, PublicBaseURL: publicBaseURL, Logger: logger}
}

// ListCustomers handles GET /customers/
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	links := routes.LinksFromRequest(r, h.PublicBaseURL)
	urls := make([]string, 0, len(customers))
	for i := range customers {
		urls = append(urls, customers[i].URL(links))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"customers": urls}, h.Logger)
}

// GetCustomer handles GET /customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, model.CustomerResource)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}
	writeJSON(w, http.StatusOK, c.Export(routes.LinksFromRequest(r, h.PublicBaseURL)), h.Logger)
}

// NewCustomer handles POST /customers/
func (h *CustomerHandler) NewCustomer(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		h.Logger.Debug("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body", h.Logger)
		return
	}

	c, err := h.Service.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	w.Header().Set("Location", c.URL(routes.LinksFromRequest(r, h.PublicBaseURL)))
	writeJSON(w, http.StatusCreated, struct{}{}, h.Logger)
}

// EditCustomer handles PUT /customers/{id}
func (h *CustomerHandler) EditCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, model.CustomerResource)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		h.Logger.Debug("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body", h.Logger)
		return
	}

	if _, err := h.Service.Update(r.Context(), id, body); err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{}, h.Logger)
}

// GetCustomerOrders handles GET /customers/{id}/orders. The link is part of
// every customer representation; orders themselves are not stored.
func (h *CustomerHandler) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, model.CustomerResource)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	if _, err := h.Service.Get(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}
	writeError(w, http.StatusNotImplemented, "orders are not implemented", h.Logger)
}
