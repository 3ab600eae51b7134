// internal/handler/product_handler.go
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/unclebandit/orders-backend/internal/model"
	"github.com/unclebandit/orders-backend/internal/routes"
)

type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, body map[string]json.RawMessage) (*model.Product, error)
	Update(ctx context.Context, id int64, body map[string]json.RawMessage) (*model.Product, error)
}

type ProductHandler struct {
	Service       ProductService
	PublicBaseURL string
	Logger        *slog.Logger
}

func NewProductHandler(svc ProductService, publicBaseURL string, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{Service: svc, PublicBaseURL: publicBaseURL, Logger: logger}
}

// ListProducts handles GET /products/
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	links := routes.LinksFromRequest(r, h.PublicBaseURL)
	urls := make([]string, 0, len(products))
	for i := range products {
		urls = append(urls, products[i].URL(links))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"products": urls}, h.Logger)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, model.ProductResource)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}
	writeJSON(w, http.StatusOK, p.Export(routes.LinksFromRequest(r, h.PublicBaseURL)), h.Logger)
}

// NewProduct handles POST /products/
func (h *ProductHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.Logger)
		return
	}

	p, err := h.Service.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	w.Header().Set("Location", p.URL(routes.LinksFromRequest(r, h.PublicBaseURL)))
	writeJSON(w, http.StatusCreated, struct{}{}, h.Logger)
}

// EditProduct handles PUT /products/{id}
func (h *ProductHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, model.ProductResource)
	if err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.Logger)
		return
	}

	if _, err := h.Service.Update(r.Context(), id, body); err != nil {
		writeServiceError(w, r, err, h.Logger)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{}, h.Logger)
}
