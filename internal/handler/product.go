package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"doemais/internal/cache"
	"doemais/internal/service"
)

// ProductHandler handles product listing, CRUD, and donation transitions.
type ProductHandler struct {
	products *service.ProductService
	listings *cache.Listing
}

// NewProductHandler creates a new ProductHandler. listings may be nil when
// the Redis cache is disabled.
func NewProductHandler(products *service.ProductService, listings *cache.Listing) *ProductHandler {
	return &ProductHandler{products: products, listings: listings}
}

// HandleCreate lists a new product owned by the caller.
// POST /products (multipart: name, description, state, purchased_at, images[])
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	in, err := productInputFromRequest(r)
	if err != nil {
		writeServiceError(w, err, "parse product input")
		return
	}

	product, err := h.products.Create(r.Context(), user, in)
	if err != nil {
		writeServiceError(w, err, "create product")
		return
	}

	h.listings.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"product": toProductDTO(product)})
}

// HandleIndex returns one page of products, newest first. The serialized
// response is cached in Redis when the cache is configured.
// GET /products?page=1&limit=10
func (h *ProductHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	if payload, ok := h.listings.Get(r.Context(), page, limit); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	products, err := h.products.List(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err, "list products")
		return
	}

	payload, err := json.Marshal(map[string]any{"products": toProductDTOs(products)})
	if err != nil {
		slog.Error("marshal product listing", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.listings.Set(r.Context(), page, limit, payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// HandleShowByID returns one product.
// GET /products/showProductBy/{id}
func (h *ProductHandler) HandleShowByID(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get product")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"product": toProductDTO(product)})
}

// HandleShowUserProducts returns the caller's own products.
// GET /products/showUserProducts
func (h *ProductHandler) HandleShowUserProducts(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	products, err := h.products.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, "list user products")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": toProductDTOs(products)})
}

// HandleShowReceiverProducts returns the products the caller scheduled a
// pickup for.
// GET /products/showRecieverProducts
func (h *ProductHandler) HandleShowReceiverProducts(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	products, err := h.products.ListByReceiver(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, "list receiver products")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": toProductDTOs(products)})
}

// HandleUpdate full-replaces a product's fields.
// PUT /products/{id}
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	in, err := productInputFromRequest(r)
	if err != nil {
		writeServiceError(w, err, "parse product input")
		return
	}

	product, err := h.products.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err, "update product")
		return
	}

	h.listings.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"updatedProduct": toProductDTO(product)})
}

// HandleDelete removes a product.
// DELETE /products/{id}
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete product")
		return
	}

	h.listings.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"msg": fmt.Sprintf("Product %d deleted.", id)})
}

// HandleSchedule records a pickup for a product.
// PATCH /products/schedule/{id}
func (h *ProductHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	message, err := h.products.Schedule(r.Context(), user, id)
	if err != nil {
		writeServiceError(w, err, "schedule product")
		return
	}

	h.listings.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"schedule": map[string]string{"message": message},
	})
}

// HandleConcludeDonation finishes a donation.
// PATCH /products/concludeDonation/{id}
func (h *ProductHandler) HandleConcludeDonation(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	message, err := h.products.ConcludeDonation(r.Context(), user, id)
	if err != nil {
		writeServiceError(w, err, "conclude donation")
		return
	}

	h.listings.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"concludeDonation": map[string]string{"message": message},
	})
}

// HandleShow is the public product detail placeholder kept for API
// compatibility.
// GET /products/{id}
func (h *ProductHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "show"})
}

// productID parses the {id} path value. A value that is not a positive
// integer cannot name a product, so it reports 404 rather than 400.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, "Product not found.")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
