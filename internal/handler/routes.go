package handler

import (
	"net/http"

	"doemais/internal/cache"
	"doemais/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. listings may be
// nil when the Redis listing cache is disabled.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, products *service.ProductService, images *service.ImageService, listings *cache.Listing) {
	userH := NewUserHandler(auth)
	productH := NewProductHandler(products, listings)
	imageH := NewImageHandler(images)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /users/register", userH.HandleRegister)
	mux.HandleFunc("POST /users/login", userH.HandleLogin)
	mux.Handle("GET /users/currentUser", protected(userH.HandleCurrentUser))
	mux.Handle("PUT /users/currentUser", protected(userH.HandleUpdateUser))

	mux.Handle("POST /products", protected(productH.HandleCreate))
	mux.HandleFunc("GET /products", productH.HandleIndex)
	mux.Handle("GET /products/showProductBy/{id}", protected(productH.HandleShowByID))
	mux.Handle("GET /products/showUserProducts", protected(productH.HandleShowUserProducts))
	mux.Handle("GET /products/showRecieverProducts", protected(productH.HandleShowReceiverProducts))
	mux.Handle("PUT /products/{id}", protected(productH.HandleUpdate))
	mux.Handle("DELETE /products/{id}", protected(productH.HandleDelete))
	mux.Handle("PATCH /products/schedule/{id}", protected(productH.HandleSchedule))
	mux.Handle("PATCH /products/concludeDonation/{id}", protected(productH.HandleConcludeDonation))
	mux.HandleFunc("GET /products/{id}", productH.HandleShow)

	mux.HandleFunc("GET /images/{key...}", imageH.HandleGet)
}
