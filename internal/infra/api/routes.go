package api

import (
	"net/http"

	"adalbertofjr/products-api/ajun"
)

func RegisterRoutes(router *ajun.Ajun, h *ProductHandler) {
	withID := func(op func(http.ResponseWriter, *http.Request, string)) func(http.ResponseWriter, *http.Request) {
		return func(w http.ResponseWriter, r *http.Request) {
			op(w, r, ajun.URLParam(r, "id"))
		}
	}

	router.MethodFunc(http.MethodGet, "/health", HealthHandler)
	router.MethodFunc(http.MethodGet, "/api/products", h.ListProducts)
	router.MethodFunc(http.MethodPost, "/api/products", h.CreateProduct)
	router.MethodFunc(http.MethodGet, "/api/product/{id}", withID(h.GetProduct))
	router.MethodFunc(http.MethodGet, "/api/products/{id}", withID(h.GetProduct))
	router.MethodFunc(http.MethodPut, "/api/products/{id}", withID(h.UpdateProduct))

	router.NotFound(NotFoundHandler)
	router.MethodNotAllowed(MethodNotAllowedHandler)
}
