package product

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProductModule implements the app.Module interface for the product catalog.
type ProductModule struct {
	handler *ProductHandler
}

// NewModule creates a new ProductModule with the given handler.
// Panics if h is nil.
func NewModule(h *ProductHandler) *ProductModule {
	if h == nil {
		panic("product.NewModule: handler must not be nil")
	}
	return &ProductModule{handler: h}
}

// RegisterRoutes registers the catalog endpoints. All of them require
// authentication.
func (m *ProductModule) RegisterRoutes(_ *gin.RouterGroup, secured *gin.RouterGroup) {
	rt := m.handler.routes
	products := secured.Group("/products")

	rt.Handle(products, http.MethodGet, "", RouteList, m.handler.List)
	rt.Handle(products, http.MethodPost, "", RouteCreate, m.handler.Create)
	rt.Handle(products, http.MethodGet, "/:id", RouteShow, m.handler.Get)
	rt.Handle(products, http.MethodPut, "/:id", RouteUpdate, m.handler.Update)
	rt.Handle(products, http.MethodDelete, "/:id", RouteDelete, m.handler.Delete)
}
