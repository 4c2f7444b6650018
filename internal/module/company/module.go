package company

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CompanyModule implements the app.Module interface for companies.
type CompanyModule struct {
	handler *CompanyHandler
}

// NewModule creates a new CompanyModule with the given handler.
// Panics if h is nil.
func NewModule(h *CompanyHandler) *CompanyModule {
	if h == nil {
		panic("company.NewModule: handler must not be nil")
	}
	return &CompanyModule{handler: h}
}

// RegisterRoutes registers the company endpoints on the authenticated group.
func (m *CompanyModule) RegisterRoutes(_ *gin.RouterGroup, secured *gin.RouterGroup) {
	rt := m.handler.routes
	companies := secured.Group("/companies")

	rt.Handle(companies, http.MethodGet, "", RouteList, m.handler.List)
	rt.Handle(companies, http.MethodPost, "", RouteCreate, m.handler.Create)
	rt.Handle(companies, http.MethodGet, "/:company_id", RouteShow, m.handler.Get)
	rt.Handle(companies, http.MethodDelete, "/:company_id", RouteDelete, m.handler.Delete)
}
