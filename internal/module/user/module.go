package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserModule implements the app.Module interface for the user domain.
type UserModule struct {
	handler *UserHandler
}

// NewModule creates a new UserModule with the given handler.
// Panics if h is nil.
func NewModule(h *UserHandler) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	return &UserModule{handler: h}
}

// RegisterRoutes registers the company-scoped user endpoints.
func (m *UserModule) RegisterRoutes(_ *gin.RouterGroup, secured *gin.RouterGroup) {
	rt := m.handler.routes
	users := secured.Group("/companies/:company_id/users")

	rt.Handle(users, http.MethodGet, "", RouteList, m.handler.List)
	rt.Handle(users, http.MethodPost, "", RouteCreate, m.handler.Create)
	rt.Handle(users, http.MethodGet, "/:user_id", RouteShow, m.handler.Get)
	rt.Handle(users, http.MethodDelete, "/:user_id", RouteDelete, m.handler.Delete)
}
