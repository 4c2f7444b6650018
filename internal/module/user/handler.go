package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/middleware"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// Route ids of the user endpoints. RouteCompany belongs to the company
// module and is referenced from user links.
const (
	RouteList    = "users.list"
	RouteShow    = "users.show"
	RouteCreate  = "users.create"
	RouteDelete  = "users.delete"
	RouteCompany = "companies.show"
)

// UserHandler handles REST API requests for the users of a company.
type UserHandler struct {
	svc    domain.UserService
	routes *pkg.RouteTable
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc domain.UserService, routes *pkg.RouteTable) *UserHandler {
	return &UserHandler{svc: svc, routes: routes}
}

// List handles GET /api/v1/companies/:company_id/users.
func (h *UserHandler) List(c *gin.Context) {
	companyID, err := pkg.ParseID(c, "company_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	params, err := pkg.ParseListParams(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	page, err := h.svc.ListUsers(c.Request.Context(), middleware.GetPrincipal(c), companyID, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, "users", toListItems(page.Items), page.Meta)
}

// Get handles GET /api/v1/companies/:company_id/users/:user_id.
func (h *UserHandler) Get(c *gin.Context) {
	companyID, id, ok := parseUserPath(c)
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), middleware.GetPrincipal(c), companyID, id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toDetails(user, h.routes))
}

// Create handles POST /api/v1/companies/:company_id/users.
func (h *UserHandler) Create(c *gin.Context) {
	companyID, err := pkg.ParseID(c, "company_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req CreateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), middleware.GetPrincipal(c), companyID, req.toInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	location, _ := h.routes.Resolve(RouteShow, userParams(user.CompanyID, user.ID))
	pkg.Created(c, location, toDetails(user, h.routes))
}

// Delete handles DELETE /api/v1/companies/:company_id/users/:user_id.
func (h *UserHandler) Delete(c *gin.Context) {
	companyID, id, ok := parseUserPath(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), middleware.GetPrincipal(c), companyID, id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}

func parseUserPath(c *gin.Context) (companyID, id uint, ok bool) {
	companyID, err := pkg.ParseID(c, "company_id")
	if err != nil {
		pkg.Error(c, err)
		return 0, 0, false
	}
	id, err = pkg.ParseID(c, "user_id")
	if err != nil {
		pkg.Error(c, err)
		return 0, 0, false
	}
	return companyID, id, true
}
