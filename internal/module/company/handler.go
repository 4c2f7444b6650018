package company

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/middleware"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// Route ids of the company endpoints. RouteUsers belongs to the user module
// and is referenced from company links.
const (
	RouteList   = "companies.list"
	RouteShow   = "companies.show"
	RouteCreate = "companies.create"
	RouteDelete = "companies.delete"
	RouteUsers  = "users.list"
)

// CompanyHandler handles REST API requests for companies.
type CompanyHandler struct {
	svc    domain.CompanyService
	routes *pkg.RouteTable
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(svc domain.CompanyService, routes *pkg.RouteTable) *CompanyHandler {
	return &CompanyHandler{svc: svc, routes: routes}
}

// List handles GET /api/v1/companies.
func (h *CompanyHandler) List(c *gin.Context) {
	params, err := pkg.ParseListParams(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	page, err := h.svc.ListCompanies(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, "companies", toListItems(page.Items), page.Meta)
}

// Get handles GET /api/v1/companies/:company_id.
func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "company_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	company, err := h.svc.GetCompany(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toDetails(company, h.routes))
}

// Create handles POST /api/v1/companies.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	company := req.toDomain()
	if err := h.svc.CreateCompany(c.Request.Context(), middleware.GetPrincipal(c), company); err != nil {
		pkg.Error(c, err)
		return
	}

	location, _ := h.routes.Resolve(RouteShow, idParam(company.ID))
	pkg.Created(c, location, toDetails(company, h.routes))
}

// Delete handles DELETE /api/v1/companies/:company_id.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "company_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteCompany(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}
