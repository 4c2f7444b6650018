package product

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/middleware"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// Route ids of the product endpoints.
const (
	RouteList   = "products.list"
	RouteShow   = "products.show"
	RouteCreate = "products.create"
	RouteUpdate = "products.update"
	RouteDelete = "products.delete"
)

// ProductHandler handles REST API requests for the product catalog.
type ProductHandler struct {
	svc    domain.ProductService
	routes *pkg.RouteTable
}

// NewProductHandler creates a new ProductHandler. routes resolves the URLs
// placed in Location headers and resource links.
func NewProductHandler(svc domain.ProductService, routes *pkg.RouteTable) *ProductHandler {
	return &ProductHandler{svc: svc, routes: routes}
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	params, err := pkg.ParseListParams(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	page, err := h.svc.ListProducts(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, "products", toListItems(page.Items), page.Meta)
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	product, err := h.svc.GetProduct(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toDetails(product, h.routes))
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	product := req.toDomain()
	if err := h.svc.CreateProduct(c.Request.Context(), middleware.GetPrincipal(c), product); err != nil {
		pkg.Error(c, err)
		return
	}

	location, _ := h.routes.Resolve(RouteShow, map[string]string{"id": strconv.FormatUint(uint64(product.ID), 10)})
	pkg.Created(c, location, toDetails(product, h.routes))
}

// Update handles PUT /api/v1/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req ProductRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), middleware.GetPrincipal(c), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toDetails(product, h.routes))
}

// Delete handles DELETE /api/v1/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteProduct(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}
