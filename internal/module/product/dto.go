package product

import (
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// ProductRequest is the body accepted when creating or replacing a product.
type ProductRequest struct {
	Reference   string  `json:"reference" binding:"required,alphanum,max=64"`
	Brand       string  `json:"brand" binding:"required,max=128"`
	Name        string  `json:"name" binding:"required,max=255"`
	Color       string  `json:"color" binding:"omitempty,max=64"`
	Description string  `json:"description" binding:"omitempty,max=10000"`
	Size        float64 `json:"size" binding:"gte=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

func (r ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Reference:   strings.TrimSpace(r.Reference),
		Brand:       strings.TrimSpace(r.Brand),
		Name:        strings.TrimSpace(r.Name),
		Color:       strings.TrimSpace(r.Color),
		Description: strings.TrimSpace(r.Description),
		Size:        r.Size,
		Price:       r.Price,
	}
}

// ProductListItem is the listing view of a product.
type ProductListItem struct {
	ID        uint   `json:"id"`
	Reference string `json:"reference"`
	Brand     string `json:"brand"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

// ProductDetails is the full view of a product.
type ProductDetails struct {
	ID          uint              `json:"id"`
	Reference   string            `json:"reference"`
	Brand       string            `json:"brand"`
	Name        string            `json:"name"`
	Color       string            `json:"color"`
	Description string            `json:"description"`
	Size        float64           `json:"size"`
	Price       float64           `json:"price"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Links       map[string]string `json:"_links"`
}

func toListItems(products []domain.Product) []ProductListItem {
	items := make([]ProductListItem, len(products))
	for i, p := range products {
		items[i] = ProductListItem{
			ID:        p.ID,
			Reference: p.Reference,
			Brand:     p.Brand,
			Name:      p.Name,
			Color:     p.Color,
		}
	}
	return items
}

func toDetails(p *domain.Product, routes *pkg.RouteTable) ProductDetails {
	return ProductDetails{
		ID:          p.ID,
		Reference:   p.Reference,
		Brand:       p.Brand,
		Name:        p.Name,
		Color:       p.Color,
		Description: p.Description,
		Size:        p.Size,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Links: map[string]string{
			"self": routes.ResolveOr(RouteShow, idParam(p.ID)),
			"list": routes.ResolveOr(RouteList, nil),
		},
	}
}

func idParam(id uint) map[string]string {
	return map[string]string{"id": strconv.FormatUint(uint64(id), 10)}
}
