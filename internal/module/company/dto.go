package company

import (
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// CreateCompanyRequest is the body accepted when creating a company.
type CreateCompanyRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=128"`
	Email   string `json:"email" binding:"required,email,max=180"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Address string `json:"address" binding:"omitempty,max=255"`
	Zip     string `json:"zip" binding:"omitempty,max=16"`
	City    string `json:"city" binding:"omitempty,max=128"`
	Country string `json:"country" binding:"omitempty,max=128"`
}

func (r CreateCompanyRequest) toDomain() *domain.Company {
	return &domain.Company{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:   strings.TrimSpace(r.Phone),
		Address: strings.TrimSpace(r.Address),
		Zip:     strings.TrimSpace(r.Zip),
		City:    strings.TrimSpace(r.City),
		Country: strings.TrimSpace(r.Country),
	}
}

// CompanyListItem is the listing view of a company.
type CompanyListItem struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CompanyDetails is the full view of a company.
type CompanyDetails struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Address   string            `json:"address"`
	Zip       string            `json:"zip"`
	City      string            `json:"city"`
	Country   string            `json:"country"`
	CreatedAt time.Time         `json:"created_at"`
	Links     map[string]string `json:"_links"`
}

func toListItems(companies []domain.Company) []CompanyListItem {
	items := make([]CompanyListItem, len(companies))
	for i, c := range companies {
		items[i] = CompanyListItem{ID: c.ID, Name: c.Name, Email: c.Email}
	}
	return items
}

func toDetails(c *domain.Company, routes *pkg.RouteTable) CompanyDetails {
	params := idParam(c.ID)
	return CompanyDetails{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Zip:       c.Zip,
		City:      c.City,
		Country:   c.Country,
		CreatedAt: c.CreatedAt,
		Links: map[string]string{
			"self":  routes.ResolveOr(RouteShow, params),
			"users": routes.ResolveOr(RouteUsers, params),
		},
	}
}

func idParam(id uint) map[string]string {
	return map[string]string{"company_id": strconv.FormatUint(uint64(id), 10)}
}
