package domain

import "context"

// Company is a tenant. Users reference it through CompanyID.
type Company struct {
	BaseModel
	Name    string `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Email   string `gorm:"size:180;uniqueIndex;not null" json:"email"`
	Phone   string `gorm:"size:32" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
	Zip     string `gorm:"size:16" json:"zip"`
	City    string `gorm:"size:128" json:"city"`
	Country string `gorm:"size:128" json:"country"`
}

// CompanyRepository defines the data access interface for companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id uint) (*Company, error)
	// Delete removes the company together with all of its users.
	Delete(ctx context.Context, id uint) error
}

// CompanyService defines the business logic interface for companies.
type CompanyService interface {
	ListCompanies(ctx context.Context, p *Principal, params ListParams) (*Page[Company], error)
	GetCompany(ctx context.Context, p *Principal, id uint) (*Company, error)
	CreateCompany(ctx context.Context, p *Principal, company *Company) error
	DeleteCompany(ctx context.Context, p *Principal, id uint) error
}
