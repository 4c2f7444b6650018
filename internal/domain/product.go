package domain

import "context"

// Product is a catalog item. Products are shared by every tenant.
type Product struct {
	BaseModel
	Reference   string  `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	Brand       string  `gorm:"size:128;not null" json:"brand"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Color       string  `gorm:"size:64" json:"color"`
	Description string  `gorm:"type:text" json:"description"`
	Size        float64 `json:"size"`
	Price       float64 `json:"price"`
}

// ProductRepository defines the data access interface for products.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
}

// ProductService defines the business logic interface for the catalog.
type ProductService interface {
	ListProducts(ctx context.Context, p *Principal, params ListParams) (*Page[Product], error)
	GetProduct(ctx context.Context, p *Principal, id uint) (*Product, error)
	CreateProduct(ctx context.Context, p *Principal, product *Product) error
	UpdateProduct(ctx context.Context, p *Principal, id uint, product *Product) (*Product, error)
	DeleteProduct(ctx context.Context, p *Principal, id uint) error
}
