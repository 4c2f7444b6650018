package product

import (
	"context"

	"github.com/simp-lee/bilemo/internal/access"
	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/listing"
)

var productTarget = access.Target{Kind: domain.KindProduct}

// productService implements domain.ProductService.
type productService struct {
	repo   domain.ProductRepository
	lister *listing.Lister[domain.Product]
}

// NewProductService creates a new ProductService. Listings are served by lister.
func NewProductService(repo domain.ProductRepository, lister *listing.Lister[domain.Product]) domain.ProductService {
	return &productService{repo: repo, lister: lister}
}

// ListProducts returns a page of the shared catalog.
func (s *productService) ListProducts(ctx context.Context, p *domain.Principal, params domain.ListParams) (*domain.Page[domain.Product], error) {
	params.TenantID = nil
	return s.lister.List(ctx, p, params)
}

func (s *productService) GetProduct(ctx context.Context, p *domain.Principal, id uint) (*domain.Product, error) {
	if err := access.Enforce(p, access.ActionRead, productTarget); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *productService) CreateProduct(ctx context.Context, p *domain.Principal, product *domain.Product) error {
	if err := access.Enforce(p, access.ActionCreate, productTarget); err != nil {
		return err
	}
	product.ID = 0
	return s.repo.Create(ctx, product)
}

// UpdateProduct replaces the editable fields of product id with those of changes.
func (s *productService) UpdateProduct(ctx context.Context, p *domain.Principal, id uint, changes *domain.Product) (*domain.Product, error) {
	if err := access.Enforce(p, access.ActionUpdate, productTarget); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Reference = changes.Reference
	product.Brand = changes.Brand
	product.Name = changes.Name
	product.Color = changes.Color
	product.Description = changes.Description
	product.Size = changes.Size
	product.Price = changes.Price

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, p *domain.Principal, id uint) error {
	if err := access.Enforce(p, access.ActionDelete, productTarget); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
