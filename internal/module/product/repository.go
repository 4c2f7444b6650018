package product

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/pkg"
)

const entity = "product"

// productRepository implements domain.ProductRepository using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository backed by the given GORM database.
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(product).Error, entity)
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, pkg.MapDBError(err, entity)
	}
	return &product, nil
}

// Update saves every column of an existing product.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Save(product).Error, entity)
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return pkg.MapDBError(result.Error, entity)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "product not found", nil)
	}
	return nil
}
