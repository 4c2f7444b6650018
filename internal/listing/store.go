package listing

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// GormStore is the gorm implementation of Store for model type T.
type GormStore[T any] struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore reading from db.
func NewGormStore[T any](db *gorm.DB) *GormStore[T] {
	return &GormStore[T]{db: db}
}

func (s *GormStore[T]) filtered(ctx context.Context, q domain.SearchQuery) *gorm.DB {
	var model T
	return s.db.WithContext(ctx).Model(&model).Scopes(
		pkg.Tenant(q.TenantField, q.TenantID),
		pkg.Search(q.SearchFields, q.Keyword),
	)
}

func (s *GormStore[T]) Count(ctx context.Context, q domain.SearchQuery) (int64, error) {
	var total int64
	if err := s.filtered(ctx, q).Count(&total).Error; err != nil {
		return 0, domain.NewAppError(domain.CodeInternal, "failed to count "+string(q.Kind)+" records", err)
	}
	return total, nil
}

func (s *GormStore[T]) FetchPage(ctx context.Context, q domain.SearchQuery, limit, page int) ([]T, error) {
	var items []T
	err := s.filtered(ctx, q).
		Scopes(pkg.Order(q.SortKeys, q.Order), pkg.Paginate(limit, page)).
		Find(&items).Error
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to list "+string(q.Kind)+" records", err)
	}
	return items, nil
}
