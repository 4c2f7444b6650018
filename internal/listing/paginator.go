package listing

import (
	"context"

	"github.com/simp-lee/bilemo/internal/domain"
)

// Store executes search queries for one resource type.
type Store[T any] interface {
	Count(ctx context.Context, q domain.SearchQuery) (int64, error)
	FetchPage(ctx context.Context, q domain.SearchQuery, limit, page int) ([]T, error)
}

// Paginate runs q against store and returns page number page of size limit.
// Pages past the end are empty, not errors. Invalid bounds are rejected
// before the store is touched.
func Paginate[T any](ctx context.Context, store Store[T], q domain.SearchQuery, limit, page int) (*domain.Page[T], error) {
	if err := checkBounds(limit, page); err != nil {
		return nil, err
	}

	total, err := store.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	totalPages := pageCount(total, limit)

	items := []T{}
	if page <= totalPages {
		items, err = store.FetchPage(ctx, q, limit, page)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
	}

	return &domain.Page[T]{
		Items: items,
		Meta: domain.PageMeta{
			Number:     page,
			Items:      len(items),
			Limit:      limit,
			TotalPages: totalPages,
			TotalItems: total,
		},
	}, nil
}

// pageCount is ceil(total/limit) without the overflow of total+limit-1.
func pageCount(total int64, limit int) int {
	n := total / int64(limit)
	if total%int64(limit) != 0 {
		n++
	}
	return int(n)
}

func checkBounds(limit, page int) error {
	var fields []domain.FieldError
	if limit < 1 {
		fields = append(fields, domain.FieldError{Field: "limit", Message: "Must be greater than or equal to 1"})
	}
	if page < 1 {
		fields = append(fields, domain.FieldError{Field: "page", Message: "Must be greater than or equal to 1"})
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}
