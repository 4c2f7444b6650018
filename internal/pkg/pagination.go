package pkg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/bilemo/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// integerParams are the list parameters that must parse as integers before
// their bounds are checked.
var integerParams = []string{"limit", "page"}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// listQuery is the query-string form of a listing request. Pointer fields
// distinguish an absent value from an explicit zero.
type listQuery struct {
	Keyword string `form:"keyword" binding:"omitempty,alphanum,max=128"`
	Order   string `form:"order" binding:"omitempty,oneof=asc desc"`
	Limit   *int   `form:"limit" binding:"omitempty,min=1"`
	Page    *int   `form:"page" binding:"omitempty,min=1"`
}

// ParseListParams extracts keyword, order, limit and page from the query
// string. Absent values take their defaults; present but invalid values
// produce a validation error instead of being clamped.
func ParseListParams(c *gin.Context) (domain.ListParams, error) {
	if fields := malformedIntegers(c); len(fields) > 0 {
		return domain.ListParams{}, domain.NewValidationError(fields...)
	}

	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return domain.ListParams{}, toValidationError(err, &q)
	}

	params := domain.ListParams{
		Keyword: q.Keyword,
		Order:   domain.OrderAsc,
		Limit:   defaultLimit,
		Page:    defaultPage,
	}
	if q.Order != "" {
		params.Order = domain.Order(q.Order)
	}
	if q.Limit != nil {
		params.Limit = *q.Limit
	}
	if q.Page != nil {
		params.Page = *q.Page
	}
	return params, nil
}

// malformedIntegers reports the integer parameters whose value does not parse.
// The form binder fails on these without naming the field.
func malformedIntegers(c *gin.Context) []domain.FieldError {
	var fields []domain.FieldError
	for _, name := range integerParams {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSpace(raw)); err != nil {
			fields = append(fields, domain.FieldError{Field: name, Message: "Must be a positive integer"})
		}
	}
	return fields
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET for a 1-based page.
func Paginate(limit, page int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * limit
		return db.Offset(offset).Limit(limit)
	}
}

// Order returns a GORM scope that applies ORDER BY for every key in turn,
// all in the same direction. Field names are validated against a strict
// pattern to prevent SQL injection; invalid names are silently skipped.
func Order(keys []string, order domain.Order) func(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if order == domain.OrderDesc {
		direction = "DESC"
	}
	return func(db *gorm.DB) *gorm.DB {
		for _, key := range keys {
			if !validFieldName.MatchString(key) {
				continue
			}
			db = db.Order(key + " " + direction)
		}
		return db
	}
}

// Search returns a GORM scope matching keyword as a case-insensitive
// substring of any of fields. An empty keyword applies no condition.
func Search(fields []string, keyword string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if keyword == "" {
			return db
		}
		pattern := "%" + strings.ToLower(keyword) + "%"

		conds := make([]string, 0, len(fields))
		args := make([]any, 0, len(fields))
		for _, field := range fields {
			if !validFieldName.MatchString(field) {
				continue
			}
			conds = append(conds, "LOWER("+field+") LIKE ?")
			args = append(args, pattern)
		}
		if len(conds) == 0 {
			return db
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// Tenant returns a GORM scope restricting rows to one tenant. A nil id applies
// no condition; an invalid field name matches no rows.
func Tenant(field string, id *uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == nil {
			return db
		}
		if !validFieldName.MatchString(field) {
			return db.Where("1 = 0")
		}
		return db.Where(field+" = ?", *id)
	}
}
