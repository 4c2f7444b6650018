// Package listing builds, paginates and links filtered resource listings.
package listing

import (
	"fmt"
	"strings"

	"github.com/simp-lee/bilemo/internal/domain"
)

// tieBreaker is appended to every sort so equal keys still order stably.
const tieBreaker = "id"

type kindSpec struct {
	sortKeys     []string
	searchFields []string
	tenantField  string
}

var kinds = map[domain.Kind]kindSpec{
	domain.KindCompany: {
		sortKeys:     []string{"name"},
		searchFields: []string{"name", "email", "phone", "address", "zip", "city", "country"},
	},
	domain.KindUser: {
		sortKeys:     []string{"last_name", "first_name"},
		searchFields: []string{"last_name", "first_name", "username", "email"},
		tenantField:  "company_id",
	},
	domain.KindProduct: {
		sortKeys:     []string{"brand", "name"},
		searchFields: []string{"name", "brand"},
	},
}

// BuildQuery describes the filtered, sorted listing of kind. The keyword is
// trimmed and lower-cased; an empty keyword matches everything. tenantID
// restricts tenant-scoped kinds to one company and is ignored otherwise.
func BuildQuery(kind domain.Kind, keyword string, order domain.Order, tenantID *uint) (domain.SearchQuery, error) {
	def, ok := kinds[kind]
	if !ok {
		return domain.SearchQuery{}, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("unknown resource kind %q", kind), nil)
	}
	if order != domain.OrderAsc && order != domain.OrderDesc {
		return domain.SearchQuery{}, domain.NewValidationError(domain.FieldError{
			Field:   "order",
			Message: "Must be one of: asc desc",
		})
	}

	q := domain.SearchQuery{
		Kind:         kind,
		Keyword:      strings.ToLower(strings.TrimSpace(keyword)),
		Order:        order,
		SortKeys:     append(append([]string(nil), def.sortKeys...), tieBreaker),
		SearchFields: append([]string(nil), def.searchFields...),
	}
	if def.tenantField != "" && tenantID != nil {
		id := *tenantID
		q.TenantField = def.tenantField
		q.TenantID = &id
	}
	return q, nil
}
