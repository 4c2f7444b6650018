package listing

import (
	"strconv"

	"github.com/simp-lee/bilemo/internal/domain"
)

// URLResolver turns a route id and parameters into an absolute URL.
type URLResolver interface {
	Resolve(routeID string, params map[string]string) (string, error)
}

// GenerateLinks builds the navigation links for the page described by meta.
// params are the parameters of the current request, including "page".
// Links that have no target or fail to resolve are domain.Unavailable.
func GenerateLinks(resolver URLResolver, routeID string, params map[string]string, meta domain.PageMeta) domain.Links {
	last := max(meta.TotalPages, 1)

	links := domain.Links{
		First:    resolvePage(resolver, routeID, params, 1),
		Previous: domain.Unavailable,
		Self:     resolve(resolver, routeID, params),
		Next:     domain.Unavailable,
		Last:     resolvePage(resolver, routeID, params, last),
	}
	if meta.Number > 1 && meta.TotalPages >= 1 {
		links.Previous = resolvePage(resolver, routeID, params, min(meta.Number-1, meta.TotalPages))
	}
	if meta.Number < meta.TotalPages {
		links.Next = resolvePage(resolver, routeID, params, meta.Number+1)
	}
	return links
}

func resolvePage(resolver URLResolver, routeID string, params map[string]string, page int) string {
	p := make(map[string]string, len(params)+1)
	for k, v := range params {
		p[k] = v
	}
	p["page"] = strconv.Itoa(page)
	return resolve(resolver, routeID, p)
}

func resolve(resolver URLResolver, routeID string, params map[string]string) string {
	if resolver == nil {
		return domain.Unavailable
	}
	u, err := resolver.Resolve(routeID, params)
	if err != nil {
		return domain.Unavailable
	}
	return u
}
