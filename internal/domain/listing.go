package domain

// Unavailable is the link value used when a navigation target does not exist
// or cannot be resolved.
const Unavailable = "Unavailable"

// Kind identifies a listable resource kind.
type Kind string

const (
	KindCompany Kind = "company"
	KindUser    Kind = "user"
	KindProduct Kind = "product"
)

// Order is a sort direction applied to every sort key.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// SearchQuery describes a filtered and sorted listing before pagination.
type SearchQuery struct {
	Kind         Kind
	Keyword      string
	Order        Order
	SortKeys     []string
	SearchFields []string
	TenantField  string
	TenantID     *uint
}

// Links holds the navigation links of a page. Each value is an absolute URL
// or Unavailable.
type Links struct {
	First    string `json:"first"`
	Previous string `json:"previous"`
	Self     string `json:"self"`
	Next     string `json:"next"`
	Last     string `json:"last"`
}

// PageMeta describes the position of a page within a listing.
type PageMeta struct {
	Number     int   `json:"number"`
	Items      int   `json:"items"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
	Links      Links `json:"_links"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}
