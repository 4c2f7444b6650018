package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/simp-lee/bilemo/internal/access"
	"github.com/simp-lee/bilemo/internal/cache"
	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/metrics"
)

// Config wires a Lister.
type Config struct {
	Kind domain.Kind
	// RouteID is the route whose URLs the page links point to.
	RouteID string
	// TenantParam names the path parameter carrying the tenant id, if any.
	TenantParam string
	Resolver    URLResolver
	// Cache is optional; a nil Cache disables result caching.
	Cache  cache.Store
	Logger *slog.Logger
}

// Lister serves authorized, cached and linked pages of one resource kind.
type Lister[T any] struct {
	store Store[T]
	cfg   Config
}

// NewLister creates a Lister over store.
func NewLister[T any](store Store[T], cfg Config) *Lister[T] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Lister[T]{store: store, cfg: cfg}
}

// List returns the requested page for p with navigation links attached.
func (l *Lister[T]) List(ctx context.Context, p *domain.Principal, params domain.ListParams) (*domain.Page[T], error) {
	target := access.Target{Kind: l.cfg.Kind}
	if params.TenantID != nil {
		target.TenantID = *params.TenantID
	}
	if err := access.Enforce(p, access.ActionList, target); err != nil {
		return nil, err
	}

	q, err := BuildQuery(l.cfg.Kind, params.Keyword, params.Order, params.TenantID)
	if err != nil {
		return nil, err
	}
	if err := checkBounds(params.Limit, params.Page); err != nil {
		return nil, err
	}
	metrics.ListRequestsTotal.WithLabelValues(string(l.cfg.Kind)).Inc()

	key := cacheKey(q, params.Limit, params.Page)
	page, ok := l.cached(ctx, key)
	if !ok {
		page, err = Paginate(ctx, l.store, q, params.Limit, params.Page)
		if err != nil {
			return nil, err
		}
		l.remember(ctx, key, page)
	}

	page.Meta.Links = GenerateLinks(l.cfg.Resolver, l.cfg.RouteID, l.linkParams(q, params), page.Meta)
	return page, nil
}

func (l *Lister[T]) linkParams(q domain.SearchQuery, params domain.ListParams) map[string]string {
	lp := map[string]string{
		"order": string(q.Order),
		"limit": strconv.Itoa(params.Limit),
		"page":  strconv.Itoa(params.Page),
	}
	if params.Keyword != "" {
		lp["keyword"] = params.Keyword
	}
	if l.cfg.TenantParam != "" && params.TenantID != nil {
		lp[l.cfg.TenantParam] = strconv.FormatUint(uint64(*params.TenantID), 10)
	}
	return lp
}

func (l *Lister[T]) cached(ctx context.Context, key string) (*domain.Page[T], bool) {
	if l.cfg.Cache == nil {
		return nil, false
	}
	kind := string(l.cfg.Kind)

	raw, found, err := l.cfg.Cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues(kind, "error").Inc()
		l.cfg.Logger.WarnContext(ctx, "listing cache read failed", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	if !found {
		metrics.CacheLookupsTotal.WithLabelValues(kind, "miss").Inc()
		return nil, false
	}

	var page domain.Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues(kind, "error").Inc()
		l.cfg.Logger.WarnContext(ctx, "listing cache entry unreadable", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	metrics.CacheLookupsTotal.WithLabelValues(kind, "hit").Inc()
	return &page, true
}

func (l *Lister[T]) remember(ctx context.Context, key string, page *domain.Page[T]) {
	if l.cfg.Cache == nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		l.cfg.Logger.WarnContext(ctx, "listing cache encode failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := l.cfg.Cache.Set(ctx, key, raw); err != nil {
		l.cfg.Logger.WarnContext(ctx, "listing cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// cacheKey identifies a page of a listing: kind, keyword, order, limit and
// page, plus the tenant for tenant-scoped listings.
func cacheKey(q domain.SearchQuery, limit, page int) string {
	key := fmt.Sprintf("%s|%s|%s|%d|%d", q.Kind, q.Keyword, q.Order, limit, page)
	if q.TenantID != nil {
		key += "|" + strconv.FormatUint(uint64(*q.TenantID), 10)
	}
	return key
}
