package pkg

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/bilemo/internal/domain"
)

// Errors returned by RouteTable.Resolve.
var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrMissingParam = errors.New("missing path parameter")
)

// RouteTable maps route ids to path templates and resolves them to absolute
// URLs. Routes are registered while the router is assembled; Resolve is safe
// for concurrent use.
type RouteTable struct {
	baseURL string

	mu     sync.RWMutex
	routes map[string]string
}

// NewRouteTable creates an empty table whose URLs are prefixed with baseURL.
func NewRouteTable(baseURL string) *RouteTable {
	return &RouteTable{
		baseURL: strings.TrimRight(baseURL, "/"),
		routes:  make(map[string]string),
	}
}

// Register records the path template for id. Path parameters use gin's
// ":name" syntax.
func (rt *RouteTable) Register(id, pathTemplate string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes[id] = pathTemplate
}

// Handle registers handlers on g and records the resulting full path under id.
func (rt *RouteTable) Handle(g *gin.RouterGroup, method, relativePath, id string, handlers ...gin.HandlerFunc) {
	g.Handle(method, relativePath, handlers...)
	rt.Register(id, joinPaths(g.BasePath(), relativePath))
}

// Resolve builds the absolute URL of route id. Params naming a path parameter
// are substituted into the path; the remaining params form the query string,
// sorted by key.
func (rt *RouteTable) Resolve(id string, params map[string]string) (string, error) {
	rt.mu.RLock()
	tmpl, ok := rt.routes[id]
	rt.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, id)
	}

	used := make(map[string]bool)
	segments := strings.Split(tmpl, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := seg[1:]
		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %s in route %s", ErrMissingParam, name, id)
		}
		segments[i] = url.PathEscape(value)
		used[name] = true
	}

	query := url.Values{}
	for k, v := range params {
		if used[k] {
			continue
		}
		query.Set(k, v)
	}

	u := rt.baseURL + strings.Join(segments, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

// ResolveOr is Resolve with failures reported as domain.Unavailable, for
// hypermedia links that must always carry a value.
func (rt *RouteTable) ResolveOr(id string, params map[string]string) string {
	u, err := rt.Resolve(id, params)
	if err != nil {
		return domain.Unavailable
	}
	return u
}

func joinPaths(absolutePath, relativePath string) string {
	if relativePath == "" {
		return absolutePath
	}
	finalPath := path.Join(absolutePath, relativePath)
	if strings.HasSuffix(relativePath, "/") && !strings.HasSuffix(finalPath, "/") {
		return finalPath + "/"
	}
	return finalPath
}
