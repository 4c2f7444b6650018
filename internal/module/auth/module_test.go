package auth

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestAuthModuleRegisterRoutes verifies that login is registered on the
// public group and nothing lands on the secured one.
func TestAuthModuleRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	public := r.Group("/api/v1")
	secured := r.Group("/secured")

	NewModule(&AuthHandler{}).RegisterRoutes(public, secured)

	routes := r.Routes()
	if len(routes) != 1 {
		t.Fatalf("expected exactly 1 route, got %d", len(routes))
	}
	if routes[0].Method != http.MethodPost || routes[0].Path != "/api/v1/auth/login" {
		t.Errorf("registered %s %s; want POST /api/v1/auth/login", routes[0].Method, routes[0].Path)
	}
}

func TestNewModule_PanicsOnNilHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewModule() expected panic for nil handler, got none")
		}
	}()

	_ = NewModule(nil)
}
