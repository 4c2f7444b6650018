package company

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/listing"
	"github.com/simp-lee/bilemo/internal/middleware"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// tokens maps bearer tokens to the principals they stand for.
type tokens map[string]*domain.Principal

func (tk tokens) Parse(raw string) (*domain.Principal, error) {
	if p, ok := tk[raw]; ok {
		return p, nil
	}
	return nil, errors.New("unknown token")
}

// setupAPIRouter wires the company module over an in-memory database with
// the admin and customer companies already present.
func setupAPIRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := pkg.RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}

	db := setupTestDB(t)
	routes := pkg.NewRouteTable("http://api.test")
	routes.Register(RouteUsers, "/api/v1/companies/:company_id/users")
	lister := listing.NewLister[domain.Company](listing.NewGormStore[domain.Company](db), listing.Config{
		Kind:     domain.KindCompany,
		RouteID:  RouteList,
		Resolver: routes,
	})
	repo := NewCompanyRepository(db)
	seedCompanies(t, repo)

	r := gin.New()
	api := r.Group("/api/v1")
	secured := api.Group("")
	secured.Use(middleware.Auth(tokens{"admin": admin, "customer": customer}))
	NewModule(NewCompanyHandler(NewCompanyService(repo, lister), routes)).RegisterRoutes(api, secured)
	return r
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompanyHandler_Get(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodGet, "/api/v1/companies/2", "customer", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data CompanyDetails `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Name != "mobileshop" || resp.Data.Country != "France" {
		t.Errorf("unexpected company: %+v", resp.Data)
	}
	if resp.Data.Links["self"] != "http://api.test/api/v1/companies/2" {
		t.Errorf("self link = %q", resp.Data.Links["self"])
	}
	if resp.Data.Links["users"] != "http://api.test/api/v1/companies/2/users" {
		t.Errorf("users link = %q", resp.Data.Links["users"])
	}
}

func TestCompanyHandler_Get_OtherTenantIsNotFound(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodGet, "/api/v1/companies/1", "customer", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestCompanyHandler_Get_InvalidID(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodGet, "/api/v1/companies/abc", "admin", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestCompanyHandler_List(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodGet, "/api/v1/companies?keyword=shop", "admin", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Companies []CompanyListItem `json:"companies"`
			Meta      domain.PageMeta   `json:"_page"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data.Companies) != 1 || resp.Data.Companies[0].Name != "mobileshop" {
		t.Errorf("companies = %+v", resp.Data.Companies)
	}
	if resp.Data.Meta.TotalItems != 1 {
		t.Errorf("totalItems = %d; want 1", resp.Data.Meta.TotalItems)
	}

	if w := do(r, http.MethodGet, "/api/v1/companies", "customer", ""); w.Code != http.StatusForbidden {
		t.Errorf("customer list: expected status 403, got %d", w.Code)
	}
}

func TestCompanyHandler_Create(t *testing.T) {
	r := setupAPIRouter(t)

	body := `{"name":"Phone Hub","email":"Contact@PhoneHub.io","city":"Lyon","zip":"69001"}`
	w := do(r, http.MethodPost, "/api/v1/companies", "admin", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != "http://api.test/api/v1/companies/3" {
		t.Errorf("Location = %q", got)
	}

	var resp struct {
		Data CompanyDetails `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Email != "contact@phonehub.io" {
		t.Errorf("email = %q; want lower-cased", resp.Data.Email)
	}

	if w := do(r, http.MethodPost, "/api/v1/companies", "admin", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate: expected status 409, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/v1/companies", "admin", `{"name":"X","email":"nope"}`); w.Code != http.StatusBadRequest {
		t.Errorf("invalid body: expected status 400, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/v1/companies", "customer", body); w.Code != http.StatusForbidden {
		t.Errorf("customer: expected status 403, got %d", w.Code)
	}
}

func TestCompanyHandler_Delete(t *testing.T) {
	r := setupAPIRouter(t)

	if w := do(r, http.MethodDelete, "/api/v1/companies/2", "admin", ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/api/v1/companies/2", "admin", ""); w.Code != http.StatusNotFound {
		t.Errorf("after delete: expected status 404, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/v1/companies/1", "admin", ""); w.Code != http.StatusBadRequest {
		t.Errorf("own company: expected status 400, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/v1/companies/1", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected status 401, got %d", w.Code)
	}
}
