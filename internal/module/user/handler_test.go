package user

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
	"github.com/simp-lee/bilemo/internal/module/company"
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

// setupAPIRouter wires the user module over an in-memory database holding
// companies 1 and 2. Company 2 has three users: Zola Anne, Martin Alice and
// Martin Bruno.
func setupAPIRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := pkg.RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}

	db := setupTestDB(t)
	for _, name := range []string{"bilemo", "mobileshop"} {
		if err := db.Create(&domain.Company{Name: name, Email: name + "@example.com"}).Error; err != nil {
			t.Fatalf("seed company: %v", err)
		}
	}
	seed := []*domain.User{
		{Username: "zola001", Email: "zola@example.com", LastName: "Zola", FirstName: "Anne", CompanyID: 2},
		{Username: "alice01", Email: "alice@example.com", LastName: "Martin", FirstName: "Alice", CompanyID: 2},
		{Username: "bruno01", Email: "bruno@example.com", LastName: "Martin", FirstName: "Bruno", CompanyID: 2},
	}
	for _, u := range seed {
		u.Roles = []domain.Role{domain.RoleUser}
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	routes := pkg.NewRouteTable("http://api.test")
	routes.Register(RouteCompany, "/api/v1/companies/:company_id")
	lister := listing.NewLister[domain.User](listing.NewGormStore[domain.User](db), listing.Config{
		Kind:        domain.KindUser,
		RouteID:     RouteList,
		TenantParam: "company_id",
		Resolver:    routes,
	})
	svc := NewUserService(NewUserRepository(db), company.NewCompanyRepository(db), lister)

	r := gin.New()
	api := r.Group("/api/v1")
	secured := api.Group("")
	secured.Use(middleware.Auth(tokens{"admin": admin, "customer": customer}))
	NewModule(NewUserHandler(svc, routes)).RegisterRoutes(api, secured)
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

type listResponse struct {
	Data struct {
		Users []UserListItem `json:"users"`
		Page  domain.PageMeta `json:"_page"`
	} `json:"data"`
}

func TestUserHandler_List(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodGet, "/api/v1/companies/2/users?limit=2", "customer", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	var names []string
	for _, u := range resp.Data.Users {
		names = append(names, u.FirstName)
	}
	if strings.Join(names, ",") != "Alice,Bruno" {
		t.Errorf("first page = %v; want Alice,Bruno sorted by last then first name", names)
	}

	meta := resp.Data.Page
	if meta.TotalItems != 3 || meta.TotalPages != 2 || meta.Number != 1 {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Links.Next != "http://api.test/api/v1/companies/2/users?limit=2&order=asc&page=2" {
		t.Errorf("next = %q", meta.Links.Next)
	}
	if meta.Links.Previous != domain.Unavailable {
		t.Errorf("previous = %q; want %q", meta.Links.Previous, domain.Unavailable)
	}
}

func TestUserHandler_List_Keyword(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodGet, "/api/v1/companies/2/users?keyword=zola", "admin", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data.Users) != 1 || resp.Data.Users[0].Username != "zola001" {
		t.Errorf("users = %+v", resp.Data.Users)
	}
}

func TestUserHandler_List_OtherTenantForbidden(t *testing.T) {
	r := setupAPIRouter(t)

	if w := do(r, http.MethodGet, "/api/v1/companies/1/users", "customer", ""); w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestUserHandler_Get(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodGet, "/api/v1/companies/2/users/2", "customer", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("response leaks password: %s", w.Body.String())
	}

	var resp struct {
		Data UserDetails `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Username != "alice01" || resp.Data.CompanyID != 2 {
		t.Errorf("unexpected user: %+v", resp.Data)
	}
	if resp.Data.Links["self"] != "http://api.test/api/v1/companies/2/users/2" {
		t.Errorf("self link = %q", resp.Data.Links["self"])
	}
	if resp.Data.Links["company"] != "http://api.test/api/v1/companies/2" {
		t.Errorf("company link = %q", resp.Data.Links["company"])
	}

	if w := do(r, http.MethodGet, "/api/v1/companies/1/users/2", "admin", ""); w.Code != http.StatusNotFound {
		t.Errorf("wrong company path: expected status 404, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/v1/companies/2/users/x", "admin", ""); w.Code != http.StatusBadRequest {
		t.Errorf("invalid id: expected status 400, got %d", w.Code)
	}
}

func TestUserHandler_Create(t *testing.T) {
	r := setupAPIRouter(t)

	body := `{"username":"newbie1","email":"Newbie@Example.com","last_name":"Le Gall","first_name":"Anne-Marie","password":"s3cret-pass","roles":["ADMIN"]}`
	w := do(r, http.MethodPost, "/api/v1/companies/2/users", "customer", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != "http://api.test/api/v1/companies/2/users/4" {
		t.Errorf("Location = %q", got)
	}

	var resp struct {
		Data UserDetails `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Email != "newbie@example.com" {
		t.Errorf("email = %q; want lower-cased", resp.Data.Email)
	}
	if len(resp.Data.Roles) != 1 || resp.Data.Roles[0] != domain.RoleUser {
		t.Errorf("roles = %v; client roles must be ignored", resp.Data.Roles)
	}

	if w := do(r, http.MethodPost, "/api/v1/companies/2/users", "admin", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate: expected status 409, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/v1/companies/1/users", "customer", body); w.Code != http.StatusBadRequest {
		t.Errorf("other company: expected status 400, got %d", w.Code)
	}
}

func TestUserHandler_Create_ValidationError(t *testing.T) {
	r := setupAPIRouter(t)

	body := `{"username":"ab","email":"bad","last_name":"R2D2","first_name":"A","password":"short"}`
	w := do(r, http.MethodPost, "/api/v1/companies/2/users", "admin", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp pkg.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	fields := make(map[string]bool)
	for _, fe := range resp.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"username", "email", "last_name", "first_name", "password"} {
		if !fields[want] {
			t.Errorf("expected field error for %q, got %+v", want, resp.Errors)
		}
	}
}

func TestUserHandler_Delete(t *testing.T) {
	r := setupAPIRouter(t)

	if w := do(r, http.MethodDelete, "/api/v1/companies/2/users/3", "customer", ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/api/v1/companies/2/users/3", "customer", ""); w.Code != http.StatusNotFound {
		t.Errorf("after delete: expected status 404, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/v1/companies/1/users/1", "customer", ""); w.Code != http.StatusBadRequest {
		t.Errorf("other company: expected status 400, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/v1/companies/2/users/1", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected status 401, got %d", w.Code)
	}
}
