package user

import (
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// CreateUserRequest represents the input for creating a user in a company.
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,alphanum,min=5,max=128"`
	Email     string `json:"email" binding:"required,email,max=180"`
	LastName  string `json:"last_name" binding:"required,personname,min=2,max=255"`
	FirstName string `json:"first_name" binding:"required,personname,min=2,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
}

func (r CreateUserRequest) toInput() domain.NewUser {
	return domain.NewUser{
		Username:  strings.TrimSpace(r.Username),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		LastName:  strings.TrimSpace(r.LastName),
		FirstName: strings.TrimSpace(r.FirstName),
		Password:  r.Password,
	}
}

// UserListItem is the listing view of a user.
type UserListItem struct {
	ID        uint          `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	LastName  string        `json:"last_name"`
	FirstName string        `json:"first_name"`
	Roles     []domain.Role `json:"roles"`
}

// UserDetails is the full view of a user.
type UserDetails struct {
	UserListItem
	CompanyID uint              `json:"company_id"`
	CreatedAt time.Time         `json:"created_at"`
	Links     map[string]string `json:"_links"`
}

func toListItem(u *domain.User) UserListItem {
	return UserListItem{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		LastName:  u.LastName,
		FirstName: u.FirstName,
		Roles:     u.Roles,
	}
}

func toListItems(users []domain.User) []UserListItem {
	items := make([]UserListItem, len(users))
	for i := range users {
		items[i] = toListItem(&users[i])
	}
	return items
}

func toDetails(u *domain.User, routes *pkg.RouteTable) UserDetails {
	return UserDetails{
		UserListItem: toListItem(u),
		CompanyID:    u.CompanyID,
		CreatedAt:    u.CreatedAt,
		Links: map[string]string{
			"self":    routes.ResolveOr(RouteShow, userParams(u.CompanyID, u.ID)),
			"company": routes.ResolveOr(RouteCompany, companyParam(u.CompanyID)),
		},
	}
}

func companyParam(companyID uint) map[string]string {
	return map[string]string{"company_id": strconv.FormatUint(uint64(companyID), 10)}
}

func userParams(companyID, id uint) map[string]string {
	p := companyParam(companyID)
	p["user_id"] = strconv.FormatUint(uint64(id), 10)
	return p
}
