package domain

import (
	"context"
	"slices"
)

// User represents an authenticated principal belonging to exactly one company.
type User struct {
	BaseModel
	Username     string `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:180;uniqueIndex;not null" json:"email"`
	LastName     string `gorm:"size:255;not null" json:"last_name"`
	FirstName    string `gorm:"size:255;not null" json:"first_name"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Roles        []Role `gorm:"serializer:json;type:text" json:"roles"`
	CompanyID    uint   `gorm:"index;not null" json:"company_id"`
}

// HasRole reports whether the user carries role r.
func (u *User) HasRole(r Role) bool {
	return slices.Contains(u.Roles, r)
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Delete(ctx context.Context, id uint) error
}

// NewUser carries the fields accepted when creating a user.
type NewUser struct {
	Username  string
	Email     string
	LastName  string
	FirstName string
	Password  string
}

// UserService defines the business logic interface for users of a company.
type UserService interface {
	ListUsers(ctx context.Context, p *Principal, companyID uint, params ListParams) (*Page[User], error)
	GetUser(ctx context.Context, p *Principal, companyID, id uint) (*User, error)
	CreateUser(ctx context.Context, p *Principal, companyID uint, input NewUser) (*User, error)
	DeleteUser(ctx context.Context, p *Principal, companyID, id uint) error
}
