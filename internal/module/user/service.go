package user

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/bilemo/internal/access"
	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/listing"
)

// maxPasswordBytes is the longest input bcrypt hashes without truncation.
const maxPasswordBytes = 72

// hashCost is the bcrypt work factor for new password hashes.
var hashCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", domain.NewValidationError(domain.FieldError{Field: "password", Message: "Must be at most 72 bytes"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}
	return string(hash), nil
}

// userService implements domain.UserService.
type userService struct {
	repo      domain.UserRepository
	companies domain.CompanyRepository
	lister    *listing.Lister[domain.User]
}

// NewUserService creates a new UserService. companies is consulted to reject
// operations on missing companies; lister serves the per-company listings.
func NewUserService(repo domain.UserRepository, companies domain.CompanyRepository, lister *listing.Lister[domain.User]) domain.UserService {
	return &userService{repo: repo, companies: companies, lister: lister}
}

// ListUsers returns a page of the users of companyID. The lister enforces
// access; an empty listing is only returned for a company that exists.
func (s *userService) ListUsers(ctx context.Context, p *domain.Principal, companyID uint, params domain.ListParams) (*domain.Page[domain.User], error) {
	params.TenantID = &companyID
	page, err := s.lister.List(ctx, p, params)
	if err != nil {
		return nil, err
	}
	if page.Meta.TotalItems == 0 {
		if _, err := s.companies.GetByID(ctx, companyID); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// GetUser returns user id of companyID. A user of another company is
// reported as missing.
func (s *userService) GetUser(ctx context.Context, p *domain.Principal, companyID, id uint) (*domain.User, error) {
	if err := s.authorize(ctx, p, access.ActionRead, companyID); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.CompanyID != companyID {
		return nil, domain.NewAppError(domain.CodeNotFound, "user not found", nil)
	}
	return user, nil
}

// CreateUser adds a USER to companyID. Roles are never taken from the input.
func (s *userService) CreateUser(ctx context.Context, p *domain.Principal, companyID uint, input domain.NewUser) (*domain.User, error) {
	if err := s.authorize(ctx, p, access.ActionCreate, companyID); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		LastName:     input.LastName,
		FirstName:    input.FirstName,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser},
		CompanyID:    companyID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes user id from companyID. Principals cannot delete
// themselves, and the user must belong to companyID.
func (s *userService) DeleteUser(ctx context.Context, p *domain.Principal, companyID, id uint) error {
	if err := s.authorize(ctx, p, access.ActionDelete, companyID); err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.CompanyID != companyID {
		return domain.NewAppError(domain.CodeInvalidResource, "user does not belong to this company", nil)
	}
	if user.ID == p.UserID {
		return domain.NewAppError(domain.CodeInvalidResource, "cannot delete yourself", nil)
	}
	return s.repo.Delete(ctx, id)
}

// authorize enforces the access policy for companyID and then checks that
// the company exists.
func (s *userService) authorize(ctx context.Context, p *domain.Principal, action access.Action, companyID uint) error {
	if err := access.Enforce(p, action, access.Target{Kind: domain.KindUser, TenantID: companyID}); err != nil {
		return err
	}
	_, err := s.companies.GetByID(ctx, companyID)
	return err
}
