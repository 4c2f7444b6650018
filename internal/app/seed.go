package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/module/user"
	"github.com/simp-lee/bilemo/internal/pkg"
)

// AdminSeed describes the administrator company and account created by Seed.
type AdminSeed struct {
	CompanyName  string `validate:"required,min=2,max=128"`
	CompanyEmail string `validate:"required,email,max=180"`
	Username     string `validate:"required,alphanum,min=5,max=128"`
	Email        string `validate:"required,email,max=180"`
	LastName     string `validate:"required,min=2,max=255"`
	FirstName    string `validate:"required,min=2,max=255"`
	Password     string `validate:"required,min=8,max=72"`
}

// Seed migrates the schema and creates the administrator company and user.
// Records that already exist are kept as they are, so Seed can run on every
// deploy. The returned bool reports whether the user was created.
func Seed(ctx context.Context, db *gorm.DB, in AdminSeed) (*domain.User, bool, error) {
	if err := validator.New().Struct(in); err != nil {
		return nil, false, fmt.Errorf("invalid seed input: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, false, fmt.Errorf("migrate: %w", err)
	}

	hash, err := user.HashPassword(in.Password)
	if err != nil {
		return nil, false, err
	}

	var admin domain.User
	created := false
	err = pkg.WithTx(ctx, db, func(tx *gorm.DB) error {
		var company domain.Company
		if err := tx.Where(&domain.Company{Name: in.CompanyName}).
			Attrs(domain.Company{Email: in.CompanyEmail}).
			FirstOrCreate(&company).Error; err != nil {
			return pkg.MapDBError(err, "company")
		}

		result := tx.Where(&domain.User{Username: in.Username}).
			Attrs(domain.User{
				Email:        in.Email,
				LastName:     in.LastName,
				FirstName:    in.FirstName,
				PasswordHash: hash,
				Roles:        []domain.Role{domain.RoleUser, domain.RoleAdmin},
				CompanyID:    company.ID,
			}).
			FirstOrCreate(&admin)
		if result.Error != nil {
			return pkg.MapDBError(result.Error, "user")
		}
		created = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &admin, created, nil
}
