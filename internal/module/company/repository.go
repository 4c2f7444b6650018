package company

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/pkg"
)

const entity = "company"

// companyRepository implements domain.CompanyRepository using GORM.
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository backed by the given GORM database.
func NewCompanyRepository(db *gorm.DB) domain.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(company).Error, entity)
}

func (r *companyRepository) GetByID(ctx context.Context, id uint) (*domain.Company, error) {
	var company domain.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, pkg.MapDBError(err, entity)
	}
	return &company, nil
}

// Delete removes the company and its users in one transaction. Nothing is
// removed when the company does not exist.
func (r *companyRepository) Delete(ctx context.Context, id uint) error {
	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&domain.User{}).Error; err != nil {
			return pkg.MapDBError(err, "user")
		}

		result := tx.Delete(&domain.Company{}, id)
		if result.Error != nil {
			return pkg.MapDBError(result.Error, entity)
		}
		if result.RowsAffected == 0 {
			return domain.NewAppError(domain.CodeNotFound, "company not found", nil)
		}
		return nil
	})
}
