package company

import (
	"context"

	"github.com/simp-lee/bilemo/internal/access"
	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/listing"
)

// companyService implements domain.CompanyService.
type companyService struct {
	repo   domain.CompanyRepository
	lister *listing.Lister[domain.Company]
}

// NewCompanyService creates a new CompanyService. Listings are served by lister.
func NewCompanyService(repo domain.CompanyRepository, lister *listing.Lister[domain.Company]) domain.CompanyService {
	return &companyService{repo: repo, lister: lister}
}

func (s *companyService) ListCompanies(ctx context.Context, p *domain.Principal, params domain.ListParams) (*domain.Page[domain.Company], error) {
	params.TenantID = nil
	return s.lister.List(ctx, p, params)
}

// GetCompany returns company id. Other tenants' companies are reported as
// missing to non-administrators.
func (s *companyService) GetCompany(ctx context.Context, p *domain.Principal, id uint) (*domain.Company, error) {
	if err := access.Enforce(p, access.ActionRead, companyTarget(id)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *companyService) CreateCompany(ctx context.Context, p *domain.Principal, company *domain.Company) error {
	if err := access.Enforce(p, access.ActionCreate, companyTarget(0)); err != nil {
		return err
	}
	company.ID = 0
	return s.repo.Create(ctx, company)
}

// DeleteCompany removes company id with all of its users. A principal cannot
// delete the company it belongs to.
func (s *companyService) DeleteCompany(ctx context.Context, p *domain.Principal, id uint) error {
	if err := access.Enforce(p, access.ActionDelete, companyTarget(id)); err != nil {
		return err
	}
	if p.TenantID == id {
		return domain.NewAppError(domain.CodeInvalidResource, "cannot delete your own company", nil)
	}
	return s.repo.Delete(ctx, id)
}

func companyTarget(id uint) access.Target {
	return access.Target{Kind: domain.KindCompany, TenantID: id}
}
