// Package usecase はcompaniesフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"comps_backend/internal/feature/companies/domain/entity"
)

// ErrCompanyNotFound は指定IDの企業が存在しないことを示します。
var ErrCompanyNotFound = errors.New("company not found")

// ErrCompanyExists は同じIDの企業が既に存在することを示します。
var ErrCompanyExists = errors.New("company already exists")

// CompanyRepository は企業データの永続化を抽象化するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CompanyRepository interface {
	List(ctx context.Context) ([]entity.Company, error)
	FindByID(ctx context.Context, id string) (*entity.Company, error)
	Create(ctx context.Context, company *entity.Company) error
	Update(ctx context.Context, company *entity.Company) error
	Delete(ctx context.Context, id string) error
}

// CompanyUsecase は登録企業のCRUDと指標比較を提供します。
type CompanyUsecase struct {
	repo CompanyRepository
}

// NewCompanyUsecase はCompanyUsecaseの新しいインスタンスを生成します。
func NewCompanyUsecase(repo CompanyRepository) *CompanyUsecase {
	return &CompanyUsecase{repo: repo}
}

// List はすべての登録企業を返します。
func (u *CompanyUsecase) List(ctx context.Context) ([]entity.Company, error) {
	return u.repo.List(ctx)
}

// FindByID は指定IDの企業を返します。
func (u *CompanyUsecase) FindByID(ctx context.Context, id string) (*entity.Company, error) {
	if id == "" {
		return nil, fmt.Errorf("company id is required")
	}
	return u.repo.FindByID(ctx, id)
}

// Create は新しい企業を登録します。
func (u *CompanyUsecase) Create(ctx context.Context, company *entity.Company) error {
	if company.ID == "" || company.Name == "" {
		return fmt.Errorf("company id and name are required")
	}
	if existing, err := u.repo.FindByID(ctx, company.ID); err == nil && existing != nil {
		return ErrCompanyExists
	}
	return u.repo.Create(ctx, company)
}

// Update は既存の企業を更新します。
func (u *CompanyUsecase) Update(ctx context.Context, company *entity.Company) error {
	if company.ID == "" {
		return fmt.Errorf("company id is required")
	}
	if _, err := u.repo.FindByID(ctx, company.ID); err != nil {
		return err
	}
	return u.repo.Update(ctx, company)
}

// Delete は企業を削除します。
func (u *CompanyUsecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("company id is required")
	}
	if _, err := u.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return u.repo.Delete(ctx, id)
}
