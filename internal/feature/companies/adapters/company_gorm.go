// Package adapters はcompaniesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"comps_backend/internal/feature/companies/domain/entity"
	"comps_backend/internal/feature/companies/usecase"
)

// companyGorm はCompanyRepositoryインターフェースのGORM実装です。
type companyGorm struct {
	db *gorm.DB
}

var _ usecase.CompanyRepository = (*companyGorm)(nil)

// NewCompanyRepository は指定されたDB接続でcompanyGormリポジトリの新しいインスタンスを生成します。
func NewCompanyRepository(db *gorm.DB) *companyGorm {
	return &companyGorm{db: db}
}

// List は登録順にすべての企業を返します。
func (r *companyGorm) List(ctx context.Context) ([]entity.Company, error) {
	var companies []entity.Company
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// FindByID は指定IDの企業を返します。存在しない場合はErrCompanyNotFoundを返します。
func (r *companyGorm) FindByID(ctx context.Context, id string) (*entity.Company, error) {
	var company entity.Company
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

// Create は新しい企業レコードを登録します。
func (r *companyGorm) Create(ctx context.Context, company *entity.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// Update は既存の企業レコードを置き換えます。
func (r *companyGorm) Update(ctx context.Context, company *entity.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// Delete は企業レコードを削除します。
func (r *companyGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Company{}).Error
}
