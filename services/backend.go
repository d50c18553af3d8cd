package services

import (
	"context"
	"law_office_app_go/models"

	"gorm.io/gorm"
)

// OfficeBackend exposes the office-scoped data services behind one value,
// the shape the per-session state container writes through.
type OfficeBackend struct {
	DB       *gorm.DB
	OfficeID string
}

func NewOfficeBackend(db *gorm.DB, officeID string) *OfficeBackend {
	return &OfficeBackend{DB: db, OfficeID: officeID}
}

func (b *OfficeBackend) db(ctx context.Context) *gorm.DB {
	return b.DB.WithContext(ctx)
}

func (b *OfficeBackend) ListCases(ctx context.Context) ([]models.Case, error) {
	return ListCases(b.db(ctx), b.OfficeID)
}

func (b *OfficeBackend) GetCase(ctx context.Context, id string) (*models.Case, error) {
	return GetCase(b.db(ctx), b.OfficeID, id)
}

func (b *OfficeBackend) CreateCase(ctx context.Context, in CaseInput) (*models.Case, error) {
	return CreateCase(b.db(ctx), b.OfficeID, in)
}

func (b *OfficeBackend) UpdateCase(ctx context.Context, id string, upd CaseUpdate) (*models.Case, error) {
	return UpdateCase(b.db(ctx), b.OfficeID, id, upd)
}

func (b *OfficeBackend) ListLawyers(ctx context.Context) ([]models.Lawyer, error) {
	return ListLawyers(b.db(ctx), b.OfficeID)
}

func (b *OfficeBackend) CreateLawyer(ctx context.Context, name string) (*models.Lawyer, error) {
	return CreateLawyer(b.db(ctx), b.OfficeID, name)
}

func (b *OfficeBackend) DeactivateLawyer(ctx context.Context, id string) error {
	return DeactivateLawyer(b.db(ctx), b.OfficeID, id)
}

func (b *OfficeBackend) ListCaseTypes(ctx context.Context) ([]models.CaseType, error) {
	return ListCaseTypes(b.db(ctx), b.OfficeID)
}

func (b *OfficeBackend) CreateCaseType(ctx context.Context, name string) (*models.CaseType, error) {
	return CreateCaseType(b.db(ctx), b.OfficeID, name)
}

func (b *OfficeBackend) DeactivateCaseType(ctx context.Context, id string) error {
	return DeactivateCaseType(b.db(ctx), b.OfficeID, id)
}

func (b *OfficeBackend) ListTemplates(ctx context.Context) ([]models.Template, error) {
	return ListTemplates(b.db(ctx), b.OfficeID)
}

func (b *OfficeBackend) CreateTemplate(ctx context.Context, name string, steps []StepInput) (*models.Template, error) {
	return CreateTemplate(b.db(ctx), b.OfficeID, name, steps)
}

func (b *OfficeBackend) UpdateTemplate(ctx context.Context, id, name string, steps []StepInput) (*models.Template, error) {
	return UpdateTemplate(b.db(ctx), b.OfficeID, id, name, steps)
}

func (b *OfficeBackend) DeactivateTemplate(ctx context.Context, id string) error {
	return DeactivateTemplate(b.db(ctx), b.OfficeID, id)
}
