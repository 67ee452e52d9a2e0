package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careform-api/internal/domain"
)

// FormRepository defines the interface for form data access
type FormRepository interface {
	Create(ctx context.Context, form *domain.Form) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Form, error)
	FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*domain.Form, error)
	FindByBusinessIDAndStatus(ctx context.Context, businessID uuid.UUID, status domain.FormStatus) ([]*domain.Form, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Form, error)
	Update(ctx context.Context, form *domain.Form) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByBusinessID(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// formRepositoryImpl is the GORM implementation of FormRepository
type formRepositoryImpl struct {
	db *gorm.DB
}

// NewFormRepository creates a new instance of FormRepository
func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepositoryImpl{db: db}
}

// Create creates a new form
func (r *formRepositoryImpl) Create(ctx context.Context, form *domain.Form) error {
	if err := r.db.WithContext(ctx).Create(form).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a form by ID
func (r *formRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	var form domain.Form
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// FindByBusinessID finds all forms of a business, newest first
func (r *formRepositoryImpl) FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*domain.Form, error) {
	var forms []*domain.Form
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// FindByBusinessIDAndStatus finds forms of a business filtered by status
func (r *formRepositoryImpl) FindByBusinessIDAndStatus(ctx context.Context, businessID uuid.UUID, status domain.FormStatus) ([]*domain.Form, error) {
	var forms []*domain.Form
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND status = ?", businessID, status).
		Order("created_at DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// FindByIDs finds multiple forms by their IDs in a single query
func (r *formRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Form, error) {
	if len(ids) == 0 {
		return []*domain.Form{}, nil
	}

	var forms []*domain.Form
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// Update updates a form
func (r *formRepositoryImpl) Update(ctx context.Context, form *domain.Form) error {
	if err := r.db.WithContext(ctx).Save(form).Error; err != nil {
		return err
	}
	return nil
}

// Delete soft deletes a form
func (r *formRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Form{}, id).Error; err != nil {
		return err
	}
	return nil
}

// CountByBusinessID counts the forms of a business
func (r *formRepositoryImpl) CountByBusinessID(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Form{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
