package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careform-api/internal/domain"
)

// SubmissionFilter narrows submission listings
type SubmissionFilter struct {
	FormID   *uuid.UUID
	ClientID *uuid.UUID
	Status   *domain.SubmissionStatus
	From     *time.Time
	To       *time.Time
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	FindByBusinessID(ctx context.Context, businessID uuid.UUID, filter SubmissionFilter) ([]*domain.Submission, error)
	Update(ctx context.Context, submission *domain.Submission) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByBusinessIDSince(ctx context.Context, businessID uuid.UUID, since time.Time) (int64, error)
	DeleteStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error)
}

// submissionRepositoryImpl is the GORM implementation of SubmissionRepository
type submissionRepositoryImpl struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepositoryImpl{db: db}
}

// Create creates a new submission
func (r *submissionRepositoryImpl) Create(ctx context.Context, submission *domain.Submission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a submission by ID
func (r *submissionRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var submission domain.Submission
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByBusinessID finds submissions of a business matching the filter,
// oldest first so exports read in chronological order
func (r *submissionRepositoryImpl) FindByBusinessID(ctx context.Context, businessID uuid.UUID, filter SubmissionFilter) ([]*domain.Submission, error) {
	query := r.db.WithContext(ctx).
		Where("business_id = ?", businessID)

	if filter.FormID != nil {
		query = query.Where("form_id = ?", *filter.FormID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var submissions []*domain.Submission
	if err := query.Order("created_at ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// Update updates a submission
func (r *submissionRepositoryImpl) Update(ctx context.Context, submission *domain.Submission) error {
	if err := r.db.WithContext(ctx).Save(submission).Error; err != nil {
		return err
	}
	return nil
}

// Delete soft deletes a submission
func (r *submissionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Submission{}, id).Error; err != nil {
		return err
	}
	return nil
}

// CountByBusinessIDSince counts submissions created after the given time,
// used for monthly billing-limit checks
func (r *submissionRepositoryImpl) CountByBusinessIDSince(ctx context.Context, businessID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteStaleDrafts soft deletes draft submissions not touched since olderThan
func (r *submissionRepositoryImpl) DeleteStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", domain.SubmissionStatusDraft, olderThan).
		Delete(&domain.Submission{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
