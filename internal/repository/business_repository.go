package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careform-api/internal/domain"
)

// BusinessRepository defines the interface for business data access
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Business, error)
	Update(ctx context.Context, business *domain.Business) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, member *domain.BusinessMember) error
	FindMember(ctx context.Context, businessID, userID uuid.UUID) (*domain.BusinessMember, error)
	FindMembers(ctx context.Context, businessID uuid.UUID) ([]*domain.BusinessMember, error)
	UpdateMemberRole(ctx context.Context, businessID, userID uuid.UUID, role domain.MemberRole) error
	RemoveMember(ctx context.Context, businessID, userID uuid.UUID) error
	CountMembers(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// businessRepositoryImpl is the GORM implementation of BusinessRepository
type businessRepositoryImpl struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new instance of BusinessRepository
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepositoryImpl{db: db}
}

// Create creates a new business
func (r *businessRepositoryImpl) Create(ctx context.Context, business *domain.Business) error {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a business by ID
func (r *businessRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	var business domain.Business
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// FindByUserID finds all businesses the user is a member of, newest first
func (r *businessRepositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Business, error) {
	var businesses []*domain.Business
	if err := r.db.WithContext(ctx).
		Joins("JOIN business_members ON business_members.business_id = businesses.id").
		Where("business_members.user_id = ?", userID).
		Order("businesses.created_at DESC").
		Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

// Update updates a business
func (r *businessRepositoryImpl) Update(ctx context.Context, business *domain.Business) error {
	if err := r.db.WithContext(ctx).Save(business).Error; err != nil {
		return err
	}
	return nil
}

// Delete soft deletes a business
func (r *businessRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Business{}, id).Error; err != nil {
		return err
	}
	return nil
}

// AddMember adds a member to a business
func (r *businessRepositoryImpl) AddMember(ctx context.Context, member *domain.BusinessMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return err
	}
	return nil
}

// FindMember finds a membership record, returning nil when absent
func (r *businessRepositoryImpl) FindMember(ctx context.Context, businessID, userID uuid.UUID) (*domain.BusinessMember, error) {
	var member domain.BusinessMember
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// FindMembers finds all members of a business ordered by join time
func (r *businessRepositoryImpl) FindMembers(ctx context.Context, businessID uuid.UUID) ([]*domain.BusinessMember, error) {
	var members []*domain.BusinessMember
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMemberRole updates a member's role
func (r *businessRepositoryImpl) UpdateMemberRole(ctx context.Context, businessID, userID uuid.UUID, role domain.MemberRole) error {
	result := r.db.WithContext(ctx).
		Model(&domain.BusinessMember{}).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		Update("role_name", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveMember removes a member from a business
func (r *businessRepositoryImpl) RemoveMember(ctx context.Context, businessID, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		Delete(&domain.BusinessMember{}).Error; err != nil {
		return err
	}
	return nil
}

// CountMembers counts the members of a business
func (r *businessRepositoryImpl) CountMembers(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.BusinessMember{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
