package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careform-api/internal/domain"
)

// ClientRepository defines the interface for client (patient) data access
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*domain.Client, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Client, error)
	Search(ctx context.Context, businessID uuid.UUID, query string) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByBusinessID(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// clientRepositoryImpl is the GORM implementation of ClientRepository
type clientRepositoryImpl struct {
	db *gorm.DB
}

// NewClientRepository creates a new instance of ClientRepository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepositoryImpl{db: db}
}

// Create creates a new client
func (r *clientRepositoryImpl) Create(ctx context.Context, client *domain.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a client by ID
func (r *clientRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// FindByBusinessID finds all clients of a business ordered by last name
func (r *clientRepositoryImpl) FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*domain.Client, error) {
	var clients []*domain.Client
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("last_name ASC, first_name ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// FindByIDs finds multiple clients by their IDs in a single query
func (r *clientRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Client, error) {
	if len(ids) == 0 {
		return []*domain.Client{}, nil
	}

	var clients []*domain.Client
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Search finds clients of a business whose name or email matches the query
func (r *clientRepositoryImpl) Search(ctx context.Context, businessID uuid.UUID, query string) ([]*domain.Client, error) {
	var clients []*domain.Client
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern).
		Order("last_name ASC, first_name ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Update updates a client
func (r *clientRepositoryImpl) Update(ctx context.Context, client *domain.Client) error {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		return err
	}
	return nil
}

// Delete soft deletes a client
func (r *clientRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Client{}, id).Error; err != nil {
		return err
	}
	return nil
}

// CountByBusinessID counts the clients of a business
func (r *clientRepositoryImpl) CountByBusinessID(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
