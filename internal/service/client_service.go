package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"careform-api/internal/domain"
	"careform-api/internal/dto"
	"careform-api/internal/repository"
	"careform-api/internal/response"
)

// ClientService defines the interface for client (patient record) logic
type ClientService interface {
	CreateClient(ctx context.Context, businessID, userID uuid.UUID, req *dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetClient(ctx context.Context, businessID, clientID, userID uuid.UUID) (*dto.ClientResponse, error)
	ListClients(ctx context.Context, businessID, userID uuid.UUID, query string) ([]*dto.ClientResponse, error)
	UpdateClient(ctx context.Context, businessID, clientID, userID uuid.UUID, req *dto.UpdateClientRequest) (*dto.ClientResponse, error)
	DeleteClient(ctx context.Context, businessID, clientID, userID uuid.UUID) error
}

// clientServiceImpl is the implementation of ClientService
type clientServiceImpl struct {
	clientRepo      repository.ClientRepository
	businessService BusinessService
	logger          *zap.Logger
}

// NewClientService creates a new instance of ClientService
func NewClientService(clientRepo repository.ClientRepository, businessService BusinessService, logger *zap.Logger) ClientService {
	return &clientServiceImpl{
		clientRepo:      clientRepo,
		businessService: businessService,
		logger:          logger,
	}
}

// CreateClient creates a client record, enforcing the plan's client limit
func (s *clientServiceImpl) CreateClient(ctx context.Context, businessID, userID uuid.UUID, req *dto.CreateClientRequest) (*dto.ClientResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionClientWrite) {
		return nil, response.NewForbiddenError("You may not manage clients of this business", "")
	}

	sub, err := s.businessService.GetSubscription(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if sub.MaxClients >= 0 {
		count, err := s.clientRepo.CountByBusinessID(ctx, businessID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count clients", err.Error())
		}
		if count >= int64(sub.MaxClients) {
			return nil, response.NewLimitExceededError("Client limit reached for the current plan", "")
		}
	}

	client := &domain.Client{
		BusinessID:  businessID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Notes:       req.Notes,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create client", err.Error())
	}

	return toClientResponse(client), nil
}

// GetClient returns a client record scoped to the business
func (s *clientServiceImpl) GetClient(ctx context.Context, businessID, clientID, userID uuid.UUID) (*dto.ClientResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	client, err := s.findScopedClient(ctx, businessID, clientID)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// ListClients lists or searches the clients of a business
func (s *clientServiceImpl) ListClients(ctx context.Context, businessID, userID uuid.UUID, query string) ([]*dto.ClientResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	var clients []*domain.Client
	var err error
	if query != "" {
		clients, err = s.clientRepo.Search(ctx, businessID, query)
	} else {
		clients, err = s.clientRepo.FindByBusinessID(ctx, businessID)
	}
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list clients", err.Error())
	}

	result := make([]*dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		result = append(result, toClientResponse(c))
	}
	return result, nil
}

// UpdateClient updates a client record
func (s *clientServiceImpl) UpdateClient(ctx context.Context, businessID, clientID, userID uuid.UUID, req *dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionClientWrite) {
		return nil, response.NewForbiddenError("You may not manage clients of this business", "")
	}

	client, err := s.findScopedClient(ctx, businessID, clientID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		client.DateOfBirth = req.DateOfBirth
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update client", err.Error())
	}

	return toClientResponse(client), nil
}

// DeleteClient soft deletes a client record
func (s *clientServiceImpl) DeleteClient(ctx context.Context, businessID, clientID, userID uuid.UUID) error {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if !Can(member.RoleName, ActionClientWrite) {
		return response.NewForbiddenError("You may not manage clients of this business", "")
	}

	if _, err := s.findScopedClient(ctx, businessID, clientID); err != nil {
		return err
	}

	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete client", err.Error())
	}
	return nil
}

// findScopedClient loads a client and verifies it belongs to the business
func (s *clientServiceImpl) findScopedClient(ctx context.Context, businessID, clientID uuid.UUID) (*domain.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Client not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch client", err.Error())
	}
	if client.BusinessID != businessID {
		return nil, response.NewNotFoundError("Client not found", "")
	}
	return client, nil
}

func toClientResponse(c *domain.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:          c.ID,
		BusinessID:  c.BusinessID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DisplayName: c.DisplayName(),
		Email:       c.Email,
		Phone:       c.Phone,
		DateOfBirth: c.DateOfBirth,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
