package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"careform-api/internal/client"
	"careform-api/internal/domain"
	"careform-api/internal/dto"
	"careform-api/internal/repository"
	"careform-api/internal/response"
)

// BusinessService defines the interface for business (tenant) logic
type BusinessService interface {
	CreateBusiness(ctx context.Context, req *dto.CreateBusinessRequest, userID uuid.UUID) (*dto.BusinessResponse, error)
	GetBusiness(ctx context.Context, businessID, userID uuid.UUID) (*dto.BusinessResponse, error)
	ListBusinesses(ctx context.Context, userID uuid.UUID) ([]*dto.BusinessResponse, error)
	UpdateBusiness(ctx context.Context, businessID, userID uuid.UUID, req *dto.UpdateBusinessRequest) (*dto.BusinessResponse, error)
	DeleteBusiness(ctx context.Context, businessID, userID uuid.UUID) error

	AddMember(ctx context.Context, businessID, userID uuid.UUID, req *dto.AddBusinessMemberRequest) (*dto.BusinessMemberResponse, error)
	ListMembers(ctx context.Context, businessID, userID uuid.UUID) ([]*dto.BusinessMemberResponse, error)
	UpdateMemberRole(ctx context.Context, businessID, userID, targetUserID uuid.UUID, req *dto.UpdateBusinessMemberRoleRequest) error
	RemoveMember(ctx context.Context, businessID, userID, targetUserID uuid.UUID) error

	GetUsage(ctx context.Context, businessID, userID uuid.UUID) (*dto.BusinessUsageResponse, error)
	GetBilling(ctx context.Context, businessID, userID uuid.UUID) (*dto.BillingResponse, error)
	CreateCheckout(ctx context.Context, businessID, userID uuid.UUID, req *dto.CreateCheckoutRequest) (*dto.BillingResponse, error)

	// Membership is shared with the other services for access checks
	RequireMember(ctx context.Context, businessID, userID uuid.UUID) (*domain.BusinessMember, error)
	GetSubscription(ctx context.Context, businessID uuid.UUID) (*client.Subscription, error)
}

// businessServiceImpl is the implementation of BusinessService
type businessServiceImpl struct {
	businessRepo   repository.BusinessRepository
	clientRepo     repository.ClientRepository
	formRepo       repository.FormRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	billingClient  client.BillingClient
	redisClient    *redis.Client
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewBusinessService creates a new instance of BusinessService. redisClient
// may be nil; subscription reads then skip the cache.
func NewBusinessService(
	businessRepo repository.BusinessRepository,
	clientRepo repository.ClientRepository,
	formRepo repository.FormRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	billingClient client.BillingClient,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) BusinessService {
	return &businessServiceImpl{
		businessRepo:   businessRepo,
		clientRepo:     clientRepo,
		formRepo:       formRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		billingClient:  billingClient,
		redisClient:    redisClient,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

// CreateBusiness creates a business and enrolls the creator as OWNER
func (s *businessServiceImpl) CreateBusiness(ctx context.Context, req *dto.CreateBusinessRequest, userID uuid.UUID) (*dto.BusinessResponse, error) {
	business := &domain.Business{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.businessRepo.Create(ctx, business); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create business", err.Error())
	}

	member := &domain.BusinessMember{
		BusinessID: business.ID,
		UserID:     userID,
		RoleName:   domain.MemberRoleOwner,
		JoinedAt:   time.Now().UTC(),
	}
	if err := s.businessRepo.AddMember(ctx, member); err != nil {
		s.logger.Error("Failed to enroll owner, rolling back business creation",
			zap.String("business_id", business.ID.String()),
			zap.Error(err))
		if deleteErr := s.businessRepo.Delete(ctx, business.ID); deleteErr != nil {
			s.logger.Error("Failed to rollback business after owner enrollment failure",
				zap.String("business_id", business.ID.String()),
				zap.Error(deleteErr))
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create business", err.Error())
	}

	return toBusinessResponse(business), nil
}

// GetBusiness returns a business the user is a member of
func (s *businessServiceImpl) GetBusiness(ctx context.Context, businessID, userID uuid.UUID) (*dto.BusinessResponse, error) {
	if _, err := s.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Business not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch business", err.Error())
	}

	return toBusinessResponse(business), nil
}

// ListBusinesses returns all businesses the user belongs to
func (s *businessServiceImpl) ListBusinesses(ctx context.Context, userID uuid.UUID) ([]*dto.BusinessResponse, error) {
	businesses, err := s.businessRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list businesses", err.Error())
	}

	result := make([]*dto.BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		result = append(result, toBusinessResponse(b))
	}
	return result, nil
}

// UpdateBusiness updates business profile fields
func (s *businessServiceImpl) UpdateBusiness(ctx context.Context, businessID, userID uuid.UUID, req *dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	member, err := s.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionBusinessUpdate) {
		return nil, response.NewForbiddenError("Only the owner may update the business", "")
	}

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Business not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch business", err.Error())
	}

	if req.Name != nil {
		business.Name = *req.Name
	}
	if req.Description != nil {
		business.Description = *req.Description
	}

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update business", err.Error())
	}

	return toBusinessResponse(business), nil
}

// DeleteBusiness soft deletes a business
func (s *businessServiceImpl) DeleteBusiness(ctx context.Context, businessID, userID uuid.UUID) error {
	member, err := s.RequireMember(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if !Can(member.RoleName, ActionBusinessDelete) {
		return response.NewForbiddenError("Only the owner may delete the business", "")
	}

	if err := s.businessRepo.Delete(ctx, businessID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete business", err.Error())
	}
	return nil
}

// AddMember adds a staff member, enforcing the plan's member limit
func (s *businessServiceImpl) AddMember(ctx context.Context, businessID, userID uuid.UUID, req *dto.AddBusinessMemberRequest) (*dto.BusinessMemberResponse, error) {
	member, err := s.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionMemberManage) {
		return nil, response.NewForbiddenError("You may not manage members of this business", "")
	}

	existing, err := s.businessRepo.FindMember(ctx, businessID, req.UserID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}
	if existing != nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User is already a member", "")
	}

	sub, err := s.GetSubscription(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if sub.MaxMembers >= 0 {
		count, err := s.businessRepo.CountMembers(ctx, businessID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count members", err.Error())
		}
		if count >= int64(sub.MaxMembers) {
			return nil, response.NewLimitExceededError("Member limit reached for the current plan", "")
		}
	}

	newMember := &domain.BusinessMember{
		BusinessID: businessID,
		UserID:     req.UserID,
		RoleName:   domain.MemberRole(req.RoleName),
		JoinedAt:   time.Now().UTC(),
	}
	if err := s.businessRepo.AddMember(ctx, newMember); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add member", err.Error())
	}

	return s.toMemberResponse(ctx, newMember), nil
}

// ListMembers lists the members of a business with resolved names
func (s *businessServiceImpl) ListMembers(ctx context.Context, businessID, userID uuid.UUID) ([]*dto.BusinessMemberResponse, error) {
	if _, err := s.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	members, err := s.businessRepo.FindMembers(ctx, businessID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list members", err.Error())
	}

	result := make([]*dto.BusinessMemberResponse, 0, len(members))
	for _, m := range members {
		result = append(result, s.toMemberResponse(ctx, m))
	}
	return result, nil
}

// UpdateMemberRole changes a member's role. The owner's role is immutable.
func (s *businessServiceImpl) UpdateMemberRole(ctx context.Context, businessID, userID, targetUserID uuid.UUID, req *dto.UpdateBusinessMemberRoleRequest) error {
	member, err := s.RequireMember(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if !Can(member.RoleName, ActionMemberManage) {
		return response.NewForbiddenError("You may not manage members of this business", "")
	}

	target, err := s.businessRepo.FindMember(ctx, businessID, targetUserID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}
	if target == nil {
		return response.NewNotFoundError("Member not found", "")
	}
	if target.RoleName == domain.MemberRoleOwner {
		return response.NewForbiddenError("The owner's role cannot be changed", "")
	}

	if err := s.businessRepo.UpdateMemberRole(ctx, businessID, targetUserID, domain.MemberRole(req.RoleName)); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to update member role", err.Error())
	}
	return nil
}

// RemoveMember removes a member. The owner cannot be removed.
func (s *businessServiceImpl) RemoveMember(ctx context.Context, businessID, userID, targetUserID uuid.UUID) error {
	member, err := s.RequireMember(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if !Can(member.RoleName, ActionMemberManage) {
		return response.NewForbiddenError("You may not manage members of this business", "")
	}

	target, err := s.businessRepo.FindMember(ctx, businessID, targetUserID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}
	if target == nil {
		return response.NewNotFoundError("Member not found", "")
	}
	if target.RoleName == domain.MemberRoleOwner {
		return response.NewForbiddenError("The owner cannot be removed", "")
	}

	if err := s.businessRepo.RemoveMember(ctx, businessID, targetUserID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove member", err.Error())
	}
	return nil
}

// GetUsage reports current resource counts against the plan limits
func (s *businessServiceImpl) GetUsage(ctx context.Context, businessID, userID uuid.UUID) (*dto.BusinessUsageResponse, error) {
	if _, err := s.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	sub, err := s.GetSubscription(ctx, businessID)
	if err != nil {
		return nil, err
	}

	formCount, err := s.formRepo.CountByBusinessID(ctx, businessID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count forms", err.Error())
	}
	memberCount, err := s.businessRepo.CountMembers(ctx, businessID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count members", err.Error())
	}
	clientCount, err := s.clientRepo.CountByBusinessID(ctx, businessID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count clients", err.Error())
	}
	submissionCount, err := s.submissionRepo.CountByBusinessIDSince(ctx, businessID, monthStart(time.Now().UTC()))
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count submissions", err.Error())
	}

	return &dto.BusinessUsageResponse{
		BusinessID:           businessID,
		Tier:                 string(sub.Tier),
		Forms:                dto.UsagePair{Used: formCount, Limit: int64(sub.MaxForms)},
		Members:              dto.UsagePair{Used: memberCount, Limit: int64(sub.MaxMembers)},
		Clients:              dto.UsagePair{Used: clientCount, Limit: int64(sub.MaxClients)},
		SubmissionsThisMonth: dto.UsagePair{Used: submissionCount, Limit: int64(sub.MaxSubmissionsPerMonth)},
	}, nil
}

// GetBilling reports the current plan for a business
func (s *businessServiceImpl) GetBilling(ctx context.Context, businessID, userID uuid.UUID) (*dto.BillingResponse, error) {
	if _, err := s.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	sub, err := s.GetSubscription(ctx, businessID)
	if err != nil {
		return nil, err
	}

	return &dto.BillingResponse{
		BusinessID: businessID,
		Tier:       string(sub.Tier),
	}, nil
}

// CreateCheckout starts a hosted checkout flow for a plan upgrade
func (s *businessServiceImpl) CreateCheckout(ctx context.Context, businessID, userID uuid.UUID, req *dto.CreateCheckoutRequest) (*dto.BillingResponse, error) {
	member, err := s.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionBillingManage) {
		return nil, response.NewForbiddenError("Only the owner may manage billing", "")
	}

	session, err := s.billingClient.CreateCheckoutSession(ctx, businessID, client.SubscriptionTier(req.Tier))
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to start checkout", err.Error())
	}

	// The plan may change as soon as checkout completes
	s.invalidateSubscriptionCache(ctx, businessID)

	return &dto.BillingResponse{
		BusinessID:  businessID,
		Tier:        string(req.Tier),
		CheckoutURL: session.URL,
	}, nil
}

// RequireMember returns the caller's membership or FORBIDDEN
func (s *businessServiceImpl) RequireMember(ctx context.Context, businessID, userID uuid.UUID) (*domain.BusinessMember, error) {
	member, err := s.businessRepo.FindMember(ctx, businessID, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}
	if member == nil {
		return nil, response.NewForbiddenError("You are not a member of this business", "")
	}
	return member, nil
}

// GetSubscription reads the plan through the Redis cache
func (s *businessServiceImpl) GetSubscription(ctx context.Context, businessID uuid.UUID) (*client.Subscription, error) {
	cacheKey := "careform:billing:sub:" + businessID.String()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Bytes(); err == nil {
			var sub client.Subscription
			if err := json.Unmarshal(cached, &sub); err == nil {
				return &sub, nil
			}
		}
	}

	sub, err := s.billingClient.GetSubscription(ctx, businessID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch subscription", err.Error())
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(sub); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("Failed to cache subscription",
					zap.String("business_id", businessID.String()),
					zap.Error(err))
			}
		}
	}

	return sub, nil
}

func (s *businessServiceImpl) invalidateSubscriptionCache(ctx context.Context, businessID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	cacheKey := "careform:billing:sub:" + businessID.String()
	if err := s.redisClient.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("Failed to invalidate subscription cache",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
	}
}

func (s *businessServiceImpl) toMemberResponse(ctx context.Context, m *domain.BusinessMember) *dto.BusinessMemberResponse {
	resp := &dto.BusinessMemberResponse{
		MemberID:   m.ID,
		BusinessID: m.BusinessID,
		UserID:     m.UserID,
		RoleName:   string(m.RoleName),
		JoinedAt:   m.JoinedAt,
	}

	if user, err := s.userRepo.FindByID(ctx, m.UserID); err == nil && user != nil {
		resp.UserEmail = user.Email
		resp.UserName = user.DisplayName()
	}

	return resp
}

func toBusinessResponse(b *domain.Business) *dto.BusinessResponse {
	return &dto.BusinessResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// monthStart returns midnight UTC on the first of the month containing t
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
