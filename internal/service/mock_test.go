package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careform-api/internal/client"
	"careform-api/internal/domain"
	"careform-api/internal/repository"
)

// Function-field mocks: each method delegates to its override when set and
// falls back to an inert default otherwise, so tests only wire what they use.

type mockBusinessRepo struct {
	CreateFunc           func(ctx context.Context, business *domain.Business) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	FindByUserIDFunc     func(ctx context.Context, userID uuid.UUID) ([]*domain.Business, error)
	UpdateFunc           func(ctx context.Context, business *domain.Business) error
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
	AddMemberFunc        func(ctx context.Context, member *domain.BusinessMember) error
	FindMemberFunc       func(ctx context.Context, businessID, userID uuid.UUID) (*domain.BusinessMember, error)
	FindMembersFunc      func(ctx context.Context, businessID uuid.UUID) ([]*domain.BusinessMember, error)
	UpdateMemberRoleFunc func(ctx context.Context, businessID, userID uuid.UUID, role domain.MemberRole) error
	RemoveMemberFunc     func(ctx context.Context, businessID, userID uuid.UUID) error
	CountMembersFunc     func(ctx context.Context, businessID uuid.UUID) (int64, error)
}

var _ repository.BusinessRepository = (*mockBusinessRepo)(nil)

func (m *mockBusinessRepo) Create(ctx context.Context, business *domain.Business) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, business)
	}
	return nil
}

func (m *mockBusinessRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBusinessRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Business, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockBusinessRepo) Update(ctx context.Context, business *domain.Business) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, business)
	}
	return nil
}

func (m *mockBusinessRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBusinessRepo) AddMember(ctx context.Context, member *domain.BusinessMember) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, member)
	}
	return nil
}

func (m *mockBusinessRepo) FindMember(ctx context.Context, businessID, userID uuid.UUID) (*domain.BusinessMember, error) {
	if m.FindMemberFunc != nil {
		return m.FindMemberFunc(ctx, businessID, userID)
	}
	return nil, nil
}

func (m *mockBusinessRepo) FindMembers(ctx context.Context, businessID uuid.UUID) ([]*domain.BusinessMember, error) {
	if m.FindMembersFunc != nil {
		return m.FindMembersFunc(ctx, businessID)
	}
	return nil, nil
}

func (m *mockBusinessRepo) UpdateMemberRole(ctx context.Context, businessID, userID uuid.UUID, role domain.MemberRole) error {
	if m.UpdateMemberRoleFunc != nil {
		return m.UpdateMemberRoleFunc(ctx, businessID, userID, role)
	}
	return nil
}

func (m *mockBusinessRepo) RemoveMember(ctx context.Context, businessID, userID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, businessID, userID)
	}
	return nil
}

func (m *mockBusinessRepo) CountMembers(ctx context.Context, businessID uuid.UUID) (int64, error) {
	if m.CountMembersFunc != nil {
		return m.CountMembersFunc(ctx, businessID)
	}
	return 0, nil
}

type mockClientRepo struct {
	CreateFunc            func(ctx context.Context, c *domain.Client) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	FindByBusinessIDFunc  func(ctx context.Context, businessID uuid.UUID) ([]*domain.Client, error)
	FindByIDsFunc         func(ctx context.Context, ids []uuid.UUID) ([]*domain.Client, error)
	SearchFunc            func(ctx context.Context, businessID uuid.UUID, query string) ([]*domain.Client, error)
	UpdateFunc            func(ctx context.Context, c *domain.Client) error
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	CountByBusinessIDFunc func(ctx context.Context, businessID uuid.UUID) (int64, error)
}

var _ repository.ClientRepository = (*mockClientRepo)(nil)

func (m *mockClientRepo) Create(ctx context.Context, c *domain.Client) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockClientRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClientRepo) FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*domain.Client, error) {
	if m.FindByBusinessIDFunc != nil {
		return m.FindByBusinessIDFunc(ctx, businessID)
	}
	return nil, nil
}

func (m *mockClientRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Client, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockClientRepo) Search(ctx context.Context, businessID uuid.UUID, query string) ([]*domain.Client, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, businessID, query)
	}
	return nil, nil
}

func (m *mockClientRepo) Update(ctx context.Context, c *domain.Client) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockClientRepo) CountByBusinessID(ctx context.Context, businessID uuid.UUID) (int64, error) {
	if m.CountByBusinessIDFunc != nil {
		return m.CountByBusinessIDFunc(ctx, businessID)
	}
	return 0, nil
}

type mockFormRepo struct {
	CreateFunc                    func(ctx context.Context, form *domain.Form) error
	FindByIDFunc                  func(ctx context.Context, id uuid.UUID) (*domain.Form, error)
	FindByBusinessIDFunc          func(ctx context.Context, businessID uuid.UUID) ([]*domain.Form, error)
	FindByBusinessIDAndStatusFunc func(ctx context.Context, businessID uuid.UUID, status domain.FormStatus) ([]*domain.Form, error)
	FindByIDsFunc                 func(ctx context.Context, ids []uuid.UUID) ([]*domain.Form, error)
	UpdateFunc                    func(ctx context.Context, form *domain.Form) error
	DeleteFunc                    func(ctx context.Context, id uuid.UUID) error
	CountByBusinessIDFunc         func(ctx context.Context, businessID uuid.UUID) (int64, error)
}

var _ repository.FormRepository = (*mockFormRepo)(nil)

func (m *mockFormRepo) Create(ctx context.Context, form *domain.Form) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, form)
	}
	return nil
}

func (m *mockFormRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFormRepo) FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*domain.Form, error) {
	if m.FindByBusinessIDFunc != nil {
		return m.FindByBusinessIDFunc(ctx, businessID)
	}
	return nil, nil
}

func (m *mockFormRepo) FindByBusinessIDAndStatus(ctx context.Context, businessID uuid.UUID, status domain.FormStatus) ([]*domain.Form, error) {
	if m.FindByBusinessIDAndStatusFunc != nil {
		return m.FindByBusinessIDAndStatusFunc(ctx, businessID, status)
	}
	return nil, nil
}

func (m *mockFormRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Form, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockFormRepo) Update(ctx context.Context, form *domain.Form) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, form)
	}
	return nil
}

func (m *mockFormRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockFormRepo) CountByBusinessID(ctx context.Context, businessID uuid.UUID) (int64, error) {
	if m.CountByBusinessIDFunc != nil {
		return m.CountByBusinessIDFunc(ctx, businessID)
	}
	return 0, nil
}

type mockSubmissionRepo struct {
	CreateFunc                 func(ctx context.Context, submission *domain.Submission) error
	FindByIDFunc               func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	FindByBusinessIDFunc       func(ctx context.Context, businessID uuid.UUID, filter repository.SubmissionFilter) ([]*domain.Submission, error)
	UpdateFunc                 func(ctx context.Context, submission *domain.Submission) error
	DeleteFunc                 func(ctx context.Context, id uuid.UUID) error
	CountByBusinessIDSinceFunc func(ctx context.Context, businessID uuid.UUID, since time.Time) (int64, error)
	DeleteStaleDraftsFunc      func(ctx context.Context, olderThan time.Time) (int64, error)
}

var _ repository.SubmissionRepository = (*mockSubmissionRepo)(nil)

func (m *mockSubmissionRepo) Create(ctx context.Context, submission *domain.Submission) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, submission)
	}
	return nil
}

func (m *mockSubmissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) FindByBusinessID(ctx context.Context, businessID uuid.UUID, filter repository.SubmissionFilter) ([]*domain.Submission, error) {
	if m.FindByBusinessIDFunc != nil {
		return m.FindByBusinessIDFunc(ctx, businessID, filter)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) Update(ctx context.Context, submission *domain.Submission) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, submission)
	}
	return nil
}

func (m *mockSubmissionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSubmissionRepo) CountByBusinessIDSince(ctx context.Context, businessID uuid.UUID, since time.Time) (int64, error) {
	if m.CountByBusinessIDSinceFunc != nil {
		return m.CountByBusinessIDSinceFunc(ctx, businessID, since)
	}
	return 0, nil
}

func (m *mockSubmissionRepo) DeleteStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error) {
	if m.DeleteStaleDraftsFunc != nil {
		return m.DeleteStaleDraftsFunc(ctx, olderThan)
	}
	return 0, nil
}

type mockUserRepo struct {
	UpsertFunc      func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	FindByIDsFunc   func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

type mockBillingClient struct {
	GetSubscriptionFunc       func(ctx context.Context, businessID uuid.UUID) (*client.Subscription, error)
	CreateCheckoutSessionFunc func(ctx context.Context, businessID uuid.UUID, tier client.SubscriptionTier) (*client.CheckoutSession, error)
}

var _ client.BillingClient = (*mockBillingClient)(nil)

func (m *mockBillingClient) GetSubscription(ctx context.Context, businessID uuid.UUID) (*client.Subscription, error) {
	if m.GetSubscriptionFunc != nil {
		return m.GetSubscriptionFunc(ctx, businessID)
	}
	return client.DefaultFreeSubscription(), nil
}

func (m *mockBillingClient) CreateCheckoutSession(ctx context.Context, businessID uuid.UUID, tier client.SubscriptionTier) (*client.CheckoutSession, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, businessID, tier)
	}
	return &client.CheckoutSession{URL: "https://billing.example.com/checkout", SessionID: "cs_test"}, nil
}
