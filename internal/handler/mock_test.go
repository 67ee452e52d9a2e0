package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"careform-api/internal/dto"
	"careform-api/internal/repository"
	"careform-api/internal/service"
)

var testUserID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

// setupTestRouter creates a Gin engine with the auth context values the
// middleware would normally set
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Set("jwtToken", "test-token")
		c.Next()
	})
	return router
}

// setupUnauthenticatedRouter creates a Gin engine without auth context values
func setupUnauthenticatedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// MockFormService is a mock implementation of FormService
type MockFormService struct {
	CreateFormFunc       func(ctx context.Context, businessID, userID uuid.UUID, req *dto.CreateFormRequest) (*dto.FormResponse, error)
	GetFormFunc          func(ctx context.Context, businessID, formID, userID uuid.UUID) (*dto.FormResponse, error)
	ListFormsFunc        func(ctx context.Context, businessID, userID uuid.UUID, status string) ([]*dto.FormResponse, error)
	UpdateFormFunc       func(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.UpdateFormRequest) (*dto.FormResponse, error)
	UpdateFormStatusFunc func(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.UpdateFormStatusRequest) (*dto.FormResponse, error)
	DeleteFormFunc       func(ctx context.Context, businessID, formID, userID uuid.UUID) error
	RenderFormFunc       func(ctx context.Context, businessID, formID, userID uuid.UUID, mode string) (*dto.RenderedFormResponse, error)
}

var _ service.FormService = (*MockFormService)(nil)

func (m *MockFormService) CreateForm(ctx context.Context, businessID, userID uuid.UUID, req *dto.CreateFormRequest) (*dto.FormResponse, error) {
	if m.CreateFormFunc != nil {
		return m.CreateFormFunc(ctx, businessID, userID, req)
	}
	return nil, nil
}

func (m *MockFormService) GetForm(ctx context.Context, businessID, formID, userID uuid.UUID) (*dto.FormResponse, error) {
	if m.GetFormFunc != nil {
		return m.GetFormFunc(ctx, businessID, formID, userID)
	}
	return nil, nil
}

func (m *MockFormService) ListForms(ctx context.Context, businessID, userID uuid.UUID, status string) ([]*dto.FormResponse, error) {
	if m.ListFormsFunc != nil {
		return m.ListFormsFunc(ctx, businessID, userID, status)
	}
	return nil, nil
}

func (m *MockFormService) UpdateForm(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.UpdateFormRequest) (*dto.FormResponse, error) {
	if m.UpdateFormFunc != nil {
		return m.UpdateFormFunc(ctx, businessID, formID, userID, req)
	}
	return nil, nil
}

func (m *MockFormService) UpdateFormStatus(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.UpdateFormStatusRequest) (*dto.FormResponse, error) {
	if m.UpdateFormStatusFunc != nil {
		return m.UpdateFormStatusFunc(ctx, businessID, formID, userID, req)
	}
	return nil, nil
}

func (m *MockFormService) DeleteForm(ctx context.Context, businessID, formID, userID uuid.UUID) error {
	if m.DeleteFormFunc != nil {
		return m.DeleteFormFunc(ctx, businessID, formID, userID)
	}
	return nil
}

func (m *MockFormService) RenderForm(ctx context.Context, businessID, formID, userID uuid.UUID, mode string) (*dto.RenderedFormResponse, error) {
	if m.RenderFormFunc != nil {
		return m.RenderFormFunc(ctx, businessID, formID, userID, mode)
	}
	return nil, nil
}

// MockSubmissionService is a mock implementation of SubmissionService
type MockSubmissionService struct {
	CreateSubmissionFunc func(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error)
	GetSubmissionFunc    func(ctx context.Context, businessID, submissionID, userID uuid.UUID) (*dto.SubmissionResponse, error)
	ListSubmissionsFunc  func(ctx context.Context, businessID, userID uuid.UUID, filter repository.SubmissionFilter) ([]*dto.SubmissionResponse, error)
	UpdateSubmissionFunc func(ctx context.Context, businessID, submissionID, userID uuid.UUID, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error)
	SubmitSubmissionFunc func(ctx context.Context, businessID, submissionID, userID uuid.UUID) (*dto.SubmissionResponse, error)
	ReviewSubmissionFunc func(ctx context.Context, businessID, submissionID, userID uuid.UUID, req *dto.ReviewSubmissionRequest) (*dto.SubmissionResponse, error)
	DeleteSubmissionFunc func(ctx context.Context, businessID, submissionID, userID uuid.UUID) error
}

var _ service.SubmissionService = (*MockSubmissionService)(nil)

func (m *MockSubmissionService) CreateSubmission(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error) {
	if m.CreateSubmissionFunc != nil {
		return m.CreateSubmissionFunc(ctx, businessID, formID, userID, req)
	}
	return nil, nil
}

func (m *MockSubmissionService) GetSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) (*dto.SubmissionResponse, error) {
	if m.GetSubmissionFunc != nil {
		return m.GetSubmissionFunc(ctx, businessID, submissionID, userID)
	}
	return nil, nil
}

func (m *MockSubmissionService) ListSubmissions(ctx context.Context, businessID, userID uuid.UUID, filter repository.SubmissionFilter) ([]*dto.SubmissionResponse, error) {
	if m.ListSubmissionsFunc != nil {
		return m.ListSubmissionsFunc(ctx, businessID, userID, filter)
	}
	return nil, nil
}

func (m *MockSubmissionService) UpdateSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error) {
	if m.UpdateSubmissionFunc != nil {
		return m.UpdateSubmissionFunc(ctx, businessID, submissionID, userID, req)
	}
	return nil, nil
}

func (m *MockSubmissionService) SubmitSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) (*dto.SubmissionResponse, error) {
	if m.SubmitSubmissionFunc != nil {
		return m.SubmitSubmissionFunc(ctx, businessID, submissionID, userID)
	}
	return nil, nil
}

func (m *MockSubmissionService) ReviewSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID, req *dto.ReviewSubmissionRequest) (*dto.SubmissionResponse, error) {
	if m.ReviewSubmissionFunc != nil {
		return m.ReviewSubmissionFunc(ctx, businessID, submissionID, userID, req)
	}
	return nil, nil
}

func (m *MockSubmissionService) DeleteSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) error {
	if m.DeleteSubmissionFunc != nil {
		return m.DeleteSubmissionFunc(ctx, businessID, submissionID, userID)
	}
	return nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	ExportFlatFunc  func(ctx context.Context, businessID, formID, userID uuid.UUID, from, to *time.Time) (*dto.ExportResponse, error)
	ExportPivotFunc func(ctx context.Context, businessID, userID uuid.UUID, start, end time.Time) (*dto.ExportResponse, error)
}

var _ service.ExportService = (*MockExportService)(nil)

func (m *MockExportService) ExportFlat(ctx context.Context, businessID, formID, userID uuid.UUID, from, to *time.Time) (*dto.ExportResponse, error) {
	if m.ExportFlatFunc != nil {
		return m.ExportFlatFunc(ctx, businessID, formID, userID, from, to)
	}
	return nil, nil
}

func (m *MockExportService) ExportPivot(ctx context.Context, businessID, userID uuid.UUID, start, end time.Time) (*dto.ExportResponse, error) {
	if m.ExportPivotFunc != nil {
		return m.ExportPivotFunc(ctx, businessID, userID, start, end)
	}
	return nil, nil
}
