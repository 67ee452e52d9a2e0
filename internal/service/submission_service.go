package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"careform-api/internal/domain"
	"careform-api/internal/dto"
	"careform-api/internal/metrics"
	"careform-api/internal/repository"
	"careform-api/internal/response"
	"careform-api/internal/schema"
)

// SubmissionService defines the interface for submission workflow logic
type SubmissionService interface {
	CreateSubmission(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error)
	GetSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) (*dto.SubmissionResponse, error)
	ListSubmissions(ctx context.Context, businessID, userID uuid.UUID, filter repository.SubmissionFilter) ([]*dto.SubmissionResponse, error)
	UpdateSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error)
	SubmitSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) (*dto.SubmissionResponse, error)
	ReviewSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID, req *dto.ReviewSubmissionRequest) (*dto.SubmissionResponse, error)
	DeleteSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) error
}

// submissionServiceImpl is the implementation of SubmissionService
type submissionServiceImpl struct {
	submissionRepo  repository.SubmissionRepository
	formRepo        repository.FormRepository
	clientRepo      repository.ClientRepository
	businessService BusinessService
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// NewSubmissionService creates a new instance of SubmissionService
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	formRepo repository.FormRepository,
	clientRepo repository.ClientRepository,
	businessService BusinessService,
	m *metrics.Metrics,
	logger *zap.Logger,
) SubmissionService {
	return &submissionServiceImpl{
		submissionRepo:  submissionRepo,
		formRepo:        formRepo,
		clientRepo:      clientRepo,
		businessService: businessService,
		metrics:         m,
		logger:          logger,
	}
}

// CreateSubmission starts a draft submission against an active form
func (s *submissionServiceImpl) CreateSubmission(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionSubmissionCreate) {
		return nil, response.NewForbiddenError("You may not create submissions in this business", "")
	}

	form, err := s.findScopedForm(ctx, businessID, formID)
	if err != nil {
		return nil, err
	}
	if !form.AcceptsSubmissions() {
		return nil, response.NewValidationError("Form is not accepting submissions", string(form.Status))
	}

	sub, err := s.businessService.GetSubscription(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if sub.MaxSubmissionsPerMonth >= 0 {
		count, err := s.submissionRepo.CountByBusinessIDSince(ctx, businessID, monthStart(time.Now().UTC()))
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count submissions", err.Error())
		}
		if count >= int64(sub.MaxSubmissionsPerMonth) {
			return nil, response.NewLimitExceededError("Monthly submission limit reached for the current plan", "")
		}
	}

	if req.ClientID != nil {
		if err := s.verifyClientScope(ctx, businessID, *req.ClientID); err != nil {
			return nil, err
		}
	}

	data, err := s.decodeSubmissionData(form, req.Data)
	if err != nil {
		return nil, err
	}

	submission := &domain.Submission{
		FormID:         formID,
		BusinessID:     businessID,
		ClientID:       req.ClientID,
		SubmittedBy:    userID,
		Status:         domain.SubmissionStatusDraft,
		SubmissionData: data,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create submission", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementSubmissionCreated()
	}

	return toSubmissionResponse(submission), nil
}

// GetSubmission returns a submission scoped to the business
func (s *submissionServiceImpl) GetSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) (*dto.SubmissionResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	submission, err := s.findScopedSubmission(ctx, businessID, submissionID)
	if err != nil {
		return nil, err
	}
	return toSubmissionResponse(submission), nil
}

// ListSubmissions lists submissions of a business matching the filter
func (s *submissionServiceImpl) ListSubmissions(ctx context.Context, businessID, userID uuid.UUID, filter repository.SubmissionFilter) ([]*dto.SubmissionResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.FindByBusinessID(ctx, businessID, filter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list submissions", err.Error())
	}

	result := make([]*dto.SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		result = append(result, toSubmissionResponse(sub))
	}
	return result, nil
}

// UpdateSubmission replaces submission data. Drafts and submitted entries
// stay editable for the original submitter only.
func (s *submissionServiceImpl) UpdateSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	submission, err := s.findScopedSubmission(ctx, businessID, submissionID)
	if err != nil {
		return nil, err
	}
	if !submission.IsEditable(userID) {
		return nil, response.NewForbiddenError("Submission can no longer be edited", string(submission.Status))
	}

	form, err := s.findScopedForm(ctx, businessID, submission.FormID)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if err := s.verifyClientScope(ctx, businessID, *req.ClientID); err != nil {
			return nil, err
		}
		submission.ClientID = req.ClientID
	}

	data, err := s.decodeSubmissionData(form, req.Data)
	if err != nil {
		return nil, err
	}
	submission.SubmissionData = data

	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update submission", err.Error())
	}

	return toSubmissionResponse(submission), nil
}

// SubmitSubmission moves a draft to submitted after the required-field check.
// The check runs on every attempt; a failure lists the missing field labels.
func (s *submissionServiceImpl) SubmitSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) (*dto.SubmissionResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	submission, err := s.findScopedSubmission(ctx, businessID, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.SubmittedBy != userID {
		return nil, response.NewForbiddenError("Only the submitter may submit this entry", "")
	}
	if submission.Status != domain.SubmissionStatusDraft {
		return nil, response.NewValidationError("Only drafts can be submitted", string(submission.Status))
	}

	form, err := s.findScopedForm(ctx, businessID, submission.FormID)
	if err != nil {
		return nil, err
	}

	parsed, err := schema.Parse(form.FieldsSchema)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Stored form schema is invalid", err.Error())
	}
	values, err := schema.DecodeValues(parsed, submission.SubmissionData)
	if err != nil {
		return nil, response.NewValidationError("Stored submission data is invalid", err.Error())
	}

	if missing := schema.MissingRequired(parsed, values); len(missing) > 0 {
		return nil, response.NewValidationError(
			"Required fields are missing",
			strings.Join(missing, ", "))
	}

	now := time.Now().UTC()
	submission.Status = domain.SubmissionStatusSubmitted
	submission.SubmittedAt = &now

	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to submit submission", err.Error())
	}

	return toSubmissionResponse(submission), nil
}

// ReviewSubmission approves or rejects a submitted entry. Approved and
// rejected are terminal.
func (s *submissionServiceImpl) ReviewSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID, req *dto.ReviewSubmissionRequest) (*dto.SubmissionResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionSubmissionReview) {
		return nil, response.NewForbiddenError("You may not review submissions in this business", "")
	}

	submission, err := s.findScopedSubmission(ctx, businessID, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.IsTerminal() {
		return nil, response.NewValidationError("Submission has already been reviewed", string(submission.Status))
	}
	if submission.Status != domain.SubmissionStatusSubmitted {
		return nil, response.NewValidationError("Only submitted entries can be reviewed", string(submission.Status))
	}

	now := time.Now().UTC()
	submission.Status = domain.SubmissionStatus(req.Decision)
	submission.ReviewedBy = &userID
	submission.ReviewedAt = &now
	if req.Notes != "" {
		submission.Notes = req.Notes
	}

	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to review submission", err.Error())
	}

	return toSubmissionResponse(submission), nil
}

// DeleteSubmission soft deletes a draft. Non-drafts are retained for audit.
func (s *submissionServiceImpl) DeleteSubmission(ctx context.Context, businessID, submissionID, userID uuid.UUID) error {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return err
	}

	submission, err := s.findScopedSubmission(ctx, businessID, submissionID)
	if err != nil {
		return err
	}
	if submission.Status != domain.SubmissionStatusDraft {
		return response.NewValidationError("Only drafts can be deleted", string(submission.Status))
	}
	if submission.SubmittedBy != userID {
		return response.NewForbiddenError("Only the submitter may delete this draft", "")
	}

	if err := s.submissionRepo.Delete(ctx, submissionID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete submission", err.Error())
	}
	return nil
}

// decodeSubmissionData validates raw submission data against the form schema
// and returns the canonical encoding
func (s *submissionServiceImpl) decodeSubmissionData(form *domain.Form, raw json.RawMessage) (datatypes.JSON, error) {
	parsed, err := schema.Parse(form.FieldsSchema)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Stored form schema is invalid", err.Error())
	}

	values, err := schema.DecodeValues(parsed, raw)
	if err != nil {
		return nil, response.NewValidationError("Invalid submission data", err.Error())
	}

	encoded, err := values.Encode()
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode submission data", err.Error())
	}
	return datatypes.JSON(encoded), nil
}

func (s *submissionServiceImpl) verifyClientScope(ctx context.Context, businessID, clientID uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Client not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch client", err.Error())
	}
	if client.BusinessID != businessID {
		return response.NewNotFoundError("Client not found", "")
	}
	return nil
}

func (s *submissionServiceImpl) findScopedForm(ctx context.Context, businessID, formID uuid.UUID) (*domain.Form, error) {
	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Form not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch form", err.Error())
	}
	if form.BusinessID != businessID {
		return nil, response.NewNotFoundError("Form not found", "")
	}
	return form, nil
}

func (s *submissionServiceImpl) findScopedSubmission(ctx context.Context, businessID, submissionID uuid.UUID) (*domain.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Submission not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch submission", err.Error())
	}
	if submission.BusinessID != businessID {
		return nil, response.NewNotFoundError("Submission not found", "")
	}
	return submission, nil
}

func toSubmissionResponse(s *domain.Submission) *dto.SubmissionResponse {
	return &dto.SubmissionResponse{
		ID:          s.ID,
		FormID:      s.FormID,
		BusinessID:  s.BusinessID,
		ClientID:    s.ClientID,
		SubmittedBy: s.SubmittedBy,
		Status:      string(s.Status),
		Data:        json.RawMessage(s.SubmissionData),
		SubmittedAt: s.SubmittedAt,
		ReviewedBy:  s.ReviewedBy,
		ReviewedAt:  s.ReviewedAt,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
