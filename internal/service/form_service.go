package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

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

// validFormTransitions lists the allowed lifecycle edges
var validFormTransitions = map[domain.FormStatus][]domain.FormStatus{
	domain.FormStatusDraft:    {domain.FormStatusActive, domain.FormStatusArchived},
	domain.FormStatusActive:   {domain.FormStatusInactive, domain.FormStatusArchived},
	domain.FormStatusInactive: {domain.FormStatusActive, domain.FormStatusArchived},
	domain.FormStatusArchived: {},
}

// FormService defines the interface for form lifecycle logic
type FormService interface {
	CreateForm(ctx context.Context, businessID, userID uuid.UUID, req *dto.CreateFormRequest) (*dto.FormResponse, error)
	GetForm(ctx context.Context, businessID, formID, userID uuid.UUID) (*dto.FormResponse, error)
	ListForms(ctx context.Context, businessID, userID uuid.UUID, status string) ([]*dto.FormResponse, error)
	UpdateForm(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.UpdateFormRequest) (*dto.FormResponse, error)
	UpdateFormStatus(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.UpdateFormStatusRequest) (*dto.FormResponse, error)
	DeleteForm(ctx context.Context, businessID, formID, userID uuid.UUID) error
	RenderForm(ctx context.Context, businessID, formID, userID uuid.UUID, mode string) (*dto.RenderedFormResponse, error)
}

// formServiceImpl is the implementation of FormService
type formServiceImpl struct {
	formRepo        repository.FormRepository
	businessService BusinessService
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// NewFormService creates a new instance of FormService
func NewFormService(formRepo repository.FormRepository, businessService BusinessService, m *metrics.Metrics, logger *zap.Logger) FormService {
	return &formServiceImpl{
		formRepo:        formRepo,
		businessService: businessService,
		metrics:         m,
		logger:          logger,
	}
}

// CreateForm creates a draft form after validating the schema structurally
func (s *formServiceImpl) CreateForm(ctx context.Context, businessID, userID uuid.UUID, req *dto.CreateFormRequest) (*dto.FormResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionFormWrite) {
		return nil, response.NewForbiddenError("You may not manage forms of this business", "")
	}

	parsed, err := schema.Parse(req.FieldsSchema)
	if err != nil {
		return nil, response.NewValidationError("Invalid form schema", err.Error())
	}

	sub, err := s.businessService.GetSubscription(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if sub.MaxForms >= 0 {
		count, err := s.formRepo.CountByBusinessID(ctx, businessID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count forms", err.Error())
		}
		if count >= int64(sub.MaxForms) {
			return nil, response.NewLimitExceededError("Form limit reached for the current plan", "")
		}
	}

	encoded, err := parsed.Encode()
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode form schema", err.Error())
	}

	form := &domain.Form{
		BusinessID:   businessID,
		CreatedBy:    userID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       domain.FormStatusDraft,
		Version:      1,
		FieldsSchema: datatypes.JSON(encoded),
	}

	if err := s.formRepo.Create(ctx, form); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create form", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementFormCreated()
	}

	return toFormResponse(form), nil
}

// GetForm returns a form scoped to the business
func (s *formServiceImpl) GetForm(ctx context.Context, businessID, formID, userID uuid.UUID) (*dto.FormResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	form, err := s.findScopedForm(ctx, businessID, formID)
	if err != nil {
		return nil, err
	}
	return toFormResponse(form), nil
}

// ListForms lists the forms of a business, optionally filtered by status
func (s *formServiceImpl) ListForms(ctx context.Context, businessID, userID uuid.UUID, status string) ([]*dto.FormResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	var forms []*domain.Form
	var err error
	if status != "" {
		forms, err = s.formRepo.FindByBusinessIDAndStatus(ctx, businessID, domain.FormStatus(status))
	} else {
		forms, err = s.formRepo.FindByBusinessID(ctx, businessID)
	}
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list forms", err.Error())
	}

	result := make([]*dto.FormResponse, 0, len(forms))
	for _, f := range forms {
		result = append(result, toFormResponse(f))
	}
	return result, nil
}

// UpdateForm updates form metadata and, when the schema document changes,
// validates it and bumps the version. Stored submissions are never rewritten.
func (s *formServiceImpl) UpdateForm(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.UpdateFormRequest) (*dto.FormResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionFormWrite) {
		return nil, response.NewForbiddenError("You may not manage forms of this business", "")
	}

	form, err := s.findScopedForm(ctx, businessID, formID)
	if err != nil {
		return nil, err
	}
	if form.Status == domain.FormStatusArchived {
		return nil, response.NewValidationError("Archived forms cannot be edited", "")
	}

	if req.Title != nil {
		form.Title = *req.Title
	}
	if req.Description != nil {
		form.Description = *req.Description
	}

	if len(req.FieldsSchema) > 0 {
		parsed, err := schema.Parse(req.FieldsSchema)
		if err != nil {
			return nil, response.NewValidationError("Invalid form schema", err.Error())
		}
		encoded, err := parsed.Encode()
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode form schema", err.Error())
		}
		if !jsonEqual(encoded, []byte(form.FieldsSchema)) {
			form.FieldsSchema = datatypes.JSON(encoded)
			form.Version++
		}
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update form", err.Error())
	}

	return toFormResponse(form), nil
}

// UpdateFormStatus applies a lifecycle transition
func (s *formServiceImpl) UpdateFormStatus(ctx context.Context, businessID, formID, userID uuid.UUID, req *dto.UpdateFormStatusRequest) (*dto.FormResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionFormTransition) {
		return nil, response.NewForbiddenError("You may not change form status in this business", "")
	}

	form, err := s.findScopedForm(ctx, businessID, formID)
	if err != nil {
		return nil, err
	}

	target := domain.FormStatus(req.Status)
	if target == form.Status {
		return toFormResponse(form), nil
	}

	allowed := false
	for _, next := range validFormTransitions[form.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, response.NewValidationError(
			"Invalid status transition",
			string(form.Status)+" -> "+string(target))
	}

	form.Status = target
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update form status", err.Error())
	}

	return toFormResponse(form), nil
}

// DeleteForm soft deletes a form
func (s *formServiceImpl) DeleteForm(ctx context.Context, businessID, formID, userID uuid.UUID) error {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if !Can(member.RoleName, ActionFormWrite) {
		return response.NewForbiddenError("You may not manage forms of this business", "")
	}

	if _, err := s.findScopedForm(ctx, businessID, formID); err != nil {
		return err
	}

	if err := s.formRepo.Delete(ctx, formID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete form", err.Error())
	}
	return nil
}

// RenderForm renders an empty form, either editable (fill) or disabled
// (preview)
func (s *formServiceImpl) RenderForm(ctx context.Context, businessID, formID, userID uuid.UUID, mode string) (*dto.RenderedFormResponse, error) {
	if _, err := s.businessService.RequireMember(ctx, businessID, userID); err != nil {
		return nil, err
	}

	renderMode := schema.Mode(mode)
	if renderMode != schema.ModeFill && renderMode != schema.ModePreview {
		return nil, response.NewValidationError("Invalid render mode", mode)
	}

	form, err := s.findScopedForm(ctx, businessID, formID)
	if err != nil {
		return nil, err
	}

	parsed, err := schema.Parse(form.FieldsSchema)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Stored form schema is invalid", err.Error())
	}

	controls := schema.Render(parsed, schema.Values{}, renderMode)

	return &dto.RenderedFormResponse{
		FormID:   form.ID,
		Title:    form.Title,
		Version:  form.Version,
		Mode:     mode,
		Controls: toControlResponses(controls),
	}, nil
}

// findScopedForm loads a form and verifies it belongs to the business
func (s *formServiceImpl) findScopedForm(ctx context.Context, businessID, formID uuid.UUID) (*domain.Form, error) {
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

func toFormResponse(f *domain.Form) *dto.FormResponse {
	return &dto.FormResponse{
		ID:           f.ID,
		BusinessID:   f.BusinessID,
		CreatedBy:    f.CreatedBy,
		Title:        f.Title,
		Description:  f.Description,
		Status:       string(f.Status),
		Version:      f.Version,
		FieldsSchema: json.RawMessage(f.FieldsSchema),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func toControlResponses(controls []schema.Control) []dto.ControlResponse {
	result := make([]dto.ControlResponse, 0, len(controls))
	for _, c := range controls {
		result = append(result, dto.ControlResponse{
			FieldID:     c.FieldID,
			Type:        string(c.Type),
			Label:       c.Label,
			Description: c.Description,
			Placeholder: c.Placeholder,
			Required:    c.Required,
			Options:     c.Options,
			Value:       c.Value,
			Selected:    c.Selected,
			Disabled:    c.Disabled,
		})
	}
	return result
}

// jsonEqual compares two JSON documents after compaction
func jsonEqual(a, b []byte) bool {
	var bufA, bufB bytes.Buffer
	if err := json.Compact(&bufA, a); err != nil {
		return false
	}
	if err := json.Compact(&bufB, b); err != nil {
		return false
	}
	return bytes.Equal(bufA.Bytes(), bufB.Bytes())
}
