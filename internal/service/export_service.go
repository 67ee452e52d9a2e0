package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"careform-api/internal/client"
	"careform-api/internal/domain"
	"careform-api/internal/dto"
	"careform-api/internal/export"
	"careform-api/internal/metrics"
	"careform-api/internal/repository"
	"careform-api/internal/response"
	"careform-api/internal/schema"
)

// ExportService defines the interface for export generation
type ExportService interface {
	ExportFlat(ctx context.Context, businessID, formID, userID uuid.UUID, from, to *time.Time) (*dto.ExportResponse, error)
	ExportPivot(ctx context.Context, businessID, userID uuid.UUID, start, end time.Time) (*dto.ExportResponse, error)
}

// exportServiceImpl is the implementation of ExportService
type exportServiceImpl struct {
	submissionRepo  repository.SubmissionRepository
	formRepo        repository.FormRepository
	clientRepo      repository.ClientRepository
	userRepo        repository.UserRepository
	businessService BusinessService
	storageClient   client.StorageClientInterface
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// NewExportService creates a new instance of ExportService. storageClient may
// be nil, in which case exports are returned inline without a download URL.
func NewExportService(
	submissionRepo repository.SubmissionRepository,
	formRepo repository.FormRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	businessService BusinessService,
	storageClient client.StorageClientInterface,
	m *metrics.Metrics,
	logger *zap.Logger,
) ExportService {
	return &exportServiceImpl{
		submissionRepo:  submissionRepo,
		formRepo:        formRepo,
		clientRepo:      clientRepo,
		userRepo:        userRepo,
		businessService: businessService,
		storageClient:   storageClient,
		metrics:         m,
		logger:          logger,
	}
}

// ExportFlat generates the flat CSV export of a single form: one row per
// submission in chronological order, submitter and client resolved to display
// names.
func (s *exportServiceImpl) ExportFlat(ctx context.Context, businessID, formID, userID uuid.UUID, from, to *time.Time) (*dto.ExportResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionExportRun) {
		return nil, response.NewForbiddenError("You may not generate exports in this business", "")
	}

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

	filter := repository.SubmissionFilter{FormID: &formID, From: from, To: to}
	submissions, err := s.submissionRepo.FindByBusinessID(ctx, businessID, filter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list submissions", err.Error())
	}
	if len(submissions) == 0 {
		return nil, response.NewAppError(response.ErrCodeEmptyResult, "No submissions to export", "")
	}

	records := s.buildRecords(ctx, submissions, map[uuid.UUID]*domain.Form{formID: form})

	rows := make([]*export.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, export.Flatten(rec))
	}
	table := export.FromRows(rows)

	resp := &dto.ExportResponse{
		FormID:     &formID,
		BusinessID: businessID,
		Kind:       "flat",
		RowCount:   len(table.Rows),
		Headers:    table.Headers,
		Rows:       table.Rows,
	}
	resp.DownloadURL = s.storeArtifact(ctx, businessID, "flat", table)

	if s.metrics != nil {
		s.metrics.IncrementExportGenerated("flat")
	}
	return resp, nil
}

// ExportPivot generates the field-by-date matrix export across every form of
// the business for a closed date range.
func (s *exportServiceImpl) ExportPivot(ctx context.Context, businessID, userID uuid.UUID, start, end time.Time) (*dto.ExportResponse, error) {
	member, err := s.businessService.RequireMember(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(member.RoleName, ActionExportRun) {
		return nil, response.NewForbiddenError("You may not generate exports in this business", "")
	}
	if end.Before(start) {
		return nil, response.NewValidationError("End date must not be before start date", "")
	}

	// Widen to whole days so submissions on the end date itself are included.
	windowFrom := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	windowTo := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, time.UTC)

	filter := repository.SubmissionFilter{From: &windowFrom, To: &windowTo}
	submissions, err := s.submissionRepo.FindByBusinessID(ctx, businessID, filter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list submissions", err.Error())
	}
	if len(submissions) == 0 {
		return nil, response.NewAppError(response.ErrCodeEmptyResult, "No submissions to export", "")
	}

	forms := s.resolveForms(ctx, submissions)
	records := s.buildRecords(ctx, submissions, forms)
	table := export.Pivot(records, start, end)

	resp := &dto.ExportResponse{
		BusinessID: businessID,
		Kind:       "pivot",
		RowCount:   len(table.Rows),
		Headers:    table.Headers,
		Rows:       table.Rows,
	}
	resp.DownloadURL = s.storeArtifact(ctx, businessID, "pivot", table)

	if s.metrics != nil {
		s.metrics.IncrementExportGenerated("pivot")
	}
	return resp, nil
}

// buildRecords resolves submitters, clients and schemas for a batch of
// submissions. Lookup failures degrade to placeholder names rather than
// failing the export.
func (s *exportServiceImpl) buildRecords(ctx context.Context, submissions []*domain.Submission, forms map[uuid.UUID]*domain.Form) []export.SubmissionRecord {
	users := s.resolveUsers(ctx, submissions)
	clients := s.resolveClients(ctx, submissions)

	schemas := make(map[uuid.UUID]schema.Schema, len(forms))
	for id, form := range forms {
		parsed, err := schema.Parse(form.FieldsSchema)
		if err != nil {
			s.logger.Warn("Skipping form with unparseable schema in export",
				zap.String("formId", id.String()), zap.Error(err))
			continue
		}
		schemas[id] = parsed
	}

	records := make([]export.SubmissionRecord, 0, len(submissions))
	for _, sub := range submissions {
		rec := export.SubmissionRecord{CreatedAt: sub.CreatedAt}

		if user, ok := users[sub.SubmittedBy]; ok {
			rec.SubmitterName = user.DisplayName()
			rec.SubmitterInitials = user.Initials()
		}
		if sub.ClientID != nil {
			if cl, ok := clients[*sub.ClientID]; ok {
				rec.ClientName = cl.DisplayName()
			}
		}

		if parsed, ok := schemas[sub.FormID]; ok {
			values, err := schema.DecodeValues(parsed, sub.SubmissionData)
			if err != nil {
				s.logger.Warn("Submission data does not match its form schema",
					zap.String("submissionId", sub.ID.String()), zap.Error(err))
				values = schema.Values{}
			}
			rec.FormResolved = true
			rec.FormTitle = forms[sub.FormID].Title
			rec.Schema = parsed
			rec.Values = values
		}

		records = append(records, rec)
	}
	return records
}

func (s *exportServiceImpl) resolveForms(ctx context.Context, submissions []*domain.Submission) map[uuid.UUID]*domain.Form {
	ids := make([]uuid.UUID, 0, len(submissions))
	seen := make(map[uuid.UUID]bool)
	for _, sub := range submissions {
		if !seen[sub.FormID] {
			seen[sub.FormID] = true
			ids = append(ids, sub.FormID)
		}
	}

	result := make(map[uuid.UUID]*domain.Form, len(ids))
	forms, err := s.formRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to resolve forms for export", zap.Error(err))
		return result
	}
	for _, form := range forms {
		result[form.ID] = form
	}
	return result
}

func (s *exportServiceImpl) resolveUsers(ctx context.Context, submissions []*domain.Submission) map[uuid.UUID]*domain.User {
	ids := make([]uuid.UUID, 0, len(submissions))
	seen := make(map[uuid.UUID]bool)
	for _, sub := range submissions {
		if !seen[sub.SubmittedBy] {
			seen[sub.SubmittedBy] = true
			ids = append(ids, sub.SubmittedBy)
		}
	}

	result := make(map[uuid.UUID]*domain.User, len(ids))
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to resolve submitters for export", zap.Error(err))
		return result
	}
	for _, user := range users {
		result[user.ID] = user
	}
	return result
}

func (s *exportServiceImpl) resolveClients(ctx context.Context, submissions []*domain.Submission) map[uuid.UUID]*domain.Client {
	ids := make([]uuid.UUID, 0, len(submissions))
	seen := make(map[uuid.UUID]bool)
	for _, sub := range submissions {
		if sub.ClientID == nil || seen[*sub.ClientID] {
			continue
		}
		seen[*sub.ClientID] = true
		ids = append(ids, *sub.ClientID)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*domain.Client{}
	}

	result := make(map[uuid.UUID]*domain.Client, len(ids))
	clients, err := s.clientRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to resolve clients for export", zap.Error(err))
		return result
	}
	for _, cl := range clients {
		result[cl.ID] = cl
	}
	return result
}

// storeArtifact uploads the CSV artifact and returns a presigned download URL.
// Storage failures are logged and leave the URL empty; the inline table is
// still returned to the caller.
func (s *exportServiceImpl) storeArtifact(ctx context.Context, businessID uuid.UUID, kind string, table *export.Table) string {
	if s.storageClient == nil {
		return ""
	}

	data, err := table.CSVBytes()
	if err != nil {
		s.logger.Warn("Failed to serialize export artifact", zap.Error(err))
		return ""
	}

	key := s.storageClient.GenerateExportKey(businessID, kind)
	if _, err := s.storageClient.UploadExport(ctx, key, data); err != nil {
		s.logger.Warn("Failed to upload export artifact",
			zap.String("key", key), zap.Error(err))
		return ""
	}

	url, err := s.storageClient.PresignDownload(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to presign export artifact",
			zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}
