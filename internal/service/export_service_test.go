package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"careform-api/internal/client"
	"careform-api/internal/domain"
	"careform-api/internal/repository"
	"careform-api/internal/response"
)

type exportFixture struct {
	businessID uuid.UUID
	formID     uuid.UUID
	form       *domain.Form
	users      map[uuid.UUID]*domain.User
	clients    map[uuid.UUID]*domain.Client
	storage    *client.MockStorageClient
}

func newExportFixture() *exportFixture {
	businessID := uuid.New()
	formID := uuid.New()
	form := storedForm(businessID, domain.FormStatusActive)
	form.ID = formID

	return &exportFixture{
		businessID: businessID,
		formID:     formID,
		form:       form,
		users:      map[uuid.UUID]*domain.User{},
		clients:    map[uuid.UUID]*domain.Client{},
		storage:    client.NewMockStorageClient(),
	}
}

func (f *exportFixture) addUser(first, last string) uuid.UUID {
	id := uuid.New()
	user := &domain.User{FirstName: first, LastName: last}
	user.ID = id
	f.users[id] = user
	return id
}

func (f *exportFixture) addClient(first, last string) uuid.UUID {
	id := uuid.New()
	cl := &domain.Client{BusinessID: f.businessID, FirstName: first, LastName: last}
	cl.ID = id
	f.clients[id] = cl
	return id
}

func (f *exportFixture) service(submissions []*domain.Submission, role domain.MemberRole) ExportService {
	businessRepo := &mockBusinessRepo{
		FindMemberFunc: func(ctx context.Context, bID, uID uuid.UUID) (*domain.BusinessMember, error) {
			return memberWith(bID, uID, role), nil
		},
	}
	businessSvc := newBusinessServiceForTest(businessRepo, nil)

	submissionRepo := &mockSubmissionRepo{
		FindByBusinessIDFunc: func(ctx context.Context, bID uuid.UUID, filter repository.SubmissionFilter) ([]*domain.Submission, error) {
			return submissions, nil
		},
	}
	formRepo := &mockFormRepo{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
			return f.form, nil
		},
		FindByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]*domain.Form, error) {
			return []*domain.Form{f.form}, nil
		},
	}
	userRepo := &mockUserRepo{
		FindByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
			var out []*domain.User
			for _, id := range ids {
				if u, ok := f.users[id]; ok {
					out = append(out, u)
				}
			}
			return out, nil
		},
	}
	clientRepo := &mockClientRepo{
		FindByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]*domain.Client, error) {
			var out []*domain.Client
			for _, id := range ids {
				if c, ok := f.clients[id]; ok {
					out = append(out, c)
				}
			}
			return out, nil
		},
	}

	return NewExportService(submissionRepo, formRepo, clientRepo, userRepo, businessSvc, f.storage, nil, zap.NewNop())
}

func (f *exportFixture) submission(submitterID uuid.UUID, clientID *uuid.UUID, data string, createdAt time.Time) *domain.Submission {
	sub := &domain.Submission{
		FormID:         f.formID,
		BusinessID:     f.businessID,
		ClientID:       clientID,
		SubmittedBy:    submitterID,
		Status:         domain.SubmissionStatusSubmitted,
		SubmissionData: datatypes.JSON(data),
	}
	sub.ID = uuid.New()
	sub.CreatedAt = createdAt
	return sub
}

func TestExportFlat(t *testing.T) {
	f := newExportFixture()
	aliceID := f.addUser("Alice", "Nguyen")
	bobID := f.addUser("Bob", "Ortiz")
	patientID := f.addClient("Pat", "Smith")

	day := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	subs := []*domain.Submission{
		f.submission(aliceID, &patientID, `{"pain_level":"4","symptoms":["Fever","Cough"],"notes":"morning visit"}`, day),
		f.submission(bobID, nil, `{"pain_level":"2"}`, day.Add(2*time.Hour)),
	}
	svc := f.service(subs, domain.MemberRoleManager)

	resp, err := svc.ExportFlat(context.Background(), f.businessID, f.formID, uuid.New(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "flat", resp.Kind)
	require.NotNil(t, resp.FormID)
	assert.Equal(t, f.formID, *resp.FormID)
	assert.Equal(t, []string{"Submitter", "Client", "Form", "Pain Level", "Symptoms", "Notes"}, resp.Headers)
	require.Equal(t, 2, resp.RowCount)
	assert.Equal(t, []string{"Alice Nguyen", "Pat Smith", "Daily Intake", "4", "Fever, Cough", "morning visit"}, resp.Rows[0])
	assert.Equal(t, []string{"Bob Ortiz", "No Client", "Daily Intake", "2", "", ""}, resp.Rows[1])

	// Artifact lands in storage and the response links it.
	assert.NotEmpty(t, resp.DownloadURL)
	require.Len(t, f.storage.Objects, 1)
	for _, data := range f.storage.Objects {
		assert.Contains(t, string(data), "Alice Nguyen")
	}
}

func TestExportFlatUnresolvedSubmitter(t *testing.T) {
	f := newExportFixture()

	day := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	subs := []*domain.Submission{
		f.submission(uuid.New(), nil, `{"pain_level":"3"}`, day),
	}
	svc := f.service(subs, domain.MemberRoleOwner)

	resp, err := svc.ExportFlat(context.Background(), f.businessID, f.formID, uuid.New(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Unknown User", resp.Rows[0][0])
	assert.Equal(t, "No Client", resp.Rows[0][1])
}

func TestExportFlatEmptyResult(t *testing.T) {
	f := newExportFixture()
	svc := f.service(nil, domain.MemberRoleOwner)

	_, err := svc.ExportFlat(context.Background(), f.businessID, f.formID, uuid.New(), nil, nil)
	assertAppErrorCode(t, err, response.ErrCodeEmptyResult)
	assert.Empty(t, f.storage.Objects)
}

func TestExportForbiddenForStaff(t *testing.T) {
	f := newExportFixture()
	svc := f.service(nil, domain.MemberRoleStaff)

	_, err := svc.ExportFlat(context.Background(), f.businessID, f.formID, uuid.New(), nil, nil)
	assertAppErrorCode(t, err, response.ErrCodeForbidden)

	_, err = svc.ExportPivot(context.Background(), f.businessID, uuid.New(),
		time.Now().AddDate(0, 0, -7), time.Now())
	assertAppErrorCode(t, err, response.ErrCodeForbidden)
}

func TestExportPivot(t *testing.T) {
	f := newExportFixture()
	aliceID := f.addUser("Alice", "Nguyen")
	bobID := f.addUser("Bob", "Ortiz")

	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)

	subs := []*domain.Submission{
		f.submission(aliceID, nil, `{"pain_level":"4"}`, start.Add(10*time.Hour)),
		f.submission(bobID, nil, `{"pain_level":"6"}`, start.Add(14*time.Hour)),
		f.submission(aliceID, nil, `{"pain_level":"3","notes":"improving"}`, end.Add(8*time.Hour)),
	}
	svc := f.service(subs, domain.MemberRoleManager)

	resp, err := svc.ExportPivot(context.Background(), f.businessID, uuid.New(), start, end)
	require.NoError(t, err)

	assert.Equal(t, "pivot", resp.Kind)
	assert.Nil(t, resp.FormID)
	assert.Equal(t, []string{"Field", "2025-06-01", "2025-06-02", "2025-06-03"}, resp.Headers)

	// One row per schema field seen across the records, in schema order.
	require.Equal(t, 3, resp.RowCount)
	painRow := resp.Rows[0]
	assert.Equal(t, "Pain Level", painRow[0])
	assert.Equal(t, "4 (AN)\n6 (BO)", painRow[1])
	assert.Equal(t, "", painRow[2])
	assert.Equal(t, "3 (AN)", painRow[3])

	notesRow := resp.Rows[2]
	assert.Equal(t, "Notes", notesRow[0])
	assert.Equal(t, "improving", notesRow[3][:9])

	assert.NotEmpty(t, resp.DownloadURL)
}

func TestExportPivotRejectsInvertedRange(t *testing.T) {
	f := newExportFixture()
	svc := f.service(nil, domain.MemberRoleOwner)

	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, 5)

	_, err := svc.ExportPivot(context.Background(), f.businessID, uuid.New(), start, end)
	assertAppErrorCode(t, err, response.ErrCodeValidation)
}
