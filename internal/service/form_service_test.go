package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"careform-api/internal/domain"
	"careform-api/internal/dto"
	"careform-api/internal/response"
)

const intakeSchemaJSON = `[
	{"id":"pain_level","type":"number","label":"Pain Level","required":true},
	{"id":"symptoms","type":"checkbox","label":"Symptoms","required":true,"options":["Fever","Cough","Fatigue"]},
	{"id":"notes","type":"textarea","label":"Notes","required":false}
]`

func newFormServiceForTest(formRepo *mockFormRepo, role domain.MemberRole) FormService {
	businessRepo := &mockBusinessRepo{
		FindMemberFunc: func(ctx context.Context, bID, uID uuid.UUID) (*domain.BusinessMember, error) {
			return memberWith(bID, uID, role), nil
		},
	}
	businessSvc := newBusinessServiceForTest(businessRepo, nil)
	return NewFormService(formRepo, businessSvc, nil, zap.NewNop())
}

func storedForm(businessID uuid.UUID, status domain.FormStatus) *domain.Form {
	return &domain.Form{
		BusinessID:   businessID,
		CreatedBy:    uuid.New(),
		Title:        "Daily Intake",
		Status:       status,
		Version:      1,
		FieldsSchema: datatypes.JSON(intakeSchemaJSON),
	}
}

func TestCreateFormStartsAsDraft(t *testing.T) {
	businessID := uuid.New()
	var created *domain.Form

	formRepo := &mockFormRepo{
		CreateFunc: func(ctx context.Context, f *domain.Form) error {
			f.ID = uuid.New()
			created = f
			return nil
		},
	}
	svc := newFormServiceForTest(formRepo, domain.MemberRoleManager)

	resp, err := svc.CreateForm(context.Background(), businessID, uuid.New(), &dto.CreateFormRequest{
		Title:        "Daily Intake",
		FieldsSchema: json.RawMessage(intakeSchemaJSON),
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.Status)
	assert.Equal(t, 1, resp.Version)

	require.NotNil(t, created)
	assert.Equal(t, domain.FormStatusDraft, created.Status)
}

func TestCreateFormRejectsInvalidSchema(t *testing.T) {
	svc := newFormServiceForTest(&mockFormRepo{}, domain.MemberRoleOwner)

	tests := []struct {
		name   string
		schema string
	}{
		{"unknown field type", `[{"id":"a","type":"signature","label":"Sign"}]`},
		{"duplicate id", `[{"id":"a","type":"text","label":"A"},{"id":"a","type":"text","label":"B"}]`},
		{"duplicate option", `[{"id":"a","type":"select","label":"A","options":["x","x"]}]`},
		{"not an array", `{"id":"a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateForm(context.Background(), uuid.New(), uuid.New(), &dto.CreateFormRequest{
				Title:        "Bad",
				FieldsSchema: json.RawMessage(tt.schema),
			})
			assertAppErrorCode(t, err, response.ErrCodeValidation)
		})
	}
}

func TestCreateFormEnforcesPlanLimit(t *testing.T) {
	formRepo := &mockFormRepo{
		CountByBusinessIDFunc: func(ctx context.Context, bID uuid.UUID) (int64, error) {
			return 3, nil
		},
	}
	svc := newFormServiceForTest(formRepo, domain.MemberRoleOwner) // free plan allows 3 forms

	_, err := svc.CreateForm(context.Background(), uuid.New(), uuid.New(), &dto.CreateFormRequest{
		Title:        "One Too Many",
		FieldsSchema: json.RawMessage(intakeSchemaJSON),
	})
	assertAppErrorCode(t, err, response.ErrCodeLimitExceeded)
}

func TestStaffCannotCreateForms(t *testing.T) {
	svc := newFormServiceForTest(&mockFormRepo{}, domain.MemberRoleStaff)

	_, err := svc.CreateForm(context.Background(), uuid.New(), uuid.New(), &dto.CreateFormRequest{
		Title:        "Daily Intake",
		FieldsSchema: json.RawMessage(intakeSchemaJSON),
	})
	assertAppErrorCode(t, err, response.ErrCodeForbidden)
}

func TestUpdateFormBumpsVersionOnSchemaChange(t *testing.T) {
	businessID := uuid.New()
	form := storedForm(businessID, domain.FormStatusDraft)
	form.ID = uuid.New()

	formRepo := &mockFormRepo{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
			return form, nil
		},
	}
	svc := newFormServiceForTest(formRepo, domain.MemberRoleManager)

	changed := `[{"id":"pain_level","type":"number","label":"Pain Level (0-10)","required":true}]`
	resp, err := svc.UpdateForm(context.Background(), businessID, form.ID, uuid.New(), &dto.UpdateFormRequest{
		FieldsSchema: json.RawMessage(changed),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Version)
}

func TestUpdateFormKeepsVersionWhenSchemaUnchanged(t *testing.T) {
	businessID := uuid.New()
	form := storedForm(businessID, domain.FormStatusActive)
	form.ID = uuid.New()

	// Canonical encoding of the stored document so only whitespace differs.
	parsedTitle := "Renamed Intake"

	formRepo := &mockFormRepo{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
			return form, nil
		},
	}
	svc := newFormServiceForTest(formRepo, domain.MemberRoleManager)

	resp, err := svc.UpdateForm(context.Background(), businessID, form.ID, uuid.New(), &dto.UpdateFormRequest{
		Title:        &parsedTitle,
		FieldsSchema: json.RawMessage(intakeSchemaJSON),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Version)
	assert.Equal(t, "Renamed Intake", resp.Title)
}

func TestUpdateFormRejectsArchived(t *testing.T) {
	businessID := uuid.New()
	form := storedForm(businessID, domain.FormStatusArchived)
	form.ID = uuid.New()

	formRepo := &mockFormRepo{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
			return form, nil
		},
	}
	svc := newFormServiceForTest(formRepo, domain.MemberRoleOwner)

	title := "Too Late"
	_, err := svc.UpdateForm(context.Background(), businessID, form.ID, uuid.New(), &dto.UpdateFormRequest{Title: &title})
	assertAppErrorCode(t, err, response.ErrCodeValidation)
}

func TestUpdateFormStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.FormStatus
		to      string
		allowed bool
	}{
		{"draft to active", domain.FormStatusDraft, "active", true},
		{"draft to archived", domain.FormStatusDraft, "archived", true},
		{"draft to inactive", domain.FormStatusDraft, "inactive", false},
		{"active to inactive", domain.FormStatusActive, "inactive", true},
		{"active to draft", domain.FormStatusActive, "draft", false},
		{"inactive to active", domain.FormStatusInactive, "active", true},
		{"archived to active", domain.FormStatusArchived, "active", false},
		{"archived to draft", domain.FormStatusArchived, "draft", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			businessID := uuid.New()
			form := storedForm(businessID, tt.from)
			form.ID = uuid.New()

			formRepo := &mockFormRepo{
				FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
					return form, nil
				},
			}
			svc := newFormServiceForTest(formRepo, domain.MemberRoleManager)

			resp, err := svc.UpdateFormStatus(context.Background(), businessID, form.ID, uuid.New(),
				&dto.UpdateFormStatusRequest{Status: tt.to})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, resp.Status)
			} else {
				assertAppErrorCode(t, err, response.ErrCodeValidation)
			}
		})
	}
}

func TestUpdateFormStatusSameStatusIsNoOp(t *testing.T) {
	businessID := uuid.New()
	form := storedForm(businessID, domain.FormStatusActive)
	form.ID = uuid.New()

	formRepo := &mockFormRepo{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
			return form, nil
		},
		UpdateFunc: func(ctx context.Context, f *domain.Form) error {
			t.Fatal("no update expected for a same-status request")
			return nil
		},
	}
	svc := newFormServiceForTest(formRepo, domain.MemberRoleOwner)

	resp, err := svc.UpdateFormStatus(context.Background(), businessID, form.ID, uuid.New(),
		&dto.UpdateFormStatusRequest{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}

func TestGetFormScopedToBusiness(t *testing.T) {
	otherBusiness := uuid.New()
	form := storedForm(otherBusiness, domain.FormStatusActive)
	form.ID = uuid.New()

	formRepo := &mockFormRepo{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
			return form, nil
		},
	}
	svc := newFormServiceForTest(formRepo, domain.MemberRoleOwner)

	_, err := svc.GetForm(context.Background(), uuid.New(), form.ID, uuid.New())
	assertAppErrorCode(t, err, response.ErrCodeNotFound)
}

func TestRenderForm(t *testing.T) {
	businessID := uuid.New()
	form := storedForm(businessID, domain.FormStatusActive)
	form.ID = uuid.New()

	formRepo := &mockFormRepo{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
			return form, nil
		},
	}
	svc := newFormServiceForTest(formRepo, domain.MemberRoleStaff)

	resp, err := svc.RenderForm(context.Background(), businessID, form.ID, uuid.New(), "preview")
	require.NoError(t, err)
	assert.Equal(t, "preview", resp.Mode)
	require.Len(t, resp.Controls, 3)
	assert.Equal(t, "pain_level", resp.Controls[0].FieldID)
	assert.True(t, resp.Controls[0].Disabled)
	assert.Equal(t, []string{"Fever", "Cough", "Fatigue"}, resp.Controls[1].Options)

	fill, err := svc.RenderForm(context.Background(), businessID, form.ID, uuid.New(), "fill")
	require.NoError(t, err)
	assert.False(t, fill.Controls[0].Disabled)

	_, err = svc.RenderForm(context.Background(), businessID, form.ID, uuid.New(), "print")
	assertAppErrorCode(t, err, response.ErrCodeValidation)
}
