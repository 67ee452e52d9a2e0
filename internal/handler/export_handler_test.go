package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"careform-api/internal/dto"
	"careform-api/internal/response"
)

func TestExportHandler_ExportFlat(t *testing.T) {
	businessID := uuid.New()
	formID := uuid.New()

	tests := []struct {
		name           string
		query          string
		mockService    func(*testing.T, *MockExportService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "returns the table with a download link",
			mockService: func(t *testing.T, m *MockExportService) {
				m.ExportFlatFunc = func(ctx context.Context, gotBusinessID, gotFormID, userID uuid.UUID, from, to *time.Time) (*dto.ExportResponse, error) {
					return &dto.ExportResponse{
						FormID:      &gotFormID,
						BusinessID:  gotBusinessID,
						Kind:        "flat",
						RowCount:    1,
						Headers:     []string{"Submitter", "Client", "Pain Level"},
						Rows:        [][]string{{"Alice Nguyen", "Pat Smith", "4"}},
						DownloadURL: "https://storage.example.com/exports/file.csv",
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp response.SuccessResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}

				dataBytes, _ := json.Marshal(resp.Data)
				var export dto.ExportResponse
				if err := json.Unmarshal(dataBytes, &export); err != nil {
					t.Fatalf("Failed to unmarshal data: %v", err)
				}

				if export.Kind != "flat" {
					t.Errorf("Expected kind 'flat', got '%s'", export.Kind)
				}
				if len(export.Headers) != 3 {
					t.Errorf("Expected 3 headers, got %d", len(export.Headers))
				}
				if export.DownloadURL == "" {
					t.Error("Expected a download URL")
				}
			},
		},
		{
			name:  "widens the to date to end of day",
			query: "?from=2025-06-01&to=2025-06-03",
			mockService: func(t *testing.T, m *MockExportService) {
				m.ExportFlatFunc = func(ctx context.Context, businessID, formID, userID uuid.UUID, from, to *time.Time) (*dto.ExportResponse, error) {
					if from == nil || !from.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
						t.Errorf("Expected from 2025-06-01, got %v", from)
					}
					if to == nil || to.Day() != 3 || to.Hour() != 23 {
						t.Errorf("Expected to at end of 2025-06-03, got %v", to)
					}
					return &dto.ExportResponse{Kind: "flat"}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "empty window returns a notice",
			mockService: func(t *testing.T, m *MockExportService) {
				m.ExportFlatFunc = func(ctx context.Context, businessID, formID, userID uuid.UUID, from, to *time.Time) (*dto.ExportResponse, error) {
					return nil, response.NewAppError(response.ErrCodeEmptyResult, "No submissions to export", "")
				}
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp response.SuccessResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				if !resp.Success {
					t.Error("Expected success envelope")
				}
				if resp.Message != "No submissions to export" {
					t.Errorf("Expected notice message, got '%s'", resp.Message)
				}
			},
		},
		{
			name: "staff are not allowed",
			mockService: func(t *testing.T, m *MockExportService) {
				m.ExportFlatFunc = func(ctx context.Context, businessID, formID, userID uuid.UUID, from, to *time.Time) (*dto.ExportResponse, error) {
					return nil, response.NewForbiddenError("You are not allowed to run exports", "")
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "rejects a malformed from date",
			query:          "?from=01/06/2025",
			mockService:    func(t *testing.T, m *MockExportService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockExportService{}
			tt.mockService(t, mockService)
			handler := NewExportHandler(mockService)

			router := setupTestRouter()
			router.GET("/businesses/:businessId/forms/:formId/exports/flat", handler.ExportFlat)

			url := "/businesses/" + businessID.String() + "/forms/" + formID.String() + "/exports/flat" + tt.query
			req := httptest.NewRequest(http.MethodGet, url, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("ExportFlat() status = %v, want %v", w.Code, tt.expectedStatus)
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestExportHandler_ExportPivot(t *testing.T) {
	businessID := uuid.New()

	tests := []struct {
		name           string
		query          string
		mockService    func(*MockExportService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:  "returns the field-by-date matrix",
			query: "?start=2025-06-01&end=2025-06-03",
			mockService: func(m *MockExportService) {
				m.ExportPivotFunc = func(ctx context.Context, gotBusinessID, userID uuid.UUID, start, end time.Time) (*dto.ExportResponse, error) {
					return &dto.ExportResponse{
						BusinessID: gotBusinessID,
						Kind:       "pivot",
						RowCount:   2,
						Headers:    []string{"Field", "2025-06-01", "2025-06-02", "2025-06-03"},
						Rows: [][]string{
							{"Pain Level", "4 (AN)", "", "3 (AN)"},
							{"Symptoms", "Fever (AN)", "", ""},
						},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp response.SuccessResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}

				dataBytes, _ := json.Marshal(resp.Data)
				var export dto.ExportResponse
				if err := json.Unmarshal(dataBytes, &export); err != nil {
					t.Fatalf("Failed to unmarshal data: %v", err)
				}

				if export.Kind != "pivot" {
					t.Errorf("Expected kind 'pivot', got '%s'", export.Kind)
				}
				if export.Headers[0] != "Field" {
					t.Errorf("Expected first header 'Field', got '%s'", export.Headers[0])
				}
			},
		},
		{
			name:           "start date is required",
			query:          "?end=2025-06-03",
			mockService:    func(m *MockExportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "inverted range is rejected",
			query: "?start=2025-06-03&end=2025-06-01",
			mockService: func(m *MockExportService) {
				m.ExportPivotFunc = func(ctx context.Context, businessID, userID uuid.UUID, start, end time.Time) (*dto.ExportResponse, error) {
					return nil, response.NewValidationError("End date must not be before start date", "")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockExportService{}
			tt.mockService(mockService)
			handler := NewExportHandler(mockService)

			router := setupTestRouter()
			router.GET("/businesses/:businessId/exports/pivot", handler.ExportPivot)

			url := "/businesses/" + businessID.String() + "/exports/pivot" + tt.query
			req := httptest.NewRequest(http.MethodGet, url, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("ExportPivot() status = %v, want %v", w.Code, tt.expectedStatus)
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}
