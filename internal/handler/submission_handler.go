package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"careform-api/internal/domain"
	"careform-api/internal/dto"
	"careform-api/internal/repository"
	"careform-api/internal/response"
	"careform-api/internal/service"
)

type SubmissionHandler struct {
	submissionService service.SubmissionService
}

func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// CreateSubmission godoc
// @Summary      Start a submission draft
// @Description  Creates a draft submission against an active form. The plan's monthly submission limit applies.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        formId path string true "Form ID (UUID)"
// @Param        request body dto.CreateSubmissionRequest true "Initial submission data"
// @Success      201 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "Form not accepting submissions or invalid data"
// @Failure      402 {object} response.ErrorResponse "Monthly submission limit reached"
// @Router       /businesses/{businessId}/forms/{formId}/submissions [post]
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	formID, ok := parseUUIDParam(c, "formId")
	if !ok {
		return
	}

	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	submission, err := h.submissionService.CreateSubmission(c.Request.Context(), businessID, formID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, submission)
}

// ListSubmissions godoc
// @Summary      List submissions
// @Description  Lists the business's submissions in chronological order, optionally filtered by form, client, status and creation date window
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        formId query string false "Filter by form ID (UUID)"
// @Param        clientId query string false "Filter by client ID (UUID)"
// @Param        status query string false "Filter by status" Enums(draft, submitted, reviewed, approved, rejected)
// @Param        from query string false "Creation window start (RFC 3339)"
// @Param        to query string false "Creation window end (RFC 3339)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid filter"
// @Router       /businesses/{businessId}/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	filter, ok := parseSubmissionFilter(c)
	if !ok {
		return
	}

	submissions, err := h.submissionService.ListSubmissions(c.Request.Context(), businessID, auth.UserID, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, submissions)
}

// GetSubmission godoc
// @Summary      Get a submission
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        submissionId path string true "Submission ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      404 {object} response.ErrorResponse "Submission not found"
// @Router       /businesses/{businessId}/submissions/{submissionId} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	submissionID, ok := parseUUIDParam(c, "submissionId")
	if !ok {
		return
	}

	submission, err := h.submissionService.GetSubmission(c.Request.Context(), businessID, submissionID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, submission)
}

// UpdateSubmission godoc
// @Summary      Update submission data
// @Description  Replaces the submission data. Drafts and submitted entries stay editable for the original submitter; reviewed entries do not.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        submissionId path string true "Submission ID (UUID)"
// @Param        request body dto.UpdateSubmissionRequest true "New submission data"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      403 {object} response.ErrorResponse "No longer editable"
// @Router       /businesses/{businessId}/submissions/{submissionId} [patch]
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	submissionID, ok := parseUUIDParam(c, "submissionId")
	if !ok {
		return
	}

	var req dto.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	submission, err := h.submissionService.UpdateSubmission(c.Request.Context(), businessID, submissionID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, submission)
}

// SubmitSubmission godoc
// @Summary      Submit a draft
// @Description  Moves a draft to submitted after checking required fields. A failed check lists the missing field labels in the error details.
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        submissionId path string true "Submission ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "Required fields missing"
// @Router       /businesses/{businessId}/submissions/{submissionId}/submit [post]
func (h *SubmissionHandler) SubmitSubmission(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	submissionID, ok := parseUUIDParam(c, "submissionId")
	if !ok {
		return
	}

	submission, err := h.submissionService.SubmitSubmission(c.Request.Context(), businessID, submissionID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, submission)
}

// ReviewSubmission godoc
// @Summary      Review a submission
// @Description  Approves or rejects a submitted entry, recording the reviewer, timestamp and optional notes. Owner or manager only.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        submissionId path string true "Submission ID (UUID)"
// @Param        request body dto.ReviewSubmissionRequest true "Review decision"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "Already reviewed"
// @Failure      403 {object} response.ErrorResponse "Not a reviewer"
// @Router       /businesses/{businessId}/submissions/{submissionId}/review [post]
func (h *SubmissionHandler) ReviewSubmission(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	submissionID, ok := parseUUIDParam(c, "submissionId")
	if !ok {
		return
	}

	var req dto.ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	submission, err := h.submissionService.ReviewSubmission(c.Request.Context(), businessID, submissionID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, submission)
}

// DeleteSubmission godoc
// @Summary      Delete a draft submission
// @Description  Deletes a draft. Submitted and reviewed entries are retained.
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        submissionId path string true "Submission ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse "Not a draft"
// @Router       /businesses/{businessId}/submissions/{submissionId} [delete]
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	submissionID, ok := parseUUIDParam(c, "submissionId")
	if !ok {
		return
	}

	if err := h.submissionService.DeleteSubmission(c.Request.Context(), businessID, submissionID, auth.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Submission deleted successfully"})
}

// parseSubmissionFilter reads the optional list filters from the query string.
// A false return means the response has already been written.
func parseSubmissionFilter(c *gin.Context) (repository.SubmissionFilter, bool) {
	var filter repository.SubmissionFilter

	if v := c.Query("formId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid formId filter")
			return filter, false
		}
		filter.FormID = &id
	}
	if v := c.Query("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid clientId filter")
			return filter, false
		}
		filter.ClientID = &id
	}
	if v := c.Query("status"); v != "" {
		status := domain.SubmissionStatus(v)
		switch status {
		case domain.SubmissionStatusDraft, domain.SubmissionStatusSubmitted, domain.SubmissionStatusReviewed,
			domain.SubmissionStatusApproved, domain.SubmissionStatusRejected:
			filter.Status = &status
		default:
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid status filter")
			return filter, false
		}
	}
	if v := c.Query("from"); v != "" {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid from filter, expected RFC 3339")
			return filter, false
		}
		filter.From = &at
	}
	if v := c.Query("to"); v != "" {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid to filter, expected RFC 3339")
			return filter, false
		}
		filter.To = &at
	}

	return filter, true
}
