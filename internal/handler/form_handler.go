package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careform-api/internal/dto"
	"careform-api/internal/response"
	"careform-api/internal/service"
)

type FormHandler struct {
	formService service.FormService
}

func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{
		formService: formService,
	}
}

// CreateForm godoc
// @Summary      Create a form
// @Description  Creates a draft form. The fields schema is validated structurally; the plan's form limit applies.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        request body dto.CreateFormRequest true "Form to create"
// @Success      201 {object} response.SuccessResponse{data=dto.FormResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid schema"
// @Failure      402 {object} response.ErrorResponse "Form limit reached"
// @Router       /businesses/{businessId}/forms [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	var req dto.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	form, err := h.formService.CreateForm(c.Request.Context(), businessID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, form)
}

// ListForms godoc
// @Summary      List forms
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        status query string false "Filter by status" Enums(draft, active, inactive, archived)
// @Success      200 {object} response.SuccessResponse{data=[]dto.FormResponse}
// @Failure      403 {object} response.ErrorResponse "Not a member"
// @Router       /businesses/{businessId}/forms [get]
func (h *FormHandler) ListForms(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	forms, err := h.formService.ListForms(c.Request.Context(), businessID, auth.UserID, c.Query("status"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, forms)
}

// GetForm godoc
// @Summary      Get a form
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        formId path string true "Form ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.FormResponse}
// @Failure      404 {object} response.ErrorResponse "Form not found"
// @Router       /businesses/{businessId}/forms/{formId} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
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

	form, err := h.formService.GetForm(c.Request.Context(), businessID, formID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, form)
}

// UpdateForm godoc
// @Summary      Update a form
// @Description  Updates form metadata and schema. A changed schema bumps the form version; archived forms cannot be edited.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        formId path string true "Form ID (UUID)"
// @Param        request body dto.UpdateFormRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.FormResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid schema or archived form"
// @Router       /businesses/{businessId}/forms/{formId} [patch]
func (h *FormHandler) UpdateForm(c *gin.Context) {
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

	var req dto.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	form, err := h.formService.UpdateForm(c.Request.Context(), businessID, formID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, form)
}

// UpdateFormStatus godoc
// @Summary      Change form status
// @Description  Applies a lifecycle transition. Allowed edges: draft to active or archived, active to inactive or archived, inactive to active or archived. Archived is terminal.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        formId path string true "Form ID (UUID)"
// @Param        request body dto.UpdateFormStatusRequest true "Target status"
// @Success      200 {object} response.SuccessResponse{data=dto.FormResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid transition"
// @Router       /businesses/{businessId}/forms/{formId}/status [patch]
func (h *FormHandler) UpdateFormStatus(c *gin.Context) {
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

	var req dto.UpdateFormStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	form, err := h.formService.UpdateFormStatus(c.Request.Context(), businessID, formID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, form)
}

// DeleteForm godoc
// @Summary      Delete a form
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        formId path string true "Form ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse "Form not found"
// @Router       /businesses/{businessId}/forms/{formId} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
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

	if err := h.formService.DeleteForm(c.Request.Context(), businessID, formID, auth.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Form deleted successfully"})
}

// RenderForm godoc
// @Summary      Render a form
// @Description  Renders the form's controls for display. Mode fill returns editable controls, mode preview returns disabled controls.
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        formId path string true "Form ID (UUID)"
// @Param        mode query string false "Render mode" Enums(fill, preview) default(fill)
// @Success      200 {object} response.SuccessResponse{data=dto.RenderedFormResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid mode"
// @Router       /businesses/{businessId}/forms/{formId}/render [get]
func (h *FormHandler) RenderForm(c *gin.Context) {
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

	mode := c.DefaultQuery("mode", "fill")

	rendered, err := h.formService.RenderForm(c.Request.Context(), businessID, formID, auth.UserID, mode)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, rendered)
}
