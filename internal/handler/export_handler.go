package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"careform-api/internal/response"
	"careform-api/internal/service"
)

const exportDateLayout = "2006-01-02"

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportFlat godoc
// @Summary      Flat CSV export of a form
// @Description  Generates the flat export of a form: one row per submission in chronological order, with resolved submitter and client names. The table is returned inline and uploaded as a CSV artifact with a presigned download link. Owner or manager only.
// @Tags         exports
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        formId path string true "Form ID (UUID)"
// @Param        from query string false "Creation window start (YYYY-MM-DD)"
// @Param        to query string false "Creation window end (YYYY-MM-DD)"
// @Success      200 {object} response.SuccessResponse{data=dto.ExportResponse}
// @Failure      403 {object} response.ErrorResponse "Not allowed"
// @Failure      404 {object} response.ErrorResponse "Form not found"
// @Router       /businesses/{businessId}/forms/{formId}/exports/flat [get]
func (h *ExportHandler) ExportFlat(c *gin.Context) {
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

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		at, err := time.Parse(exportDateLayout, v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = &at
	}
	if v := c.Query("to"); v != "" {
		at, err := time.Parse(exportDateLayout, v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		end := at.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	export, err := h.exportService.ExportFlat(c.Request.Context(), businessID, formID, auth.UserID, from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, export)
}

// ExportPivot godoc
// @Summary      Pivot CSV export of a business
// @Description  Generates the field-by-date matrix export across every form of the business for a closed date range. Cells hold the day's answers as "value (INITIALS)" entries. Owner or manager only.
// @Tags         exports
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        start query string true "Range start (YYYY-MM-DD)"
// @Param        end query string true "Range end (YYYY-MM-DD)"
// @Success      200 {object} response.SuccessResponse{data=dto.ExportResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid range"
// @Failure      403 {object} response.ErrorResponse "Not allowed"
// @Router       /businesses/{businessId}/exports/pivot [get]
func (h *ExportHandler) ExportPivot(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	start, err := time.Parse(exportDateLayout, c.Query("start"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid or missing start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(exportDateLayout, c.Query("end"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid or missing end date, expected YYYY-MM-DD")
		return
	}

	export, err := h.exportService.ExportPivot(c.Request.Context(), businessID, auth.UserID, start, end)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, export)
}
