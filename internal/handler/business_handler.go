package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careform-api/internal/dto"
	"careform-api/internal/response"
	"careform-api/internal/service"
)

type BusinessHandler struct {
	businessService service.BusinessService
}

func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
	}
}

// CreateBusiness godoc
// @Summary      Create a business
// @Description  Creates a business and enrolls the caller as its OWNER
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBusinessRequest true "Business to create"
// @Success      201 {object} response.SuccessResponse{data=dto.BusinessResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid request"
// @Failure      401 {object} response.ErrorResponse "Not authenticated"
// @Router       /businesses [post]
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	var req dto.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	business, err := h.businessService.CreateBusiness(c.Request.Context(), &req, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, business)
}

// ListBusinesses godoc
// @Summary      List my businesses
// @Description  Lists the businesses the caller is a member of
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.SuccessResponse{data=[]dto.BusinessResponse}
// @Failure      401 {object} response.ErrorResponse "Not authenticated"
// @Router       /businesses [get]
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	businesses, err := h.businessService.ListBusinesses(c.Request.Context(), auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, businesses)
}

// GetBusiness godoc
// @Summary      Get a business
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.BusinessResponse}
// @Failure      403 {object} response.ErrorResponse "Not a member"
// @Failure      404 {object} response.ErrorResponse "Business not found"
// @Router       /businesses/{businessId} [get]
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	business, err := h.businessService.GetBusiness(c.Request.Context(), businessID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, business)
}

// UpdateBusiness godoc
// @Summary      Update a business
// @Description  Updates business profile fields. Owner only.
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        request body dto.UpdateBusinessRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.BusinessResponse}
// @Failure      403 {object} response.ErrorResponse "Not the owner"
// @Router       /businesses/{businessId} [patch]
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	var req dto.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	business, err := h.businessService.UpdateBusiness(c.Request.Context(), businessID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, business)
}

// DeleteBusiness godoc
// @Summary      Delete a business
// @Description  Soft deletes a business. Owner only.
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse "Not the owner"
// @Router       /businesses/{businessId} [delete]
func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	if err := h.businessService.DeleteBusiness(c.Request.Context(), businessID, auth.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Business deleted successfully"})
}

// AddMember godoc
// @Summary      Add a member
// @Description  Adds a user to the business. Owner or manager only; the plan's member limit applies.
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        request body dto.AddBusinessMemberRequest true "Member to add"
// @Success      201 {object} response.SuccessResponse{data=dto.BusinessMemberResponse}
// @Failure      402 {object} response.ErrorResponse "Member limit reached"
// @Failure      409 {object} response.ErrorResponse "Already a member"
// @Router       /businesses/{businessId}/members [post]
func (h *BusinessHandler) AddMember(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	var req dto.AddBusinessMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	member, err := h.businessService.AddMember(c.Request.Context(), businessID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, member)
}

// ListMembers godoc
// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.BusinessMemberResponse}
// @Failure      403 {object} response.ErrorResponse "Not a member"
// @Router       /businesses/{businessId}/members [get]
func (h *BusinessHandler) ListMembers(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	members, err := h.businessService.ListMembers(c.Request.Context(), businessID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, members)
}

// UpdateMemberRole godoc
// @Summary      Change a member's role
// @Description  Changes a member's role. The owner's role cannot be changed.
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        userId path string true "Member user ID (UUID)"
// @Param        request body dto.UpdateBusinessMemberRoleRequest true "New role"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse "Not allowed"
// @Failure      404 {object} response.ErrorResponse "Member not found"
// @Router       /businesses/{businessId}/members/{userId} [patch]
func (h *BusinessHandler) UpdateMemberRole(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	targetUserID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	var req dto.UpdateBusinessMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.businessService.UpdateMemberRole(c.Request.Context(), businessID, auth.UserID, targetUserID, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Member role updated successfully"})
}

// RemoveMember godoc
// @Summary      Remove a member
// @Description  Removes a member from the business. The owner cannot be removed.
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        userId path string true "Member user ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse "Not allowed"
// @Failure      404 {object} response.ErrorResponse "Member not found"
// @Router       /businesses/{businessId}/members/{userId} [delete]
func (h *BusinessHandler) RemoveMember(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	targetUserID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.businessService.RemoveMember(c.Request.Context(), businessID, auth.UserID, targetUserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}

// GetUsage godoc
// @Summary      Get plan usage
// @Description  Reports current resource counts against the plan limits. A limit of -1 means unlimited.
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.BusinessUsageResponse}
// @Failure      403 {object} response.ErrorResponse "Not a member"
// @Router       /businesses/{businessId}/usage [get]
func (h *BusinessHandler) GetUsage(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	usage, err := h.businessService.GetUsage(c.Request.Context(), businessID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, usage)
}

// GetBilling godoc
// @Summary      Get the current plan
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.BillingResponse}
// @Failure      403 {object} response.ErrorResponse "Not a member"
// @Router       /businesses/{businessId}/billing [get]
func (h *BusinessHandler) GetBilling(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	billing, err := h.businessService.GetBilling(c.Request.Context(), businessID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, billing)
}

// CreateCheckout godoc
// @Summary      Start a plan upgrade checkout
// @Description  Starts a hosted checkout flow for a plan upgrade. Owner only.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        request body dto.CreateCheckoutRequest true "Target plan"
// @Success      200 {object} response.SuccessResponse{data=dto.BillingResponse}
// @Failure      403 {object} response.ErrorResponse "Not the owner"
// @Router       /businesses/{businessId}/billing/checkout [post]
func (h *BusinessHandler) CreateCheckout(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	var req dto.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	billing, err := h.businessService.CreateCheckout(c.Request.Context(), businessID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, billing)
}
