package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careform-api/internal/dto"
	"careform-api/internal/response"
	"careform-api/internal/service"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// CreateClient godoc
// @Summary      Create a client record
// @Description  Creates a client (patient) record in the business. The plan's client limit applies.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        request body dto.CreateClientRequest true "Client to create"
// @Success      201 {object} response.SuccessResponse{data=dto.ClientResponse}
// @Failure      402 {object} response.ErrorResponse "Client limit reached"
// @Failure      403 {object} response.ErrorResponse "Not allowed"
// @Router       /businesses/{businessId}/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), businessID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, client)
}

// ListClients godoc
// @Summary      List clients
// @Description  Lists the business's clients, optionally filtered by a name or email search term
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        q query string false "Search term matched against name and email"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ClientResponse}
// @Failure      403 {object} response.ErrorResponse "Not a member"
// @Router       /businesses/{businessId}/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), businessID, auth.UserID, c.Query("q"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, clients)
}

// GetClient godoc
// @Summary      Get a client record
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        clientId path string true "Client ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ClientResponse}
// @Failure      404 {object} response.ErrorResponse "Client not found"
// @Router       /businesses/{businessId}/clients/{clientId} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), businessID, clientID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, client)
}

// UpdateClient godoc
// @Summary      Update a client record
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        clientId path string true "Client ID (UUID)"
// @Param        request body dto.UpdateClientRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.ClientResponse}
// @Failure      404 {object} response.ErrorResponse "Client not found"
// @Router       /businesses/{businessId}/clients/{clientId} [patch]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), businessID, clientID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, client)
}

// DeleteClient godoc
// @Summary      Delete a client record
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        businessId path string true "Business ID (UUID)"
// @Param        clientId path string true "Client ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse "Client not found"
// @Router       /businesses/{businessId}/clients/{clientId} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), businessID, clientID, auth.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Client deleted successfully"})
}
