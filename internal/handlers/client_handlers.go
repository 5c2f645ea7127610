package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"clients_admin/internal/models"
	"clients_admin/internal/services"
	"clients_admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

func parseClientID(c *gin.Context) (int64, bool) {
	clientID, err := utils.StrToInt64(c.Param("id"))
	if err != nil || clientID <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Некорректный идентификатор", c.Param("id")))
		return 0, false
	}
	return clientID, true
}

// respondServiceError maps service errors onto API responses.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.RespondValidationFailed(c, vErr.Message, vErr.Field)
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Клиент не найден", err.Error()))
	case errors.Is(err, services.ErrClientInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Клиент используется в других записях и не может быть удален", err.Error()))
	default:
		utils.LogError(err, fallback)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, err.Error()))
	}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondValidationFailed(c, "Некорректный формат запроса", err.Error())
		return
	}

	client, err := h.clientService.CreateClient(req)
	if err != nil {
		respondServiceError(c, err, "Не удалось создать клиента")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// parseClientFilter reads the optional list filters. Blank values are ignored.
func parseClientFilter(c *gin.Context) (models.ClientFilter, error) {
	var filter models.ClientFilter

	parseBound := func(key string) (*float64, error) {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			return nil, nil
		}
		value, err := utils.StrToFloat64(raw)
		if err != nil {
			return nil, errors.New("Некорректный фильтр: " + key)
		}
		return &value, nil
	}

	var err error
	if filter.MinBalance, err = parseBound("min_balance"); err != nil {
		return filter, err
	}
	if filter.MaxBalance, err = parseBound("max_balance"); err != nil {
		return filter, err
	}
	if raw := strings.TrimSpace(c.Query("has_email")); raw != "" {
		hasEmail, perr := parseFlag(raw)
		if perr != nil {
			return filter, errors.New("Некорректный фильтр: has_email")
		}
		filter.HasEmail = &hasEmail
	}
	if prefix := strings.TrimSpace(c.Query("surname_prefix")); prefix != "" {
		filter.SurnamePrefix = &prefix
	}
	return filter, nil
}

// parseFlag accepts HTML checkbox "on" in addition to strconv.ParseBool forms.
func parseFlag(raw string) (bool, error) {
	if strings.EqualFold(raw, "on") {
		return true, nil
	}
	return strconv.ParseBool(raw)
}

// GetClients handles fetching all clients matching the optional filters.
func (h *ClientHandler) GetClients(c *gin.Context) {
	filter, err := parseClientFilter(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error(), c.Request.URL.RawQuery))
		return
	}

	clients, err := h.clientService.GetClients(filter)
	if err != nil {
		respondServiceError(c, err, "Не удалось загрузить список клиентов")
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		respondServiceError(c, err, "Не удалось загрузить данные клиента")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles the full replacement of a client's editable fields.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	var req services.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateClient: Failed to bind JSON for ID "+utils.Int64ToStr(clientID))
		utils.RespondValidationFailed(c, "Некорректный формат запроса", err.Error())
		return
	}

	client, err := h.clientService.UpdateClient(clientID, req)
	if err != nil {
		respondServiceError(c, err, "Не удалось обновить клиента")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(clientID); err != nil {
		respondServiceError(c, err, "Не удалось удалить клиента")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Клиент удален"})
}
