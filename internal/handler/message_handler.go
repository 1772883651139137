package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/service"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/response"
)

// MessageHandler wires direct messaging endpoints.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a new handler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Send godoc
// @Summary Send message
// @Description Send a direct message to another user
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body models.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}

	msg, err := h.service.Send(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, msg)
}

// Conversation godoc
// @Summary Get conversation
// @Description List messages exchanged with another user
// @Tags Messages
// @Produce json
// @Param otherUserId path int true "Other user id"
// @Success 200 {object} response.Envelope
// @Router /messages/{otherUserId} [get]
func (h *MessageHandler) Conversation(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	otherUserID, ok := int64Param(c, "otherUserId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user id"))
		return
	}

	messages, err := h.service.Conversation(c.Request.Context(), claims.UserID, otherUserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, messages)
}
