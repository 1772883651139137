package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/service"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/response"
)

// AvailabilityHandler wires weekly availability endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler creates a new handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Replace godoc
// @Summary Set availability
// @Description Replace the caller's weekly availability schedule
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body models.SetAvailabilityRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	if err := h.service.Replace(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "availability updated successfully"})
}

// List godoc
// @Summary Get availability
// @Description List a provider's weekly availability windows
// @Tags Availability
// @Produce json
// @Param providerId path int true "Provider user id"
// @Success 200 {object} response.Envelope
// @Router /availability/{providerId} [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	providerID, ok := int64Param(c, "providerId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid provider id"))
		return
	}

	windows, err := h.service.List(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, windows)
}
