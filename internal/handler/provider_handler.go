package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/service"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/response"
)

// ProviderHandler serves the public provider directory and portfolios.
type ProviderHandler struct {
	service *service.ProviderService
}

// NewProviderHandler creates a new handler.
func NewProviderHandler(svc *service.ProviderService) *ProviderHandler {
	return &ProviderHandler{service: svc}
}

// ListByServiceType godoc
// @Summary List providers
// @Description List providers offering a given service type
// @Tags Providers
// @Produce json
// @Param serviceType path string true "Service type"
// @Success 200 {object} response.Envelope
// @Router /providers/{serviceType} [get]
func (h *ProviderHandler) ListByServiceType(c *gin.Context) {
	providers, err := h.service.ListByServiceType(c.Request.Context(), c.Param("serviceType"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, providers)
}

// AddPortfolioImage godoc
// @Summary Add portfolio image
// @Description Add an image to the caller's provider portfolio
// @Tags Providers
// @Accept json
// @Produce json
// @Param payload body models.AddPortfolioImageRequest true "Image payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /portfolio [post]
func (h *ProviderHandler) AddPortfolioImage(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AddPortfolioImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid portfolio payload"))
		return
	}

	image, err := h.service.AddPortfolioImage(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, image)
}

// ListPortfolio godoc
// @Summary List portfolio
// @Description List a provider's portfolio images
// @Tags Providers
// @Produce json
// @Param providerId path int true "Provider profile id"
// @Success 200 {object} response.Envelope
// @Router /portfolio/{providerId} [get]
func (h *ProviderHandler) ListPortfolio(c *gin.Context) {
	providerID, ok := int64Param(c, "providerId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid provider id"))
		return
	}

	images, err := h.service.ListPortfolioImages(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, images)
}
