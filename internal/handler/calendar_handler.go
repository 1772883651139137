package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/service"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/response"
)

// CalendarHandler wires slot scheduling endpoints.
type CalendarHandler struct {
	booking *service.BookingService
	export  *service.ExportService
}

// NewCalendarHandler creates a new handler.
func NewCalendarHandler(booking *service.BookingService, export *service.ExportService) *CalendarHandler {
	return &CalendarHandler{booking: booking, export: export}
}

// ListEvents godoc
// @Summary List calendar events
// @Description List a provider's slots fully contained in [start, end]
// @Tags Calendar
// @Produce json
// @Param providerId path int true "Provider user id"
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/{providerId} [get]
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	providerID, ok := int64Param(c, "providerId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid provider id"))
		return
	}

	from, to, err := rangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	events, err := h.booking.ListEvents(c.Request.Context(), providerID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, events)
}

// CreateSlot godoc
// @Summary Create calendar slot
// @Description Create a new bookable slot owned by the caller
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.CreateSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar [post]
func (h *CalendarHandler) CreateSlot(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	event, err := h.booking.CreateSlot(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, event)
}

// Book godoc
// @Summary Book slot
// @Description Book an available slot; the caller becomes the customer
// @Tags Calendar
// @Produce json
// @Param eventId path int true "Event id"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /calendar/book/{eventId} [post]
func (h *CalendarHandler) Book(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	eventID, ok := int64Param(c, "eventId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid event id"))
		return
	}

	if err := h.booking.BookSlot(c.Request.Context(), eventID, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "appointment booked successfully"})
}

// Cancel godoc
// @Summary Cancel slot
// @Description Cancel a slot as its provider or booked customer
// @Tags Calendar
// @Produce json
// @Param eventId path int true "Event id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /calendar/cancel/{eventId} [post]
func (h *CalendarHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	eventID, ok := int64Param(c, "eventId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid event id"))
		return
	}

	if err := h.booking.CancelSlot(c.Request.Context(), eventID, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "appointment cancelled successfully"})
}

// Export godoc
// @Summary Export schedule
// @Description Download a provider's schedule in range as CSV or PDF
// @Tags Calendar
// @Produce octet-stream
// @Param providerId path int true "Provider user id"
// @Param format query string false "csv or pdf" default(csv)
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /calendar/{providerId}/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	providerID, ok := int64Param(c, "providerId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid provider id"))
		return
	}

	from, to, err := rangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", service.ExportFormatCSV)
	file, err := h.export.RenderSchedule(c.Request.Context(), providerID, from, to, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func rangeFromQuery(c *gin.Context) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start must be RFC3339")
	}
	to, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end must be RFC3339")
	}
	return from, to, nil
}
