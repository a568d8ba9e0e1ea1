package handlers

import (
	"net/http"
	"time"

	"agendei/models"
	"agendei/services/booking"
	"agendei/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking session flow over HTTP.
type BookingHandler struct {
	Service booking.BookingSessionService
}

func NewBookingHandler(svc booking.BookingSessionService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// sessionView is what the client renders: the session plus the derived
// morning/afternoon schedule. The schedule is recomputed from the
// snapshot on every response, never stored.
type sessionView struct {
	Session  *models.BookingSession `json:"session"`
	Schedule models.DaySchedule     `json:"schedule"`
}

func newSessionView(session *models.BookingSession) sessionView {
	return sessionView{
		Session:  session,
		Schedule: booking.Partition(session.Availability),
	}
}

// StartSession creates a booking session with the provider handed over
// from navigation preselected.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input struct {
		ProviderID  string `json:"providerId" binding:"required"`
		DeviceToken string `json:"deviceToken"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	auth := getAuthContext(c)
	session, err := h.Service.StartSession(c.Request.Context(), auth, input.ProviderID, input.DeviceToken)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}

// GetSession returns the session with its derived schedule.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}

// SelectProvider switches providers and refetches availability.
func (h *BookingHandler) SelectProvider(c *gin.Context) {
	var input struct {
		ProviderID string `json:"providerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	auth := getAuthContext(c)
	session, err := h.Service.SelectProvider(c.Request.Context(), auth, c.Param("sessionID"), input.ProviderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}

// SelectDate moves the session to another day and refetches availability.
func (h *BookingHandler) SelectDate(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"` // "2006-01-02"
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	date, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	auth := getAuthContext(c)
	session, err := h.Service.SelectDate(c.Request.Context(), auth, c.Param("sessionID"), date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}

// SelectHour records the chosen hour (validated only at confirmation).
func (h *BookingHandler) SelectHour(c *gin.Context) {
	var input struct {
		Hour *int `json:"hour" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Service.SelectHour(c.Request.Context(), c.Param("sessionID"), *input.Hour)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}

// Confirm submits the selection; on success the session is gone and the
// confirmation payload carries the instant (epoch millis) plus the
// formatted display string for the confirmation screen.
func (h *BookingHandler) Confirm(c *gin.Context) {
	auth := getAuthContext(c)
	confirmation, err := h.Service.Confirm(c.Request.Context(), auth, c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

// CancelSession abandons the booking attempt.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Service.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	switch booking.ErrorCode(err) {
	case booking.CodeSessionNotFound:
		utils.JSONCodedError(c, http.StatusNotFound, booking.CodeSessionNotFound, "booking session not found or expired")
	case booking.CodeInvalidInput:
		utils.JSONCodedError(c, http.StatusBadRequest, booking.CodeInvalidInput, err.Error())
	case booking.CodeNoHourSelected:
		utils.JSONCodedError(c, http.StatusBadRequest, booking.CodeNoHourSelected, "select an hour before confirming")
	case booking.CodeSlotUnavailable:
		utils.JSONCodedError(c, http.StatusConflict, booking.CodeSlotUnavailable, "the selected hour is no longer available")
	case booking.CodeSubmitInFlight:
		utils.JSONCodedError(c, http.StatusConflict, booking.CodeSubmitInFlight, "a confirmation is already in progress")
	case booking.CodeSubmissionFailed:
		utils.JSONCodedError(c, http.StatusBadGateway, booking.CodeSubmissionFailed, "could not create the appointment, try again")
	default:
		getLogger(c).Error("booking flow error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}
