package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nziladragao/agenda-api/internal/authz"
	"github.com/nziladragao/agenda-api/internal/middleware"
	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/service/appointment"
	"github.com/nziladragao/agenda-api/internal/service/slot"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
	"github.com/nziladragao/agenda-api/pkg/httputil"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *appointment.Service
	slots   *slot.Service
}

func NewHandler(service *appointment.Service, slots *slot.Service) *Handler {
	return &Handler{service: service, slots: slots}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/slots", h.ListAvailableSlots)
		appointments.POST("/slots",
			auth.RequireCapability(authz.CanManageSlots), h.PublishSlot)
		appointments.POST("/slots/:id/release",
			auth.RequireCapability(authz.CanManageSlots), h.ReleaseSlot)

		appointments.POST("",
			auth.RequireCapability(authz.CanBookFor), h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id/status", h.UpdateStatus)
		appointments.POST("/:id/payment", h.RecordPayment)
		appointments.POST("/:id/outcome",
			auth.RequireCapability(authz.CanRecordOutcome), h.RecordOutcome)
	}
}

func (h *Handler) ListAvailableSlots(c *gin.Context) {
	filters := &model.SlotFilters{}

	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid date, expected YYYY-MM-DD", err))
			return
		}
		filters.Date = &parsed
	}

	if id := c.Query("practitioner_id"); id != "" {
		practitionerID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid practitioner ID", err))
			return
		}
		filters.PractitionerID = practitionerID
	}

	slots, err := h.slots.ListAvailable(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, slots)
}

func (h *Handler) PublishSlot(c *gin.Context) {
	var req model.PublishSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	published, err := h.slots.Publish(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, published)
}

func (h *Handler) ReleaseSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid slot ID", err))
		return
	}

	released, err := h.slots.Release(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, released)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	apt, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if id := c.Query("client_id"); id != "" {
		clientID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid client ID", err))
			return
		}
		filters.ClientID = clientID
	}

	if id := c.Query("practitioner_id"); id != "" {
		practitionerID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid practitioner ID", err))
			return
		}
		filters.PractitionerID = practitionerID
	}

	if status := c.Query("status"); status != "" {
		s := model.AppointmentStatus(status)
		if !s.Valid() {
			httputil.RespondWithError(c, apperrors.Validation("unknown status", nil))
			return
		}
		filters.Status = s
	}

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid from timestamp", err))
			return
		}
		filters.From = parsed
	}

	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid to timestamp", err))
			return
		}
		filters.To = parsed
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	apt, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	apt, err := h.service.RecordPayment(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) RecordOutcome(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	var req model.RecordOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	apt, err := h.service.RecordOutcome(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}
