package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/nziladragao/agenda-api/internal/authz"
	"github.com/nziladragao/agenda-api/internal/middleware"
	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/service/notification"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
	"github.com/nziladragao/agenda-api/pkg/httputil"
)

type Handler struct {
	service *notification.Service
}

func NewHandler(service *notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	notifications := r.Group("/notifications", auth.RequireCapability(authz.CanViewQueue))
	{
		notifications.POST("", h.EnqueueNotification)
		notifications.GET("", h.ListNotifications)
	}
}

func (h *Handler) EnqueueNotification(c *gin.Context) {
	var req model.EnqueueNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	queued, err := h.service.Enqueue(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, queued)
}

func (h *Handler) ListNotifications(c *gin.Context) {
	filters := &model.NotificationFilters{}

	if status := c.Query("status"); status != "" {
		s := model.NotificationStatus(status)
		if !s.Valid() {
			httputil.RespondWithError(c, apperrors.Validation("unknown status", nil))
			return
		}
		filters.Status = s
	}

	if t := c.Query("type"); t != "" {
		nt := model.NotificationType(t)
		if !nt.Valid() {
			httputil.RespondWithError(c, apperrors.Validation("unknown type", nil))
			return
		}
		filters.Type = nt
	}

	notifications, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, notifications)
}
