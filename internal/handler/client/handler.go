package client

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nziladragao/agenda-api/internal/authz"
	"github.com/nziladragao/agenda-api/internal/middleware"
	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/service/client"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
	"github.com/nziladragao/agenda-api/pkg/httputil"
)

type Handler struct {
	service *client.Service
}

func NewHandler(service *client.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	clients := r.Group("/clients", auth.RequireCapability(authz.CanManageClients))
	{
		clients.POST("", h.CreateClient)
		clients.GET("", h.ListClients)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeactivateClient)
	}
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid client ID", err))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) ListClients(c *gin.Context) {
	filters := &model.ClientFilters{
		SearchTerm:      c.Query("search"),
		IncludeInactive: c.Query("include_inactive") == "true",
	}

	if status := c.Query("status"); status != "" {
		s := model.ClientStatus(status)
		if !s.Valid() {
			httputil.RespondWithError(c, apperrors.Validation("unknown status", nil))
			return
		}
		filters.Status = s
	}

	clients, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, clients)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid client ID", err))
		return
	}

	var req model.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) DeactivateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid client ID", err))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deactivated": true})
}
