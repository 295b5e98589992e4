package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
)

// Service is the notification queue. It records intent; the worker binary
// performs delivery and flips status through MarkSent/MarkFailed.
type Service struct {
	repo repository.NotificationRepository
}

func NewService(repo repository.NotificationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Enqueue(ctx context.Context, req *model.EnqueueNotificationRequest) (*model.Notification, error) {
	channel := req.Channel
	if channel == "" {
		channel = model.NotificationChannelWhatsApp
	}
	if channel == model.NotificationChannelEmail && req.Recipient == nil {
		return nil, apperrors.Validation("email notifications require a recipient address", nil)
	}
	if !req.Type.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown notification type %q", req.Type), nil)
	}

	n := &model.Notification{
		Phone:         req.Phone,
		Message:       req.Message,
		Type:          req.Type,
		Channel:       channel,
		Recipient:     req.Recipient,
		AppointmentID: req.AppointmentID,
		UserID:        req.UserID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return n, nil
}

func (s *Service) MarkSent(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.MarkSent(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("notification", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark sent: %w", err)
	}
	return n, nil
}

func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*model.Notification, error) {
	n, err := s.repo.MarkFailed(ctx, id, reason)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("notification", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark failed: %w", err)
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, filters *model.NotificationFilters) ([]*model.Notification, error) {
	notifications, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
