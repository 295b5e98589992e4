package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
)

type fakeNotificationRepo struct {
	created []*model.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	n.ID = uuid.New()
	n.Status = model.NotificationStatusPending
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, n *model.Notification) error {
	return f.Create(ctx, n)
}

func (f *fakeNotificationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	for _, n := range f.created {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeNotificationRepo) MarkSent(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Status = model.NotificationStatusSent
	return n, nil
}

func (f *fakeNotificationRepo) MarkSentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	_, err := f.MarkSent(ctx, id)
	return err
}

func (f *fakeNotificationRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*model.Notification, error) {
	n, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Status = model.NotificationStatusError
	n.RetryCount++
	n.LastError = &reason
	return n, nil
}

func (f *fakeNotificationRepo) MarkFailedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, reason string) error {
	_, err := f.MarkFailed(ctx, id, reason)
	return err
}

func (f *fakeNotificationRepo) List(ctx context.Context, _ *model.NotificationFilters) ([]*model.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationRepo) ListPendingWithLock(ctx context.Context, tx *sqlx.Tx, limit int) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return nil, nil
}

func TestEnqueueDefaultsToWhatsApp(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	n, err := svc.Enqueue(context.Background(), &model.EnqueueNotificationRequest{
		Phone:   "+5511999990000",
		Message: "Olá!",
		Type:    model.NotificationTypeReminder,
	})
	require.NoError(t, err)

	assert.Equal(t, model.NotificationChannelWhatsApp, n.Channel)
	assert.Equal(t, model.NotificationStatusPending, n.Status)
}

func TestEnqueueEmailRequiresRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	_, err := svc.Enqueue(context.Background(), &model.EnqueueNotificationRequest{
		Phone:   "+5511999990000",
		Message: "Olá!",
		Type:    model.NotificationTypeBirthday,
		Channel: model.NotificationChannelEmail,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Empty(t, repo.created)
}

func TestEnqueueRejectsUnknownType(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	_, err := svc.Enqueue(context.Background(), &model.EnqueueNotificationRequest{
		Phone:   "+5511999990000",
		Message: "Olá!",
		Type:    model.NotificationType("marketing"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestMarkSentAndFailed(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	n, err := svc.Enqueue(context.Background(), &model.EnqueueNotificationRequest{
		Phone:   "+5511999990000",
		Message: "Olá!",
		Type:    model.NotificationTypeConfirmation,
	})
	require.NoError(t, err)

	sent, err := svc.MarkSent(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusSent, sent.Status)

	failed, err := svc.MarkFailed(context.Background(), n.ID, "gateway timeout")
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusError, failed.Status)
	assert.Equal(t, 1, failed.RetryCount)
	require.NotNil(t, failed.LastError)
	assert.Equal(t, "gateway timeout", *failed.LastError)

	_, err = svc.MarkSent(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
