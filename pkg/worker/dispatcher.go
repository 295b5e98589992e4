package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nziladragao/agenda-api/internal/email"
	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
	"github.com/nziladragao/agenda-api/pkg/logger"
	"github.com/nziladragao/agenda-api/pkg/messaging"
	"github.com/nziladragao/agenda-api/pkg/metrics"
)

type DispatcherConfig struct {
	BatchSize      int
	PollInterval   time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	GatewayChannel string
}

// Dispatcher drains the pending notification queue. WhatsApp messages are
// handed to the gateway over the broker; email goes straight out over SMTP.
type Dispatcher struct {
	repo    repository.NotificationRepository
	broker  messaging.Broker
	mailer  email.Sender
	config  DispatcherConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewDispatcher(
	repo repository.NotificationRepository,
	broker messaging.Broker,
	mailer email.Sender,
	config DispatcherConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Dispatcher {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.GatewayChannel == "" {
		panic("GatewayChannel must be set")
	}

	return &Dispatcher{
		repo:    repo,
		broker:  broker,
		mailer:  mailer,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.logger.Info("Starting notification dispatcher")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down notification dispatcher")
			return
		case <-ticker.C:
			if err := d.processBatch(ctx); err != nil {
				d.logger.Error(err, "Failed to process notification batch")
			}
		}
	}
}

// processBatch claims pending rows with SKIP LOCKED and holds the transaction
// open while delivering, so a crash before commit returns the batch to the
// queue untouched.
func (d *Dispatcher) processBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(d.metrics.DeliveryLatency)
	defer timer.ObserveDuration()

	tx, err := d.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback()

	pending, err := d.repo.ListPendingWithLock(ctx, tx, d.config.BatchSize)
	if err != nil {
		d.metrics.DatabaseOperations.WithLabelValues("list_pending", "error").Inc()
		return fmt.Errorf("failed to claim pending notifications: %w", err)
	}
	d.metrics.DatabaseOperations.WithLabelValues("list_pending", "success").Inc()
	d.metrics.QueueDepth.Set(float64(len(pending)))

	if len(pending) == 0 {
		return nil
	}

	for _, n := range pending {
		if err := d.dispatch(ctx, tx, n); err != nil {
			d.logger.Error(err, "Failed to dispatch notification",
				"notification_id", n.ID.String(),
				"channel", string(n.Channel))
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delivery batch: %w", err)
	}

	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, tx *sqlx.Tx, n *model.Notification) error {
	channel := string(n.Channel)

	err := retry(d.config.RetryAttempts, d.config.RetryDelay, func() error {
		return d.deliver(ctx, n)
	}, func() {
		d.metrics.DeliveryRetries.WithLabelValues(channel).Inc()
	})

	if err != nil {
		d.metrics.DeliveriesFailed.WithLabelValues(channel).Inc()
		if markErr := d.repo.MarkFailedTx(ctx, tx, n.ID, err.Error()); markErr != nil {
			d.logger.Error(markErr, "Failed to mark notification failed",
				"notification_id", n.ID.String())
		}
		return err
	}

	d.metrics.DeliveriesProcessed.WithLabelValues(channel).Inc()
	if err := d.repo.MarkSentTx(ctx, tx, n.ID); err != nil {
		d.logger.Error(err, "Failed to mark notification sent",
			"notification_id", n.ID.String())
		return err
	}

	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *model.Notification) error {
	switch n.Channel {
	case model.NotificationChannelWhatsApp:
		return d.broker.Publish(ctx, d.config.GatewayChannel, messaging.Message{
			Type: string(n.Type),
			Payload: map[string]string{
				"phone":   n.Phone,
				"message": n.Message,
			},
		})
	case model.NotificationChannelEmail:
		if n.Recipient == nil {
			return fmt.Errorf("email notification %s has no recipient", n.ID)
		}
		return d.mailer.Send(ctx, *n.Recipient, subjectFor(n.Type), n.Message)
	default:
		return fmt.Errorf("unknown channel %q", n.Channel)
	}
}

func subjectFor(t model.NotificationType) string {
	switch t {
	case model.NotificationTypeConfirmation:
		return "Confirmação de atendimento"
	case model.NotificationTypeReminder:
		return "Lembrete de atendimento"
	case model.NotificationTypeDegreeRelease:
		return "Liberação de grau"
	case model.NotificationTypeBirthday:
		return "Feliz aniversário"
	case model.NotificationTypeCancellation:
		return "Cancelamento de atendimento"
	}
	return "Notificação"
}

func retry(attempts int, delay time.Duration, fn func() error, onRetry func()) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			onRetry()
			time.Sleep(delay)
		}
	}
	return err
}
