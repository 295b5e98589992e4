package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
	"github.com/nziladragao/agenda-api/pkg/logger"
)

// ReminderWorker enqueues a reminder notification for every confirmed
// appointment happening tomorrow. It fires once per day at RunHour.
type ReminderWorker struct {
	appointments  repository.AppointmentRepository
	notifications repository.NotificationRepository
	clients       repository.ClientRepository
	runHour       int
	logger        *logger.Logger

	lastRun time.Time
}

func NewReminderWorker(
	appointments repository.AppointmentRepository,
	notifications repository.NotificationRepository,
	clients repository.ClientRepository,
	runHour int,
	logger *logger.Logger,
) *ReminderWorker {
	return &ReminderWorker{
		appointments:  appointments,
		notifications: notifications,
		clients:       clients,
		runHour:       runHour,
		logger:        logger,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	w.logger.Info("Starting reminder worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down reminder worker")
			return
		case now := <-ticker.C:
			if !w.due(now) {
				continue
			}
			if err := w.enqueueReminders(ctx, now); err != nil {
				w.logger.Error(err, "Failed to enqueue reminders")
				continue
			}
			w.lastRun = now
		}
	}
}

func (w *ReminderWorker) due(now time.Time) bool {
	if now.Hour() != w.runHour {
		return false
	}
	y1, m1, d1 := now.Date()
	y2, m2, d2 := w.lastRun.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}

func (w *ReminderWorker) enqueueReminders(ctx context.Context, now time.Time) error {
	tomorrow := now.AddDate(0, 0, 1)
	from := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	appointments, err := w.appointments.ListConfirmedBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to list confirmed appointments: %w", err)
	}

	enqueued := 0
	for _, apt := range appointments {
		client, err := w.clients.GetSummary(ctx, apt.ClientID)
		if err != nil {
			w.logger.Error(err, "Failed to resolve client for reminder",
				"appointment_id", apt.ID.String())
			continue
		}
		if client.Phone == nil {
			continue
		}

		aptID := apt.ID
		n := &model.Notification{
			Phone:         *client.Phone,
			Message:       reminderMessage(client.Name, apt.ScheduledAt),
			Type:          model.NotificationTypeReminder,
			Channel:       model.NotificationChannelWhatsApp,
			AppointmentID: &aptID,
		}
		if err := w.notifications.Create(ctx, n); err != nil {
			w.logger.Error(err, "Failed to enqueue reminder",
				"appointment_id", apt.ID.String())
			continue
		}
		enqueued++
	}

	w.logger.Info("Enqueued reminders", "count", enqueued, "appointments", len(appointments))
	return nil
}

func reminderMessage(name string, at time.Time) string {
	return fmt.Sprintf("Olá %s! Lembrete: seu atendimento é amanhã, %s.", name, at.Format("02/01/2006 15:04"))
}
