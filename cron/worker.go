package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"slotline/config"
	"slotline/models"
	"slotline/services/notification"
)

const TypeReminderSend = "reminder:send"

// reminderLeadTime is how far ahead of the appointment the reminder fires.
const reminderLeadTime = 24 * time.Hour

// ReminderPayload is the task body for a scheduled reminder.
type ReminderPayload struct {
	Email   string                `json:"email"`
	Details models.BookingDetails `json:"details"`
}

// AsynqReminderScheduler enqueues reminder tasks for later delivery.
type AsynqReminderScheduler struct {
	client *asynq.Client
}

// NewReminderScheduler builds the scheduler on the reminder queue Redis DB.
func NewReminderScheduler() *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client: asynq.NewClient(redisOpts()),
	}
}

// ScheduleReminder enqueues a reminder to run ahead of the appointment start.
// Appointments closer than the lead time get the reminder immediately.
func (s *AsynqReminderScheduler) ScheduleReminder(email string, details models.BookingDetails, start time.Time) error {
	payload, err := json.Marshal(ReminderPayload{Email: email, Details: details})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	processAt := start.Add(-reminderLeadTime)
	if processAt.Before(time.Now()) {
		processAt = time.Now()
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(processAt)); err != nil {
		return fmt.Errorf("failed to enqueue reminder for %s: %w", details.Reference, err)
	}
	return nil
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(notifSvc notification.NotificationService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(notifSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		log.Printf("[ReminderHandler] sending reminder for %s to %s", p.Details.Reference, p.Email)
		if err := notifSvc.SendReminder(p.Email, p.Details); err != nil {
			log.Printf("[ReminderHandler] reminder send failed for %s: %v", p.Details.Reference, err)
			return err
		}
		return nil
	}
}
