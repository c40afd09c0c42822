package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/planwerk/interviewplanner/libs/config"
	"github.com/planwerk/interviewplanner/libs/db"
	"github.com/planwerk/interviewplanner/libs/httpx"
	"github.com/planwerk/interviewplanner/libs/kafkax"
	otelx "github.com/planwerk/interviewplanner/libs/otel"
	"github.com/planwerk/interviewplanner/libs/runtime"
	"github.com/planwerk/interviewplanner/services/notification-service/internal/consumer"
	"github.com/planwerk/interviewplanner/services/notification-service/internal/email"
	"github.com/planwerk/interviewplanner/services/notification-service/internal/inbox"
	"github.com/planwerk/interviewplanner/services/notification-service/internal/outbox"
	"github.com/planwerk/interviewplanner/services/notification-service/internal/storage"
	"github.com/planwerk/interviewplanner/services/notification-service/internal/webhook"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// bookingPayload mirrors the body planner-service publishes for every
// booking event.
type bookingPayload struct {
	BookingID        string `json:"booking_id"`
	Subject          string `json:"subject"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	From             string `json:"from"`
	To               string `json:"to"`
	InterviewerEmail string `json:"interviewer_email"`
	CandidateEmail   string `json:"candidate_email"`
}

func writeOutboxResult(ctx context.Context, pool *db.Pool, outboxRepo *outbox.Repository, payload bookingPayload, eventType, recipient, reason string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	body := map[string]any{
		"booking_id": payload.BookingID,
		"recipient":  recipient,
		"at":         time.Now().UTC().Format(time.RFC3339),
	}
	if reason != "" {
		body["error_reason"] = reason
	}
	eventPayload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	if err := outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "notification",
		AggregateID:   payload.BookingID,
		EventType:     eventType,
		Payload:       eventPayload,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func emailSubject(eventType string, payload bookingPayload) (string, string) {
	when := fmt.Sprintf("%s %s-%s", payload.Date, payload.From, payload.To)
	switch eventType {
	case "planner.booking.created.v1":
		return "Interview scheduled: " + payload.Subject,
			fmt.Sprintf("Your interview %q is scheduled for %s.\n\n%s", payload.Subject, when, payload.Description)
	case "planner.booking.updated.v1":
		return "Interview rescheduled: " + payload.Subject,
			fmt.Sprintf("Your interview %q has been moved to %s.\n\n%s", payload.Subject, when, payload.Description)
	case "planner.booking.cancelled.v1":
		return "Interview cancelled: " + payload.Subject,
			fmt.Sprintf("Your interview %q on %s has been cancelled.", payload.Subject, when)
	default:
		return "Interview update: " + payload.Subject,
			fmt.Sprintf("Your interview %q: %s.", payload.Subject, when)
	}
}

func main() {
	service := config.String("SERVICE_NAME", "notification-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	inboxRepo := inbox.NewRepository(pool)
	notificationsRepo := storage.NewRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	smtpHost := config.String("SMTP_HOST", "mailpit")
	smtpPort := config.String("SMTP_PORT", "1025")
	smtpFrom := config.String("SMTP_FROM", "no-reply@interviewplanner.local")
	emailSender := email.NewSMTPSender(smtpHost, smtpPort, smtpFrom)

	var notifier webhook.Notifier
	if url := config.String("WEBHOOK_URL", ""); url != "" {
		notifier = webhook.NewHTTPNotifier(url, config.String("WEBHOOK_TOKEN", ""))
	} else {
		notifier = webhook.NewNoopNotifier()
	}

	failSuffix := config.String("NOTIFICATION_FAIL_SUFFIX", "")
	handle := func(ctx context.Context, evt consumer.BookingEvent) error {
		var payload bookingPayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			logger.Error("invalid booking payload", "err", err, "event_type", evt.Type)
			return nil
		}
		if payload.BookingID == "" {
			logger.Error("missing booking id", "event_type", evt.Type)
			return nil
		}

		subject, body := emailSubject(evt.Type, payload)
		recipients := []string{payload.InterviewerEmail, payload.CandidateEmail}
		for _, recipient := range recipients {
			if recipient == "" {
				continue
			}
			status := "sent"
			failureReason := ""
			if failSuffix != "" && strings.HasSuffix(recipient, failSuffix) {
				status = "failed"
				failureReason = "simulated failure"
			} else if err := emailSender.Send(recipient, subject, body); err != nil {
				status = "failed"
				failureReason = err.Error()
				logger.Error("email send failed", "err", err, "recipient", recipient)
			}

			if err := notificationsRepo.Insert(ctx, storage.Notification{
				BookingID: payload.BookingID,
				EventType: evt.Type,
				Channel:   "email",
				Recipient: recipient,
				Subject:   subject,
				Body:      body,
				Status:    status,
			}); err != nil {
				logger.Error("failed to persist notification", "err", err)
				return err
			}

			resultEvent := "notification.sent.v1"
			if status == "failed" {
				resultEvent = "notification.failed.v1"
			}
			if err := writeOutboxResult(ctx, pool, outboxRepo, payload, resultEvent, recipient, failureReason); err != nil {
				logger.Error("failed to enqueue notification result", "err", err)
				return err
			}
		}

		if err := notifier.Notify(ctx, webhook.Notice{
			BookingID: payload.BookingID,
			Event:     evt.Type,
			Subject:   subject,
			Date:      payload.Date,
			From:      payload.From,
			To:        payload.To,
		}); err != nil {
			logger.Error("webhook notify failed", "err", err, "provider", notifier.ProviderID())
		}

		logger.Info("booking event processed", "booking_id", payload.BookingID, "event_type", evt.Type)
		return nil
	}

	startConsumer := func(topic string) {
		if strings.TrimSpace(topic) == "" {
			return
		}
		eventConsumer := consumer.New(logger, inboxRepo, consumer.Config{
			Brokers: config.String("KAFKA_BROKERS", ""),
			GroupID: config.String("KAFKA_GROUP_ID", "notification-service"),
			Topic:   topic,
		}, handle)
		go eventConsumer.Run(ctx)
	}

	startConsumer(config.String("KAFKA_TOPIC_BOOKING_CREATED", "planner.booking.created.v1"))
	startConsumer(config.String("KAFKA_TOPIC_BOOKING_UPDATED", "planner.booking.updated.v1"))
	startConsumer(config.String("KAFKA_TOPIC_BOOKING_CANCELLED", "planner.booking.cancelled.v1"))

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "notification")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
