package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Mailer delivers a rendered email. Implementations wrap SMTP or a
// transactional provider.
type Mailer interface {
	Send(ctx context.Context, to, subject, template string, tmplCtx map[string]any) error
}

// LogMailer writes emails to the log instead of sending them. Used in
// development and tests.
type LogMailer struct {
	Logger *slog.Logger
}

// Send logs the email.
func (m LogMailer) Send(ctx context.Context, to, subject, template string, tmplCtx map[string]any) error {
	m.Logger.Info("mail delivered",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("template", template))
	return nil
}

// Worker consumes background tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// NewWorker constructs a Worker for the given Redis address.
func NewWorker(redisAddr string, mailer Mailer, logger *slog.Logger) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{"mail": 5, "default": 1},
		},
	)
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeMailSend, mailHandler(mailer, logger))
	return &Worker{server: server, mux: mux, logger: logger}
}

// Run blocks processing tasks until Shutdown.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func mailHandler(mailer Mailer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p MailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			// malformed payload will never succeed, skip retries
			return fmt.Errorf("jobs: unmarshal mail payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := mailer.Send(ctx, p.To, p.Subject, p.Template, p.Context); err != nil {
			logger.Warn("mail delivery failed",
				slog.String("to", p.To), slog.String("template", p.Template), slog.Any("error", err))
			return err
		}
		return nil
	}
}
