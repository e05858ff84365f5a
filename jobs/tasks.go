// Package jobs defines background task payloads and the asynq client/worker
// pair that processes them. Email dispatch is fire-and-forget from the
// request path; failures retry here without rolling back the originating
// transaction.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TypeMailSend is the task type for outbound email.
const TypeMailSend = "mail:send"

// MailPayload carries a templated email job.
type MailPayload struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Context  map[string]any `json:"context,omitempty"`
}

// NewMailTask builds an asynq task for the payload.
func NewMailTask(p MailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMailSend, data), nil
}
