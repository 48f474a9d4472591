package mfa

import (
	"context"
	"encoding/json"
	"time"

	"youchat/internal/infrastructure/mail"
	qport "youchat/internal/infrastructure/queue/port"
)

// SendCodeTaskType is the queue task name for delivering a login code.
const SendCodeTaskType = "mfa:send_code"

// SendCodePayload is the JSON payload transported via the queue.
type SendCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// QueueDispatcher hands codes to the background queue; the worker side does
// the actual SMTP delivery with retries. An enqueue failure is the delivery
// error the challenge store reports.
type QueueDispatcher struct {
	client qport.Client
}

func NewQueueDispatcher(client qport.Client) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

var _ Dispatcher = (*QueueDispatcher)(nil)

func (d *QueueDispatcher) Dispatch(email, code string) error {
	payload, err := json.Marshal(SendCodePayload{Email: email, Code: code})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = d.client.Enqueue(ctx, qport.Task{Type: SendCodeTaskType, Payload: payload}, qport.EnqueueOption{
		Queue:    "mail",
		MaxRetry: 3,
		// The code is useless after expiry; no point retrying beyond it.
		Deadline: time.Now().Add(ChallengeTTL),
	})
	return err
}

// DirectDispatcher delivers synchronously, used when no queue is configured.
type DirectDispatcher struct {
	sender mail.Sender
}

func NewDirectDispatcher(sender mail.Sender) *DirectDispatcher {
	return &DirectDispatcher{sender: sender}
}

var _ Dispatcher = (*DirectDispatcher)(nil)

func (d *DirectDispatcher) Dispatch(email, code string) error {
	return d.sender.SendMfaCode(email, code)
}

// RegisterSendCodeTask binds the delivery handler to the queue server.
func RegisterSendCodeTask(srv qport.Server, sender mail.Sender) {
	srv.Register(SendCodeTaskType, func(ctx context.Context, t qport.Task) error {
		var p SendCodePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}
		return sender.SendMfaCode(p.Email, p.Code)
	})
}
