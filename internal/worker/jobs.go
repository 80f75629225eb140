package worker

import (
	"context"

	"github.com/Mkhisamo/learn-english/internal/telegram"
)

// NotifyJob sends one prepared message through a Telegram notifier. Done is
// invoked with the delivery outcome so the submitter can record it.
type NotifyJob struct {
	Notifier telegram.Notifier
	Text     string
	Done     func(err error)
}

func (j *NotifyJob) Name() string { return "telegram-notify" }

func (j *NotifyJob) Run(ctx context.Context) error {
	err := j.Notifier.Send(ctx, j.Text)
	if j.Done != nil {
		j.Done(err)
	}
	return err
}
