package mailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	welcomeSubject      = "Welcome to the Task Manager"
	cancellationSubject = "Sorry to see you go!"
)

// Notifier sends account lifecycle emails without blocking the caller.
type Notifier struct {
	sender  Sender
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewNotifier(sender Sender, log *zap.Logger, timeout time.Duration) *Notifier {
	return &Notifier{
		sender:  sender,
		log:     log,
		timeout: timeout,
	}
}

// SendWelcome greets a newly registered user.
func (n *Notifier) SendWelcome(email, name string) {
	n.dispatch(Message{
		ToEmail: email,
		ToName:  name,
		Subject: welcomeSubject,
		Text:    fmt.Sprintf("Welcome to the app, %s. I hope you enjoy!", name),
	})
}

// SendCancellation says goodbye to a user who deleted their account.
func (n *Notifier) SendCancellation(email, name string) {
	n.dispatch(Message{
		ToEmail: email,
		ToName:  name,
		Subject: cancellationSubject,
		Text:    fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon", name),
	})
}

// Wait blocks until all in-flight sends have returned.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(msg Message) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx := context.Background()
		if n.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, n.timeout)
			defer cancel()
		}

		if err := n.sender.Send(ctx, msg); err != nil {
			n.log.Warn("email delivery failed",
				zap.String("to", msg.ToEmail),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
}
