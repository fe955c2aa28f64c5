package ports

import "context"

// EmailSender delivers a single email message. Best-effort: implementations
// log failures, callers never abort a surrounding flow on delivery errors.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a single SMS message under the same best-effort contract.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// NotificationDispatcher queues notifications for asynchronous, fire-and-forget
// delivery through the configured senders.
type NotificationDispatcher interface {
	DispatchEmail(to, subject, body string)
	DispatchSMS(to, body string)
}
