package interfaces

import "context"

// NotifyService pushes formatted text messages to the configured chat
// channel. Delivery mechanics are a narrow external contract; failures are
// logged, never fatal to the pipeline.
type NotifyService interface {
	Push(ctx context.Context, message string) error

	// Enabled reports whether a sink is configured; callers may skip
	// formatting work when it is not
	Enabled() bool
}
