package app

import (
	"context"
)

// StartConsumer runs the notification consumer until ctx is cancelled.
func StartConsumer(ctx context.Context, c *Container) {

	// Consume ranges over the delivery channel, so it gets its own goroutine
	go func() {
		if err := c.Consumer.Consume(ctx, c.alertHandler); err != nil {
			c.Logger.Error().
				Err(err).
				Msg("rabbitmq consumer stopped")
		}
	}()
}
