package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nats-io/nats.go/jetstream"
)

// ErrJetStreamDisabled is returned when stream management is requested
// without a NATS connection.
var ErrJetStreamDisabled = errors.New("jetstream is not enabled")

// EnsureStream creates the stream if it is missing, or adds the subject to an
// existing stream that does not capture it yet.
func (eb *EventBus) EnsureStream(ctx context.Context, streamName, subject string) error {
	if eb.js == nil {
		return ErrJetStreamDisabled
	}

	stream, err := eb.js.Stream(ctx, streamName)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		_, err = eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: []string{subject},
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		eb.logger.InfoContext(ctx, "Created JetStream stream", slog.String("stream", streamName), slog.String("subject", subject))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check stream: %w", err)
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stream info: %w", err)
	}
	if slices.Contains(info.Config.Subjects, subject) {
		return nil
	}

	info.Config.Subjects = append(info.Config.Subjects, subject)
	if _, err := eb.js.UpdateStream(ctx, info.Config); err != nil {
		return fmt.Errorf("failed to update stream with new subject: %w", err)
	}
	eb.logger.InfoContext(ctx, "Stream updated with new subject", slog.String("stream", streamName), slog.String("subject", subject))
	return nil
}
