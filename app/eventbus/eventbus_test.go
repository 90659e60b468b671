package eventbus

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/require"
)

func TestEventBus_InProcessRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eb, err := NewEventBus(ctx, Config{}, logger)
	require.NoError(t, err)
	defer eb.Close()
	require.Equal(t, "gochannel", eb.Backend())

	messages, err := eb.Subscribe(ctx, "tournament.uploaded.v1")
	require.NoError(t, err)

	msg, err := NewJSONMessage("corr-1", map[string]int{"tournament_id": 7})
	require.NoError(t, err)
	require.NoError(t, eb.Publish("tournament.uploaded.v1", msg))

	select {
	case got := <-messages:
		got.Ack()
		require.Equal(t, "corr-1", got.Metadata.Get(middleware.CorrelationIDMetadataKey))

		var payload map[string]int
		require.NoError(t, json.Unmarshal(got.Payload, &payload))
		require.Equal(t, 7, payload["tournament_id"])
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestNewJSONMessage_GeneratesCorrelationID(t *testing.T) {
	msg, err := NewJSONMessage("", struct{}{})
	require.NoError(t, err)
	require.NotEmpty(t, msg.UUID)
	require.NotEmpty(t, msg.Metadata.Get(middleware.CorrelationIDMetadataKey))
	require.Equal(t, "application/json", msg.Metadata.Get("content_type"))
}

func TestEnsureStream_RequiresJetStream(t *testing.T) {
	eb, err := NewEventBus(context.Background(), Config{}, nil)
	require.NoError(t, err)
	defer eb.Close()

	require.ErrorIs(t, eb.EnsureStream(context.Background(), "TOURNAMENTS", "tournament.>"), ErrJetStreamDisabled)
}
