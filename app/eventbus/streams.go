package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamName is the JetStream stream holding every bot subject.
const StreamName = "LPBOT"

// StreamSubjects are captured by StreamName.
var StreamSubjects = []string{"lpbot.>"}

// EnsureStream creates the bot stream if it does not exist yet.
func EnsureStream(ctx context.Context, natsURL string, logger *slog.Logger) error {
	conn, err := nc.Connect(natsURL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer conn.Close()

	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	_, err = js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to check stream: %w", err)
	}

	if _, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: StreamSubjects,
	}); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}
	logger.InfoContext(ctx, "Created JetStream stream", attr.String("stream", StreamName))
	return nil
}
