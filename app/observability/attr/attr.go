// Package attr provides slog attribute helpers shared by every module.
package attr

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

type correlationKey struct{}

// WithCorrelationID stores a correlation ID on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation ID carried by ctx, or an empty string.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

// ExtractCorrelationID returns the context correlation ID as a log attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String(middleware.CorrelationIDMetadataKey, CorrelationID(ctx))
}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func UserID(id string) slog.Attr { return slog.String("user_id", id) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
