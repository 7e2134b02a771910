package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerKey    = ctxKey{"logger"}
	requestIDKey = ctxKey{"request_id"}
)

// WithLogger returns ctx carrying logger. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if l := fromContext(ctx); l != nil {
		return l
	}
	return Default()
}

// Ctx is shorthand for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// HasLogger reports whether ctx carries its own logger.
func HasLogger(ctx context.Context) bool {
	return fromContext(ctx) != nil
}

func fromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return nil
	}
	l, _ := ctx.Value(loggerKey).(*zerolog.Logger)
	return l
}

// WithRequestID stores the HTTP request id and adds it to the logger.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("request_id", requestID)
	})
}

// RequestID returns the request id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithProvider tags log lines with the provider being called.
func WithProvider(ctx context.Context, providerID string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("provider_id", providerID)
	})
}

// WithFood tags log lines with the FoodData Central id being reconciled.
func WithFood(ctx context.Context, fdcID int64) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Int64("fdc_id", fdcID)
	})
}

// WithQuery tags log lines with a search query.
func WithQuery(ctx context.Context, query string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("query", query)
	})
}

// WithOperation tags log lines with the operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("operation", operation)
	})
}

// WithError attaches err to the logger. A nil err returns ctx unchanged.
func WithError(ctx context.Context, err error) context.Context {
	if err == nil {
		return ctx
	}
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Err(err)
	})
}

func with(ctx context.Context, add func(zerolog.Context) zerolog.Context) context.Context {
	l := add(FromContext(ctx).With()).Logger()
	return WithLogger(ctx, &l)
}
