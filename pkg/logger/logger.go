// Package logger wraps log/slog with request correlation.
//
// WithCtx returns a logger that already carries the request ID, so handler
// code never threads it by hand:
//
//	logger.WithCtx(r.Context()).Info("sweet purchased", "sweet_id", id)
//	// time=... level=INFO msg="sweet purchased" request_id=a1b2c3d4 sweet_id=7
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/sweetshop/config"
)

// L is the process-wide base logger. Production gets JSON for aggregators,
// everything else gets the readable text handler at debug level.
var L = newBase()

func init() {
	slog.SetDefault(L)
}

func newBase() *slog.Logger {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
}

// EnableMongoSink copies every record to MongoDB alongside stdout. Boot
// calls it when MONGO_LOG_URI is set and closes the returned handler at
// shutdown.
func EnableMongoSink(uri, db, collection string) (*MongoHandler, error) {
	sink, err := NewMongoHandler(uri, db, collection)
	if err != nil {
		return nil, err
	}
	L = slog.New(NewMultiHandler(L.Handler(), sink))
	slog.SetDefault(L)
	return sink, nil
}

type ctxKey struct{}

// WithCtx returns the per-request logger planted by the Logger middleware,
// falling back to the base logger outside a request.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a pre-tagged logger in ctx. Only the Logger
// middleware needs this.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Package-level helpers on the base logger.

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
