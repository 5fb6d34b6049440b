package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/meridianhq/meridian-erp/pkg/configuration"
	"github.com/meridianhq/meridian-erp/pkg/constants"
)

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, falling back to the
// application logger when the middleware did not run.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(configuration.Use().Logger())
	}
	return logger.(*logrus.Entry)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}

func UseRequestID(ctx context.Context) string {
	id := ctx.Value(constants.RequestIDKey)
	if id == nil {
		return ""
	}
	return id.(string)
}
