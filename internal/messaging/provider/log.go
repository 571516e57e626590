package provider

import (
	"context"

	"go.uber.org/zap"
)

// LogProvider writes messages to the application log instead of a vendor.
// Intended for development tenants.
type LogProvider struct {
	logger *zap.Logger
}

func NewLogProvider(logger *zap.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Name() string {
	return TypeLog
}

func (p *LogProvider) Send(ctx context.Context, recipient, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.logger.Info("message delivered to log provider",
		zap.String("recipient", recipient),
		zap.String("message", message),
	)
	return `{"status":"logged"}`, nil
}

func (p *LogProvider) TestConnection(ctx context.Context) error {
	return ctx.Err()
}
