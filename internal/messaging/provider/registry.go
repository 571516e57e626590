package provider

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"go.uber.org/zap"

	apperrors "kasir/internal/errors"
)

const (
	TypeWebhook = "webhook"
	TypeLog     = "log"
)

// Factory builds a provider from a tenant's opaque key/value configuration.
type Factory func(config map[string]string) (Provider, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry registers the built-in webhook and log providers.
func NewDefaultRegistry(client *http.Client, logger *zap.Logger) *Registry {
	r := NewRegistry()
	r.Register(TypeWebhook, func(config map[string]string) (Provider, error) {
		return NewWebhookProvider(client, config)
	})
	r.Register(TypeLog, func(config map[string]string) (Provider, error) {
		return NewLogProvider(logger), nil
	})
	return r
}

func (r *Registry) Register(providerType string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[providerType] = f
}

// Build returns a traced provider for providerType.
func (r *Registry) Build(providerType string, config map[string]string) (Provider, error) {
	r.mu.RLock()
	f, ok := r.factories[providerType]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported messaging provider %q", providerType), apperrors.ValidationDetail{
			Field:   "provider",
			Message: fmt.Sprintf("must be one of %v", r.Types()),
		})
	}

	p, err := f(config)
	if err != nil {
		return nil, err
	}
	return NewTracingProvider(p), nil
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
