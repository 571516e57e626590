package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
)

type ConfigRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.MessagingConfig, error)
	FindActive(ctx context.Context, tenantID string) (*domain.MessagingConfig, error)
	Insert(ctx context.Context, c domain.MessagingConfig) error
	DeactivateAll(ctx context.Context, tenantID string) error
	SetActive(ctx context.Context, tenantID, id string, active bool) error
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CreateConfigInput struct {
	Provider string
	Config   map[string]string
	Activate bool
}

type ConfigService struct {
	repo      ConfigRepository
	tx        TransactionManager
	providers ProviderFactory
	logger    *zap.Logger
	now       func() time.Time
}

func NewConfigService(repo ConfigRepository, tx TransactionManager, providers ProviderFactory, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		repo:      repo,
		tx:        tx,
		providers: providers,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a provider configuration after checking the provider accepts it.
func (s *ConfigService) Create(ctx context.Context, tenantID string, in CreateConfigInput) (*domain.MessagingConfig, error) {
	in.Provider = strings.TrimSpace(in.Provider)
	if in.Provider == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field: "provider", Message: "provider is required",
		})
	}
	if in.Config == nil {
		in.Config = map[string]string{}
	}
	if _, err := s.providers.Build(in.Provider, in.Config); err != nil {
		return nil, err
	}

	now := s.now()
	cfg := domain.MessagingConfig{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Provider:  in.Provider,
		Config:    in.Config,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, cfg); err != nil {
			return err
		}
		if !in.Activate {
			return nil
		}
		_, err := s.activate(ctx, tenantID, cfg.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	cfg.IsActive = in.Activate
	return &cfg, nil
}

// Activate makes configID the tenant's only active configuration.
func (s *ConfigService) Activate(ctx context.Context, tenantID, configID string) (*domain.MessagingConfig, error) {
	var cfg *domain.MessagingConfig
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		cfg, err = s.activate(ctx, tenantID, configID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("messaging config activated", zap.String("tenantId", tenantID), zap.String("configId", configID), zap.String("provider", cfg.Provider))
	return cfg, nil
}

func (s *ConfigService) activate(ctx context.Context, tenantID, configID string) (*domain.MessagingConfig, error) {
	cfg, err := s.repo.FindByID(ctx, tenantID, configID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeactivateAll(ctx, tenantID); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, tenantID, configID, true); err != nil {
		return nil, err
	}
	cfg.IsActive = true
	return cfg, nil
}

func (s *ConfigService) FindActive(ctx context.Context, tenantID string) (*domain.MessagingConfig, error) {
	return s.repo.FindActive(ctx, tenantID)
}
