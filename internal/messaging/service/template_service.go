package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
	"kasir/internal/messaging/template"
)

type TemplateRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.MessageTemplate, error)
	FindAll(ctx context.Context, tenantID string) ([]domain.MessageTemplate, error)
	Insert(ctx context.Context, t domain.MessageTemplate) error
	Update(ctx context.Context, t domain.MessageTemplate) error
	Delete(ctx context.Context, tenantID, id string) error
}

type CreateTemplateInput struct {
	Name     string
	Event    domain.MessageEvent
	Body     string
	IsCustom bool
}

type UpdateTemplateInput struct {
	Name *string
	Body *string
}

// PreviewInput renders either a stored template or an ad hoc body.
type PreviewInput struct {
	TemplateID string
	Body       string
	Variables  map[string]any
}

type TemplateService struct {
	repo TemplateRepository
	now  func() time.Time
}

func NewTemplateService(repo TemplateRepository) *TemplateService {
	return &TemplateService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *TemplateService) Create(ctx context.Context, tenantID string, in CreateTemplateInput) (*domain.MessageTemplate, error) {
	var details []apperrors.ValidationDetail
	if !in.Event.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "event", Message: "unknown message event"})
	}
	details = append(details, validateTemplateFields(in.Name, in.Body)...)
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	now := s.now()
	t := domain.MessageTemplate{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(in.Name),
		Event:     in.Event,
		Body:      in.Body,
		IsCustom:  in.IsCustom || in.Event == domain.EventCustom,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update edits a custom template. System templates are immutable.
func (s *TemplateService) Update(ctx context.Context, tenantID, id string, in UpdateTemplateInput) (*domain.MessageTemplate, error) {
	t, err := s.editable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Body != nil {
		t.Body = *in.Body
	}
	if details := validateTemplateFields(t.Name, t.Body); len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	t.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.editable(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

func (s *TemplateService) FindByID(ctx context.Context, tenantID, id string) (*domain.MessageTemplate, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

func (s *TemplateService) FindAll(ctx context.Context, tenantID string) ([]domain.MessageTemplate, error) {
	return s.repo.FindAll(ctx, tenantID)
}

// Preview reports required and missing variables and, when complete, the rendered text.
func (s *TemplateService) Preview(ctx context.Context, tenantID string, in PreviewInput) (*template.PreviewResult, error) {
	body := in.Body
	if in.TemplateID != "" {
		t, err := s.repo.FindByID(ctx, tenantID, in.TemplateID)
		if err != nil {
			return nil, err
		}
		body = t.Body
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field: "body", Message: "templateId or body is required",
		})
	}

	res := template.Preview(body, in.Variables)
	return &res, nil
}

func (s *TemplateService) editable(ctx context.Context, tenantID, id string) (*domain.MessageTemplate, error) {
	t, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !t.Editable() {
		return nil, apperrors.NewValidationError("system templates cannot be modified", apperrors.ValidationDetail{
			Field: "id", Message: "template is not custom",
		})
	}
	return t, nil
}

func validateTemplateFields(name, body string) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(body) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "body", Message: "body is required"})
	}
	return details
}
