package service

import (
	"context"
	"errors"
	"strings"

	catalogerrors "jusbook/internal/catalog/errors"
	"jusbook/internal/catalog/repository"
	"jusbook/internal/catalog/validator"
	"jusbook/pkg/config"
	apperrors "jusbook/pkg/errors"
	"jusbook/pkg/model"
	"jusbook/pkg/sanitizer"
)

type CatalogService interface {
	Create(ctx context.Context, service *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	GetAll(ctx context.Context) ([]*model.Service, error)
	MatchByName(ctx context.Context, text string) (*model.Service, error)
	Seed(ctx context.Context) error
}

type catalogService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewCatalogService(
	repo repository.ServiceRepository,
	validator *validator.ServiceValidator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *catalogService) Create(ctx context.Context, service *model.Service) error {
	service.Name = sanitizer.TrimAndNormalize(service.Name)

	if err := s.validator.Validate(service); err != nil {
		s.cfg.Log.Warn("Service validation failed", "name", service.Name, "error", err)
		return apperrors.Validation("Invalid service input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, service); err != nil {
		if errors.Is(err, catalogerrors.ErrDuplicateName) {
			return apperrors.Conflict("A service with this name already exists")
		}
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created", "id", service.ID, "name", service.Name)
	return nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	service, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service", id)
		}
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}
	return service, nil
}

func (s *catalogService) GetAll(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve services", err)
	}
	return services, nil
}

// MatchByName returns the first service, in catalog order, whose name
// appears as a case-insensitive substring of text. "book a haircut please"
// matches Haircut.
func (s *catalogService) MatchByName(ctx context.Context, text string) (*model.Service, error) {
	text = sanitizer.NormalizeLabel(text)

	services, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve services", err)
	}

	for _, service := range services {
		if strings.Contains(text, sanitizer.NormalizeLabel(service.Name)) {
			return service, nil
		}
	}
	return nil, apperrors.NotFound("Service")
}

// Seed loads the sample catalog. Duplicate names are skipped so restarts
// against a persistent store stay idempotent.
func (s *catalogService) Seed(ctx context.Context) error {
	samples := []*model.Service{
		{Name: "Haircut", DurationMinutes: 30, Price: 25.0, AvailableSlots: []string{"09:00 AM", "10:00 AM", "11:00 AM", "02:00 PM", "03:00 PM", "04:00 PM"}},
		{Name: "Consultation", DurationMinutes: 60, Price: 50.0, AvailableSlots: []string{"09:00 AM", "11:00 AM", "02:00 PM", "04:00 PM"}},
		{Name: "Massage", DurationMinutes: 90, Price: 80.0, AvailableSlots: []string{"09:00 AM", "11:00 AM", "02:00 PM"}},
	}

	for _, sample := range samples {
		if err := s.repo.Create(ctx, sample); err != nil {
			if errors.Is(err, catalogerrors.ErrDuplicateName) {
				continue
			}
			return apperrors.Internal("Failed to seed services", err)
		}
	}

	s.cfg.Log.Info("Sample services seeded", "count", len(samples))
	return nil
}
