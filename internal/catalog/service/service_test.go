package service

import (
	"context"
	"errors"
	"testing"

	catalogerrors "jusbook/internal/catalog/errors"
	"jusbook/internal/catalog/repository"
	"jusbook/internal/catalog/validator"
	"jusbook/pkg/config"
	apperrors "jusbook/pkg/errors"
	"jusbook/pkg/logger"
	"jusbook/pkg/model"
)

type mockServiceRepository struct {
	createFunc   func(ctx context.Context, service *model.Service) error
	findByIDFunc func(ctx context.Context, id string) (*model.Service, error)
	findAllFunc  func(ctx context.Context) ([]*model.Service, error)
}

func (m *mockServiceRepository) Create(ctx context.Context, service *model.Service) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, service)
	}
	return nil
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockServiceRepository) FindAll(ctx context.Context) ([]*model.Service, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
	}
}

func newSeededService(t *testing.T) CatalogService {
	t.Helper()
	svc := NewCatalogService(repository.NewMemoryServiceRepository(), validator.NewServiceValidator(), testConfig())
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return svc
}

func TestSeedAndGetAllOrder(t *testing.T) {
	svc := newSeededService(t)

	services, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(services) != 3 {
		t.Fatalf("expected 3 services, got %d", len(services))
	}

	expected := []string{"Haircut", "Consultation", "Massage"}
	for i, name := range expected {
		if services[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, services[i].Name)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	svc := newSeededService(t)

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	services, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(services) != 3 {
		t.Errorf("expected 3 services after reseed, got %d", len(services))
	}
}

func TestCreateRejectsInvalidService(t *testing.T) {
	svc := NewCatalogService(repository.NewMemoryServiceRepository(), validator.NewServiceValidator(), testConfig())

	err := svc.Create(context.Background(), &model.Service{
		Name:            "Trim",
		DurationMinutes: 15,
		Price:           10,
		AvailableSlots:  []string{"9am"},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := newSeededService(t)

	err := svc.Create(context.Background(), &model.Service{
		Name:            "haircut",
		DurationMinutes: 20,
		Price:           15,
		AvailableSlots:  []string{"09:00 AM"},
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}

func TestMatchByName(t *testing.T) {
	svc := newSeededService(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"I'd like a haircut please", "Haircut"},
		{"MASSAGE", "Massage"},
		{"book the consultation", "Consultation"},
	}

	for _, tt := range tests {
		service, err := svc.MatchByName(context.Background(), tt.input)
		if err != nil {
			t.Fatalf("MatchByName(%q): unexpected error: %v", tt.input, err)
		}
		if service.Name != tt.expected {
			t.Errorf("MatchByName(%q): expected %s, got %s", tt.input, tt.expected, service.Name)
		}
	}
}

func TestMatchByNameNoMatch(t *testing.T) {
	svc := newSeededService(t)

	_, err := svc.MatchByName(context.Background(), "something else entirely")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestGetByIDErrors(t *testing.T) {
	svc := NewCatalogService(&mockServiceRepository{
		findByIDFunc: func(_ context.Context, _ string) (*model.Service, error) {
			return nil, errors.New("backend down")
		},
	}, validator.NewServiceValidator(), testConfig())

	if _, err := svc.GetByID(context.Background(), ""); err == nil {
		t.Error("expected error for empty ID")
	}

	_, err := svc.GetByID(context.Background(), "some-id")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInternal {
		t.Errorf("expected %s, got %v", apperrors.CodeInternal, err)
	}
}
