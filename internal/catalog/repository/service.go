package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	catalogerrors "jusbook/internal/catalog/errors"
	"jusbook/pkg/model"

	"github.com/google/uuid"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindAll(ctx context.Context) ([]*model.Service, error)
}

// memoryServiceRepository keeps services in insertion order; listings and
// name matching walk that order.
type memoryServiceRepository struct {
	mu           sync.RWMutex
	ordered      []*model.Service
	servicesByID map[string]*model.Service
}

func NewMemoryServiceRepository() ServiceRepository {
	return &memoryServiceRepository{
		servicesByID: make(map[string]*model.Service),
	}
}

func (r *memoryServiceRepository) Create(_ context.Context, service *model.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.ordered {
		if strings.EqualFold(existing.Name, service.Name) {
			return catalogerrors.ErrDuplicateName
		}
	}

	if service.ID == "" {
		service.ID = uuid.NewString()
	}
	service.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := cloneService(service)
	r.ordered = append(r.ordered, stored)
	r.servicesByID[stored.ID] = stored
	return nil
}

func (r *memoryServiceRepository) FindByID(_ context.Context, id string) (*model.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, ok := r.servicesByID[id]
	if !ok {
		return nil, catalogerrors.ErrNotFound
	}
	return cloneService(service), nil
}

func (r *memoryServiceRepository) FindAll(_ context.Context) ([]*model.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]*model.Service, 0, len(r.ordered))
	for _, service := range r.ordered {
		services = append(services, cloneService(service))
	}
	return services, nil
}

func cloneService(s *model.Service) *model.Service {
	c := *s
	c.AvailableSlots = append([]string(nil), s.AvailableSlots...)
	return &c
}
