package repository

import (
	"context"
	"sync"
	"time"

	bookingerrors "jusbook/internal/booking/errors"
	mongotx "jusbook/pkg/db/mongo"
	"jusbook/pkg/model"

	"github.com/google/uuid"
)

// memoryBookingRepository is the default ledger backend when no Mongo
// deployment is configured. txMu serializes ExecuteTransaction bodies so a
// check-then-create sequence observes a stable ledger.
type memoryBookingRepository struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	ordered      []*model.Booking
	bookingsByID map[string]*model.Booking
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{
		bookingsByID: make(map[string]*model.Booking),
	}
}

func (r *memoryBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := *booking
	r.ordered = append(r.ordered, &stored)
	r.bookingsByID[stored.ID] = &stored
	return nil
}

func (r *memoryBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookingsByID[id]
	if !ok {
		return nil, bookingerrors.ErrNotFound
	}
	c := *booking
	return &c, nil
}

func (r *memoryBookingRepository) FindAll(_ context.Context, limit int, offset int64) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset >= int64(len(r.ordered)) {
		return []*model.Booking{}, nil
	}

	end := int(offset) + limit
	if limit <= 0 || end > len(r.ordered) {
		end = len(r.ordered)
	}

	bookings := make([]*model.Booking, 0, end-int(offset))
	for _, booking := range r.ordered[offset:end] {
		c := *booking
		bookings = append(bookings, &c)
	}
	return bookings, nil
}

func (r *memoryBookingRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.ordered)), nil
}

func (r *memoryBookingRepository) FindConfirmedBySlot(_ context.Context, serviceID, date, timeLabel string) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, booking := range r.ordered {
		if booking.ServiceID == serviceID && booking.Date == date &&
			booking.Time == timeLabel && booking.Status == model.StatusConfirmed {
			c := *booking
			return &c, nil
		}
	}
	return nil, bookingerrors.ErrNotFound
}

func (r *memoryBookingRepository) FindConfirmedByUser(_ context.Context, userName string) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bookings []*model.Booking
	for _, booking := range r.ordered {
		if booking.UserName == userName && booking.Status == model.StatusConfirmed {
			c := *booking
			bookings = append(bookings, &c)
		}
	}
	return bookings, nil
}

func (r *memoryBookingRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookingsByID[id]
	if !ok {
		return bookingerrors.ErrNotFound
	}
	booking.Status = status
	return nil
}

func (r *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(ctx)
}

// memoryBookingLockRepository mirrors the Mongo advisory lock semantics: a
// second Create for the same unexpired ID fails with ErrLockHeld.
type memoryBookingLockRepository struct {
	mu    sync.Mutex
	locks map[string]*model.BookingLock
}

func NewMemoryBookingLockRepository() BookingLockRepository {
	return &memoryBookingLockRepository{
		locks: make(map[string]*model.BookingLock),
	}
}

func (r *memoryBookingLockRepository) Create(_ context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.locks[lock.ID]; ok && existing.ExpiresAt.After(time.Now()) {
		return nil, bookingerrors.ErrLockHeld
	}

	lock.CreatedAt = time.Now()
	r.locks[lock.ID] = lock
	return lock, nil
}

func (r *memoryBookingLockRepository) Delete(_ context.Context, lockID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, lockID)
	return nil
}
