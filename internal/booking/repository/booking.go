package repository

import (
	"context"

	mongotx "jusbook/pkg/db/mongo"
	"jusbook/pkg/model"
)

// BookingRepository is the booking ledger's storage contract. Bookings are
// append-only records; cancellation is a status flip, never a delete.
// Listing methods return bookings in creation order.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	FindConfirmedBySlot(ctx context.Context, serviceID, date, timeLabel string) (*model.Booking, error)
	FindConfirmedByUser(ctx context.Context, userName string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// BookingLockRepository provides operations for advisory slot locks.
// Create returns ErrLockHeld when an unexpired lock already exists for the
// same ID.
type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	Delete(ctx context.Context, lockID string) error
}
