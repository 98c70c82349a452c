package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingerrors "jusbook/internal/booking/errors"
	"jusbook/pkg/model"
)

func TestLockHeldUntilDeleted(t *testing.T) {
	r := NewMemoryBookingLockRepository()

	lock := &model.BookingLock{ID: "lock-1", ExpiresAt: time.Now().Add(10 * time.Second)}
	if _, err := r.Create(context.Background(), lock); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	_, err := r.Create(context.Background(), &model.BookingLock{ID: "lock-1", ExpiresAt: time.Now().Add(10 * time.Second)})
	if !errors.Is(err, bookingerrors.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}

	if err := r.Delete(context.Background(), "lock-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := r.Create(context.Background(), &model.BookingLock{ID: "lock-1", ExpiresAt: time.Now().Add(10 * time.Second)}); err != nil {
		t.Errorf("acquire after delete failed: %v", err)
	}
}

func TestExpiredLockIsTakenOver(t *testing.T) {
	r := NewMemoryBookingLockRepository()

	stale := &model.BookingLock{ID: "lock-1", ExpiresAt: time.Now().Add(-time.Second)}
	if _, err := r.Create(context.Background(), stale); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	// The original holder never released; the expired lock must not wedge
	// the slot.
	fresh := &model.BookingLock{ID: "lock-1", ExpiresAt: time.Now().Add(10 * time.Second)}
	if _, err := r.Create(context.Background(), fresh); err != nil {
		t.Errorf("expected takeover of expired lock, got %v", err)
	}
}
