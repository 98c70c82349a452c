package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	bookingerrors "jusbook/internal/booking/errors"
	"jusbook/internal/booking/repository"
	"jusbook/internal/booking/validator"
	"jusbook/internal/events"
	"jusbook/pkg/config"
	apperrors "jusbook/pkg/errors"
	"jusbook/pkg/model"
)

const lockTTL = 10 * time.Second

// BookingService is the slot ledger. Confirm is the only write path that
// creates bookings, and it guarantees at most one confirmed booking per
// (service, date, time) slot. Cancellation flips status and frees the slot
// for rebooking; records are never deleted.
type BookingService interface {
	IsAvailable(ctx context.Context, serviceID, date, timeLabel string) (bool, error)
	Confirm(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListConfirmedForUser(ctx context.Context, userName string) ([]*model.Booking, error)
	CancelAllForUser(ctx context.Context, userName string) ([]*model.Booking, error)
	CancelOldestForUser(ctx context.Context, userName string) (*model.Booking, error)
	CancelByID(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) IsAvailable(ctx context.Context, serviceID, date, timeLabel string) (bool, error) {
	if serviceID == "" || date == "" || timeLabel == "" {
		return false, apperrors.InvalidInput("ServiceID, date and time are required")
	}

	_, err := s.repo.FindConfirmedBySlot(ctx, serviceID, date, timeLabel)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return true, nil
		}
		return false, apperrors.Internal("Failed to check slot availability", err)
	}
	return false, nil
}

func (s *bookingService) Confirm(ctx context.Context, booking *model.Booking) error {
	if booking.Status == "" {
		booking.Status = model.StatusConfirmed
	}

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Invalid booking input", map[string]any{"error": err.Error()})
	}

	// Advisory lock narrows the race window; the transactional slot check
	// below is the guarantee.
	lockID, err := s.acquireSlotLock(ctx, booking.ServiceID, booking.Date, booking.Time)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifySlotFree(txCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm booking", "error", err)
		return err
	}

	s.publisher.BookingConfirmed(ctx, booking)
	s.cfg.Log.Info("Booking confirmed",
		"id", booking.ID,
		"user_name", booking.UserName,
		"service_id", booking.ServiceID,
		"date", booking.Date,
		"time", booking.Time,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) ListConfirmedForUser(ctx context.Context, userName string) ([]*model.Booking, error) {
	if userName == "" {
		return nil, apperrors.InvalidInput("User name cannot be empty")
	}

	bookings, err := s.repo.FindConfirmedByUser(ctx, userName)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve user bookings", err)
	}
	return bookings, nil
}

// CancelAllForUser flips every confirmed booking of the user to cancelled
// and returns them. An empty result means there was nothing to cancel.
func (s *bookingService) CancelAllForUser(ctx context.Context, userName string) ([]*model.Booking, error) {
	if userName == "" {
		return nil, apperrors.InvalidInput("User name cannot be empty")
	}

	var cancelled []*model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		bookings, err := s.repo.FindConfirmedByUser(txCtx, userName)
		if err != nil {
			return apperrors.Internal("Failed to retrieve user bookings", err)
		}
		for _, booking := range bookings {
			if err := s.repo.UpdateStatus(txCtx, booking.ID, model.StatusCancelled); err != nil {
				return apperrors.Internal("Failed to cancel booking", err)
			}
			booking.Status = model.StatusCancelled
			cancelled = append(cancelled, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, booking := range cancelled {
		s.publisher.BookingCancelled(ctx, booking)
	}
	if len(cancelled) > 0 {
		s.cfg.Log.Info("Cancelled user bookings", "user_name", userName, "count", len(cancelled))
	}
	return cancelled, nil
}

// CancelOldestForUser cancels the user's earliest confirmed booking, by
// creation time, and returns it. ErrNotFound-backed errors mean the user
// had nothing confirmed.
func (s *bookingService) CancelOldestForUser(ctx context.Context, userName string) (*model.Booking, error) {
	if userName == "" {
		return nil, apperrors.InvalidInput("User name cannot be empty")
	}

	var oldest *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		bookings, err := s.repo.FindConfirmedByUser(txCtx, userName)
		if err != nil {
			return apperrors.Internal("Failed to retrieve user bookings", err)
		}
		if len(bookings) == 0 {
			return apperrors.Wrap(bookingerrors.ErrNotFound, apperrors.CodeNotFound, "No confirmed bookings to cancel", http.StatusNotFound)
		}
		oldest = bookings[0]
		if err := s.repo.UpdateStatus(txCtx, oldest.ID, model.StatusCancelled); err != nil {
			return apperrors.Internal("Failed to cancel booking", err)
		}
		oldest.Status = model.StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.BookingCancelled(ctx, oldest)
	s.cfg.Log.Info("Cancelled oldest booking", "user_name", userName, "id", oldest.ID)
	return oldest, nil
}

func (s *bookingService) CancelByID(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var cancelled *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to retrieve booking", err)
		}
		if booking.Status == model.StatusCancelled {
			return apperrors.Conflict("Booking is already cancelled")
		}
		if err := s.repo.UpdateStatus(txCtx, id, model.StatusCancelled); err != nil {
			return apperrors.Internal("Failed to cancel booking", err)
		}
		booking.Status = model.StatusCancelled
		cancelled = booking
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.BookingCancelled(ctx, cancelled)
	s.cfg.Log.Info("Booking cancelled", "id", id)
	return nil
}

func (s *bookingService) verifySlotFree(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindConfirmedBySlot(ctx, booking.ServiceID, booking.Date, booking.Time)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if existing != nil {
		return apperrors.Wrap(bookingerrors.ErrSlotConflict, apperrors.CodeConflict,
			fmt.Sprintf("Slot %s %s is already booked for this service", booking.Date, booking.Time), http.StatusConflict)
	}
	return nil
}

func (s *bookingService) acquireSlotLock(ctx context.Context, serviceID, date, timeLabel string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%s_%s", serviceID, date, timeLabel)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(lockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingerrors.ErrLockHeld) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
