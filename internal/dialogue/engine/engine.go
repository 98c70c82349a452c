// Package engine implements the conversation state machine. A turn runs
// goodbye detection first, then the global intents, then the handler for
// the session's current state. All failures degrade to a re-prompt reply;
// the conversation never surfaces a raw error.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	bookingerrors "jusbook/internal/booking/errors"
	bookingservice "jusbook/internal/booking/service"
	catalogservice "jusbook/internal/catalog/service"
	"jusbook/internal/intent"
	"jusbook/internal/timeparse"
	"jusbook/pkg/clock"
	apperrors "jusbook/pkg/errors"
	"jusbook/pkg/logger"
	"jusbook/pkg/model"
)

const (
	replyGoodbye      = "Goodbye! Thank you for using JusBook. Have a great day!"
	replySessionEnded = "The session has ended. Please start a new session to continue."
	replyCompleted    = "Your booking is complete. Please start a new session to make another booking."
	replyWelcome      = "Welcome to JusBook! I'm your AI assistant. What's your name?"
	replyNameRetry    = "I didn't catch your name. Could you tell me again?"
	replyDateRetry    = "I couldn't understand the date and time. Please try something like 'tomorrow at 2 PM'."
	replyConfirmRetry = "Please say 'yes' to confirm or 'no' to start over."
	replyStartOver    = "No problem! Let's start over. Which service would you like?"
	replyNoBookings   = "You have no active bookings."
	replyNoCancel     = "You have no active bookings to cancel."
	replyCancelled    = "Your bookings have been cancelled successfully."
	replyNoUpdate     = "You have no bookings to update. Let's create a new booking."
	replyFallback     = "I'm sorry, I didn't understand. Could you try again?"
)

// Classifier is the slice of the intent package the engine needs;
// injectable so tests can force a specific label.
type Classifier interface {
	Classify(text string) intent.Label
}

type Engine struct {
	classifier Classifier
	parser     timeparse.Parser
	catalog    catalogservice.CatalogService
	ledger     bookingservice.BookingService
	clock      clock.Clock
	log        *logger.Logger
}

func NewEngine(
	classifier Classifier,
	parser timeparse.Parser,
	catalog catalogservice.CatalogService,
	ledger bookingservice.BookingService,
	clk clock.Clock,
	log *logger.Logger,
) *Engine {
	return &Engine{
		classifier: classifier,
		parser:     parser,
		catalog:    catalog,
		ledger:     ledger,
		clock:      clk,
		log:        log,
	}
}

// GreetingText is the message returned when a session starts, before any
// turn has run.
func (e *Engine) GreetingText() string {
	return "Welcome to JusBook! Say Hi"
}

// Respond runs one turn: it may mutate the session's state and selections
// and returns the assistant reply. The caller holds the session lock.
func (e *Engine) Respond(ctx context.Context, session *model.Session, input string) string {
	// Goodbye short-circuits everything, terminal states included, so a
	// repeated goodbye gets the same farewell.
	if intent.IsGoodbye(input) {
		session.State = model.StateEnded
		return replyGoodbye
	}

	switch session.State {
	case model.StateEnded:
		return replySessionEnded
	case model.StateCompleted:
		return replyCompleted
	}

	label := e.classifier.Classify(input)

	switch label {
	case intent.ShowBookings:
		return e.handleShowBookings(ctx, session)
	case intent.Cancel:
		return e.handleCancel(ctx, session)
	case intent.Update:
		return e.handleUpdate(ctx, session)
	}

	switch session.State {
	case model.StateGreeting:
		return e.handleGreeting(session)
	case model.StateName:
		return e.handleName(ctx, session, input)
	case model.StateService:
		return e.handleService(ctx, session, input)
	case model.StateDatetime:
		return e.handleDatetime(ctx, session, input)
	case model.StateConfirmation:
		return e.handleConfirmation(ctx, session, label)
	default:
		return replyFallback
	}
}

func (e *Engine) handleShowBookings(ctx context.Context, session *model.Session) string {
	if session.UserName == "" {
		return replyNoBookings
	}

	bookings, err := e.ledger.ListConfirmedForUser(ctx, session.UserName)
	if err != nil {
		e.log.Error("Failed to list bookings for session", "session_id", session.ID, "error", err)
		return replyFallback
	}
	if len(bookings) == 0 {
		return replyNoBookings
	}

	var sb strings.Builder
	sb.WriteString("Here are your current bookings:\n")
	for _, booking := range bookings {
		fmt.Fprintf(&sb, "- %s on %s at %s\n", e.serviceName(ctx, booking.ServiceID), booking.Date, booking.Time)
	}
	return sb.String()
}

func (e *Engine) handleCancel(ctx context.Context, session *model.Session) string {
	if session.UserName == "" {
		return replyNoCancel
	}

	cancelled, err := e.ledger.CancelAllForUser(ctx, session.UserName)
	if err != nil {
		e.log.Error("Failed to cancel bookings for session", "session_id", session.ID, "error", err)
		return replyFallback
	}
	if len(cancelled) == 0 {
		return replyNoCancel
	}

	session.State = model.StateGreeting
	return replyCancelled
}

func (e *Engine) handleUpdate(ctx context.Context, session *model.Session) string {
	if session.UserName == "" {
		return replyNoUpdate
	}

	cancelled, err := e.ledger.CancelOldestForUser(ctx, session.UserName)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return replyNoUpdate
		}
		e.log.Error("Failed to cancel booking for update", "session_id", session.ID, "error", err)
		return replyFallback
	}

	service, err := e.catalog.GetByID(ctx, cancelled.ServiceID)
	if err != nil {
		// The old booking is cancelled but its service is gone; fall back
		// to picking a service again.
		e.log.Warn("Cancelled booking references unknown service", "service_id", cancelled.ServiceID, "error", err)
		session.State = model.StateService
		return replyStartOver
	}

	session.SelectedService = service
	session.State = model.StateDatetime
	return fmt.Sprintf("Your previous booking is cancelled. Let's book a new slot for %s. Which date and time do you prefer?", service.Name)
}

func (e *Engine) handleGreeting(session *model.Session) string {
	session.State = model.StateName
	return replyWelcome
}

func (e *Engine) handleName(ctx context.Context, session *model.Session, input string) string {
	name, err := ExtractName(input)
	if err != nil {
		return replyNameRetry
	}

	services, err := e.catalog.GetAll(ctx)
	if err != nil {
		e.log.Error("Failed to list catalog", "error", err)
		return replyFallback
	}

	session.UserName = name
	session.State = model.StateService

	lines := make([]string, 0, len(services))
	for _, service := range services {
		lines = append(lines, fmt.Sprintf("- %s ($%s, %d min)", service.Name, formatPrice(service.Price), service.DurationMinutes))
	}
	return fmt.Sprintf("Nice to meet you, %s! Here are our available services:\n%s\n\nWhich service would you like to book?",
		name, strings.Join(lines, "\n"))
}

func (e *Engine) handleService(ctx context.Context, session *model.Session, input string) string {
	service, err := e.catalog.MatchByName(ctx, input)
	if err != nil {
		services, listErr := e.catalog.GetAll(ctx)
		if listErr != nil {
			e.log.Error("Failed to list catalog", "error", listErr)
			return replyFallback
		}
		names := make([]string, 0, len(services))
		for _, s := range services {
			names = append(names, s.Name)
		}
		return fmt.Sprintf("I didn't recognize that service. Available services: %s. Which one would you like?",
			strings.Join(names, ", "))
	}

	session.SelectedService = service
	session.State = model.StateDatetime
	return fmt.Sprintf("Great choice! %s costs $%s and takes %d minutes.\nAvailable slots: %s\nWhat date and time would you prefer? (e.g., 'tomorrow at 2 PM')",
		service.Name, formatPrice(service.Price), service.DurationMinutes, strings.Join(service.AvailableSlots, ", "))
}

func (e *Engine) handleDatetime(ctx context.Context, session *model.Session, input string) string {
	service := session.SelectedService
	if service == nil {
		session.State = model.StateService
		return replyStartOver
	}

	result, err := e.parser.Parse(input, e.clock.Now())
	if err != nil {
		return replyDateRetry
	}

	if !service.HasSlot(result.Slot) {
		return e.slotUnavailable(service)
	}

	free, err := e.ledger.IsAvailable(ctx, service.ID, result.Date, result.Slot)
	if err != nil {
		e.log.Error("Failed to check availability", "session_id", session.ID, "error", err)
		return replyFallback
	}
	if !free {
		return e.slotUnavailable(service)
	}

	session.SelectedDate = result.Date
	session.SelectedTime = result.Slot
	session.State = model.StateConfirmation
	return fmt.Sprintf("Perfect! Here's your booking:\n\nName: %s\nService: %s\nDate: %s\nTime: %s\nDuration: %d minutes\nPrice: $%s\n\nShall I confirm this booking?",
		session.UserName, service.Name, result.Date, result.Slot, service.DurationMinutes, formatPrice(service.Price))
}

func (e *Engine) handleConfirmation(ctx context.Context, session *model.Session, label intent.Label) string {
	if session.SelectedService == nil {
		session.State = model.StateService
		return replyStartOver
	}

	switch label {
	case intent.Confirm:
		booking := &model.Booking{
			UserName:  session.UserName,
			ServiceID: session.SelectedService.ID,
			Date:      session.SelectedDate,
			Time:      session.SelectedTime,
		}

		if err := e.ledger.Confirm(ctx, booking); err != nil {
			if isSlotConflict(err) {
				// Someone else took the slot between the availability check
				// and now; go back to picking a time.
				session.State = model.StateDatetime
				return e.slotUnavailable(session.SelectedService)
			}
			e.log.Error("Failed to confirm booking", "session_id", session.ID, "error", err)
			return replyFallback
		}

		session.State = model.StateCompleted
		return fmt.Sprintf("Excellent! Your booking is confirmed!\nBooking ID: %s\nService: %s\nDate: %s\nTime: %s\nThank you for using JusBook!",
			shortID(booking.ID), session.SelectedService.Name, session.SelectedDate, session.SelectedTime)

	case intent.Deny:
		session.State = model.StateService
		return replyStartOver

	default:
		return replyConfirmRetry
	}
}

func (e *Engine) slotUnavailable(service *model.Service) string {
	return fmt.Sprintf("Sorry, that slot is not available. Please choose from: %s",
		strings.Join(service.AvailableSlots, ", "))
}

func (e *Engine) serviceName(ctx context.Context, serviceID string) string {
	service, err := e.catalog.GetByID(ctx, serviceID)
	if err != nil {
		return serviceID
	}
	return service.Name
}

func isSlotConflict(err error) bool {
	if errors.Is(err, bookingerrors.ErrSlotConflict) {
		return true
	}
	appErr := apperrors.AsAppError(err)
	return appErr != nil && appErr.Code == apperrors.CodeConflict
}

// formatPrice renders whole prices with a trailing .0, matching the
// catalog's display convention ("$25.0").
func formatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
