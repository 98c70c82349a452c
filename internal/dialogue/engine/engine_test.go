package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	bookingrepo "jusbook/internal/booking/repository"
	bookingservice "jusbook/internal/booking/service"
	bookingvalidator "jusbook/internal/booking/validator"
	catalogrepo "jusbook/internal/catalog/repository"
	catalogservice "jusbook/internal/catalog/service"
	catalogvalidator "jusbook/internal/catalog/validator"
	"jusbook/internal/events"
	"jusbook/internal/intent"
	"jusbook/internal/timeparse"
	"jusbook/pkg/clock"
	"jusbook/pkg/config"
	"jusbook/pkg/logger"
	"jusbook/pkg/model"
)

// anchor is a Monday; "tomorrow" resolves to 2026-03-03.
var anchor = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

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

type testHarness struct {
	engine  *Engine
	catalog catalogservice.CatalogService
	ledger  bookingservice.BookingService
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	cfg := testConfig()

	catalog := catalogservice.NewCatalogService(
		catalogrepo.NewMemoryServiceRepository(),
		catalogvalidator.NewServiceValidator(),
		cfg,
	)
	if err := catalog.Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	ledger := bookingservice.NewBookingService(
		bookingrepo.NewMemoryBookingRepository(),
		bookingrepo.NewMemoryBookingLockRepository(),
		bookingvalidator.NewBookingValidator(),
		events.NewNoopPublisher(),
		cfg,
	)

	eng := NewEngine(
		intent.NewClassifier(),
		timeparse.NewRuleParser(),
		catalog,
		ledger,
		clock.Fixed(anchor),
		cfg.Log,
	)

	return &testHarness{engine: eng, catalog: catalog, ledger: ledger}
}

func newSession() *model.Session {
	return &model.Session{ID: "sess-1", State: model.StateGreeting}
}

func (h *testHarness) run(t *testing.T, session *model.Session, inputs ...string) string {
	t.Helper()
	var reply string
	for _, input := range inputs {
		reply = h.engine.Respond(context.Background(), session, input)
	}
	return reply
}

func TestHappyPathBooking(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	reply := h.run(t, session, "Hi")
	if session.State != model.StateName {
		t.Fatalf("expected name state, got %s", session.State)
	}
	if reply != "Welcome to JusBook! I'm your AI assistant. What's your name?" {
		t.Errorf("unexpected greeting reply: %q", reply)
	}

	reply = h.run(t, session, "my name is Alice")
	if session.State != model.StateService {
		t.Fatalf("expected service state, got %s", session.State)
	}
	if session.UserName != "Alice" {
		t.Errorf("expected user name Alice, got %q", session.UserName)
	}
	if !strings.Contains(reply, "Haircut ($25.0, 30 min)") {
		t.Errorf("expected catalog listing with Haircut, got %q", reply)
	}

	reply = h.run(t, session, "Haircut")
	if session.State != model.StateDatetime {
		t.Fatalf("expected datetime state, got %s", session.State)
	}
	if !strings.Contains(reply, "Great choice! Haircut costs $25.0 and takes 30 minutes.") {
		t.Errorf("unexpected service reply: %q", reply)
	}

	reply = h.run(t, session, "tomorrow at 9 AM")
	if session.State != model.StateConfirmation {
		t.Fatalf("expected confirmation state, got %s", session.State)
	}
	if !strings.Contains(reply, "Date: 2026-03-03") || !strings.Contains(reply, "Time: 09:00 AM") {
		t.Errorf("unexpected summary: %q", reply)
	}

	reply = h.run(t, session, "yes")
	if session.State != model.StateCompleted {
		t.Fatalf("expected completed state, got %s", session.State)
	}
	if !strings.Contains(reply, "Excellent! Your booking is confirmed!") {
		t.Errorf("unexpected confirmation reply: %q", reply)
	}

	bookings, err := h.ledger.ListConfirmedForUser(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	b := bookings[0]
	if b.Date != "2026-03-03" || b.Time != "09:00 AM" || b.Status != model.StatusConfirmed {
		t.Errorf("unexpected booking: %+v", b)
	}
	if !strings.Contains(reply, "Booking ID: "+b.ID[:8]) {
		t.Errorf("expected short booking ID in reply, got %q", reply)
	}
}

func TestGoodbyeIsIdempotent(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	first := h.run(t, session, "goodbye")
	if session.State != model.StateEnded {
		t.Fatalf("expected ended state, got %s", session.State)
	}

	second := h.run(t, session, "goodbye")
	if session.State != model.StateEnded {
		t.Fatalf("expected ended state after second goodbye, got %s", session.State)
	}
	if first != second {
		t.Errorf("expected identical replies, got %q then %q", first, second)
	}
}

func TestEndedSessionRejectsInput(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "bye")
	reply := h.run(t, session, "Hi")
	if session.State != model.StateEnded {
		t.Errorf("expected ended state, got %s", session.State)
	}
	if reply != "The session has ended. Please start a new session to continue." {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestCompletedSession(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "Hi", "my name is Alice", "Haircut", "tomorrow at 9 AM", "yes")
	if session.State != model.StateCompleted {
		t.Fatalf("expected completed state, got %s", session.State)
	}

	reply := h.run(t, session, "Haircut")
	if session.State != model.StateCompleted {
		t.Errorf("expected completed state to hold, got %s", session.State)
	}
	if !strings.Contains(reply, "start a new session") {
		t.Errorf("unexpected reply: %q", reply)
	}

	// Goodbye still closes the session.
	h.run(t, session, "bye")
	if session.State != model.StateEnded {
		t.Errorf("expected ended state after goodbye, got %s", session.State)
	}
}

func TestNameRetries(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "Hi")
	reply := h.run(t, session, "xyz123")
	if session.State != model.StateName {
		t.Errorf("expected name state to hold, got %s", session.State)
	}
	if reply != "I didn't catch your name. Could you tell me again?" {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestServiceRetries(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "Hi", "my name is Alice")
	reply := h.run(t, session, "pedicure")
	if session.State != model.StateService {
		t.Errorf("expected service state to hold, got %s", session.State)
	}
	if !strings.Contains(reply, "Available services: Haircut, Consultation, Massage.") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestDatetimeRetries(t *testing.T) {
	h := newHarness(t)
	session := newSession()
	h.run(t, session, "Hi", "my name is Alice", "Massage")

	// Unparseable input re-prompts generically.
	reply := h.run(t, session, "whenever suits")
	if session.State != model.StateDatetime {
		t.Errorf("expected datetime state to hold, got %s", session.State)
	}
	if !strings.Contains(reply, "I couldn't understand the date and time.") {
		t.Errorf("unexpected reply: %q", reply)
	}

	// A parseable slot outside the service's list names the valid slots.
	reply = h.run(t, session, "tomorrow at 10 AM")
	if session.State != model.StateDatetime {
		t.Errorf("expected datetime state to hold, got %s", session.State)
	}
	if !strings.Contains(reply, "Please choose from: 09:00 AM, 11:00 AM, 02:00 PM") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestDenyRestartsAtService(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "Hi", "my name is Alice", "Haircut", "tomorrow at 9 AM")
	reply := h.run(t, session, "wrong")
	if session.State != model.StateService {
		t.Errorf("expected service state, got %s", session.State)
	}
	if reply != "No problem! Let's start over. Which service would you like?" {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestConfirmationWithoutServiceRestarts(t *testing.T) {
	h := newHarness(t)
	session := newSession()
	session.State = model.StateConfirmation
	session.UserName = "Alice"

	reply := h.run(t, session, "yes")
	if session.State != model.StateService {
		t.Errorf("expected service state, got %s", session.State)
	}
	if reply != "No problem! Let's start over. Which service would you like?" {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestConfirmationReprompts(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "Hi", "my name is Alice", "Haircut", "tomorrow at 9 AM")
	reply := h.run(t, session, "maybe")
	if session.State != model.StateConfirmation {
		t.Errorf("expected confirmation state to hold, got %s", session.State)
	}
	if reply != "Please say 'yes' to confirm or 'no' to start over." {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestSlotConflictAtDatetime(t *testing.T) {
	h := newHarness(t)

	first := newSession()
	h.run(t, first, "Hi", "my name is Alice", "Haircut", "tomorrow at 9 AM", "yes")

	second := &model.Session{ID: "sess-2", State: model.StateGreeting}
	h.run(t, second, "Hi", "my name is Bob", "Haircut")
	reply := h.run(t, second, "tomorrow at 9 AM")
	if second.State != model.StateDatetime {
		t.Errorf("expected datetime state to hold, got %s", second.State)
	}
	if !strings.Contains(reply, "Sorry, that slot is not available.") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestSlotConflictAtConfirmation(t *testing.T) {
	h := newHarness(t)

	first := newSession()
	second := &model.Session{ID: "sess-2", State: model.StateGreeting}

	// Both sessions pass the availability check before either confirms.
	h.run(t, first, "Hi", "my name is Alice", "Haircut", "tomorrow at 9 AM")
	h.run(t, second, "Hi", "my name is Bob", "Haircut", "tomorrow at 9 AM")

	h.run(t, first, "yes")
	if first.State != model.StateCompleted {
		t.Fatalf("expected first session completed, got %s", first.State)
	}

	reply := h.run(t, second, "yes")
	if second.State != model.StateDatetime {
		t.Errorf("expected second session back in datetime, got %s", second.State)
	}
	if !strings.Contains(reply, "Sorry, that slot is not available.") {
		t.Errorf("unexpected reply: %q", reply)
	}

	bookings, _, err := h.ledger.GetAll(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	confirmed := 0
	for _, b := range bookings {
		if b.Status == model.StatusConfirmed {
			confirmed++
		}
	}
	if confirmed != 1 {
		t.Errorf("expected exactly 1 confirmed booking, got %d", confirmed)
	}
}

func TestCancelResetsToGreeting(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "Hi", "my name is Alice", "Haircut", "tomorrow at 9 AM", "yes")

	// A fresh session for the same user cancels everything.
	again := &model.Session{ID: "sess-2", State: model.StateGreeting}
	h.run(t, again, "Hi", "my name is Alice")
	reply := h.run(t, again, "cancel")
	if again.State != model.StateGreeting {
		t.Errorf("expected greeting state, got %s", again.State)
	}
	if reply != "Your bookings have been cancelled successfully." {
		t.Errorf("unexpected reply: %q", reply)
	}

	bookings, err := h.ledger.ListConfirmedForUser(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bookings) != 0 {
		t.Errorf("expected no confirmed bookings, got %d", len(bookings))
	}

	reply = h.run(t, again, "cancel")
	if reply != "You have no active bookings to cancel." {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestUpdateRebooksSameService(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "Hi", "my name is Alice", "Haircut", "tomorrow at 9 AM", "yes")

	again := &model.Session{ID: "sess-2", State: model.StateGreeting}
	h.run(t, again, "Hi", "my name is Alice")
	reply := h.run(t, again, "update")
	if again.State != model.StateDatetime {
		t.Fatalf("expected datetime state, got %s", again.State)
	}
	if !strings.Contains(reply, "Let's book a new slot for Haircut.") {
		t.Errorf("unexpected reply: %q", reply)
	}

	// The old slot is free again for the rebooking.
	h.run(t, again, "tomorrow at 9 AM")
	if again.State != model.StateConfirmation {
		t.Errorf("expected confirmation state, got %s", again.State)
	}
}

func TestUpdateWithoutBookings(t *testing.T) {
	h := newHarness(t)
	session := newSession()

	h.run(t, session, "Hi", "my name is Alice")
	reply := h.run(t, session, "update")
	if session.State != model.StateService {
		t.Errorf("expected service state to hold, got %s", session.State)
	}
	if reply != "You have no bookings to update. Let's create a new booking." {
		t.Errorf("unexpected reply: %q", reply)
	}
}

// stubClassifier forces a label regardless of input.
type stubClassifier struct {
	label intent.Label
}

func (s stubClassifier) Classify(string) intent.Label { return s.label }

func TestShowBookings(t *testing.T) {
	h := newHarness(t)
	h.engine.classifier = stubClassifier{label: intent.ShowBookings}

	session := newSession()
	session.State = model.StateService
	session.UserName = "Alice"

	reply := h.engine.Respond(context.Background(), session, "show")
	if reply != "You have no active bookings." {
		t.Errorf("unexpected reply: %q", reply)
	}

	booking := &model.Booking{UserName: "Alice", ServiceID: serviceID(t, h, "Haircut"), Date: "2026-03-03", Time: "09:00 AM"}
	if err := h.ledger.Confirm(context.Background(), booking); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	reply = h.engine.Respond(context.Background(), session, "show")
	if !strings.Contains(reply, "- Haircut on 2026-03-03 at 09:00 AM") {
		t.Errorf("unexpected reply: %q", reply)
	}
	if session.State != model.StateService {
		t.Errorf("expected state unchanged, got %s", session.State)
	}
}

func serviceID(t *testing.T, h *testHarness, name string) string {
	t.Helper()
	services, err := h.catalog.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	for _, s := range services {
		if s.Name == name {
			return s.ID
		}
	}
	t.Fatalf("service %s not seeded", name)
	return ""
}

// TestStateClosure sweeps a range of inputs through every state and checks
// the resulting state is always a member of the enum.
func TestStateClosure(t *testing.T) {
	states := []model.State{
		model.StateGreeting, model.StateName, model.StateService,
		model.StateDatetime, model.StateConfirmation, model.StateCompleted,
		model.StateEnded,
	}
	inputs := []string{
		"Hi", "my name is Alice", "Haircut", "tomorrow at 9 AM", "yes",
		"no", "cancel", "update", "bye", "help", "gibberish", "",
	}

	for _, state := range states {
		for _, input := range inputs {
			h := newHarness(t)
			session := newSession()
			session.State = state
			session.UserName = "Alice"
			if state == model.StateDatetime || state == model.StateConfirmation {
				session.SelectedService = &model.Service{
					ID: "svc", Name: "Haircut", DurationMinutes: 30, Price: 25,
					AvailableSlots: []string{"09:00 AM"},
				}
				session.SelectedDate = "2026-03-03"
				session.SelectedTime = "09:00 AM"
			}

			h.engine.Respond(context.Background(), session, input)
			if !session.State.Valid() {
				t.Errorf("state %s with input %q produced invalid state %s", state, input, session.State)
			}
		}
	}
}
