package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jusbook/internal/dialogue/service"
	apperrors "jusbook/pkg/errors"
	"jusbook/pkg/logger"
	"jusbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockDialogueService struct {
	startFunc func(ctx context.Context) (*service.StartResult, error)
	sendFunc  func(ctx context.Context, sessionID, message string) (*service.TurnResult, error)
}

func (m *mockDialogueService) StartSession(ctx context.Context) (*service.StartResult, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx)
	}
	return &service.StartResult{SessionID: "sess-1", Message: "Welcome to JusBook! Say Hi", State: string(model.StateGreeting)}, nil
}

func (m *mockDialogueService) SendMessage(ctx context.Context, sessionID, message string) (*service.TurnResult, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, sessionID, message)
	}
	return nil, apperrors.NotFoundWithID("Session", sessionID)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func TestStart(t *testing.T) {
	h := NewSessionHandler(&mockDialogueService{}, testLogger())

	router := httprouter.New()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data service.StartResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Data.SessionID != "sess-1" {
		t.Errorf("expected session ID sess-1, got %q", body.Data.SessionID)
	}
	if body.Data.Message != "Welcome to JusBook! Say Hi" {
		t.Errorf("unexpected greeting: %q", body.Data.Message)
	}
}

func TestSendMessage(t *testing.T) {
	var gotID, gotMessage string
	h := NewSessionHandler(&mockDialogueService{
		sendFunc: func(_ context.Context, sessionID, message string) (*service.TurnResult, error) {
			gotID = sessionID
			gotMessage = message
			return &service.TurnResult{
				Reply: "Hello! What's your name?",
				State: string(model.StateName),
			}, nil
		},
	}, testLogger())

	router := httprouter.New()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/id/sess-1/messages", strings.NewReader(`{"message":"Hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "sess-1" || gotMessage != "Hi" {
		t.Errorf("service called with (%q, %q)", gotID, gotMessage)
	}

	var body struct {
		Data service.TurnResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Data.Reply != "Hello! What's your name?" {
		t.Errorf("unexpected reply: %q", body.Data.Reply)
	}
	if body.Data.State != string(model.StateName) {
		t.Errorf("unexpected state: %q", body.Data.State)
	}
}

func TestSendMessageInvalidBody(t *testing.T) {
	h := NewSessionHandler(&mockDialogueService{}, testLogger())

	router := httprouter.New()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/id/sess-1/messages", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	h := NewSessionHandler(&mockDialogueService{}, testLogger())

	router := httprouter.New()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/id/missing/messages", strings.NewReader(`{"message":"Hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
