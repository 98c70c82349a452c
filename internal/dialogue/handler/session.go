package handler

import (
	"encoding/json"
	"net/http"

	"jusbook/internal/dialogue/service"
	httputil "jusbook/pkg/http"
	"jusbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type SessionHandler struct {
	service service.DialogueService
	log     *logger.Logger
}

func NewSessionHandler(service service.DialogueService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sessions", h.Start)
	router.POST("/api/v1/sessions/id/:id/messages", h.SendMessage)
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	result, err := h.service.StartSession(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Start", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Start", "operation", "WriteCreated", "error", err)
	}
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SendMessage", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.SendMessage(r.Context(), ps.ByName("id"), req.Message)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SendMessage", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "SendMessage", "operation", "WriteSuccess", "error", err)
	}
}
