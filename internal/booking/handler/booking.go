package handler

import (
	"net/http"

	bookingservice "jusbook/internal/booking/service"
	catalogservice "jusbook/internal/catalog/service"
	httputil "jusbook/pkg/http"
	"jusbook/pkg/logger"
	"jusbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service bookingservice.BookingService
	catalog catalogservice.CatalogService
	log     *logger.Logger
}

func NewBookingHandler(service bookingservice.BookingService, catalog catalogservice.CatalogService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		catalog: catalog,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	views := make([]model.BookingView, 0, len(bookings))
	for _, booking := range bookings {
		views = append(views, model.BookingView{
			ID:          booking.ID,
			UserName:    booking.UserName,
			ServiceName: h.serviceName(r, booking.ServiceID),
			Date:        booking.Date,
			Time:        booking.Time,
			Status:      booking.Status,
		})
	}

	if err := httputil.WritePaginated(w, views, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

// serviceName resolves the display name for the listing; a missing service
// falls back to the raw ID rather than failing the whole page.
func (h *BookingHandler) serviceName(r *http.Request, serviceID string) string {
	service, err := h.catalog.GetByID(r.Context(), serviceID)
	if err != nil {
		h.log.Warn("failed to resolve service name", "service_id", serviceID, "error", err)
		return serviceID
	}
	return service.Name
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.CancelByID(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}
