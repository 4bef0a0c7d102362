package http

import (
	"context"
	"net/http"
	"time"

	"github.com/example/musicschool-scheduler/internal/scheduling"
	"go.uber.org/zap"
)

type availabilityService interface {
	Availability(ctx context.Context, subject scheduling.Subject, windowStart, windowEnd time.Time) ([]scheduling.TimeSlot, error)
}

// AvailabilityHandler serves free-slot queries for instructors, students and
// rooms.
type AvailabilityHandler struct {
	service   availabilityService
	responder responder
}

func NewAvailabilityHandler(service availabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, responder: newResponder(logger)}
}

type availabilityResponse struct {
	Slots []slotDTO `json:"slots"`
}

func (h *AvailabilityHandler) Query(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	subject := scheduling.Subject{
		Kind: scheduling.SubjectKind(query.Get("kind")),
		ID:   query.Get("id"),
	}

	start, end, err := parseWindow(query.Get("start"), query.Get("end"))
	if err != nil {
		h.responder.writeError(w, http.StatusBadRequest, err)
		return
	}

	slots, err := h.service.Availability(r.Context(), subject, start, end)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, availabilityResponse{Slots: toSlotDTOs(slots)})
}
