package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/example/musicschool-scheduler/internal/persistence"
	"github.com/example/musicschool-scheduler/internal/scheduling"
	"go.uber.org/zap"
)

type conflictService interface {
	DetectConflicts(ctx context.Context, candidate scheduling.Entry) ([]scheduling.Conflict, error)
	ResolveConflict(ctx context.Context, conflictID, notes string) (scheduling.Conflict, error)
	ListConflicts(ctx context.Context, filter persistence.ConflictFilter) ([]scheduling.Conflict, error)
}

// ConflictHandler serves conflict probing, listing and resolution.
type ConflictHandler struct {
	service   conflictService
	responder responder
}

func NewConflictHandler(service conflictService, logger *zap.Logger) *ConflictHandler {
	return &ConflictHandler{service: service, responder: newResponder(logger)}
}

type conflictListResponse struct {
	Conflicts []conflictDTO `json:"conflicts"`
}

// Detect runs conflict detection for a prospective entry without persisting
// anything.
func (h *ConflictHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(w, http.StatusBadRequest, err)
		return
	}

	candidate := scheduling.Entry{
		Title:        input.Title,
		Type:         input.Type,
		Status:       scheduling.StatusScheduled,
		Start:        input.Start,
		End:          input.End,
		Room:         input.Room,
		InstructorID: input.InstructorID,
		StudentID:    input.StudentID,
	}

	conflicts, err := h.service.DetectConflicts(r.Context(), candidate)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, conflictListResponse{Conflicts: toConflictDTOs(conflicts)})
}

func (h *ConflictHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter persistence.ConflictFilter
	if value := query.Get("entry_id"); value != "" {
		filter.EntryID = &value
	}
	if value := query.Get("resolved"); value != "" {
		resolved, err := strconv.ParseBool(value)
		if err != nil {
			h.responder.writeError(w, http.StatusBadRequest, errBadRequestBody)
			return
		}
		filter.Resolved = &resolved
	}

	conflicts, err := h.service.ListConflicts(r.Context(), filter)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, conflictListResponse{Conflicts: toConflictDTOs(conflicts)})
}

type resolveRequest struct {
	Notes string `json:"notes"`
}

func (h *ConflictHandler) Resolve(w http.ResponseWriter, r *http.Request, conflictID string) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	conflict, err := h.service.ResolveConflict(r.Context(), conflictID, req.Notes)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, toConflictDTO(conflict))
}
