package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/musicschool-scheduler/internal/application"
	"github.com/example/musicschool-scheduler/internal/scheduling"
	"go.uber.org/zap"
)

type schedulingService interface {
	CreateEntry(ctx context.Context, input application.EntryInput) (scheduling.Entry, []scheduling.Conflict, error)
	CreateRecurring(ctx context.Context, input application.EntryInput, pattern scheduling.Pattern) ([]scheduling.Entry, error)
	EntriesInRange(ctx context.Context, start, end time.Time) ([]scheduling.Entry, error)
	InstructorSchedule(ctx context.Context, instructorID string, start, end time.Time) ([]scheduling.Entry, error)
	StudentSchedule(ctx context.Context, studentID string, start, end time.Time) ([]scheduling.Entry, error)
	CancelEntry(ctx context.Context, id, reason string) (scheduling.Entry, error)
	Reschedule(ctx context.Context, id string, newStart, newEnd time.Time) (scheduling.Entry, []scheduling.Conflict, error)
	ConfirmEntry(ctx context.Context, id string) (scheduling.Entry, error)
	StartEntry(ctx context.Context, id string) (scheduling.Entry, error)
	CompleteEntry(ctx context.Context, id string) (scheduling.Entry, error)
	MarkNoShow(ctx context.Context, id string) (scheduling.Entry, error)
	ListOverdue(ctx context.Context) ([]scheduling.Entry, error)
}

// ScheduleHandler serves the entry lifecycle endpoints.
type ScheduleHandler struct {
	service   schedulingService
	responder responder
}

// NewScheduleHandler wires the handler to the scheduling service.
func NewScheduleHandler(service schedulingService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{service: service, responder: newResponder(logger)}
}

type entryResponse struct {
	Entry     entryDTO      `json:"entry"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type entryListResponse struct {
	Entries []entryDTO `json:"entries"`
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	entry, conflicts, err := h.service.CreateEntry(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusCreated, entryResponse{
		Entry:     toEntryDTO(entry),
		Conflicts: toConflictDTOs(conflicts),
	})
}

type recurringRequest struct {
	Template entryRequest   `json:"template"`
	Pattern  patternRequest `json:"pattern"`
}

func (h *ScheduleHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.Template.toInput()
	if err != nil {
		h.responder.writeError(w, http.StatusBadRequest, err)
		return
	}

	entries, err := h.service.CreateRecurring(r.Context(), input, req.Pattern.toPattern())
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusCreated, entryListResponse{Entries: toEntryDTOs(entries)})
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, end, err := parseWindow(query.Get("start"), query.Get("end"))
	if err != nil {
		h.responder.writeError(w, http.StatusBadRequest, err)
		return
	}

	entries, err := h.service.EntriesInRange(r.Context(), start, end)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, entryListResponse{Entries: toEntryDTOs(entries)})
}

func (h *ScheduleHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListOverdue(r.Context())
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, entryListResponse{Entries: toEntryDTOs(entries)})
}

// InstructorSchedule serves GET /instructors/{id}/schedule.
func (h *ScheduleHandler) InstructorSchedule(w http.ResponseWriter, r *http.Request, instructorID string) {
	h.subjectSchedule(w, r, instructorID, h.service.InstructorSchedule)
}

// StudentSchedule serves GET /students/{id}/schedule.
func (h *ScheduleHandler) StudentSchedule(w http.ResponseWriter, r *http.Request, studentID string) {
	h.subjectSchedule(w, r, studentID, h.service.StudentSchedule)
}

func (h *ScheduleHandler) subjectSchedule(w http.ResponseWriter, r *http.Request, id string, list func(context.Context, string, time.Time, time.Time) ([]scheduling.Entry, error)) {
	query := r.URL.Query()
	start, end, err := parseWindow(query.Get("start"), query.Get("end"))
	if err != nil {
		h.responder.writeError(w, http.StatusBadRequest, err)
		return
	}

	entries, err := list(r.Context(), id, start, end)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, entryListResponse{Entries: toEntryDTOs(entries)})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request, entryID string) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.CancelEntry(r.Context(), entryID, req.Reason)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, entryResponse{Entry: toEntryDTO(entry), Conflicts: []conflictDTO{}})
}

type rescheduleRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (h *ScheduleHandler) Reschedule(w http.ResponseWriter, r *http.Request, entryID string) {
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	start, end, err := parseWindow(req.Start, req.End)
	if err != nil {
		h.responder.writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, conflicts, err := h.service.Reschedule(r.Context(), entryID, start, end)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, entryResponse{
		Entry:     toEntryDTO(entry),
		Conflicts: toConflictDTOs(conflicts),
	})
}

// Transition serves the confirm/start/complete/no-show actions.
func (h *ScheduleHandler) Transition(w http.ResponseWriter, r *http.Request, entryID, action string) {
	var transition func(context.Context, string) (scheduling.Entry, error)
	switch action {
	case "confirm":
		transition = h.service.ConfirmEntry
	case "start":
		transition = h.service.StartEntry
	case "complete":
		transition = h.service.CompleteEntry
	case "no-show":
		transition = h.service.MarkNoShow
	default:
		http.NotFound(w, r)
		return
	}

	entry, err := transition(r.Context(), entryID)
	if err != nil {
		h.responder.handleServiceError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, entryResponse{Entry: toEntryDTO(entry), Conflicts: []conflictDTO{}})
}
