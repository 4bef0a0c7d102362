// Package http provides HTTP handlers and middleware for the scheduling API.
//
// The router exposes the following endpoints:
//   - POST /entries, GET /entries?start&end: create a schedule entry (the
//     response carries the entry together with any detected conflicts) and
//     list entries starting inside a window.
//   - POST /entries/recurring: generate a bounded recurring series from a
//     template and a pattern; occurrences with conflicts are skipped.
//   - GET /entries/overdue: entries still SCHEDULED past their start time.
//   - POST /entries/{id}/cancel, /reschedule, /confirm, /start, /complete,
//     /no-show: lifecycle transitions on a single entry.
//   - GET /conflicts?entry_id&resolved, POST /conflicts/detect,
//     POST /conflicts/{id}/resolve: conflict listing, a read-only detection
//     probe, and explicit resolution with notes.
//   - GET /availability?kind&id&start&end: free one-hour slots for an
//     instructor or room.
//   - GET /instructors/{id}/schedule, GET /students/{id}/schedule: bookings
//     overlapping a window for one subject.
//
// Request/response DTOs live in dto.go so tests and documentation share the
// same ground truth. Timestamps cross the wire as RFC 3339 strings.
package http
