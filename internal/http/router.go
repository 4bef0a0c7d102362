package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Schedules    *ScheduleHandler
	Conflicts    *ConflictHandler
	Availability *AvailabilityHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Schedules != nil {
		mux.HandleFunc("/entries", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Schedules.List(w, r)
			case http.MethodPost:
				cfg.Schedules.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/entries/recurring", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Schedules.CreateRecurring(w, r)
		})
		mux.HandleFunc("/entries/overdue", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Schedules.ListOverdue(w, r)
		})
		mux.HandleFunc("/entries/", func(w http.ResponseWriter, r *http.Request) {
			id, action, ok := splitEntryPath(r.URL.Path)
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			switch action {
			case "cancel":
				cfg.Schedules.Cancel(w, r, id)
			case "reschedule":
				cfg.Schedules.Reschedule(w, r, id)
			default:
				cfg.Schedules.Transition(w, r, id, action)
			}
		})
		mux.HandleFunc("/instructors/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := subjectScheduleID(r.URL.Path, "/instructors/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Schedules.InstructorSchedule(w, r, id)
		})
		mux.HandleFunc("/students/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := subjectScheduleID(r.URL.Path, "/students/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Schedules.StudentSchedule(w, r, id)
		})
	}

	if cfg.Conflicts != nil {
		mux.HandleFunc("/conflicts", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Conflicts.List(w, r)
		})
		mux.HandleFunc("/conflicts/detect", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Conflicts.Detect(w, r)
		})
		mux.HandleFunc("/conflicts/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/conflicts/")
			id, found := strings.CutSuffix(rest, "/resolve")
			if !found || id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Conflicts.Resolve(w, r, id)
		})
	}

	if cfg.Availability != nil {
		mux.HandleFunc("/availability", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Availability.Query(w, r)
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

// splitEntryPath parses /entries/{id}/{action} into its two segments.
func splitEntryPath(path string) (id, action string, ok bool) {
	rest := strings.TrimPrefix(path, "/entries/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func subjectScheduleID(path, prefix string) (string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	id, found := strings.CutSuffix(rest, "/schedule")
	if !found || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
