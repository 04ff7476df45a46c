package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires handlers and middleware into the service router.
type RouterConfig struct {
	Availability *AvailabilityHandler
	Overrides    *OverrideHandler
	Contexts     *ContextHandler
	Plans        *PlanHandler
	Agenda       *AgendaHandler
	Middleware   []func(http.Handler) http.Handler
}

// NewRouter builds the HTTP route table.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Availability != nil {
		mux.HandleFunc("/availability", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Availability.List(w, r)
			case http.MethodPost:
				cfg.Availability.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/availability/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/availability/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				cfg.Availability.Update(w, r)
			case http.MethodDelete:
				cfg.Availability.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Overrides != nil {
		mux.HandleFunc("/overrides", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Overrides.List(w, r)
			case http.MethodPost:
				cfg.Overrides.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/overrides/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/overrides/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				cfg.Overrides.Update(w, r)
			case http.MethodDelete:
				cfg.Overrides.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Contexts != nil {
		mux.HandleFunc("/contexts", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Contexts.List(w, r)
			case http.MethodPost:
				cfg.Contexts.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/contexts/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/contexts/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				cfg.Contexts.Update(w, r)
			case http.MethodDelete:
				cfg.Contexts.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Plans != nil {
		mux.HandleFunc("/plans", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Plans.List(w, r)
			case http.MethodPost:
				cfg.Plans.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/plans/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/plans/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			id, sub, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))

			switch sub {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Plans.Get(w, r)
				case http.MethodPut:
					cfg.Plans.Update(w, r)
				case http.MethodDelete:
					cfg.Plans.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case "status":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Plans.ChangeStatus(w, r)
			case "recurrence":
				switch r.Method {
				case http.MethodPut:
					cfg.Plans.SetRecurrence(w, r)
				case http.MethodDelete:
					cfg.Plans.ClearRecurrence(w, r)
				default:
					methodNotAllowed(w, http.MethodPut, http.MethodDelete)
				}
			case "calendar.ics":
				if cfg.Agenda == nil {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Agenda.PlanCalendar(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Agenda != nil {
		mux.HandleFunc("/agenda", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agenda.Agenda(w, r)
		})
		mux.HandleFunc("/days/", func(w http.ResponseWriter, r *http.Request) {
			date := strings.TrimPrefix(r.URL.Path, "/days/")
			if date == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), date))
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agenda.ResolveDay(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
