package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/schedule"
)

type agendaService interface {
	Agenda(ctx context.Context, params application.AgendaParams) ([]application.AgendaSession, error)
	ResolveDay(ctx context.Context, userID, date string) (schedule.EffectiveDay, error)
	PlanCalendar(ctx context.Context, planID string) (string, error)
}

// AgendaHandler exposes agenda expansion, day resolution, and calendar
// export endpoints.
type AgendaHandler struct {
	service   agendaService
	responder responder
}

func NewAgendaHandler(service agendaService, logger *slog.Logger) *AgendaHandler {
	return &AgendaHandler{service: service, responder: newResponder(logger)}
}

func (h *AgendaHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	sessions, err := h.service.Agenda(r.Context(), application.AgendaParams{
		UserID: strings.TrimSpace(query.Get("user_id")),
		From:   strings.TrimSpace(query.Get("from")),
		To:     strings.TrimSpace(query.Get("to")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := agendaResponse{Sessions: make([]agendaSessionDTO, 0, len(sessions))}
	for _, session := range sessions {
		response.Sessions = append(response.Sessions, toAgendaSessionDTO(session))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

func (h *AgendaHandler) ResolveDay(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(date) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateParam)
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUserID)
		return
	}

	day, err := h.service.ResolveDay(r.Context(), userID, date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEffectiveDayDTO(day))
}

func (h *AgendaHandler) PlanCalendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	document, err := h.service.PlanCalendar(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		h.responder.operationLogger(r.Context(), "agenda", "plan_calendar").
			ErrorContext(r.Context(), "failed to write calendar", "error", err)
	}
}

type agendaSessionDTO struct {
	Date           string     `json:"date"`
	PlanID         string     `json:"plan_id"`
	PlanTitle      string     `json:"plan_title"`
	BookID         string     `json:"book_id"`
	Available      bool       `json:"available"`
	Window         *windowDTO `json:"window,omitempty"`
	LoadMultiplier float64    `json:"load_multiplier"`
}

type agendaResponse struct {
	Sessions []agendaSessionDTO `json:"sessions"`
}

func toAgendaSessionDTO(session application.AgendaSession) agendaSessionDTO {
	return agendaSessionDTO{
		Date:           formatDate(session.Date),
		PlanID:         session.PlanID,
		PlanTitle:      session.PlanTitle,
		BookID:         session.BookID,
		Available:      session.Available,
		Window:         toWindowDTO(session.Window),
		LoadMultiplier: session.LoadMultiplier,
	}
}

type effectiveDayDTO struct {
	Date           string     `json:"date"`
	Available      bool       `json:"available"`
	Window         *windowDTO `json:"window,omitempty"`
	LoadMultiplier float64    `json:"load_multiplier"`
}

func toEffectiveDayDTO(day schedule.EffectiveDay) effectiveDayDTO {
	return effectiveDayDTO{
		Date:           formatDate(day.Date),
		Available:      day.Available,
		Window:         toWindowDTO(day.Window),
		LoadMultiplier: day.LoadMultiplier,
	}
}
