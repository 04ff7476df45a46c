package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/study-scheduler/internal/application"
)

type contextService interface {
	CreateContext(ctx context.Context, input application.ContextInput) (application.ScheduleContext, error)
	UpdateContext(ctx context.Context, id string, input application.ContextInput) (application.ScheduleContext, error)
	DeleteContext(ctx context.Context, id string) error
	ListContexts(ctx context.Context, userID string) ([]application.ScheduleContext, error)
}

// ContextHandler exposes schedule load context endpoints.
type ContextHandler struct {
	service   contextService
	responder responder
}

func NewContextHandler(service contextService, logger *slog.Logger) *ContextHandler {
	return &ContextHandler{service: service, responder: newResponder(logger)}
}

func (h *ContextHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	sc, err := h.service.CreateContext(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toContextDTO(sc))
}

func (h *ContextHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	sc, err := h.service.UpdateContext(r.Context(), id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toContextDTO(sc))
}

func (h *ContextHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.DeleteContext(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ContextHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUserID)
		return
	}

	contexts, err := h.service.ListContexts(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := listContextsResponse{Contexts: make([]contextDTO, 0, len(contexts))}
	for _, sc := range contexts {
		response.Contexts = append(response.Contexts, toContextDTO(sc))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

type contextRequest struct {
	UserID         string  `json:"user_id"`
	ContextType    string  `json:"context_type"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	LoadMultiplier float64 `json:"load_multiplier"`
}

func (req contextRequest) toInput() application.ContextInput {
	return application.ContextInput{
		UserID:         req.UserID,
		Type:           req.ContextType,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		LoadMultiplier: req.LoadMultiplier,
	}
}

type contextDTO struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	ContextType    string  `json:"context_type"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	LoadMultiplier float64 `json:"load_multiplier"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type listContextsResponse struct {
	Contexts []contextDTO `json:"contexts"`
}

func toContextDTO(sc application.ScheduleContext) contextDTO {
	return contextDTO{
		ID:             sc.ID,
		UserID:         sc.UserID,
		ContextType:    string(sc.Type),
		StartDate:      formatDate(sc.StartDate),
		EndDate:        formatDate(sc.EndDate),
		LoadMultiplier: sc.LoadMultiplier,
		CreatedAt:      formatTimestamp(sc.CreatedAt),
		UpdatedAt:      formatTimestamp(sc.UpdatedAt),
	}
}
