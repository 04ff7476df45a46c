package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/study-scheduler/internal/application"
)

type overrideService interface {
	CreateOverride(ctx context.Context, input application.OverrideInput) (application.Override, error)
	UpdateOverride(ctx context.Context, id string, input application.OverrideInput) (application.Override, error)
	DeleteOverride(ctx context.Context, id string) error
	ListOverrides(ctx context.Context, userID string) ([]application.Override, error)
}

// OverrideHandler exposes per-date schedule override endpoints.
type OverrideHandler struct {
	service   overrideService
	responder responder
}

func NewOverrideHandler(service overrideService, logger *slog.Logger) *OverrideHandler {
	return &OverrideHandler{service: service, responder: newResponder(logger)}
}

func (h *OverrideHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	override, err := h.service.CreateOverride(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toOverrideDTO(override))
}

func (h *OverrideHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	override, err := h.service.UpdateOverride(r.Context(), id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOverrideDTO(override))
}

func (h *OverrideHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *OverrideHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUserID)
		return
	}

	overrides, err := h.service.ListOverrides(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := listOverridesResponse{Overrides: make([]overrideDTO, 0, len(overrides))}
	for _, override := range overrides {
		response.Overrides = append(response.Overrides, toOverrideDTO(override))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

type overrideRequest struct {
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	IsOff     bool    `json:"is_off"`
}

func (req overrideRequest) toInput() application.OverrideInput {
	return application.OverrideInput{
		UserID: req.UserID,
		Date:   req.Date,
		Start:  req.StartTime,
		End:    req.EndTime,
		IsOff:  req.IsOff,
	}
}

type overrideDTO struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsOff     bool    `json:"is_off"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type listOverridesResponse struct {
	Overrides []overrideDTO `json:"overrides"`
}

func toOverrideDTO(override application.Override) overrideDTO {
	dto := overrideDTO{
		ID:        override.ID,
		UserID:    override.UserID,
		Date:      formatDate(override.Date),
		IsOff:     override.IsOff,
		CreatedAt: formatTimestamp(override.CreatedAt),
		UpdatedAt: formatTimestamp(override.UpdatedAt),
	}
	if override.Start != nil {
		start := override.Start.String()
		dto.StartTime = &start
	}
	if override.End != nil {
		end := override.End.String()
		dto.EndTime = &end
	}
	return dto
}
