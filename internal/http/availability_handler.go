package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/study-scheduler/internal/application"
)

type availabilityService interface {
	CreateAvailability(ctx context.Context, input application.AvailabilityInput) (application.Availability, error)
	UpdateAvailability(ctx context.Context, id string, input application.AvailabilityInput) (application.Availability, error)
	DeleteAvailability(ctx context.Context, id string) error
	ListAvailability(ctx context.Context, userID string) ([]application.Availability, error)
}

// AvailabilityHandler exposes weekly availability endpoints.
type AvailabilityHandler struct {
	service   availabilityService
	responder responder
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, responder: newResponder(logger)}
}

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	entry, err := h.service.CreateAvailability(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toAvailabilityDTO(entry))
}

func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	entry, err := h.service.UpdateAvailability(r.Context(), id, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAvailabilityDTO(entry))
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.DeleteAvailability(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUserID)
		return
	}

	entries, err := h.service.ListAvailability(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := listAvailabilityResponse{Availability: make([]availabilityDTO, 0, len(entries))}
	for _, entry := range entries {
		response.Availability = append(response.Availability, toAvailabilityDTO(entry))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

type availabilityRequest struct {
	UserID    string `json:"user_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  *bool  `json:"is_active"`
}

func (req availabilityRequest) toInput() (application.AvailabilityInput, *application.ValidationError) {
	day, vErr := remoteDayToISO(req.DayOfWeek, "day_of_week")
	if vErr != nil {
		return application.AvailabilityInput{}, vErr
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return application.AvailabilityInput{
		UserID:   req.UserID,
		Day:      day,
		Start:    req.StartTime,
		End:      req.EndTime,
		IsActive: active,
	}, nil
}

type availabilityDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type listAvailabilityResponse struct {
	Availability []availabilityDTO `json:"availability"`
}

func toAvailabilityDTO(entry application.Availability) availabilityDTO {
	return availabilityDTO{
		ID:        entry.ID,
		UserID:    entry.UserID,
		DayOfWeek: isoDayToRemote(entry.Day),
		StartTime: entry.Start.String(),
		EndTime:   entry.End.String(),
		IsActive:  entry.IsActive,
		CreatedAt: formatTimestamp(entry.CreatedAt),
		UpdatedAt: formatTimestamp(entry.UpdatedAt),
	}
}
