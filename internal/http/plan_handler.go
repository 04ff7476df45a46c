package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/study-scheduler/internal/application"
)

type planService interface {
	CreatePlan(ctx context.Context, input application.PlanInput) (application.Plan, error)
	UpdatePlan(ctx context.Context, id string, input application.PlanInput) (application.Plan, error)
	ChangePlanStatus(ctx context.Context, id string, status application.PlanStatus) (application.Plan, error)
	GetPlan(ctx context.Context, id string) (application.Plan, error)
	ListPlans(ctx context.Context, userID string) ([]application.Plan, error)
	DeletePlan(ctx context.Context, id string) error
	SetRecurrence(ctx context.Context, planID string, input application.RecurrenceInput) (application.Recurrence, error)
	ClearRecurrence(ctx context.Context, planID string) error
}

// PlanHandler exposes study plan and recurrence rule endpoints.
type PlanHandler struct {
	service   planService
	responder responder
}

func NewPlanHandler(service planService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{service: service, responder: newResponder(logger)}
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	plan, err := h.service.CreatePlan(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toPlanDTO(plan))
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	plan, err := h.service.GetPlan(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPlanDTO(plan))
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	plan, err := h.service.UpdatePlan(r.Context(), id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPlanDTO(plan))
}

func (h *PlanHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	plan, err := h.service.ChangePlanStatus(r.Context(), id, application.PlanStatus(req.Status))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPlanDTO(plan))
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.DeletePlan(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUserID)
		return
	}

	plans, err := h.service.ListPlans(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := listPlansResponse{Plans: make([]planDTO, 0, len(plans))}
	for _, plan := range plans {
		response.Plans = append(response.Plans, toPlanDTO(plan))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

func (h *PlanHandler) SetRecurrence(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req recurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	rule, err := h.service.SetRecurrence(r.Context(), id, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRecurrenceDTO(&rule))
}

func (h *PlanHandler) ClearRecurrence(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.ClearRecurrence(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type planRequest struct {
	UserID    string `json:"user_id"`
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (req planRequest) toInput() application.PlanInput {
	return application.PlanInput{
		UserID:    req.UserID,
		BookID:    req.BookID,
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

type recurrenceRequest struct {
	RuleType string `json:"rule_type"`
	Interval int    `json:"interval"`
	Days     []int  `json:"days"`
}

func (req recurrenceRequest) toInput() (application.RecurrenceInput, *application.ValidationError) {
	input := application.RecurrenceInput{
		Type:     req.RuleType,
		Interval: req.Interval,
	}
	for _, remote := range req.Days {
		day, vErr := remoteDayToISO(remote, "days")
		if vErr != nil {
			return application.RecurrenceInput{}, vErr
		}
		input.Days = append(input.Days, day)
	}
	return input, nil
}

type planDTO struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	BookID     string         `json:"book_id"`
	Title      string         `json:"title"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Status     string         `json:"status"`
	Recurrence *recurrenceDTO `json:"recurrence,omitempty"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

type recurrenceDTO struct {
	ID       string `json:"id"`
	RuleType string `json:"rule_type"`
	Interval int    `json:"interval"`
	Days     []int  `json:"days,omitempty"`
}

type listPlansResponse struct {
	Plans []planDTO `json:"plans"`
}

func toPlanDTO(plan application.Plan) planDTO {
	return planDTO{
		ID:         plan.ID,
		UserID:     plan.UserID,
		BookID:     plan.BookID,
		Title:      plan.Title,
		StartDate:  formatDate(plan.StartDate),
		EndDate:    formatDate(plan.EndDate),
		Status:     string(plan.Status),
		Recurrence: toRecurrenceDTO(plan.Recurrence),
		CreatedAt:  formatTimestamp(plan.CreatedAt),
		UpdatedAt:  formatTimestamp(plan.UpdatedAt),
	}
}

func toRecurrenceDTO(rule *application.Recurrence) *recurrenceDTO {
	if rule == nil {
		return nil
	}
	return &recurrenceDTO{
		ID:       rule.ID,
		RuleType: application.RuleTypeToString(rule.Type),
		Interval: rule.Interval,
		Days:     isoDaysToRemote(rule.Days),
	}
}
