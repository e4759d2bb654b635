package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/trainhub/internal/api/dto"
	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
	"github.com/pratik-mahalle/trainhub/internal/pkg/validator"
)

// PlanHandler manages the plan catalog
type PlanHandler struct {
	service   plan.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(service plan.Service, log *logger.Logger, val *validator.Validator) *PlanHandler {
	return &PlanHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// List returns the plan catalog
// @Summary List plans
// @Description List plans; inactive plans are only listed for admins asking with active=false
// @Tags Plans
// @Produce json
// @Param active query bool false "Only active plans (default: true)"
// @Success 200 {array} dto.PlanDTO "Plans"
// @Security BearerAuth
// @Router /plans [get]
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := utils.ParseBoolQuery(r, "active", true) || !isAdmin(r)

	plans, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to list plans")
		utils.WriteServiceError(w, err, "Failed to list plans")
		return
	}

	dtos := make([]dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, dto.NewPlanDTO(p))
	}
	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Get returns a single plan
// @Summary Get plan by ID
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanDTO "Plan"
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Security BearerAuth
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to get plan")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewPlanDTO(p))
}

// Create adds a plan to the catalog
// @Summary Create plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body dto.CreatePlanRequest true "Plan details"
// @Success 201 {object} dto.PlanDTO "Plan created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 403 {object} utils.ErrorResponse "Admin role required"
// @Security BearerAuth
// @Router /plans [post]
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	p, err := h.service.Create(r.Context(), req.ToPlan())
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to create plan")
		utils.WriteServiceError(w, err, "Failed to create plan")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.NewPlanDTO(p))
}

// SetTrainings replaces the trainings a plan grants
// @Summary Replace plan trainings
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param request body dto.SetPlanTrainingsRequest true "Training IDs"
// @Success 200 {object} dto.PlanDTO "Updated plan"
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Security BearerAuth
// @Router /plans/{id}/trainings [put]
func (h *PlanHandler) SetTrainings(w http.ResponseWriter, r *http.Request) {
	var req dto.SetPlanTrainingsRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	p, err := h.service.SetTrainings(r.Context(), chi.URLParam(r, "id"), req.TrainingIDs)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to set plan trainings")
		utils.WriteServiceError(w, err, "Failed to set plan trainings")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewPlanDTO(p))
}

// Deactivate withdraws a plan from sale. Existing subscriptions keep it.
// @Summary Deactivate plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.SuccessResponse "Plan deactivated"
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Security BearerAuth
// @Router /plans/{id} [delete]
func (h *PlanHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.ErrorWithErr(err, "Failed to deactivate plan")
		utils.WriteServiceError(w, err, "Failed to deactivate plan")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Plan deactivated", nil)
}
