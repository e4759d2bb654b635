package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/trainhub/internal/api/dto"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
)

// AccessHandler answers entitlement questions
type AccessHandler struct {
	service        entitlement.Service
	logger         *logger.Logger
	contentBaseURL string
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(service entitlement.Service, log *logger.Logger, contentBaseURL string) *AccessHandler {
	return &AccessHandler{
		service:        service,
		logger:         log,
		contentBaseURL: strings.TrimRight(contentBaseURL, "/"),
	}
}

// Check decides whether a user may access a training
// @Summary Check training access
// @Description Resolve whether the caller (or, for admins, any user) may access a training at an instant
// @Tags Access
// @Produce json
// @Param trainingID path string true "Training ID"
// @Param userId query string false "User to check (admin only, defaults to the caller)"
// @Param asOf query string false "Instant to evaluate, RFC 3339 (defaults to now)"
// @Success 200 {object} dto.AccessDecisionDTO "Access decision"
// @Failure 400 {object} utils.ErrorResponse "Invalid parameters"
// @Failure 403 {object} utils.ErrorResponse "Checking another user requires admin"
// @Security BearerAuth
// @Router /access/{trainingID} [get]
func (h *AccessHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requireUser(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	if other := r.URL.Query().Get("userId"); other != "" && other != userID {
		if !isAdmin(r) {
			utils.WriteError(w, errors.Forbidden("Only admins can check access for other users"))
			return
		}
		userID = other
	}

	asOf, appErr := parseAsOf(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	trainingID := chi.URLParam(r, "trainingID")
	decision, err := h.service.Resolve(r.Context(), userID, trainingID, asOf)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"user_id":     userID,
			"training_id": trainingID,
		}).ErrorWithErr(err, "Failed to resolve access")
		utils.WriteServiceError(w, err, "Failed to resolve access")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewAccessDecisionDTO(userID, trainingID, asOf, decision))
}

// MyTrainings lists the trainings the caller can open
// @Summary List accessible trainings
// @Description List every training the caller may access at an instant
// @Tags Access
// @Produce json
// @Param asOf query string false "Instant to evaluate, RFC 3339 (defaults to now)"
// @Success 200 {object} dto.AccessibleTrainingsDTO "Accessible trainings"
// @Security BearerAuth
// @Router /me/trainings [get]
func (h *AccessHandler) MyTrainings(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requireUser(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	asOf, appErr := parseAsOf(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	trainings, err := h.service.AccessibleTrainings(r.Context(), userID, asOf)
	if err != nil {
		h.logger.With("user_id", userID).ErrorWithErr(err, "Failed to list accessible trainings")
		utils.WriteServiceError(w, err, "Failed to list accessible trainings")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.AccessibleTrainingsDTO{
		UserID:      userID,
		TrainingIDs: trainings,
		AsOf:        asOf,
	})
}

// Content hands out the content location of a training. It is mounted behind
// the paywall middleware, so reaching it means access was granted.
// @Summary Get training content
// @Description Return the content location of a training the caller is entitled to
// @Tags Access
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} dto.TrainingContentDTO "Content location"
// @Failure 403 {object} utils.ErrorResponse "No subscription grants this training"
// @Failure 503 {object} utils.ErrorResponse "Access could not be verified"
// @Security BearerAuth
// @Router /trainings/{id}/content [get]
func (h *AccessHandler) Content(w http.ResponseWriter, r *http.Request) {
	trainingID := chi.URLParam(r, "id")
	utils.WriteSuccess(w, http.StatusOK, dto.TrainingContentDTO{
		TrainingID: trainingID,
		StreamURL:  h.contentBaseURL + "/" + trainingID,
	})
}
