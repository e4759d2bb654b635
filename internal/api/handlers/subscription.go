package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/trainhub/internal/api/dto"
	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
	"github.com/pratik-mahalle/trainhub/internal/pkg/validator"
)

// SubscriptionHandler drives the subscription lifecycle. Mutations are
// mounted for admins only; the billing system calls them with an admin identity.
type SubscriptionHandler struct {
	service   subscription.Service
	guard     accountGuard
	logger    *logger.Logger
	validator *validator.Validator
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	service subscription.Service,
	accounts account.Service,
	memberships membership.Service,
	log *logger.Logger,
	val *validator.Validator,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:   service,
		guard:     accountGuard{accounts: accounts, memberships: memberships},
		logger:    log,
		validator: val,
	}
}

// Create starts a subscription
// @Summary Create subscription
// @Description Start a subscription of a plan for an account. Fails with 409 when the account already has one in force.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body dto.CreateSubscriptionRequest true "Subscription"
// @Success 201 {object} dto.SubscriptionDTO "Subscription created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 404 {object} utils.ErrorResponse "Account or active plan not found"
// @Failure 409 {object} utils.ErrorResponse "Account already has an active subscription"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubscriptionRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}
	origin := subscription.Origin(req.Origin)
	if origin == "" {
		origin = subscription.OriginPurchase
	}

	sub, err := h.service.Create(r.Context(), req.AccountID, req.PlanID, origin)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"account_id": req.AccountID,
			"plan_id":    req.PlanID,
		}).WarnWithErr(err, "Failed to create subscription")
		utils.WriteServiceError(w, err, "Failed to create subscription")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.NewSubscriptionDTO(sub))
}

// Get returns a subscription
// @Summary Get subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionDTO "Subscription"
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to get subscription")
		return
	}
	if _, ok := h.guard.load(w, r, sub.AccountID); !ok {
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewSubscriptionDTO(sub))
}

// ListByAccount lists an account's subscriptions, newest first
// @Summary List account subscriptions
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {array} dto.SubscriptionDTO "Subscriptions"
// @Failure 404 {object} utils.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/subscriptions [get]
func (h *SubscriptionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	a, ok := h.guard.load(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	subs, err := h.service.ListByAccount(r.Context(), a.ID)
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to list subscriptions")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewSubscriptionDTOs(subs))
}

// Cancel cancels an ACTIVE subscription
// @Summary Cancel subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} utils.SuccessResponse "Subscription canceled"
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Failure 422 {object} utils.ErrorResponse "Subscription is not ACTIVE"
// @Security BearerAuth
// @Router /subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.logger.With("subscription_id", id).WarnWithErr(err, "Failed to cancel subscription")
		utils.WriteServiceError(w, err, "Failed to cancel subscription")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription canceled", nil)
}

// Renew starts a RENEWAL subscription following an existing one
// @Summary Renew subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 201 {object} dto.SubscriptionDTO "Renewal created"
// @Failure 404 {object} utils.ErrorResponse "Subscription or active plan not found"
// @Failure 409 {object} utils.ErrorResponse "Subscription is still in force"
// @Security BearerAuth
// @Router /subscriptions/{id}/renew [post]
func (h *SubscriptionHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := h.service.Renew(r.Context(), id)
	if err != nil {
		h.logger.With("subscription_id", id).WarnWithErr(err, "Failed to renew subscription")
		utils.WriteServiceError(w, err, "Failed to renew subscription")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.NewSubscriptionDTO(sub))
}
