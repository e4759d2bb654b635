package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/trainhub/internal/api/dto"
	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
)

// accountGuard decides whether the caller may read an account: admins always,
// owners of personal accounts, and members of owning organizations
type accountGuard struct {
	accounts    account.Service
	memberships membership.Service
}

// load fetches the account and writes the refusal when the caller may not see it
func (g accountGuard) load(w http.ResponseWriter, r *http.Request, accountID string) (*account.Account, bool) {
	a, err := g.accounts.Get(r.Context(), accountID)
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to get account")
		return nil, false
	}
	if isAdmin(r) {
		return a, true
	}

	userID, appErr := requireUser(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return nil, false
	}

	switch a.Kind {
	case account.KindPersonal:
		if a.UserID == userID {
			return a, true
		}
	case account.KindOrganizational:
		ms, err := g.memberships.ListByUser(r.Context(), userID)
		if err != nil {
			utils.WriteServiceError(w, err, "Failed to check membership")
			return nil, false
		}
		for _, m := range ms {
			if m.OrganizationID == a.OrganizationID {
				return a, true
			}
		}
	}

	// Hide existence from callers who cannot see the account
	utils.WriteError(w, errors.NotFound("Account"))
	return nil, false
}

// AccountHandler exposes accounts
type AccountHandler struct {
	guard  accountGuard
	logger *logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts account.Service, memberships membership.Service, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		guard:  accountGuard{accounts: accounts, memberships: memberships},
		logger: log,
	}
}

// Me returns the caller's personal account, creating it on first use
// @Summary Get my personal account
// @Tags Accounts
// @Produce json
// @Success 200 {object} dto.AccountDTO "Personal account"
// @Security BearerAuth
// @Router /me/account [get]
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requireUser(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	a, err := h.guard.accounts.EnsurePersonal(r.Context(), userID)
	if err != nil {
		h.logger.With("user_id", userID).ErrorWithErr(err, "Failed to ensure personal account")
		utils.WriteServiceError(w, err, "Failed to get personal account")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewAccountDTO(a))
}

// MyMemberships lists the organizations the caller belongs to
// @Summary List my memberships
// @Tags Memberships
// @Produce json
// @Success 200 {array} dto.MembershipDTO "Memberships"
// @Security BearerAuth
// @Router /me/memberships [get]
func (h *AccountHandler) MyMemberships(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requireUser(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	ms, err := h.guard.memberships.ListByUser(r.Context(), userID)
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to list memberships")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewMembershipDTOs(ms))
}

// Get returns an account
// @Summary Get account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountDTO "Account"
// @Failure 404 {object} utils.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.guard.load(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewAccountDTO(a))
}
