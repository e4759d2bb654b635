package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/trainhub/internal/api/dto"
	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
	"github.com/pratik-mahalle/trainhub/internal/pkg/validator"
)

// OrganizationHandler manages organizations and their members
type OrganizationHandler struct {
	organizations organization.Service
	memberships   membership.Service
	logger        *logger.Logger
	validator     *validator.Validator
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgs organization.Service, members membership.Service, log *logger.Logger, val *validator.Validator) *OrganizationHandler {
	return &OrganizationHandler{
		organizations: orgs,
		memberships:   members,
		logger:        log,
		validator:     val,
	}
}

// callerRole returns the caller's role in organizationID, if any
func (h *OrganizationHandler) callerRole(r *http.Request, organizationID string) (membership.Role, bool, error) {
	userID, appErr := requireUser(r)
	if appErr != nil {
		return "", false, appErr
	}
	ms, err := h.memberships.ListByUser(r.Context(), userID)
	if err != nil {
		return "", false, err
	}
	for _, m := range ms {
		if m.OrganizationID == organizationID {
			return m.Role, true, nil
		}
	}
	return "", false, nil
}

// authorize lets platform admins through and otherwise requires membership,
// or the ORG_ADMIN role when manage is set. It writes the response on refusal.
func (h *OrganizationHandler) authorize(w http.ResponseWriter, r *http.Request, organizationID string, manage bool) bool {
	if isAdmin(r) {
		return true
	}
	role, member, err := h.callerRole(r, organizationID)
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to check membership")
		return false
	}
	if !member || (manage && role != membership.RoleOrgAdmin) {
		utils.WriteError(w, errors.Forbidden("Not allowed for this organization"))
		return false
	}
	return true
}

// Create registers an organization together with its account
// @Summary Create organization
// @Tags Organizations
// @Accept json
// @Produce json
// @Param request body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationDTO "Organization created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or CNPJ"
// @Failure 409 {object} utils.ErrorResponse "CNPJ already registered"
// @Security BearerAuth
// @Router /organizations [post]
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrganizationRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	o, err := h.organizations.Create(r.Context(), req.RazaoSocial, req.CNPJ)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to create organization")
		utils.WriteServiceError(w, err, "Failed to create organization")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.NewOrganizationDTO(o))
}

// Get returns an organization
// @Summary Get organization
// @Tags Organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationDTO "Organization"
// @Failure 403 {object} utils.ErrorResponse "Not a member"
// @Failure 404 {object} utils.ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id} [get]
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.authorize(w, r, id, false) {
		return
	}

	o, err := h.organizations.Get(r.Context(), id)
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to get organization")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewOrganizationDTO(o))
}

// Lookup finds an organization by CNPJ
// @Summary Find organization by CNPJ
// @Tags Organizations
// @Produce json
// @Param cnpj query string true "CNPJ, punctuation optional"
// @Success 200 {object} dto.OrganizationDTO "Organization"
// @Failure 404 {object} utils.ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations [get]
func (h *OrganizationHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	cnpj := r.URL.Query().Get("cnpj")
	if cnpj == "" {
		utils.WriteError(w, errors.BadRequest("cnpj query parameter is required"))
		return
	}

	o, err := h.organizations.GetByCNPJ(r.Context(), cnpj)
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to find organization")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewOrganizationDTO(o))
}

// Suspend marks an organization SUSPENDED
// @Summary Suspend organization
// @Tags Organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} utils.SuccessResponse "Organization suspended"
// @Failure 404 {object} utils.ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id}/suspend [post]
func (h *OrganizationHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	if err := h.organizations.Suspend(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteServiceError(w, err, "Failed to suspend organization")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Organization suspended", nil)
}

// Activate marks an organization ACTIVE
// @Summary Activate organization
// @Tags Organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} utils.SuccessResponse "Organization activated"
// @Failure 404 {object} utils.ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id}/activate [post]
func (h *OrganizationHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.organizations.Activate(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteServiceError(w, err, "Failed to activate organization")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Organization activated", nil)
}

// ListMembers lists an organization's members
// @Summary List members
// @Tags Memberships
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {array} dto.MembershipDTO "Members"
// @Failure 403 {object} utils.ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /organizations/{id}/members [get]
func (h *OrganizationHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.authorize(w, r, id, false) {
		return
	}

	ms, err := h.memberships.ListByOrganization(r.Context(), id)
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to list members")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewMembershipDTOs(ms))
}

// AddMember adds a user to an organization
// @Summary Add member
// @Tags Memberships
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param request body dto.AddMemberRequest true "Member"
// @Success 201 {object} dto.MembershipDTO "Membership created"
// @Failure 403 {object} utils.ErrorResponse "ORG_ADMIN required"
// @Failure 409 {object} utils.ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /organizations/{id}/members [post]
func (h *OrganizationHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.authorize(w, r, id, true) {
		return
	}

	var req dto.AddMemberRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	m, err := h.memberships.Add(r.Context(), req.UserID, id, membership.Role(req.Role))
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to add member")
		utils.WriteServiceError(w, err, "Failed to add member")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.NewMembershipDTO(m))
}

// ChangeMemberRole changes a member's role
// @Summary Change member role
// @Tags Memberships
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param userID path string true "User ID"
// @Param request body dto.ChangeRoleRequest true "Role"
// @Success 200 {object} utils.SuccessResponse "Role changed"
// @Failure 422 {object} utils.ErrorResponse "Would leave the organization without an ORG_ADMIN"
// @Security BearerAuth
// @Router /organizations/{id}/members/{userID} [put]
func (h *OrganizationHandler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.authorize(w, r, id, true) {
		return
	}

	var req dto.ChangeRoleRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	if err := h.memberships.ChangeRole(r.Context(), chi.URLParam(r, "userID"), id, membership.Role(req.Role)); err != nil {
		utils.WriteServiceError(w, err, "Failed to change role")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Role changed", nil)
}

// RemoveMember removes a user from an organization. Members may remove themselves.
// @Summary Remove member
// @Tags Memberships
// @Produce json
// @Param id path string true "Organization ID"
// @Param userID path string true "User ID"
// @Success 200 {object} utils.SuccessResponse "Member removed"
// @Failure 422 {object} utils.ErrorResponse "Would leave the organization without an ORG_ADMIN"
// @Security BearerAuth
// @Router /organizations/{id}/members/{userID} [delete]
func (h *OrganizationHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target := chi.URLParam(r, "userID")

	caller, _ := requireUser(r)
	if caller != target && !h.authorize(w, r, id, true) {
		return
	}

	if err := h.memberships.Remove(r.Context(), target, id); err != nil {
		utils.WriteServiceError(w, err, "Failed to remove member")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Member removed", nil)
}
