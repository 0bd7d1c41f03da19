package adaptor

import (
	"encoding/json"
	"net/http"

	"gym-booking/internal/dto/request"
	"gym-booking/internal/usecase"
	"gym-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RegistrationHandler struct {
	service usecase.RegistrationService
	log     *zap.Logger
}

func NewRegistrationHandler(service usecase.RegistrationService, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		log:     log.With(zap.String("handler", "registration")),
	}
}

// CreateRegistration handles POST /api/registrations (protected)
func (h *RegistrationHandler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reg, err := h.service.CreateRegistration(r.Context(), memberID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create registration")
		return
	}

	utils.ResponseCreated(w, "success", reg)
}

// GetRegistration handles GET /api/registrations/{id} (protected)
func (h *RegistrationHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	registrationID := chi.URLParam(r, "id")
	if registrationID == "" {
		utils.ResponseBadRequest(w, "Registration ID is required", nil)
		return
	}

	reg, err := h.service.GetRegistration(r.Context(), memberID, role, registrationID)
	if err != nil {
		handleServiceError(w, h.log, err, "get registration")
		return
	}

	utils.ResponseSuccess(w, "success", reg)
}

// GetMemberRegistrations handles GET /api/registrations (protected)
func (h *RegistrationHandler) GetMemberRegistrations(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	regs, err := h.service.GetMemberRegistrations(r.Context(), memberID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get member registrations")
		return
	}

	utils.ResponseSuccess(w, "success", regs)
}

// ExpireOverdue handles POST /api/admin/registrations/expire (admin only).
// The sweep is triggered externally (cron hitting this endpoint).
func (h *RegistrationHandler) ExpireOverdue(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.ExpireOverdue(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "expire overdue registrations")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int{"expired": count})
}

// CancelRegistration handles PUT /api/registrations/{id}/cancel (protected)
func (h *RegistrationHandler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	registrationID := chi.URLParam(r, "id")
	if registrationID == "" {
		utils.ResponseBadRequest(w, "Registration ID is required", nil)
		return
	}

	var req request.CancelRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.CancelRegistration(r.Context(), memberID, role, registrationID, req.Reason); err != nil {
		handleServiceError(w, h.log, err, "cancel registration")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
