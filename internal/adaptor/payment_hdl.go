package adaptor

import (
	"encoding/json"
	"net"
	"net/http"

	"gym-booking/internal/dto/request"
	"gym-booking/internal/gateway/vnpay"
	"gym-booking/internal/usecase"
	"gym-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service  usecase.PaymentService
	gateway  *vnpay.Client
	frontend utils.FrontendConfig
	log      *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, gateway *vnpay.Client, frontend utils.FrontendConfig, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		gateway:  gateway,
		frontend: frontend,
		log:      log.With(zap.String("handler", "payment")),
	}
}

// CreatePayment handles POST /api/payments (protected)
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.CreatePayment(r.Context(), memberID.String(), clientIP(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create payment")
		return
	}

	utils.ResponseCreated(w, "success", payment)
}

// GetPayment handles GET /api/payments/{id} (protected)
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		utils.ResponseBadRequest(w, "Payment ID is required", nil)
		return
	}

	payment, err := h.service.GetPayment(r.Context(), memberID, role, paymentID)
	if err != nil {
		handleServiceError(w, h.log, err, "get payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// GetRegistrationPayments handles GET /api/registrations/{id}/payments (protected)
func (h *PaymentHandler) GetRegistrationPayments(w http.ResponseWriter, r *http.Request) {
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

	payments, err := h.service.GetRegistrationPayments(r.Context(), memberID, role, registrationID)
	if err != nil {
		handleServiceError(w, h.log, err, "get registration payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// ProcessCashPayment handles POST /api/admin/payments/{id}/cash (admin only)
func (h *PaymentHandler) ProcessCashPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		utils.ResponseBadRequest(w, "Payment ID is required", nil)
		return
	}

	payment, err := h.service.ProcessCashPayment(r.Context(), paymentID)
	if err != nil {
		handleServiceError(w, h.log, err, "process cash payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// VNPayCallback handles GET /api/payment/vnpay/callback (public).
// This endpoint terminates the trust boundary with the gateway: the signature
// is verified before anything else, and every failure collapses into the same
// generic redirect so the response leaks nothing about why.
func (h *PaymentHandler) VNPayCallback(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	if !h.gateway.VerifyCallback(params) {
		h.log.Warn("Gateway callback rejected - invalid signature",
			zap.String("ip", clientIP(r)),
		)
		http.Redirect(w, r, h.frontend.PaymentFailureURL, http.StatusFound)
		return
	}

	data, err := vnpay.ParseCallback(params)
	if err != nil {
		h.log.Warn("Gateway callback rejected - malformed parameters", zap.Error(err))
		http.Redirect(w, r, h.frontend.PaymentFailureURL, http.StatusFound)
		return
	}

	outcome, err := h.service.ResolveGatewayPayment(r.Context(), data.OrderID, data.ResponseCode, data.TransactionNo)
	if err != nil {
		h.log.Warn("Gateway callback could not be resolved",
			zap.Error(err),
			zap.String("order_id", data.OrderID),
		)
		http.Redirect(w, r, h.frontend.PaymentFailureURL, http.StatusFound)
		return
	}

	if outcome.Success {
		http.Redirect(w, r, h.frontend.PaymentSuccessURL, http.StatusFound)
		return
	}

	http.Redirect(w, r, h.frontend.PaymentFailureURL, http.StatusFound)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
