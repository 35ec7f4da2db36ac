package handlers

import (
	"log/slog"
	"net/http"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	service "github.com/farmmart/farmmart-platform/internal/services"
	"github.com/farmmart/farmmart-platform/internal/utils"
	"github.com/farmmart/farmmart-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

// CreatePaymentOrder opens a gateway order for the checkout's grand total.
// The returned intent id is what the frontend hands to the gateway widget.
func (h *PaymentHandler) CreatePaymentOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(r)
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CreatePaymentOrderRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		intent, err := h.paymentService.CreatePaymentOrder(r.Context(), claims.UserID, &req)
		if err != nil {
			slog.Error("Failed to create payment order",
				slog.String("buyerId", claims.UserID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Payment order created",
			slog.String("intentId", intent.ID),
			slog.Int64("amount", intent.Amount))
		response.Success(w, http.StatusCreated, intent)
	}
}

func (h *PaymentHandler) VerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(r)
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.VerifyPaymentRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		result, err := h.paymentService.VerifyPayment(r.Context(), &req)
		if err != nil {
			slog.Warn("Payment verification failed",
				slog.String("buyerId", claims.UserID.String()),
				slog.String("orderId", req.OrderID),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Payment verified", slog.String("orderId", req.OrderID))
		response.Success(w, http.StatusOK, result)
	}
}
