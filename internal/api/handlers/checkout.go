package handlers

import (
	"log/slog"
	"net/http"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/metrics"
	"github.com/farmmart/farmmart-platform/internal/models"
	service "github.com/farmmart/farmmart-platform/internal/services"
	"github.com/farmmart/farmmart-platform/internal/utils"
	"github.com/farmmart/farmmart-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// Preview shows the buyer how their cart splits into per-farmer orders and
// the grand total, without writing anything.
func (h *CheckoutHandler) Preview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(r)
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CheckoutRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		preview, err := h.checkoutService.Preview(r.Context(), claims.UserID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, preview)
	}
}

func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(r)
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CheckoutRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		confirmations, err := h.checkoutService.Submit(r.Context(), claims.UserID, &req)
		if err != nil {
			slog.Error("Checkout failed",
				slog.String("buyerId", claims.UserID.String()),
				slog.String("paymentMethod", string(req.PaymentMethod)),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		metrics.ObserveCheckout(string(req.PaymentMethod), len(confirmations))

		slog.Info("Checkout completed",
			slog.String("buyerId", claims.UserID.String()),
			slog.Int("orders", len(confirmations)))
		response.Success(w, http.StatusCreated, confirmations)
	}
}
