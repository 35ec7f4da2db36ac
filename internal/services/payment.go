package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/farmmart/farmmart-platform/internal/config"
	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	repository "github.com/farmmart/farmmart-platform/internal/repositories"
	"github.com/farmmart/farmmart-platform/pkg/razorpay"
	"github.com/google/uuid"
)

type PaymentService interface {
	CreatePaymentOrder(ctx context.Context, buyerID uuid.UUID, req *models.CreatePaymentOrderRequest) (*models.PaymentIntent, error)
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.PaymentVerificationResponse, error)
}

type paymentService struct {
	repo    repository.PaymentRepository
	gateway razorpay.Client
	cfg     *config.Config
}

func NewPaymentService(repo repository.PaymentRepository, gateway razorpay.Client, cfg *config.Config) PaymentService {
	return &paymentService{repo: repo, gateway: gateway, cfg: cfg}
}

// CreatePaymentOrder opens a gateway order for the checkout's grand total and
// records a pending intent keyed by the gateway order id. The gateway call is
// bounded by the configured timeout; running past it surfaces as a payment
// timeout rather than a generic failure.
func (s *paymentService) CreatePaymentOrder(ctx context.Context, buyerID uuid.UUID, req *models.CreatePaymentOrderRequest) (*models.PaymentIntent, error) {

	gwCtx, cancel := context.WithTimeout(ctx, s.cfg.Razorpay.Timeout)
	defer cancel()

	receipt := "rcpt_" + uuid.NewString()

	order, err := s.gateway.CreateOrder(gwCtx, req.Amount, s.cfg.Razorpay.Currency, receipt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || gwCtx.Err() == context.DeadlineExceeded {
			return nil, appErrors.PaymentTimeoutError("Payment gateway did not respond in time").WithError(err)
		}

		return nil, appErrors.ThirdPartyError("Failed to create payment order").WithError(err)
	}

	intent := &models.PaymentIntent{
		ID:       order.ID,
		BuyerID:  buyerID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Status:   models.PaymentIntentPending,
	}

	if err := s.repo.CreateIntent(ctx, intent); err != nil {
		return nil, appErrors.DatabaseError("Failed to record payment intent").WithError(err)
	}

	return intent, nil
}

// VerifyPayment checks the checkout callback signature against the intent and
// flips it to verified, or to failed on a bad signature. Only a verified
// intent can gate an order submission.
func (s *paymentService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.PaymentVerificationResponse, error) {

	intent, err := s.repo.GetIntentByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Payment order not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch payment intent").WithError(err)
	}

	if intent.Status == models.PaymentIntentVerified {
		return &models.PaymentVerificationResponse{Status: models.PaymentIntentVerified}, nil
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {

		if err := s.repo.UpdateIntentStatus(ctx, intent.ID, models.PaymentIntentFailed); err != nil {
			slog.Error("Failed to mark payment intent as failed",
				slog.String("intentId", intent.ID),
				slog.String("error", err.Error()))
		}

		return nil, appErrors.PaymentNotVerifiedError("Payment signature verification failed")
	}

	if err := s.repo.UpdateIntentStatus(ctx, intent.ID, models.PaymentIntentVerified); err != nil {
		return nil, appErrors.DatabaseError("Failed to update payment intent").WithError(err)
	}

	return &models.PaymentVerificationResponse{Status: models.PaymentIntentVerified}, nil
}
