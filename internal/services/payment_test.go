package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/farmmart/farmmart-platform/internal/config"
	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	"github.com/farmmart/farmmart-platform/internal/repositories/mocks"
	service "github.com/farmmart/farmmart-platform/internal/services"
	"github.com/farmmart/farmmart-platform/pkg/razorpay"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockGateway implements razorpay.Client for service tests.
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*razorpay.Order, error) {
	args := m.Called(ctx, amount, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.Order), args.Error(1)
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

func paymentTestConfig() *config.Config {
	return &config.Config{
		Razorpay: config.Razorpay{
			KeyID:     "rzp_test_key",
			KeySecret: "rzp_test_secret",
			Currency:  "INR",
			Timeout:   15 * time.Second,
		},
	}
}

func TestPaymentService_CreatePaymentOrder(t *testing.T) {

	buyerID := uuid.New()

	t.Run("Success - Intent Recorded As Pending", func(t *testing.T) {

		mockRepo := new(mocks.PaymentRepository)
		gateway := new(mockGateway)

		paymentService := service.NewPaymentService(mockRepo, gateway, paymentTestConfig())

		gateway.On("CreateOrder", mock.Anything, int64(32699), "INR", mock.AnythingOfType("string")).
			Return(&razorpay.Order{
				ID:       "order_abc123",
				Amount:   32699,
				Currency: "INR",
				Status:   "created",
			}, nil).Once()

		mockRepo.On("CreateIntent", mock.Anything, mock.MatchedBy(func(intent *models.PaymentIntent) bool {
			return intent.ID == "order_abc123" &&
				intent.BuyerID == buyerID &&
				intent.Amount == 32699 &&
				intent.Status == models.PaymentIntentPending
		})).Return(nil).Once()

		intent, err := paymentService.CreatePaymentOrder(context.Background(), buyerID, &models.CreatePaymentOrderRequest{Amount: 32699})

		assert.NoError(t, err)
		assert.Equal(t, "order_abc123", intent.ID)
		assert.Equal(t, models.PaymentIntentPending, intent.Status)

		gateway.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Gateway Timeout", func(t *testing.T) {

		mockRepo := new(mocks.PaymentRepository)
		gateway := new(mockGateway)

		paymentService := service.NewPaymentService(mockRepo, gateway, paymentTestConfig())

		gateway.On("CreateOrder", mock.Anything, int64(5000), "INR", mock.AnythingOfType("string")).
			Return(nil, context.DeadlineExceeded).Once()

		_, err := paymentService.CreatePaymentOrder(context.Background(), buyerID, &models.CreatePaymentOrderRequest{Amount: 5000})

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodePaymentTimeout, appErr.Code)

		mockRepo.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Gateway Error", func(t *testing.T) {

		mockRepo := new(mocks.PaymentRepository)
		gateway := new(mockGateway)

		paymentService := service.NewPaymentService(mockRepo, gateway, paymentTestConfig())

		gateway.On("CreateOrder", mock.Anything, int64(5000), "INR", mock.AnythingOfType("string")).
			Return(nil, assert.AnError).Once()

		_, err := paymentService.CreatePaymentOrder(context.Background(), buyerID, &models.CreatePaymentOrderRequest{Amount: 5000})

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeThirdPartyError, appErr.Code)
	})
}

func TestPaymentService_VerifyPayment(t *testing.T) {

	t.Run("Success - Valid Signature Marks Intent Verified", func(t *testing.T) {

		mockRepo := new(mocks.PaymentRepository)
		gateway := new(mockGateway)

		paymentService := service.NewPaymentService(mockRepo, gateway, paymentTestConfig())

		ctx := context.Background()

		mockRepo.On("GetIntentByID", ctx, "order_abc123").Return(&models.PaymentIntent{
			ID:     "order_abc123",
			Amount: 32699,
			Status: models.PaymentIntentPending,
		}, nil).Once()

		gateway.On("VerifySignature", "order_abc123", "pay_xyz", "sig_ok").Return(true).Once()
		mockRepo.On("UpdateIntentStatus", ctx, "order_abc123", models.PaymentIntentVerified).Return(nil).Once()

		resp, err := paymentService.VerifyPayment(ctx, &models.VerifyPaymentRequest{
			OrderID:   "order_abc123",
			PaymentID: "pay_xyz",
			Signature: "sig_ok",
		})

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentIntentVerified, resp.Status)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Bad Signature Marks Intent Failed", func(t *testing.T) {

		mockRepo := new(mocks.PaymentRepository)
		gateway := new(mockGateway)

		paymentService := service.NewPaymentService(mockRepo, gateway, paymentTestConfig())

		ctx := context.Background()

		mockRepo.On("GetIntentByID", ctx, "order_abc123").Return(&models.PaymentIntent{
			ID:     "order_abc123",
			Status: models.PaymentIntentPending,
		}, nil).Once()

		gateway.On("VerifySignature", "order_abc123", "pay_xyz", "sig_forged").Return(false).Once()
		mockRepo.On("UpdateIntentStatus", ctx, "order_abc123", models.PaymentIntentFailed).Return(nil).Once()

		_, err := paymentService.VerifyPayment(ctx, &models.VerifyPaymentRequest{
			OrderID:   "order_abc123",
			PaymentID: "pay_xyz",
			Signature: "sig_forged",
		})

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodePaymentNotVerified, appErr.Code)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Already Verified Is Idempotent", func(t *testing.T) {

		mockRepo := new(mocks.PaymentRepository)
		gateway := new(mockGateway)

		paymentService := service.NewPaymentService(mockRepo, gateway, paymentTestConfig())

		ctx := context.Background()

		mockRepo.On("GetIntentByID", ctx, "order_abc123").Return(&models.PaymentIntent{
			ID:     "order_abc123",
			Status: models.PaymentIntentVerified,
		}, nil).Once()

		resp, err := paymentService.VerifyPayment(ctx, &models.VerifyPaymentRequest{
			OrderID:   "order_abc123",
			PaymentID: "pay_xyz",
			Signature: "sig_ok",
		})

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentIntentVerified, resp.Status)

		gateway.AssertNotCalled(t, "VerifySignature", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Order", func(t *testing.T) {

		mockRepo := new(mocks.PaymentRepository)
		gateway := new(mockGateway)

		paymentService := service.NewPaymentService(mockRepo, gateway, paymentTestConfig())

		ctx := context.Background()

		mockRepo.On("GetIntentByID", ctx, "order_missing").Return(nil, sql.ErrNoRows).Once()

		_, err := paymentService.VerifyPayment(ctx, &models.VerifyPaymentRequest{
			OrderID:   "order_missing",
			PaymentID: "pay_xyz",
			Signature: "sig_ok",
		})

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}
