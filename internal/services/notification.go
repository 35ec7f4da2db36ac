package service

import (
	"context"
	"encoding/json"
	"log/slog"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	repository "github.com/farmmart/farmmart-platform/internal/repositories"
	"github.com/farmmart/farmmart-platform/pkg/sendgrid"
	"github.com/google/uuid"
)

type NotificationService interface {
	SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error)
	ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	email sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, email sendgrid.EmailService) NotificationService {
	return &notificationService{repo: repo, email: email}
}

// SendEmail records the notification, hands it to the provider, then marks it
// sent or failed. The stored record survives provider failures for retries.
func (s *notificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error) {

	var metadata json.RawMessage

	if len(req.Metadata) > 0 {
		encoded, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, appErrors.BadRequestError("Invalid notification metadata").WithError(err)
		}
		metadata = encoded
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.NotificationStatusPending,
		Metadata:  metadata,
	}

	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return nil, appErrors.DatabaseError("Failed to record notification").WithError(err)
	}

	if err := s.email.Send(ctx, req); err != nil {

		if updateErr := s.repo.UpdateNotificationStatus(ctx, notification.ID, models.NotificationStatusFailed); updateErr != nil {
			slog.Error("Failed to mark notification as failed",
				slog.String("notificationId", notification.ID.String()),
				slog.String("error", updateErr.Error()))
		}

		return nil, appErrors.ThirdPartyError("Failed to send email").WithError(err)
	}

	if err := s.repo.UpdateNotificationStatus(ctx, notification.ID, models.NotificationStatusSent); err != nil {
		slog.Error("Failed to mark notification as sent",
			slog.String("notificationId", notification.ID.String()),
			slog.String("error", err.Error()))
	}

	return &models.NotificationResponse{ID: notification.ID, Status: models.NotificationStatusSent}, nil
}

func (s *notificationService) ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, error) {

	notifications, err := s.repo.ListNotifications(ctx, page, size)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list notifications").WithError(err)
	}

	return notifications, nil
}
