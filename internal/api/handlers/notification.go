package handlers

import (
	"log/slog"
	"net/http"

	"github.com/farmmart/farmmart-platform/internal/models"
	service "github.com/farmmart/farmmart-platform/internal/services"
	"github.com/farmmart/farmmart-platform/internal/utils"
	"github.com/farmmart/farmmart-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validator: validator.New()}
}

func (h *NotificationHandler) SendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.EmailNotificationRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.notificationService.SendEmail(r.Context(), &req)
		if err != nil {
			slog.Error("Failed to send email notification",
				slog.String("recipient", req.To),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, size := parsePagination(r)

		notifications, err := h.notificationService.ListNotifications(r.Context(), page, size)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, notifications)
	}
}
