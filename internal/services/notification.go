package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// notificationService implements NotificationService
type notificationService struct {
	logger           *logger.Logger
	notificationRepo repositories.NotificationRepository
	realtime         *RealtimeService
	validation       *models.ValidationService
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	logger *logger.Logger,
	notificationRepo repositories.NotificationRepository,
	realtime *RealtimeService,
	validation *models.ValidationService,
) NotificationService {
	return &notificationService{
		logger:           logger,
		notificationRepo: notificationRepo,
		realtime:         realtime,
		validation:       validation,
	}
}

// Notify persists a notification and pushes it to the recipient's live
// subscription. Persistence is authoritative; a failed push only costs
// immediacy, the notification is still there on the next list.
func (s *notificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if err := s.validation.ValidateStruct(notification); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return NewTransportError("create notification", err)
	}

	channel := NotificationChannel(notification.CompanyID, notification.UserID)
	if err := s.realtime.Publish(ctx, channel, notification); err != nil {
		s.logger.WithCompany(notification.CompanyID).
			WithField("user_id", notification.UserID).
			WithError(err).Warn("Failed to push notification")
	}

	return nil
}

// GetNotifications retrieves the notifications addressed to a user
func (s *notificationService) GetNotifications(ctx context.Context, companyID, userID string, limit int) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.GetByUser(ctx, companyID, userID, limit)
	if err != nil {
		return nil, NewTransportError("list notifications", err)
	}
	return notifications, nil
}

// GetNotification retrieves a notification by ID
func (s *notificationService) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, NewTransportError("get notification", err)
	}
	return notification, nil
}

// MarkRead marks a notification as read
func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return NewTransportError("mark notification read", err)
	}
	return nil
}

// DeleteNotification deletes a notification. Deleting a missing id succeeds.
func (s *notificationService) DeleteNotification(ctx context.Context, id string) error {
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return NewTransportError("delete notification", err)
	}
	return nil
}

// Subscribe opens a live subscription on a user's notification stream
func (s *notificationService) Subscribe(ctx context.Context, companyID, userID string) (*Subscription, error) {
	return s.realtime.Subscribe(ctx, NotificationChannel(companyID, userID))
}
