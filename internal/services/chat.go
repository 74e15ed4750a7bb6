package services

import (
	"context"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// chatService implements ChatService
type chatService struct {
	logger     *logger.Logger
	chatRepo   repositories.ChatMessageRepository
	companySvc CompanyService
	realtime   *RealtimeService
	validation *models.ValidationService
}

// NewChatService creates a new chat service
func NewChatService(
	logger *logger.Logger,
	chatRepo repositories.ChatMessageRepository,
	companySvc CompanyService,
	realtime *RealtimeService,
	validation *models.ValidationService,
) ChatService {
	return &chatService{
		logger:     logger,
		chatRepo:   chatRepo,
		companySvc: companySvc,
		realtime:   realtime,
		validation: validation,
	}
}

// SendMessage persists a chat message and broadcasts it on the company
// channel. The company must have chat enabled.
func (s *chatService) SendMessage(ctx context.Context, message *models.ChatMessage) error {
	company, err := s.companySvc.GetCompany(ctx, message.CompanyID)
	if err != nil {
		return err
	}
	if !company.Settings.EnableChat {
		return ErrFeatureDisabled
	}

	if message.SentAt.IsZero() {
		message.SentAt = time.Now()
	}

	if err := s.validation.ValidateStruct(message); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.chatRepo.Create(ctx, message); err != nil {
		return NewTransportError("send chat message", err)
	}

	if err := s.realtime.Publish(ctx, ChatChannel(message.CompanyID), message); err != nil {
		s.logger.WithCompany(message.CompanyID).
			WithError(err).Warn("Failed to broadcast chat message")
	}

	return nil
}

// GetHistory retrieves the chat history of a company, newest first
func (s *chatService) GetHistory(ctx context.Context, companyID string, limit, offset int) ([]*models.ChatMessage, error) {
	messages, err := s.chatRepo.GetByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, NewTransportError("chat history", err)
	}
	return messages, nil
}

// Subscribe opens a live subscription on the company chat channel
func (s *chatService) Subscribe(ctx context.Context, companyID string) (*Subscription, error) {
	return s.realtime.Subscribe(ctx, ChatChannel(companyID))
}
