package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PushEnqueuer hands a delivery to the push fan-out worker. Enqueue must
// never block; push delivery is a separate failure domain from the durable
// notification record.
type PushEnqueuer interface {
	Enqueue(delivery PushDelivery)
}

// NotificationService persists notification events and triggers best-effort
// push delivery for each one.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	memberRepo       repository.MemberRepository
	pushQueue        PushEnqueuer
	logger           *zap.Logger
}

func NewNotificationService(notificationRepo repository.NotificationRepository, memberRepo repository.MemberRepository, pushQueue PushEnqueuer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		memberRepo:       memberRepo,
		pushQueue:        pushQueue,
		logger:           logger,
	}
}

// Notify writes one NotificationEvent and enqueues its push delivery. The
// event is durable once this returns; push failures never roll it back.
func (s *NotificationService) Notify(ctx context.Context, recipientID, senderID uuid.UUID, kind domain.NotificationKind, postID uuid.UUID) error {
	if recipientID == senderID {
		return domain.ErrSelfNotification
	}

	event := &domain.NotificationEvent{
		ID:          uuid.New(),
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		PostID:      postID,
	}
	if err := s.notificationRepo.Create(ctx, event); err != nil {
		return err
	}

	title, body := s.pushContent(ctx, senderID, kind)
	s.pushQueue.Enqueue(PushDelivery{
		MemberID: recipientID,
		Title:    title,
		Body:     body,
		URL:      fmt.Sprintf("/posts/%s", postID),
	})
	return nil
}

func (s *NotificationService) pushContent(ctx context.Context, senderID uuid.UUID, kind domain.NotificationKind) (title, body string) {
	senderName := "Someone"
	if sender, err := s.memberRepo.GetByID(ctx, senderID); err == nil {
		senderName = sender.FullName
	}

	switch kind {
	case domain.NotificationLike:
		return "New like", fmt.Sprintf("%s liked your post", senderName)
	case domain.NotificationComment:
		return "New comment", fmt.Sprintf("%s commented on your post", senderName)
	case domain.NotificationMention:
		return "You were mentioned", fmt.Sprintf("%s mentioned you in a post", senderName)
	default:
		return "New activity", fmt.Sprintf("%s interacted with your post", senderName)
	}
}

func (s *NotificationService) ListForMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*domain.NotificationEvent, error) {
	return s.notificationRepo.ListByRecipient(ctx, memberID, limit, offset)
}

// MarkRead flips the read flag; only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, memberID uuid.UUID) error {
	event, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotificationNotFound
		}
		return err
	}
	if event.RecipientID != memberID {
		return domain.ErrForbidden
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}
