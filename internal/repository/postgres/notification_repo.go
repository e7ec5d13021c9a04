package postgres

import (
	"context"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, event *domain.NotificationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationEvent, error) {
	var event domain.NotificationEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.NotificationEvent, error) {
	var events []*domain.NotificationEvent
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Post").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.NotificationEvent{}).
		Where("id = ?", id).
		Update("read", true).Error
}
