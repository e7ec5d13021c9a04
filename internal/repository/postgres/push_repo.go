package postgres

import (
	"context"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *pushSubscriptionRepository {
	return &pushSubscriptionRepository{db: db}
}

// Upsert keeps (member_id, endpoint) unique: re-registering an existing
// endpoint replaces its keys instead of inserting a duplicate row.
func (r *pushSubscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "updated_at"}),
	}).Create(sub).Error
}

func (r *pushSubscriptionRepository) ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.PushSubscription, error) {
	var subs []*domain.PushSubscription
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *pushSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PushSubscription{}, "id = ?", id).Error
}

func (r *pushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, memberID uuid.UUID, endpoint string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.PushSubscription{}, "member_id = ? AND endpoint = ?", memberID, endpoint).Error
}
