package domain

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one registered browser push target. A member may
// hold several (one per device); (member, endpoint) is unique and
// re-registering the same endpoint replaces the keys in place.
type PushSubscription struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MemberID  uuid.UUID `json:"memberId" gorm:"type:uuid;not null;uniqueIndex:idx_push_subs_member_endpoint"`
	Endpoint  string    `json:"endpoint" gorm:"not null;uniqueIndex:idx_push_subs_member_endpoint"`
	P256dh    string    `json:"-" gorm:"not null"`
	Auth      string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
