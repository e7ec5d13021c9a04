package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationLike    NotificationKind = "LIKE"
	NotificationComment NotificationKind = "COMMENT"
	NotificationMention NotificationKind = "MENTION"
)

// NotificationEvent is a durable record of a social event aimed at one
// member. Sender and recipient are never the same member.
type NotificationEvent struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RecipientID uuid.UUID        `json:"recipientId" gorm:"type:uuid;not null;index"`
	SenderID    uuid.UUID        `json:"senderId" gorm:"type:uuid;not null"`
	Kind        NotificationKind `json:"kind" gorm:"type:varchar(16);not null"`
	PostID      uuid.UUID        `json:"postId" gorm:"type:uuid;not null"`
	Read        bool             `json:"read" gorm:"not null;default:false"`
	CreatedAt   time.Time        `json:"createdAt"`

	Sender *Member `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Post   *Post   `json:"post,omitempty" gorm:"foreignKey:PostID"`
}
