package repository

import (
	"context"
	"time"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/google/uuid"
)

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	GetByUsername(ctx context.Context, username string) (*domain.Member, error)
	GetByUsernames(ctx context.Context, usernames []string) ([]*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
}

// MemberTotal is one aggregation row: a member's summed session duration
// inside a date range, with display fields denormalized for ranking output.
type MemberTotal struct {
	MemberID     uuid.UUID   `gorm:"column:member_id"`
	Username     string      `gorm:"column:username"`
	FullName     string      `gorm:"column:full_name"`
	AvatarURL    string      `gorm:"column:avatar_url"`
	Role         domain.Role `gorm:"column:role"`
	TotalSeconds int64       `gorm:"column:total_seconds"`
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.AttendanceSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceSession, error)
	GetOpenByMemberID(ctx context.Context, memberID uuid.UUID) (*domain.AttendanceSession, error)
	ListOpen(ctx context.Context) ([]*domain.AttendanceSession, error)
	Update(ctx context.Context, session *domain.AttendanceSession) error
	TotalsByDateRange(ctx context.Context, from, to time.Time) ([]MemberTotal, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Post, error)
}

type LikeRepository interface {
	Get(ctx context.Context, postID, memberID uuid.UUID) (*domain.PostLike, error)
	Create(ctx context.Context, like *domain.PostLike) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, event *domain.NotificationEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationEvent, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.NotificationEvent, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type PushSubscriptionRepository interface {
	Upsert(ctx context.Context, sub *domain.PushSubscription) error
	ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.PushSubscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEndpoint(ctx context.Context, memberID uuid.UUID, endpoint string) error
}

type Repositories struct {
	Member       MemberRepository
	Session      SessionRepository
	Post         PostRepository
	Like         LikeRepository
	Comment      CommentRepository
	Notification NotificationRepository
	Push         PushSubscriptionRepository
}
