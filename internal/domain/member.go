package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

// Member is owned by the identity provider; this service only reads it.
type Member struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	FullName  string    `json:"fullName" gorm:"not null"`
	AvatarURL string    `json:"avatarUrl"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'MEMBER'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}
