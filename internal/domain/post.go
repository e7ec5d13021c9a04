package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a timeline entry. Image upload/storage happens in an external
// collaborator; only the resulting URL is kept here.
type Post struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthorID  uuid.UUID `json:"authorId" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"not null"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`

	Author   *Member   `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Likes    []PostLike `json:"likes,omitempty" gorm:"foreignKey:PostID"`
	Comments []Comment  `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

type PostLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_post_member"`
	MemberID  uuid.UUID `json:"memberId" gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_post_member"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `json:"authorId" gorm:"type:uuid;not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	Author *Member `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
