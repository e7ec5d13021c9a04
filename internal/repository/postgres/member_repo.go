package postgres

import (
	"context"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *memberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).First(&member, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByUsernames(ctx context.Context, usernames []string) ([]*domain.Member, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	var members []*domain.Member
	err := r.db.WithContext(ctx).Where("username IN ?", usernames).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}
