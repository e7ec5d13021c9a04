package postgres

import (
	"context"
	"time"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.AttendanceSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceSession, error) {
	var session domain.AttendanceSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetOpenByMemberID(ctx context.Context, memberID uuid.UUID) (*domain.AttendanceSession, error) {
	var session domain.AttendanceSession
	err := r.db.WithContext(ctx).
		First(&session, "member_id = ? AND check_out_at IS NULL", memberID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListOpen(ctx context.Context) ([]*domain.AttendanceSession, error) {
	var sessions []*domain.AttendanceSession
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("check_out_at IS NULL").
		Order("check_in_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.AttendanceSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) TotalsByDateRange(ctx context.Context, from, to time.Time) ([]repository.MemberTotal, error) {
	var totals []repository.MemberTotal
	err := r.db.WithContext(ctx).
		Model(&domain.AttendanceSession{}).
		Select("members.id AS member_id, members.username, members.full_name, members.avatar_url, members.role, COALESCE(SUM(attendance_sessions.duration_seconds), 0) AS total_seconds").
		Joins("JOIN members ON members.id = attendance_sessions.member_id").
		Where("attendance_sessions.calendar_date >= ? AND attendance_sessions.calendar_date < ?", from, to).
		Group("members.id, members.username, members.full_name, members.avatar_url, members.role").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
