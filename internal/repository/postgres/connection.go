package postgres

import (
	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Notification records may outlive the rows they reference;
		// referential cleanup is handled in application code.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.Member{},
		&domain.AttendanceSession{},
		&domain.Post{},
		&domain.PostLike{},
		&domain.Comment{},
		&domain.NotificationEvent{},
		&domain.PushSubscription{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Member:       NewMemberRepository(db),
		Session:      NewSessionRepository(db),
		Post:         NewPostRepository(db),
		Like:         NewLikeRepository(db),
		Comment:      NewCommentRepository(db),
		Notification: NewNotificationRepository(db),
		Push:         NewPushSubscriptionRepository(db),
	}
}
