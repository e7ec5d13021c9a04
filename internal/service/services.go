package service

import (
	"github.com/dpark/spacehub/internal/config"
	"github.com/dpark/spacehub/internal/repository"
	"github.com/dpark/spacehub/internal/timeutil"
	"go.uber.org/zap"
)

type Services struct {
	Auth         *AuthService
	Attendance   *AttendanceService
	Leaderboard  *LeaderboardService
	Feed         *FeedService
	Notification *NotificationService
	Push         *PushService
	PushWorker   *PushWorker
}

func NewServices(repos *repository.Repositories, cfg *config.Config, clock timeutil.Clock, logger *zap.Logger) *Services {
	push := NewPushService(repos.Push, NewVAPIDSender(VAPIDConfig{
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
		Subscriber: cfg.VAPIDSubscriber,
	}), logger)
	worker := NewPushWorker(push, cfg.PushQueueSize, logger)

	mentions := NewMentionResolver(repos.Member)
	notifications := NewNotificationService(repos.Notification, repos.Member, worker, logger)

	return &Services{
		Auth:         NewAuthService(repos.Member, cfg),
		Attendance:   NewAttendanceService(repos.Session, clock, logger),
		Leaderboard:  NewLeaderboardService(repos.Session),
		Feed:         NewFeedService(repos.Post, repos.Like, repos.Comment, mentions, notifications, logger),
		Notification: notifications,
		Push:         push,
		PushWorker:   worker,
	}
}
