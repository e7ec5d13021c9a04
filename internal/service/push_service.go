package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebPushSender performs one delivery attempt against a subscription's
// endpoint and reports the transport status code. Abstracted so tests can
// stub the push service without touching the network.
type WebPushSender interface {
	Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) (statusCode int, err error)
}

type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
}

type vapidSender struct {
	cfg VAPIDConfig
}

func NewVAPIDSender(cfg VAPIDConfig) WebPushSender {
	return &vapidSender{cfg: cfg}
}

func (s *vapidSender) Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		VAPIDPublicKey:  s.cfg.PublicKey,
		VAPIDPrivateKey: s.cfg.PrivateKey,
		Subscriber:      s.cfg.Subscriber,
		TTL:             60,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// PushService registers browser push subscriptions and fans a notification
// out to every endpoint a member holds, pruning the ones the push service
// reports as permanently gone.
type PushService struct {
	subRepo        repository.PushSubscriptionRepository
	sender         WebPushSender
	logger         *zap.Logger
	attemptTimeout time.Duration
}

func NewPushService(subRepo repository.PushSubscriptionRepository, sender WebPushSender, logger *zap.Logger) *PushService {
	return &PushService{
		subRepo:        subRepo,
		sender:         sender,
		logger:         logger,
		attemptTimeout: 10 * time.Second,
	}
}

func (s *PushService) RegisterSubscription(ctx context.Context, memberID uuid.UUID, endpoint, p256dh, auth string) error {
	if endpoint == "" || p256dh == "" || auth == "" {
		return domain.ErrInvalidSubscription
	}
	sub := &domain.PushSubscription{
		ID:       uuid.New(),
		MemberID: memberID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	}
	return s.subRepo.Upsert(ctx, sub)
}

func (s *PushService) RemoveSubscription(ctx context.Context, memberID uuid.UUID, endpoint string) error {
	if endpoint == "" {
		return domain.ErrInvalidSubscription
	}
	return s.subRepo.DeleteByEndpoint(ctx, memberID, endpoint)
}

// Deliver attempts exactly one delivery per subscription, concurrently.
// It returns only after every attempt has settled. Individual delivery
// failures are logged, never returned; a 404/410 response deletes that
// subscription and leaves the member's other subscriptions untouched.
func (s *PushService) Deliver(ctx context.Context, memberID uuid.UUID, title, body, url string) error {
	subs, err := s.subRepo.ListByMemberID(ctx, memberID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: body, URL: url})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *domain.PushSubscription) {
			defer wg.Done()
			s.attempt(ctx, sub, payload)
		}(sub)
	}
	wg.Wait()
	return nil
}

func (s *PushService) attempt(ctx context.Context, sub *domain.PushSubscription, payload []byte) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	status, err := s.sender.Send(attemptCtx, sub, payload)
	if err != nil {
		s.logger.Warn("push delivery failed",
			zap.String("memberId", sub.MemberID.String()),
			zap.String("endpoint", sub.Endpoint),
			zap.Error(err))
		return
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		// Endpoint no longer exists; drop the stale registration.
		if err := s.subRepo.Delete(ctx, sub.ID); err != nil {
			s.logger.Warn("failed to prune dead subscription",
				zap.String("subscriptionId", sub.ID.String()),
				zap.Error(err))
			return
		}
		s.logger.Info("pruned dead push subscription",
			zap.String("memberId", sub.MemberID.String()),
			zap.String("endpoint", sub.Endpoint))
	case status >= 400:
		s.logger.Warn("push endpoint rejected delivery",
			zap.String("endpoint", sub.Endpoint),
			zap.Int("status", status))
	}
}
