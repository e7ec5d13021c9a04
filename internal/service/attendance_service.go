package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository"
	"github.com/dpark/spacehub/internal/timeutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ToggleKind string

const (
	ToggleCheckedIn  ToggleKind = "checked-in"
	ToggleCheckedOut ToggleKind = "checked-out"
)

type ToggleResult struct {
	Kind            ToggleKind
	Session         *domain.AttendanceSession
	DurationSeconds int64
}

// AttendanceService owns the per-member check-in/check-out state machine.
// A member is either Out (no open session) or In (exactly one open session);
// Toggle flips between the two, AdminForceClose forces In -> Out.
type AttendanceService struct {
	sessionRepo repository.SessionRepository
	clock       timeutil.Clock
	logger      *zap.Logger

	// memberLocks serializes Toggle per member so two concurrent requests
	// can never both observe "no open session" and create two, or both
	// close the same one. Distinct members never contend.
	mu          sync.Mutex
	memberLocks map[uuid.UUID]*sync.Mutex
}

func NewAttendanceService(sessionRepo repository.SessionRepository, clock timeutil.Clock, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		sessionRepo: sessionRepo,
		clock:       clock,
		logger:      logger,
		memberLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *AttendanceService) lockFor(memberID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.memberLocks[memberID]
	if !ok {
		lock = &sync.Mutex{}
		s.memberLocks[memberID] = lock
	}
	return lock
}

func (s *AttendanceService) Toggle(ctx context.Context, memberID uuid.UUID) (*ToggleResult, error) {
	lock := s.lockFor(memberID)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock.Now()

	open, err := s.sessionRepo.GetOpenByMemberID(ctx, memberID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if open == nil {
		session := &domain.AttendanceSession{
			ID:           uuid.New(),
			MemberID:     memberID,
			CalendarDate: datatypes.Date(timeutil.TruncateToDay(now)),
			CheckInAt:    now,
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return nil, err
		}
		s.logger.Info("member checked in",
			zap.String("memberId", memberID.String()),
			zap.String("sessionId", session.ID.String()))
		return &ToggleResult{Kind: ToggleCheckedIn, Session: session}, nil
	}

	open.Close(now)
	if err := s.sessionRepo.Update(ctx, open); err != nil {
		return nil, err
	}
	s.logger.Info("member checked out",
		zap.String("memberId", memberID.String()),
		zap.String("sessionId", open.ID.String()),
		zap.Int64("durationSeconds", open.DurationSeconds))
	return &ToggleResult{Kind: ToggleCheckedOut, Session: open, DurationSeconds: open.DurationSeconds}, nil
}

// GetOpenSession returns nil when the member is currently checked out.
func (s *AttendanceService) GetOpenSession(ctx context.Context, memberID uuid.UUID) (*domain.AttendanceSession, error) {
	session, err := s.sessionRepo.GetOpenByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// ListOpenSessions reports who is in the space right now, most recent
// check-in first.
func (s *AttendanceService) ListOpenSessions(ctx context.Context) ([]*domain.AttendanceSession, error) {
	return s.sessionRepo.ListOpen(ctx)
}

// AdminForceClose is the operator path for correcting a forgotten checkout.
// The explicit timestamp is honored regardless of the current time; a
// checkout earlier than the check-in is rejected and leaves the session open.
func (s *AttendanceService) AdminForceClose(ctx context.Context, sessionID uuid.UUID, checkoutAt time.Time) (*domain.AttendanceSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	lock := s.lockFor(session.MemberID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the member lock; a concurrent toggle may have closed it.
	session, err = s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsOpen() {
		return nil, domain.ErrSessionNotFound
	}
	if checkoutAt.Before(session.CheckInAt) {
		return nil, domain.ErrInvalidCheckoutRange
	}

	session.Close(checkoutAt)
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("session force-closed",
		zap.String("sessionId", session.ID.String()),
		zap.String("memberId", session.MemberID.String()),
		zap.Time("checkoutAt", checkoutAt))
	return session, nil
}
