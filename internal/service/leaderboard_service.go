package service

import (
	"context"
	"sort"
	"time"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository"
	"github.com/dpark/spacehub/internal/timeutil"
	"github.com/google/uuid"
)

type LeaderboardEntry struct {
	MemberID     uuid.UUID `json:"memberId"`
	FullName     string    `json:"fullName"`
	Username     string    `json:"username"`
	AvatarURL    string    `json:"avatarUrl"`
	TotalSeconds int64     `json:"total"`
}

// Leaderboard splits totals by role: regular members compete, admins are
// surfaced separately and never ranked against them.
type Leaderboard struct {
	WeekStart time.Time          `json:"weekStart"`
	WeekEnd   time.Time          `json:"weekEnd"`
	Members   []LeaderboardEntry `json:"members"`
	Admins    []LeaderboardEntry `json:"admins"`
}

// LeaderboardService aggregates closed-session time over a week window.
// It is read-only; open sessions contribute nothing until they close.
type LeaderboardService struct {
	sessionRepo repository.SessionRepository
}

func NewLeaderboardService(sessionRepo repository.SessionRepository) *LeaderboardService {
	return &LeaderboardService{sessionRepo: sessionRepo}
}

func (s *LeaderboardService) ComputeWeekly(ctx context.Context, ref time.Time) (*Leaderboard, error) {
	start, end := timeutil.WeekWindow(ref)

	totals, err := s.sessionRepo.TotalsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	board := &Leaderboard{
		WeekStart: start,
		WeekEnd:   end,
		Members:   []LeaderboardEntry{},
		Admins:    []LeaderboardEntry{},
	}

	for _, t := range totals {
		entry := LeaderboardEntry{
			MemberID:     t.MemberID,
			FullName:     t.FullName,
			Username:     t.Username,
			AvatarURL:    t.AvatarURL,
			TotalSeconds: t.TotalSeconds,
		}
		if t.Role == domain.RoleAdmin {
			board.Admins = append(board.Admins, entry)
		} else {
			board.Members = append(board.Members, entry)
		}
	}

	rank(board.Members)
	rank(board.Admins)
	return board, nil
}

// rank orders descending by total, with member id as a deterministic
// tie-breaker.
func rank(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalSeconds != entries[j].TotalSeconds {
			return entries[i].TotalSeconds > entries[j].TotalSeconds
		}
		return entries[i].MemberID.String() < entries[j].MemberID.String()
	})
}
