package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository/postgres"
	"github.com/dpark/spacehub/internal/service"
	"github.com/dpark/spacehub/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubClock lets a test advance time between toggles.
type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stubClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func TestAttendanceService_Toggle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	clock := &stubClock{now: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)}
	svc := service.NewAttendanceService(repos.Session, clock, zap.NewNop())
	ctx := context.Background()

	member := testutil.NewMemberBuilder().Build(t, testDB.DB)

	// First toggle checks in
	result, err := svc.Toggle(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, service.ToggleCheckedIn, result.Kind)
	assert.True(t, result.Session.IsOpen())
	assert.Equal(t, int64(0), result.Session.DurationSeconds)

	open, err := svc.GetOpenSession(ctx, member.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, result.Session.ID, open.ID)

	// Second toggle at 10:30:15 checks out with 5415 elapsed seconds
	clock.Set(time.Date(2024, 1, 3, 10, 30, 15, 0, time.UTC))
	result, err = svc.Toggle(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, service.ToggleCheckedOut, result.Kind)
	assert.Equal(t, int64(5415), result.DurationSeconds)
	assert.False(t, result.Session.IsOpen())

	open, err = svc.GetOpenSession(ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestAttendanceService_Toggle_Concurrent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	clock := &stubClock{now: time.Now()}
	svc := service.NewAttendanceService(repos.Session, clock, zap.NewNop())
	ctx := context.Background()

	member := testutil.NewMemberBuilder().Build(t, testDB.DB)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(ctx, member.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An even number of serialized toggles nets out to checked-out, and
	// at no point may more than one open session exist.
	var openCount int64
	err := testDB.DB.Model(&domain.AttendanceSession{}).
		Where("member_id = ? AND check_out_at IS NULL", member.ID).
		Count(&openCount).Error
	require.NoError(t, err)
	assert.Equal(t, int64(0), openCount)

	var total int64
	err = testDB.DB.Model(&domain.AttendanceSession{}).
		Where("member_id = ?", member.ID).
		Count(&total).Error
	require.NoError(t, err)
	assert.Equal(t, int64(n/2), total)
}

func TestAttendanceService_ListOpenSessions(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	clock := &stubClock{now: time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)}
	svc := service.NewAttendanceService(repos.Session, clock, zap.NewNop())
	ctx := context.Background()

	first := testutil.NewMemberBuilder().Build(t, testDB.DB)
	second := testutil.NewMemberBuilder().Build(t, testDB.DB)

	_, err := svc.Toggle(ctx, first.ID)
	require.NoError(t, err)

	clock.Set(time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC))
	_, err = svc.Toggle(ctx, second.ID)
	require.NoError(t, err)

	sessions, err := svc.ListOpenSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	// Most recent check-in first
	assert.Equal(t, second.ID, sessions[0].MemberID)
	assert.Equal(t, first.ID, sessions[1].MemberID)
}

func TestAttendanceService_AdminForceClose(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	checkIn := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	clock := &stubClock{now: checkIn}
	svc := service.NewAttendanceService(repos.Session, clock, zap.NewNop())
	ctx := context.Background()

	member := testutil.NewMemberBuilder().Build(t, testDB.DB)
	result, err := svc.Toggle(ctx, member.ID)
	require.NoError(t, err)
	sessionID := result.Session.ID

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.AdminForceClose(ctx, uuid.New(), checkIn.Add(time.Hour))
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("checkout before check-in is rejected and session stays open", func(t *testing.T) {
		_, err := svc.AdminForceClose(ctx, sessionID, checkIn.Add(-time.Minute))
		assert.ErrorIs(t, err, domain.ErrInvalidCheckoutRange)

		open, err := svc.GetOpenSession(ctx, member.ID)
		require.NoError(t, err)
		require.NotNil(t, open)
	})

	t.Run("explicit checkout closes with computed duration", func(t *testing.T) {
		closed, err := svc.AdminForceClose(ctx, sessionID, checkIn.Add(90*time.Minute))
		require.NoError(t, err)
		assert.False(t, closed.IsOpen())
		assert.Equal(t, int64(5400), closed.DurationSeconds)
	})

	t.Run("already closed session behaves like a missing one", func(t *testing.T) {
		_, err := svc.AdminForceClose(ctx, sessionID, checkIn.Add(2*time.Hour))
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
