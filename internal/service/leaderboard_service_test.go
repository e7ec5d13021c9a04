package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dpark/spacehub/internal/repository/postgres"
	"github.com/dpark/spacehub/internal/service"
	"github.com/dpark/spacehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_ComputeWeekly(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewLeaderboardService(repos.Session)
	ctx := context.Background()

	alice := testutil.NewMemberBuilder().WithUsername("alice").WithFullName("Alice").Build(t, testDB.DB)
	bob := testutil.NewMemberBuilder().WithUsername("bob").WithFullName("Bob").Build(t, testDB.DB)
	admin := testutil.NewMemberBuilder().WithUsername("ops").WithFullName("Ops").AsAdmin().Build(t, testDB.DB)

	// Inside the week of Wednesday 2024-01-03: [Mon 2024-01-01, Mon 2024-01-08)
	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	wednesday := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	// Alice: 2h + 1h30m15s = 12615s
	testutil.NewSessionBuilder(alice.ID).WithCheckIn(monday).Closed(monday.Add(2 * time.Hour)).Build(t, testDB.DB)
	testutil.NewSessionBuilder(alice.ID).WithCheckIn(wednesday).Closed(wednesday.Add(90*time.Minute + 15*time.Second)).Build(t, testDB.DB)

	// Bob: 1h closed, plus an open session that must contribute nothing
	testutil.NewSessionBuilder(bob.ID).WithCheckIn(monday).Closed(monday.Add(time.Hour)).Build(t, testDB.DB)
	testutil.NewSessionBuilder(bob.ID).WithCheckIn(wednesday.Add(time.Hour)).Build(t, testDB.DB)

	// Admin: 3h, surfaced separately, never ranked against members
	testutil.NewSessionBuilder(admin.ID).WithCheckIn(monday).Closed(monday.Add(3 * time.Hour)).Build(t, testDB.DB)

	// Previous Sunday: outside the window, must be excluded
	sunday := time.Date(2023, 12, 31, 9, 0, 0, 0, time.UTC)
	testutil.NewSessionBuilder(alice.ID).WithCheckIn(sunday).Closed(sunday.Add(4 * time.Hour)).Build(t, testDB.DB)

	board, err := svc.ComputeWeekly(ctx, time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, board.Members, 2)
	assert.Equal(t, alice.ID, board.Members[0].MemberID)
	assert.Equal(t, int64(12615), board.Members[0].TotalSeconds)
	assert.Equal(t, "alice", board.Members[0].Username)
	assert.Equal(t, bob.ID, board.Members[1].MemberID)
	assert.Equal(t, int64(3600), board.Members[1].TotalSeconds)

	require.Len(t, board.Admins, 1)
	assert.Equal(t, admin.ID, board.Admins[0].MemberID)
	assert.Equal(t, int64(10800), board.Admins[0].TotalSeconds)
}

func TestLeaderboardService_ComputeWeekly_Empty(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewLeaderboardService(repos.Session)

	board, err := svc.ComputeWeekly(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, board.Members)
	assert.Empty(t, board.Admins)
}

func TestLeaderboardService_TieBreaksAreDeterministic(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewLeaderboardService(repos.Session)
	ctx := context.Background()

	first := testutil.NewMemberBuilder().Build(t, testDB.DB)
	second := testutil.NewMemberBuilder().Build(t, testDB.DB)

	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	testutil.NewSessionBuilder(first.ID).WithCheckIn(monday).Closed(monday.Add(time.Hour)).Build(t, testDB.DB)
	testutil.NewSessionBuilder(second.ID).WithCheckIn(monday).Closed(monday.Add(time.Hour)).Build(t, testDB.DB)

	ref := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	boardA, err := svc.ComputeWeekly(ctx, ref)
	require.NoError(t, err)
	boardB, err := svc.ComputeWeekly(ctx, ref)
	require.NoError(t, err)

	require.Len(t, boardA.Members, 2)
	assert.Equal(t, boardA.Members[0].MemberID, boardB.Members[0].MemberID)
	assert.True(t, boardA.Members[0].MemberID.String() < boardA.Members[1].MemberID.String())
}
