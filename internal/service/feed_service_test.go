package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository/postgres"
	"github.com/dpark/spacehub/internal/service"
	"github.com/dpark/spacehub/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// queueRecorder captures enqueued push deliveries instead of sending them.
type queueRecorder struct {
	mu         sync.Mutex
	deliveries []service.PushDelivery
}

func (r *queueRecorder) Enqueue(delivery service.PushDelivery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, delivery)
}

func (r *queueRecorder) Deliveries() []service.PushDelivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]service.PushDelivery(nil), r.deliveries...)
}

func newFeedFixture(t *testing.T, db *gorm.DB) (*service.FeedService, *service.NotificationService, *queueRecorder) {
	t.Helper()
	repos := postgres.NewRepositories(db)
	recorder := &queueRecorder{}
	notifications := service.NewNotificationService(repos.Notification, repos.Member, recorder, zap.NewNop())
	mentions := service.NewMentionResolver(repos.Member)
	feed := service.NewFeedService(repos.Post, repos.Like, repos.Comment, mentions, notifications, zap.NewNop())
	return feed, notifications, recorder
}

func countNotifications(t *testing.T, db *gorm.DB, recipientID uuid.UUID) int64 {
	t.Helper()
	var count int64
	err := db.Model(&domain.NotificationEvent{}).
		Where("recipient_id = ?", recipientID).
		Count(&count).Error
	require.NoError(t, err)
	return count
}

func TestFeedService_CreatePost_Mentions(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	feed, _, recorder := newFeedFixture(t, testDB.DB)
	ctx := context.Background()

	author := testutil.NewMemberBuilder().WithUsername("author").Build(t, testDB.DB)
	friend := testutil.NewMemberBuilder().WithUsername("friend").Build(t, testDB.DB)

	t.Run("duplicate mentions notify once", func(t *testing.T) {
		_, err := feed.CreatePost(ctx, author.ID, "hey @friend look @friend", "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), countNotifications(t, testDB.DB, friend.ID))
		assert.Len(t, recorder.Deliveries(), 1)
	})

	t.Run("self-mention produces nothing", func(t *testing.T) {
		_, err := feed.CreatePost(ctx, author.ID, "note to self @author", "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), countNotifications(t, testDB.DB, author.ID))
	})

	t.Run("unknown handle produces nothing", func(t *testing.T) {
		before := countNotifications(t, testDB.DB, friend.ID)
		_, err := feed.CreatePost(ctx, author.ID, "cc @nobody_here", "")
		require.NoError(t, err)
		assert.Equal(t, before, countNotifications(t, testDB.DB, friend.ID))
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		_, err := feed.CreatePost(ctx, author.ID, "   ", "")
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})
}

func TestFeedService_ToggleLike(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	feed, _, _ := newFeedFixture(t, testDB.DB)
	ctx := context.Background()

	owner := testutil.NewMemberBuilder().WithUsername("owner").Build(t, testDB.DB)
	fan := testutil.NewMemberBuilder().WithUsername("fan").Build(t, testDB.DB)

	post, err := feed.CreatePost(ctx, owner.ID, "new workbench is done", "")
	require.NoError(t, err)

	t.Run("first like notifies the owner", func(t *testing.T) {
		liked, err := feed.ToggleLike(ctx, post.ID, fan.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, int64(1), countNotifications(t, testDB.DB, owner.ID))
	})

	t.Run("unliking never notifies", func(t *testing.T) {
		liked, err := feed.ToggleLike(ctx, post.ID, fan.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, int64(1), countNotifications(t, testDB.DB, owner.ID))
	})

	t.Run("liking again creates a fresh notification", func(t *testing.T) {
		liked, err := feed.ToggleLike(ctx, post.ID, fan.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, int64(2), countNotifications(t, testDB.DB, owner.ID))
	})

	t.Run("liking your own post stays silent", func(t *testing.T) {
		liked, err := feed.ToggleLike(ctx, post.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, int64(2), countNotifications(t, testDB.DB, owner.ID))
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := feed.ToggleLike(ctx, uuid.New(), fan.ID)
		assert.ErrorIs(t, err, domain.ErrPostNotFound)
	})
}

func TestFeedService_Comments(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	feed, _, _ := newFeedFixture(t, testDB.DB)
	ctx := context.Background()

	owner := testutil.NewMemberBuilder().WithUsername("owner").Build(t, testDB.DB)
	visitor := testutil.NewMemberBuilder().WithUsername("visitor").Build(t, testDB.DB)

	post, err := feed.CreatePost(ctx, owner.ID, "laser cutter maintenance", "")
	require.NoError(t, err)

	t.Run("comment notifies the post owner", func(t *testing.T) {
		_, err := feed.AddComment(ctx, post.ID, visitor.ID, "nice work")
		require.NoError(t, err)
		assert.Equal(t, int64(1), countNotifications(t, testDB.DB, owner.ID))
	})

	t.Run("commenting on your own post stays silent", func(t *testing.T) {
		_, err := feed.AddComment(ctx, post.ID, owner.ID, "thanks!")
		require.NoError(t, err)
		assert.Equal(t, int64(1), countNotifications(t, testDB.DB, owner.ID))
	})

	t.Run("only the author may delete a comment", func(t *testing.T) {
		comment, err := feed.AddComment(ctx, post.ID, visitor.ID, "delete me")
		require.NoError(t, err)

		err = feed.DeleteComment(ctx, comment.ID, owner.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		err = feed.DeleteComment(ctx, comment.ID, visitor.ID)
		require.NoError(t, err)

		err = feed.DeleteComment(ctx, comment.ID, visitor.ID)
		assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	})

	t.Run("empty comment is rejected", func(t *testing.T) {
		_, err := feed.AddComment(ctx, post.ID, visitor.ID, "")
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})
}

func TestNotificationService_Notify(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, notifications, recorder := newFeedFixture(t, testDB.DB)
	ctx := context.Background()

	sender := testutil.NewMemberBuilder().WithFullName("Casey Kim").Build(t, testDB.DB)
	recipient := testutil.NewMemberBuilder().Build(t, testDB.DB)
	postID := uuid.New()

	t.Run("self-notification is refused", func(t *testing.T) {
		err := notifications.Notify(ctx, sender.ID, sender.ID, domain.NotificationLike, postID)
		assert.ErrorIs(t, err, domain.ErrSelfNotification)
	})

	t.Run("event persists and a push delivery is enqueued", func(t *testing.T) {
		err := notifications.Notify(ctx, recipient.ID, sender.ID, domain.NotificationLike, postID)
		require.NoError(t, err)

		assert.Equal(t, int64(1), countNotifications(t, testDB.DB, recipient.ID))

		deliveries := recorder.Deliveries()
		require.Len(t, deliveries, 1)
		assert.Equal(t, recipient.ID, deliveries[0].MemberID)
		assert.Contains(t, deliveries[0].Body, "Casey Kim")
	})

	t.Run("mark read is recipient-only", func(t *testing.T) {
		events, err := notifications.ListForMember(ctx, recipient.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.False(t, events[0].Read)

		err = notifications.MarkRead(ctx, events[0].ID, sender.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		err = notifications.MarkRead(ctx, events[0].ID, recipient.ID)
		require.NoError(t, err)

		events, err = notifications.ListForMember(ctx, recipient.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.True(t, events[0].Read)
	})
}
