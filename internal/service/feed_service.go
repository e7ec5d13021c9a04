package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FeedService owns timeline mutations (posts, likes, comments) and fires
// the notification dispatch for each one. Notification failures are logged
// and swallowed: a broken mention must never block the post itself.
type FeedService struct {
	postRepo      repository.PostRepository
	likeRepo      repository.LikeRepository
	commentRepo   repository.CommentRepository
	mentions      *MentionResolver
	notifications *NotificationService
	logger        *zap.Logger
}

func NewFeedService(postRepo repository.PostRepository, likeRepo repository.LikeRepository, commentRepo repository.CommentRepository, mentions *MentionResolver, notifications *NotificationService, logger *zap.Logger) *FeedService {
	return &FeedService{
		postRepo:      postRepo,
		likeRepo:      likeRepo,
		commentRepo:   commentRepo,
		mentions:      mentions,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *FeedService) CreatePost(ctx context.Context, authorID uuid.UUID, content, imageURL string) (*domain.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}

	post := &domain.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Content:  content,
		ImageURL: imageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.notifyMentions(ctx, post)
	return post, nil
}

// notifyMentions resolves the distinct handle set of the post body and
// notifies each mentioned member except the author. Best effort only.
func (s *FeedService) notifyMentions(ctx context.Context, post *domain.Post) {
	handles := ExtractHandles(post.Content)
	if len(handles) == 0 {
		return
	}

	recipients, err := s.mentions.Resolve(ctx, handles, post.AuthorID)
	if err != nil {
		s.logger.Warn("mention resolution failed",
			zap.String("postId", post.ID.String()),
			zap.Error(err))
		return
	}

	for _, recipientID := range recipients {
		if err := s.notifications.Notify(ctx, recipientID, post.AuthorID, domain.NotificationMention, post.ID); err != nil {
			s.logger.Warn("mention notification failed",
				zap.String("postId", post.ID.String()),
				zap.String("recipientId", recipientID.String()),
				zap.Error(err))
		}
	}
}

func (s *FeedService) ListPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

// ToggleLike likes a post, or removes the actor's existing like. Only the
// off->on transition on somebody else's post produces a notification.
func (s *FeedService) ToggleLike(ctx context.Context, postID, memberID uuid.UUID) (liked bool, err error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrPostNotFound
		}
		return false, err
	}

	existing, err := s.likeRepo.Get(ctx, postID, memberID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if existing != nil {
		if err := s.likeRepo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	like := &domain.PostLike{
		ID:       uuid.New(),
		PostID:   postID,
		MemberID: memberID,
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return false, err
	}

	if post.AuthorID != memberID {
		if err := s.notifications.Notify(ctx, post.AuthorID, memberID, domain.NotificationLike, postID); err != nil {
			s.logger.Warn("like notification failed",
				zap.String("postId", postID.String()),
				zap.Error(err))
		}
	}
	return true, nil
}

func (s *FeedService) AddComment(ctx context.Context, postID, authorID uuid.UUID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	comment := &domain.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.AuthorID != authorID {
		if err := s.notifications.Notify(ctx, post.AuthorID, authorID, domain.NotificationComment, postID); err != nil {
			s.logger.Warn("comment notification failed",
				zap.String("postId", postID.String()),
				zap.Error(err))
		}
	}
	return comment, nil
}

// DeleteComment removes a comment; only its author may do so.
func (s *FeedService) DeleteComment(ctx context.Context, commentID, actorID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCommentNotFound
		}
		return err
	}
	if comment.AuthorID != actorID {
		return domain.ErrForbidden
	}
	return s.commentRepo.Delete(ctx, commentID)
}
