package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dpark/spacehub/internal/api/middleware"
	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FeedHandler struct {
	feedService *service.FeedService
	logger      *zap.Logger
}

func NewFeedHandler(feedService *service.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feedService: feedService, logger: logger}
}

type CreatePostRequest struct {
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"imageUrl"`
}

func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	post, err := h.feedService.CreatePost(r.Context(), memberID, req.Content, req.ImageURL)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyContent) {
			http.Error(w, "Content must not be empty", http.StatusBadRequest)
			return
		}
		h.logger.Error("post creation failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

func (h *FeedHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	posts, err := h.feedService.ListPosts(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("feed listing failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"posts": posts})
}

func (h *FeedHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	liked, err := h.feedService.ToggleLike(r.Context(), postID, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		h.logger.Error("like toggle failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"liked": liked})
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	comment, err := h.feedService.AddComment(r.Context(), postID, memberID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPostNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrEmptyContent):
			http.Error(w, "Content must not be empty", http.StatusBadRequest)
		default:
			h.logger.Error("comment creation failed", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

func (h *FeedHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	if err := h.feedService.DeleteComment(r.Context(), commentID, memberID); err != nil {
		switch {
		case errors.Is(err, domain.ErrCommentNotFound):
			http.Error(w, "Comment not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrForbidden):
			http.Error(w, "You may only delete your own comments", http.StatusForbidden)
		default:
			h.logger.Error("comment deletion failed", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return fallback
}
