package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dpark/spacehub/internal/api/middleware"
	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, logger: logger}
}

type NotificationResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
	PostID      string    `json:"postId"`
	PostSnippet string    `json:"postSnippet"`
	Sender      struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		FullName  string `json:"fullName"`
		AvatarURL string `json:"avatarUrl"`
	} `json:"sender"`
}

const snippetLength = 80

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	events, err := h.notificationService.ListForMember(r.Context(), memberID, limit, offset)
	if err != nil {
		h.logger.Error("notification listing failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]NotificationResponse, 0, len(events))
	for _, e := range events {
		resp := NotificationResponse{
			ID:        e.ID.String(),
			Kind:      string(e.Kind),
			Read:      e.Read,
			CreatedAt: e.CreatedAt,
			PostID:    e.PostID.String(),
		}
		if e.Post != nil {
			resp.PostSnippet = snippet(e.Post.Content)
		}
		if e.Sender != nil {
			resp.Sender.ID = e.Sender.ID.String()
			resp.Sender.Username = e.Sender.Username
			resp.Sender.FullName = e.Sender.FullName
			resp.Sender.AvatarURL = e.Sender.AvatarURL
		}
		responses = append(responses, resp)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"notifications": responses})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), notificationID, memberID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotificationNotFound):
			http.Error(w, "Notification not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrForbidden):
			http.Error(w, "Not your notification", http.StatusForbidden)
		default:
			h.logger.Error("mark read failed", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength]) + "…"
}
