package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dpark/spacehub/internal/api/middleware"
	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/service"
	"go.uber.org/zap"
)

type PushHandler struct {
	pushService *service.PushService
	logger      *zap.Logger
}

func NewPushHandler(pushService *service.PushService, logger *zap.Logger) *PushHandler {
	return &PushHandler{pushService: pushService, logger: logger}
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys" validate:"required"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Endpoint and both keys are required", http.StatusBadRequest)
		return
	}

	err := h.pushService.RegisterSubscription(r.Context(), memberID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSubscription) {
			http.Error(w, "Endpoint and both keys are required", http.StatusBadRequest)
			return
		}
		h.logger.Error("subscription registration failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Endpoint is required", http.StatusBadRequest)
		return
	}

	if err := h.pushService.RemoveSubscription(r.Context(), memberID, req.Endpoint); err != nil {
		if errors.Is(err, domain.ErrInvalidSubscription) {
			http.Error(w, "Endpoint is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("subscription removal failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
