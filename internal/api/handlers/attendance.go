package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dpark/spacehub/internal/api/middleware"
	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/service"
	"github.com/dpark/spacehub/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	authService       *service.AuthService
	hub               *websocket.Hub
	logger            *zap.Logger
}

func NewAttendanceHandler(attendanceService *service.AttendanceService, authService *service.AuthService, hub *websocket.Hub, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		authService:       authService,
		hub:               hub,
		logger:            logger,
	}
}

type ToggleResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

type SessionResponse struct {
	ID              string     `json:"id"`
	MemberID        string     `json:"memberId"`
	CalendarDate    string     `json:"calendarDate"`
	CheckInAt       time.Time  `json:"checkInAt"`
	CheckOutAt      *time.Time `json:"checkOutAt,omitempty"`
	DurationSeconds int64      `json:"durationSeconds"`
}

func newSessionResponse(s *domain.AttendanceSession) SessionResponse {
	return SessionResponse{
		ID:              s.ID.String(),
		MemberID:        s.MemberID.String(),
		CalendarDate:    time.Time(s.CalendarDate).Format("2006-01-02"),
		CheckInAt:       s.CheckInAt,
		CheckOutAt:      s.CheckOutAt,
		DurationSeconds: s.DurationSeconds,
	}
}

func (h *AttendanceHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.attendanceService.Toggle(r.Context(), memberID)
	if err != nil {
		h.logger.Error("toggle failed", zap.String("memberId", memberID.String()), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.broadcastPresence(r, memberID, string(result.Kind))

	var message string
	if result.Kind == service.ToggleCheckedIn {
		message = "Checked in. Have a productive session!"
	} else {
		message = fmt.Sprintf("Checked out after %s.", formatDuration(result.DurationSeconds))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToggleResponse{Message: message, Kind: string(result.Kind)})
}

func (h *AttendanceHandler) broadcastPresence(r *http.Request, memberID uuid.UUID, kind string) {
	member, err := h.authService.GetMemberByID(r.Context(), memberID)
	if err != nil {
		h.logger.Debug("presence broadcast skipped", zap.Error(err))
		return
	}
	h.hub.Broadcast(websocket.PresenceEvent{
		MemberID: member.ID,
		Username: member.Username,
		FullName: member.FullName,
		Kind:     kind,
		At:       time.Now(),
	})
}

func (h *AttendanceHandler) Status(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := h.attendanceService.GetOpenSession(r.Context(), memberID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if session == nil {
		json.NewEncoder(w).Encode(map[string]bool{"checkedIn": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"checkedIn": true,
		"session":   newSessionResponse(session),
	})
}

type PresentEntry struct {
	MemberID  string    `json:"memberId"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
	CheckInAt time.Time `json:"checkInAt"`
}

func (h *AttendanceHandler) Present(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.attendanceService.ListOpenSessions(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	entries := make([]PresentEntry, 0, len(sessions))
	for _, s := range sessions {
		entry := PresentEntry{
			MemberID:  s.MemberID.String(),
			CheckInAt: s.CheckInAt,
		}
		if s.Member != nil {
			entry.Username = s.Member.Username
			entry.FullName = s.Member.FullName
			entry.AvatarURL = s.Member.AvatarURL
		}
		entries = append(entries, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"present": entries})
}

type AdminCloseRequest struct {
	CheckoutAt string `json:"checkoutAt" validate:"required"`
}

func (h *AttendanceHandler) AdminClose(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	var req AdminCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "checkoutAt is required", http.StatusBadRequest)
		return
	}

	checkoutAt, err := time.Parse(time.RFC3339, req.CheckoutAt)
	if err != nil {
		http.Error(w, "checkoutAt must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}

	session, err := h.attendanceService.AdminForceClose(r.Context(), sessionID, checkoutAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			http.Error(w, "Open session not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidCheckoutRange):
			http.Error(w, "Checkout time precedes check-in time", http.StatusUnprocessableEntity)
		default:
			h.logger.Error("admin close failed", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newSessionResponse(session))
}

func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
