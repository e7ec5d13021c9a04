package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/timeutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MemberBuilder creates test members with a builder pattern
type MemberBuilder struct {
	username string
	fullName string
	role     domain.Role
}

// NewMemberBuilder creates a new MemberBuilder with default values
func NewMemberBuilder() *MemberBuilder {
	return &MemberBuilder{
		username: fmt.Sprintf("member_%s", uuid.New().String()[:8]),
		fullName: "Test Member",
		role:     domain.RoleMember,
	}
}

// WithUsername sets the username
func (b *MemberBuilder) WithUsername(username string) *MemberBuilder {
	b.username = username
	return b
}

// WithFullName sets the display name
func (b *MemberBuilder) WithFullName(fullName string) *MemberBuilder {
	b.fullName = fullName
	return b
}

// AsAdmin marks the member as an administrator
func (b *MemberBuilder) AsAdmin() *MemberBuilder {
	b.role = domain.RoleAdmin
	return b
}

// Build creates the member in the database
func (b *MemberBuilder) Build(t *testing.T, db *gorm.DB) *domain.Member {
	t.Helper()

	member := &domain.Member{
		ID:        uuid.New(),
		Username:  b.username,
		FullName:  b.fullName,
		Role:      b.role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}

	return member
}

// SessionBuilder creates attendance sessions for aggregation tests
type SessionBuilder struct {
	memberID uuid.UUID
	checkIn  time.Time
	checkOut *time.Time
}

func NewSessionBuilder(memberID uuid.UUID) *SessionBuilder {
	return &SessionBuilder{
		memberID: memberID,
		checkIn:  time.Now().Add(-time.Hour),
	}
}

func (b *SessionBuilder) WithCheckIn(t time.Time) *SessionBuilder {
	b.checkIn = t
	return b
}

// Closed sets a checkout time, producing a completed session
func (b *SessionBuilder) Closed(t time.Time) *SessionBuilder {
	b.checkOut = &t
	return b
}

func (b *SessionBuilder) Build(t *testing.T, db *gorm.DB) *domain.AttendanceSession {
	t.Helper()

	session := &domain.AttendanceSession{
		ID:           uuid.New(),
		MemberID:     b.memberID,
		CalendarDate: datatypes.Date(timeutil.TruncateToDay(b.checkIn)),
		CheckInAt:    b.checkIn,
	}
	if b.checkOut != nil {
		session.Close(*b.checkOut)
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return session
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// MintToken issues a bearer token the way the external identity provider
// would, signed with the shared test secret.
func MintToken(t *testing.T, secret string, memberID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": memberID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}
