package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AttendanceSession is one contiguous check-in-to-check-out interval.
// A nil CheckOutAt means the session is still open. At most one open
// session may exist per member at any instant.
type AttendanceSession struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MemberID        uuid.UUID      `json:"memberId" gorm:"type:uuid;not null;index"`
	CalendarDate    datatypes.Date `json:"calendarDate" gorm:"type:date;not null;index"`
	CheckInAt       time.Time      `json:"checkInAt" gorm:"not null"`
	CheckOutAt      *time.Time     `json:"checkOutAt"`
	DurationSeconds int64          `json:"durationSeconds" gorm:"not null;default:0"`

	Member *Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

func (s *AttendanceSession) IsOpen() bool {
	return s.CheckOutAt == nil
}

// Close stamps the checkout time and computes the whole-second duration,
// clamped at zero so clock skew can never produce a negative total.
func (s *AttendanceSession) Close(at time.Time) {
	s.CheckOutAt = &at
	seconds := int64(at.Sub(s.CheckInAt) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	s.DurationSeconds = seconds
}
