package domain

import "errors"

// Attendance errors
var (
	ErrSessionNotFound      = errors.New("attendance session not found")
	ErrInvalidCheckoutRange = errors.New("checkout time precedes check-in time")
)

// Feed errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyContent    = errors.New("content must not be empty")
	ErrForbidden       = errors.New("actor does not own this resource")
)

// Notification errors
var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrSelfNotification     = errors.New("sender and recipient are the same member")
)

// Push errors
var (
	ErrInvalidSubscription  = errors.New("subscription endpoint and keys are required")
	ErrSubscriptionNotFound = errors.New("push subscription not found")
)
