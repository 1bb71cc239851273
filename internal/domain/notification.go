package domain

import (
	"encoding/json"
	"time"
)

// MessageType enumerates the real-time message envelope types shared with the
// monitoring consoles.
type MessageType string

const (
	TypeDispatchRequest    MessageType = "DISPATCH_REQUEST"
	TypeAlarmUpdate        MessageType = "ALARM_UPDATE"
	TypeNotification       MessageType = "NOTIFICATION"
	TypePatrolStatusUpdate MessageType = "PATROL_STATUS_UPDATE"
	TypePatrolAssignment   MessageType = "PATROL_ASSIGNMENT"
)

// Message is the envelope published to the notification queue.
type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload into an envelope stamped with the current time.
func NewMessage(t MessageType, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: t, Payload: data, Timestamp: time.Now()}, nil
}

type NoticeEvent string

const (
	EventShiftCreated   NoticeEvent = "shift_created"
	EventShiftDeleted   NoticeEvent = "shift_deleted"
	EventAccountCreated NoticeEvent = "account_created"
	EventPasswordReset  NoticeEvent = "password_reset"
)

// NoticePayload is the payload of a NOTIFICATION message. Fields are filled
// per event; the notifier worker picks the mail template by Event.
type NoticePayload struct {
	Event    NoticeEvent `json:"event"`
	To       string      `json:"to"`
	FullName string      `json:"fullName"`

	// shift_created / shift_deleted
	Label     string    `json:"label,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	// account_created
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// password_reset
	OTP        string `json:"otp,omitempty"`
	Expiration int    `json:"expiration,omitempty"` // minutes
}
