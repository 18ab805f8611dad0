package domain

import "time"

// User represents a known bot user. The ID is assigned by the chat
// provider and treated as opaque. Users are created on first contact
// and never mutated or deleted afterwards.
type User struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}
