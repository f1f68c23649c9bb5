package domain

import "time"

// User is the signed-in attendee. Bookmarks are stored under UID.
type User struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	SignedInAt  time.Time `json:"signed_in_at"`
}
