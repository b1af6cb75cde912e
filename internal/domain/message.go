package domain

import "time"

// RawMessage is an inbound social-platform message before triage.
type RawMessage struct {
	ID        string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

// AuthorProfile is the resolved identity of a message originator.
type AuthorProfile struct {
	ID          string
	Username    string
	DisplayName string
}
