package core

import "time"

type (
	// User is an authenticated identity. Subject is the stable id used to
	// scope stored wishes ("github:<id>" or "guest:<ulid>").
	User struct {
		Subject   string    `json:"subject"`
		Login     string    `json:"login"`
		Email     string    `json:"email,omitempty"`
		AvatarURL string    `json:"avatarUrl,omitempty"`
		Name      string    `json:"name,omitempty"`
		Guest     bool      `json:"guest,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
	}
)
