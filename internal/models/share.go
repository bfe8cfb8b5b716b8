package models

import "time"

// GenerateRequest asks the backend to generate a random password.
type GenerateRequest struct {
	Size        int        `json:"size"`
	Numbers     bool       `json:"numbers"`
	SpecialChar bool       `json:"special_char"`
	ViewsLeft   int        `json:"views_left"`
	ExpireAt    *time.Time `json:"expire_at,omitempty"` // nil: backend default
}

// PasswordRequest shares a password typed by the user.
type PasswordRequest struct {
	Password  string     `json:"password"`
	ViewsLeft int        `json:"views_left"`
	ExpireAt  *time.Time `json:"expire_at,omitempty"`
}

type ShareLink struct {
	TokenURL string `json:"token_url"`
}

// SecretRecord is what a redemption returns.
type SecretRecord struct {
	Password  string    `json:"password"`
	ExpireAt  time.Time `json:"expire_at"`
	CreatedAt time.Time `json:"created_at"`
	ViewsLeft int       `json:"views_left"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
