package models

import "time"

// StoredSecret is the reference backend's record. The key that opens Sealed
// travels in the token and is never stored.
type StoredSecret struct {
	ID        string    `json:"id"`
	Sealed    []byte    `json:"-"`
	ViewsLeft int       `json:"views_left"`
	ExpireAt  time.Time `json:"expire_at"`
	CreatedAt time.Time `json:"created_at"`
}
