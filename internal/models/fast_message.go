package models

import "time"

// FastMessage is a canned admin reply addressed by shorthand. The body is
// stored encrypted, same as message bodies.
type FastMessage struct {
	ID        int64     `json:"id"`
	Shorthand string    `json:"shorthand"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
