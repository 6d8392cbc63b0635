package models

import "time"

// Session is the authenticated state kept between invocations
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
