package chat

import "time"

// Session captures one anonymous conversation and its bounded history.
type Session struct {
	ID           string    `json:"id"`
	History      []Turn    `json:"history"`
	LastActivity time.Time `json:"lastActivity"`
}
