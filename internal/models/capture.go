// Package models holds the persisted data types.
package models

import "time"

// CaptureRecord is the stored outcome of one capture iteration. The token
// itself is never persisted, only metadata about the attempt.
type CaptureRecord struct {
	ID             string     `json:"id" badgerhold:"key"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    time.Time  `json:"completed_at"`
	Success        bool       `json:"success"`
	Failure        string     `json:"failure,omitempty"` // classified failure kind, empty on success
	Stages         []string   `json:"stages"`            // stage completions in order
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	Error          string     `json:"error,omitempty"`
}
