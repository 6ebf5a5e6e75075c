// Package models contains the data structures stored by the feedback application.
package models

// Feedback represents a single feedback entry submitted by a user.
//
// ID is assigned by storage on creation and never changes. Timestamp is a
// "YYYY-MM-DD HH:MM:SS" string reflecting the most recent write, creation or
// update.
type Feedback struct {
	ID        int    `json:"id" db:"id"`
	User      string `json:"user" db:"user"`
	Comment   string `json:"comment" db:"comment"`
	Timestamp string `json:"timestamp" db:"timestamp"`
}
