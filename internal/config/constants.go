package config

import "time"

// Server defaults
const (
	// DefaultServerPort is the port the HTTP server listens on
	DefaultServerPort = "5001"
	// DefaultServerHost is the address the HTTP server binds to
	DefaultServerHost = "0.0.0.0"
)

// Database defaults
const (
	// DefaultDatabasePath is the SQLite file used when none is configured
	DefaultDatabasePath = "feedback.db"
	// DefaultMaxOpenConns is the default maximum number of open connections
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections
	DefaultMaxIdleConns = 5
	// DatabaseConnMaxLifetime is the default maximum lifetime of a pooled connection
	DatabaseConnMaxLifetime = 5 * time.Minute
)

// TimestampFormat is the storage format for feedback timestamps
const TimestampFormat = "2006-01-02 15:04:05"

// Session configuration constants
const (
	// Session settings
	SessionPath     = "/"
	SessionHTTPOnly = true
	SessionSecure   = false // Set to true in production with HTTPS

	// Session name
	SessionName = "feedback-session"

	// SessionMaxAge bounds how long a session cookie stays valid
	SessionMaxAge = 7 * 24 * time.Hour
)

// DefaultCSP is the Content-Security-Policy header applied by the secure middleware
const DefaultCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:;"

// Flash message constants surfaced to users
const (
	MsgFeedbackCreated  = "Feedback created successfully!"
	MsgFeedbackUpdated  = "Feedback updated successfully!"
	MsgFeedbackDeleted  = "Feedback deleted successfully!"
	MsgFeedbackNotFound = "Feedback not found!"
	MsgFieldsRequired   = "Both user and comment fields are needed!"
	MsgCreateError      = "Error creating feedback. Please try again."
	MsgUpdateError      = "Error updating feedback. Please try again."
	MsgDeleteError      = "Error deleting feedback. Please try again."
)

// Flash message categories
const (
	FlashCategorySuccess = "success"
	FlashCategoryError   = "error"
)
