package models

import "time"

// Message is a direct message between two users. ReadAt is nil until the
// recipient marks the message read.
type Message struct {
	ID           int64
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time

	// Counterpart profiles, populated by list/get queries that join users.
	FromUser *Profile
	ToUser   *Profile
}
