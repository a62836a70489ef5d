package entity

import "time"

// Reminder is one pending notification. FireAt is always UTC; the storage
// layer persists it as RFC 3339 text and the display layer localizes it.
type Reminder struct {
	ID        int
	OwnerID   int64
	ChatID    int64
	FireAt    time.Time
	Message   string
	Recurring bool
}
