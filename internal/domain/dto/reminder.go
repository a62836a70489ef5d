package dto

// ReminderItem is one reminder prepared for display: the fire time is
// rendered in the owner's timezone, storage stays UTC.
type ReminderItem struct {
	ID        int
	Recurring bool
	When      string
	Message   string
}
