package domain

import "time"

// EventType names an account lifecycle transition.
type EventType string

const (
	EventSignedUp  EventType = "signed_up"
	EventLoggedIn  EventType = "logged_in"
	EventLoggedOut EventType = "logged_out"
	EventDeleted   EventType = "deleted"
)

// AccountEvent is an audit record of a lifecycle transition.
type AccountEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	AccountID int       `json:"account_id"`
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	At        time.Time `json:"at"`
}
