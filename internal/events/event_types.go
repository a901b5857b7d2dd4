package events

import (
	"time"

	"github.com/mediccare/platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered  EventType = "account.registered"
	EventAccountSuspended   EventType = "account.suspended"
	EventAccountUnsuspended EventType = "account.unsuspended"
	EventAccountApproved    EventType = "account.approved"
	EventAccountUpdated     EventType = "account.updated"
	EventAccountDeleted     EventType = "account.deleted"
)

// AllEventTypes lists every lifecycle event, in publication order of a typical account.
var AllEventTypes = []EventType{
	EventAccountRegistered,
	EventAccountApproved,
	EventAccountUpdated,
	EventAccountSuspended,
	EventAccountUnsuspended,
	EventAccountDeleted,
}

// Event represents an account lifecycle event emitted by the identity service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email  string               `json:"email,omitempty"`
	Status domain.AccountStatus `json:"status"`
}

// AccountSuspendedPayload payload. Until is nil for an indefinite suspension.
type AccountSuspendedPayload struct {
	Until *time.Time `json:"until,omitempty"`
}

// AccountUnsuspendedPayload payload. Automatic is set when the suspension
// lapsed and was cleared during login.
type AccountUnsuspendedPayload struct {
	Automatic bool `json:"automatic"`
}

// AccountUpdatedPayload payload.
type AccountUpdatedPayload struct {
	Fields    []string             `json:"fields"`
	OldStatus domain.AccountStatus `json:"old_status,omitempty"`
	NewStatus domain.AccountStatus `json:"new_status,omitempty"`
}
