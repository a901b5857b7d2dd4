package domain

import (
	"strings"
	"time"
)

// Role enumerates the account roles.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole normalizes raw input to one of the known roles.
func ParseRole(raw string) (Role, error) {
	switch role := Role(strings.ToUpper(strings.TrimSpace(raw))); role {
	case RolePatient, RoleDoctor, RoleAdmin:
		return role, nil
	default:
		return "", ErrInvalidRole.WithDetails(map[string]any{"role": raw})
	}
}

// HasRemoteProfile reports whether the role owns a record in a profile service.
func (r Role) HasRemoteProfile() bool {
	return r == RolePatient || r == RoleDoctor
}

// AccountStatus represents lifecycle states for an account.
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "PENDING"
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// ParseAccountStatus normalizes raw input to one of the known statuses.
func ParseAccountStatus(raw string) (AccountStatus, error) {
	switch status := AccountStatus(strings.ToUpper(strings.TrimSpace(raw))); status {
	case AccountStatusPending, AccountStatusActive, AccountStatusSuspended:
		return status, nil
	default:
		return "", ErrInvalidStatus.WithDetails(map[string]any{"status": raw})
	}
}

// InitialStatus returns the status a freshly registered account starts in.
func InitialStatus(role Role) AccountStatus {
	if role == RoleDoctor {
		return AccountStatusPending
	}
	return AccountStatusActive
}

// Account is the authentication record shared by every role.
type Account struct {
	ID                string
	Username          string
	PasswordHash      string
	Email             string
	Role              Role
	Status            AccountStatus
	SuspensionEndDate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SetStatus moves the account to status, dropping the suspension end date
// whenever the account is no longer suspended.
func (a *Account) SetStatus(status AccountStatus) {
	a.Status = status
	if status != AccountStatusSuspended {
		a.SuspensionEndDate = nil
	}
}

// SuspensionElapsed reports whether a dated suspension has run out at now.
func (a *Account) SuspensionElapsed(now time.Time) bool {
	return a.Status == AccountStatusSuspended &&
		a.SuspensionEndDate != nil &&
		now.After(*a.SuspensionEndDate)
}
