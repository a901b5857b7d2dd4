package dto

import (
	"time"

	"github.com/mediccare/platform/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// AccountResponse is the wire form of an account. The password hash is never included.
type AccountResponse struct {
	ID                string               `json:"id"`
	Username          string               `json:"username"`
	Email             string               `json:"email"`
	Role              domain.Role          `json:"role"`
	Status            domain.AccountStatus `json:"status"`
	SuspensionEndDate *time.Time           `json:"suspension_end_date,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// NewAccountResponse maps an account to its wire form.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:                account.ID,
		Username:          account.Username,
		Email:             account.Email,
		Role:              account.Role,
		Status:            account.Status,
		SuspensionEndDate: account.SuspensionEndDate,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}
}

// NewAccountListResponse maps a slice of accounts.
func NewAccountListResponse(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, NewAccountResponse(&accounts[i]))
	}
	return out
}

// SuspendRequest payload. A missing end date suspends indefinitely.
type SuspendRequest struct {
	EndDate *time.Time `json:"end_date"`
}

// UpdateAccountRequest carries the admin-editable fields.
type UpdateAccountRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

// RosterEntry is the account summary served to the profile services.
type RosterEntry struct {
	Username string               `json:"username"`
	Role     domain.Role          `json:"role"`
	Status   domain.AccountStatus `json:"status"`
}
