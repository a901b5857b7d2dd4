package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" doctor ")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, role)

	for _, raw := range []string{"", "nurse", "admins"} {
		_, err := ParseRole(raw)
		assert.True(t, errors.Is(err, ErrInvalidRole), raw)
	}
}

func TestParseAccountStatus(t *testing.T) {
	status, err := ParseAccountStatus("suspended")
	require.NoError(t, err)
	assert.Equal(t, AccountStatusSuspended, status)

	_, err = ParseAccountStatus("DISABLED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, AccountStatusPending, InitialStatus(RoleDoctor))
	assert.Equal(t, AccountStatusActive, InitialStatus(RolePatient))
	assert.Equal(t, AccountStatusActive, InitialStatus(RoleAdmin))
}

func TestRemoteProfileRoles(t *testing.T) {
	assert.True(t, RolePatient.HasRemoteProfile())
	assert.True(t, RoleDoctor.HasRemoteProfile())
	assert.False(t, RoleAdmin.HasRemoteProfile())
}

func TestSetStatusClearsEndDate(t *testing.T) {
	end := time.Now().Add(time.Hour)
	account := &Account{Status: AccountStatusSuspended, SuspensionEndDate: &end}

	account.SetStatus(AccountStatusSuspended)
	assert.NotNil(t, account.SuspensionEndDate)

	account.SetStatus(AccountStatusActive)
	assert.Equal(t, AccountStatusActive, account.Status)
	assert.Nil(t, account.SuspensionEndDate)
}

func TestSuspensionElapsed(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, (&Account{Status: AccountStatusSuspended, SuspensionEndDate: &past}).SuspensionElapsed(now))
	assert.False(t, (&Account{Status: AccountStatusSuspended, SuspensionEndDate: &future}).SuspensionElapsed(now))
	assert.False(t, (&Account{Status: AccountStatusSuspended}).SuspensionElapsed(now))
	assert.False(t, (&Account{Status: AccountStatusActive, SuspensionEndDate: &past}).SuspensionElapsed(now))
}
