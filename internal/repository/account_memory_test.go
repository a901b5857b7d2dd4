package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediccare/platform/internal/domain"
)

func TestMemoryAccountRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	account := &domain.Account{Username: "alice", Role: domain.RolePatient, Status: domain.AccountStatusActive}
	require.NoError(t, repo.Create(ctx, account))
	require.NotEmpty(t, account.ID)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byName.ID)

	byID, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	exists, err := repo.ExistsByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryAccountRepositoryDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	require.NoError(t, repo.Create(ctx, &domain.Account{Username: "bob"}))
	err := repo.Create(ctx, &domain.Account{Username: "bob"})
	assert.True(t, errors.Is(err, domain.ErrDuplicateUsername))

	other := &domain.Account{Username: "carol"}
	require.NoError(t, repo.Create(ctx, other))
	other.Username = "bob"
	assert.ErrorIs(t, repo.Save(ctx, other), domain.ErrUsernameTaken)
}

func TestMemoryAccountRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	end := time.Now().Add(time.Hour)
	account := &domain.Account{Username: "dave", Status: domain.AccountStatusSuspended, SuspensionEndDate: &end}
	require.NoError(t, repo.Create(ctx, account))

	loaded, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	loaded.Status = domain.AccountStatusActive
	*loaded.SuspensionEndDate = end.Add(time.Hour)

	again, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusSuspended, again.Status)
	assert.True(t, again.SuspensionEndDate.Equal(end))
}

func TestMemoryAccountRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	_, err = repo.GetByUsername(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, "missing"), domain.ErrAccountNotFound)
	assert.ErrorIs(t, repo.Save(ctx, &domain.Account{ID: "missing"}), domain.ErrAccountNotFound)
}

func TestMemoryAccountRepositoryListAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	require.NoError(t, repo.Create(ctx, &domain.Account{Username: "p1", Role: domain.RolePatient}))
	require.NoError(t, repo.Create(ctx, &domain.Account{Username: "p2", Role: domain.RolePatient}))
	require.NoError(t, repo.Create(ctx, &domain.Account{Username: "d1", Role: domain.RoleDoctor}))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)

	counts, err := repo.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.RolePatient])
	assert.Equal(t, int64(1), counts[domain.RoleDoctor])

	require.NoError(t, repo.DeleteByID(ctx, accounts[0].ID))
	accounts, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}
