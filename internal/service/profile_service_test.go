package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediccare/platform/internal/domain"
	"github.com/mediccare/platform/internal/repository"
)

type fakeRoster struct {
	statuses map[string]domain.AccountStatus
	err      error
}

func (f fakeRoster) Statuses(_ context.Context, _ domain.Role) (map[string]domain.AccountStatus, error) {
	return f.statuses, f.err
}

func TestDoctorEnsureStubIsIdempotent(t *testing.T) {
	svc := NewDoctorService(DoctorDependencies{DoctorRepo: repository.NewMemoryDoctorRepository()})
	ctx := context.Background()

	first, created, err := svc.EnsureStub(ctx, "dr_x", "x@x.com")
	require.NoError(t, err)
	assert.True(t, created)

	_, err = svc.UpdateByUsername(ctx, "dr_x", map[string]any{"specialty": "cardiology"})
	require.NoError(t, err)

	second, created, err := svc.EnsureStub(ctx, "dr_x", "other@x.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "cardiology", second.Specialty)
	assert.Equal(t, "x@x.com", second.Email)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDoctorUpdateRejectsUnknownFields(t *testing.T) {
	svc := NewDoctorService(DoctorDependencies{DoctorRepo: repository.NewMemoryDoctorRepository()})
	ctx := context.Background()
	_, _, err := svc.EnsureStub(ctx, "dr_x", "")
	require.NoError(t, err)

	_, err = svc.UpdateByUsername(ctx, "dr_x", map[string]any{"salary": "lots"})
	assert.Error(t, err)

	updated, err := svc.UpdateByUsername(ctx, "dr_x", map[string]any{"username": "hijack", "lastName": "Who"})
	require.NoError(t, err)
	assert.Equal(t, "dr_x", updated.Username)
	assert.Equal(t, "Who", updated.LastName)

	_, err = svc.UpdateByUsername(ctx, "ghost", map[string]any{})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestDoctorAdminCRUD(t *testing.T) {
	svc := NewDoctorService(DoctorDependencies{DoctorRepo: repository.NewMemoryDoctorRepository()})
	ctx := context.Background()

	doctor, err := svc.Create(ctx, "dr_a", map[string]any{"firstName": "Ada"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "dr_a", nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	updated, err := svc.UpdateByID(ctx, doctor.ID, map[string]any{"specialty": "oncology"})
	require.NoError(t, err)
	assert.Equal(t, "oncology", updated.Specialty)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteByID(ctx, doctor.ID))
	assert.ErrorIs(t, svc.DeleteByID(ctx, doctor.ID), domain.ErrProfileNotFound)
}

func TestDoctorListActive(t *testing.T) {
	repo := repository.NewMemoryDoctorRepository()
	ctx := context.Background()
	for _, name := range []string{"dr_a", "dr_b", "dr_c", "dr_orphan"} {
		require.NoError(t, repo.Create(ctx, &domain.DoctorProfile{Username: name}))
	}
	svc := NewDoctorService(DoctorDependencies{
		DoctorRepo: repo,
		Roster: fakeRoster{statuses: map[string]domain.AccountStatus{
			"dr_a": domain.AccountStatusActive,
			"dr_b": domain.AccountStatusPending,
			"dr_c": domain.AccountStatusSuspended,
		}},
	})

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "dr_a", active[0].Username)
}

func TestDoctorListActiveRosterFailure(t *testing.T) {
	svc := NewDoctorService(DoctorDependencies{
		DoctorRepo: repository.NewMemoryDoctorRepository(),
		Roster:     fakeRoster{err: errors.New("dial tcp: refused")},
	})

	_, err := svc.ListActive(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestPatientSaveProfileCreatesWhenMissing(t *testing.T) {
	svc := NewPatientService(repository.NewMemoryPatientRepository())
	ctx := context.Background()

	saved, err := svc.SaveProfile(ctx, "alice", map[string]any{"bloodGroup": "O+", "address": "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "O+", saved.BloodGroup)

	saved, err = svc.SaveProfile(ctx, "alice", map[string]any{"phoneNumber": "555"})
	require.NoError(t, err)
	assert.Equal(t, "O+", saved.BloodGroup)
	assert.Equal(t, "555", saved.PhoneNumber)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPatientStubAndUpdate(t *testing.T) {
	svc := NewPatientService(repository.NewMemoryPatientRepository())
	ctx := context.Background()

	_, err := svc.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, created, err := svc.EnsureStub(ctx, "alice", "a@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = svc.EnsureStub(ctx, "alice", "a@example.com")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.UpdateByUsername(ctx, "alice", map[string]any{"bloodGroup": 7})
	assert.Error(t, err)

	_, _, err = svc.EnsureStub(ctx, "", "")
	assert.Error(t, err)
}
