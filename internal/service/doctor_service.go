package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mediccare/platform/internal/client"
	"github.com/mediccare/platform/internal/domain"
	"github.com/mediccare/platform/internal/repository"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// DoctorService manages doctor profile records.
type DoctorService struct {
	doctors repository.DoctorRepository
	roster  client.RosterClient
	logger  *zap.Logger
}

// DoctorDependencies bundles collaborators for the doctor service.
type DoctorDependencies struct {
	DoctorRepo repository.DoctorRepository
	Roster     client.RosterClient
	Logger     *zap.Logger
}

// NewDoctorService builds the service.
func NewDoctorService(deps DoctorDependencies) *DoctorService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DoctorService{doctors: deps.DoctorRepo, roster: deps.Roster, logger: logger}
}

// EnsureStub creates a minimal record unless one already exists. The boolean
// reports whether a record was created.
func (s *DoctorService) EnsureStub(ctx context.Context, username, email string) (*domain.DoctorProfile, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, apperrors.NewValidationError("username is required", nil)
	}
	existing, err := s.doctors.GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, false, err
	}

	doctor := &domain.DoctorProfile{Username: username, Email: strings.TrimSpace(email)}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			existing, getErr := s.doctors.GetByUsername(ctx, username)
			return existing, false, getErr
		}
		return nil, false, err
	}
	return doctor, true, nil
}

// GetByUsername returns one doctor.
func (s *DoctorService) GetByUsername(ctx context.Context, username string) (*domain.DoctorProfile, error) {
	return s.doctors.GetByUsername(ctx, username)
}

// UpdateByUsername applies fields to an existing record.
func (s *DoctorService) UpdateByUsername(ctx context.Context, username string, fields map[string]any) (*domain.DoctorProfile, error) {
	doctor, err := s.doctors.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, doctor, fields)
}

// UpdateByID applies fields to the record with id.
func (s *DoctorService) UpdateByID(ctx context.Context, id string, fields map[string]any) (*domain.DoctorProfile, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, doctor, fields)
}

func (s *DoctorService) apply(ctx context.Context, doctor *domain.DoctorProfile, fields map[string]any) (*domain.DoctorProfile, error) {
	if err := doctor.Apply(fields); err != nil {
		return nil, err
	}
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// Create adds a full doctor record.
func (s *DoctorService) Create(ctx context.Context, username string, fields map[string]any) (*domain.DoctorProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewValidationError("username is required", nil)
	}
	doctor := &domain.DoctorProfile{Username: username}
	if err := doctor.Apply(fields); err != nil {
		return nil, err
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// DeleteByID removes a record.
func (s *DoctorService) DeleteByID(ctx context.Context, id string) error {
	return s.doctors.DeleteByID(ctx, id)
}

// List returns every doctor.
func (s *DoctorService) List(ctx context.Context) ([]domain.DoctorProfile, error) {
	return s.doctors.List(ctx)
}

// Count returns the number of doctor records.
func (s *DoctorService) Count(ctx context.Context) (int64, error) {
	return s.doctors.Count(ctx)
}

// ListActive returns doctors whose identity account is ACTIVE. Records with
// no matching account are left out.
func (s *DoctorService) ListActive(ctx context.Context) ([]domain.DoctorProfile, error) {
	if s.roster == nil {
		return nil, domain.ErrRemoteUnavailable.WithMessage("identity roster not configured")
	}
	statuses, err := s.roster.Statuses(ctx, domain.RoleDoctor)
	if err != nil {
		s.logger.Warn("identity roster unavailable", zap.Error(err))
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			return nil, err
		}
		return nil, domain.ErrRemoteUnavailable.Wrap(err)
	}

	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.DoctorProfile, 0, len(doctors))
	for _, doctor := range doctors {
		if statuses[doctor.Username] == domain.AccountStatusActive {
			active = append(active, doctor)
		}
	}
	return active, nil
}
