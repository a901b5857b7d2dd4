package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mediccare/platform/internal/domain"
	"github.com/mediccare/platform/internal/repository"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// PatientService manages patient profile records.
type PatientService struct {
	patients repository.PatientRepository
}

// NewPatientService builds the service.
func NewPatientService(patients repository.PatientRepository) *PatientService {
	return &PatientService{patients: patients}
}

// EnsureStub creates a minimal record unless one already exists.
func (s *PatientService) EnsureStub(ctx context.Context, username, email string) (*domain.PatientProfile, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, apperrors.NewValidationError("username is required", nil)
	}
	existing, err := s.patients.GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, false, err
	}

	patient := &domain.PatientProfile{Username: username, Email: strings.TrimSpace(email)}
	if err := s.patients.Create(ctx, patient); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			existing, getErr := s.patients.GetByUsername(ctx, username)
			return existing, false, getErr
		}
		return nil, false, err
	}
	return patient, true, nil
}

// GetByUsername returns one patient.
func (s *PatientService) GetByUsername(ctx context.Context, username string) (*domain.PatientProfile, error) {
	return s.patients.GetByUsername(ctx, username)
}

// UpdateByUsername applies fields to an existing record.
func (s *PatientService) UpdateByUsername(ctx context.Context, username string, fields map[string]any) (*domain.PatientProfile, error) {
	patient, err := s.patients.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := patient.Apply(fields); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// SaveProfile creates the caller's record when missing, then applies fields.
func (s *PatientService) SaveProfile(ctx context.Context, username string, fields map[string]any) (*domain.PatientProfile, error) {
	if _, _, err := s.EnsureStub(ctx, username, ""); err != nil {
		return nil, err
	}
	return s.UpdateByUsername(ctx, strings.TrimSpace(username), fields)
}

// Count returns the number of patient records.
func (s *PatientService) Count(ctx context.Context) (int64, error) {
	return s.patients.Count(ctx)
}
