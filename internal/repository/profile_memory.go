package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mediccare/platform/internal/domain"
)

type memoryDoctorRepository struct {
	mu      sync.RWMutex
	doctors map[string]domain.DoctorProfile
}

// NewMemoryDoctorRepository returns a process-local doctor store.
func NewMemoryDoctorRepository() DoctorRepository {
	return &memoryDoctorRepository{doctors: make(map[string]domain.DoctorProfile)}
}

func (r *memoryDoctorRepository) Create(_ context.Context, doctor *domain.DoctorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.doctors {
		if existing.Username == doctor.Username {
			return domain.ErrDuplicateUsername
		}
	}
	now := time.Now().UTC()
	doctor.ID = uuid.NewString()
	doctor.CreatedAt, doctor.UpdatedAt = now, now
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *memoryDoctorRepository) Update(_ context.Context, doctor *domain.DoctorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[doctor.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	for id, existing := range r.doctors {
		if existing.Username == doctor.Username && id != doctor.ID {
			return domain.ErrDuplicateUsername
		}
	}
	doctor.UpdatedAt = time.Now().UTC()
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *memoryDoctorRepository) GetByID(_ context.Context, id string) (*domain.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doctor, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &doctor, nil
}

func (r *memoryDoctorRepository) GetByUsername(_ context.Context, username string) (*domain.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doctor := range r.doctors {
		if doctor.Username == username {
			d := doctor
			return &d, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *memoryDoctorRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(r.doctors, id)
	return nil
}

func (r *memoryDoctorRepository) List(_ context.Context) ([]domain.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doctors := make([]domain.DoctorProfile, 0, len(r.doctors))
	for _, doctor := range r.doctors {
		doctors = append(doctors, doctor)
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].Username < doctors[j].Username })
	return doctors, nil
}

func (r *memoryDoctorRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.doctors)), nil
}

type memoryPatientRepository struct {
	mu       sync.RWMutex
	patients map[string]domain.PatientProfile
}

// NewMemoryPatientRepository returns a process-local patient store keyed by username.
func NewMemoryPatientRepository() PatientRepository {
	return &memoryPatientRepository{patients: make(map[string]domain.PatientProfile)}
}

func (r *memoryPatientRepository) Create(_ context.Context, patient *domain.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[patient.Username]; ok {
		return domain.ErrDuplicateUsername
	}
	now := time.Now().UTC()
	patient.ID = uuid.NewString()
	patient.CreatedAt, patient.UpdatedAt = now, now
	r.patients[patient.Username] = *patient
	return nil
}

func (r *memoryPatientRepository) Update(_ context.Context, patient *domain.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.patients[patient.Username]
	if !ok || existing.ID != patient.ID {
		return domain.ErrProfileNotFound
	}
	patient.UpdatedAt = time.Now().UTC()
	r.patients[patient.Username] = *patient
	return nil
}

func (r *memoryPatientRepository) GetByUsername(_ context.Context, username string) (*domain.PatientProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patient, ok := r.patients[username]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &patient, nil
}

func (r *memoryPatientRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.patients)), nil
}
