package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediccare/platform/internal/domain"
)

// PatientRepository persists patient profiles.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.PatientProfile) error
	Update(ctx context.Context, patient *domain.PatientProfile) error
	GetByUsername(ctx context.Context, username string) (*domain.PatientProfile, error)
	Count(ctx context.Context) (int64, error)
}

type patientRepository struct {
	pool *pgxpool.Pool
}

// NewPatientRepository returns a Postgres-backed implementation.
func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

func (r *patientRepository) Create(ctx context.Context, patient *domain.PatientProfile) error {
	const query = `
        INSERT INTO patients (username, first_name, last_name, phone_number, address, blood_group, email)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		patient.Username,
		patient.FirstName,
		patient.LastName,
		patient.PhoneNumber,
		patient.Address,
		patient.BloodGroup,
		patient.Email,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
	return translateWriteError(err)
}

func (r *patientRepository) Update(ctx context.Context, patient *domain.PatientProfile) error {
	if _, err := uuid.Parse(patient.ID); err != nil {
		return domain.ErrProfileNotFound
	}
	const query = `
        UPDATE patients
        SET first_name=$1, last_name=$2, phone_number=$3, address=$4, blood_group=$5, email=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.PhoneNumber,
		patient.Address,
		patient.BloodGroup,
		patient.Email,
		patient.ID,
	).Scan(&patient.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return err
}

func (r *patientRepository) GetByUsername(ctx context.Context, username string) (*domain.PatientProfile, error) {
	const query = `
        SELECT id, username, first_name, last_name, phone_number, address, blood_group, email, created_at, updated_at
        FROM patients WHERE username=$1`

	var patient domain.PatientProfile
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&patient.ID,
		&patient.Username,
		&patient.FirstName,
		&patient.LastName,
		&patient.PhoneNumber,
		&patient.Address,
		&patient.BloodGroup,
		&patient.Email,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}
