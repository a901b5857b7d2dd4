package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediccare/platform/internal/domain"
)

// DoctorRepository persists doctor profiles.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *domain.DoctorProfile) error
	Update(ctx context.Context, doctor *domain.DoctorProfile) error
	GetByID(ctx context.Context, id string) (*domain.DoctorProfile, error)
	GetByUsername(ctx context.Context, username string) (*domain.DoctorProfile, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.DoctorProfile, error)
	Count(ctx context.Context) (int64, error)
}

type doctorRepository struct {
	pool *pgxpool.Pool
}

// NewDoctorRepository returns a Postgres-backed implementation.
func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

const doctorColumns = `id, username, first_name, last_name, specialty, phone_number, email, created_at, updated_at`

func (r *doctorRepository) Create(ctx context.Context, doctor *domain.DoctorProfile) error {
	const query = `
        INSERT INTO doctors (username, first_name, last_name, specialty, phone_number, email)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		doctor.Username,
		doctor.FirstName,
		doctor.LastName,
		doctor.Specialty,
		doctor.PhoneNumber,
		doctor.Email,
	).Scan(&doctor.ID, &doctor.CreatedAt, &doctor.UpdatedAt)
	return translateWriteError(err)
}

func (r *doctorRepository) Update(ctx context.Context, doctor *domain.DoctorProfile) error {
	if _, err := uuid.Parse(doctor.ID); err != nil {
		return domain.ErrProfileNotFound
	}
	const query = `
        UPDATE doctors
        SET username=$1, first_name=$2, last_name=$3, specialty=$4, phone_number=$5, email=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		doctor.Username,
		doctor.FirstName,
		doctor.LastName,
		doctor.Specialty,
		doctor.PhoneNumber,
		doctor.Email,
		doctor.ID,
	).Scan(&doctor.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return translateWriteError(err)
}

func (r *doctorRepository) GetByID(ctx context.Context, id string) (*domain.DoctorProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id=$1`, id))
}

func (r *doctorRepository) GetByUsername(ctx context.Context, username string) (*domain.DoctorProfile, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE username=$1`, username))
}

func (r *doctorRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrProfileNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]domain.DoctorProfile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY last_name, first_name, username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := make([]domain.DoctorProfile, 0)
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, *doctor)
	}
	return doctors, rows.Err()
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&n)
	return n, err
}

func scanDoctor(row pgx.Row) (*domain.DoctorProfile, error) {
	var doctor domain.DoctorProfile
	if err := row.Scan(
		&doctor.ID,
		&doctor.Username,
		&doctor.FirstName,
		&doctor.LastName,
		&doctor.Specialty,
		&doctor.PhoneNumber,
		&doctor.Email,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &doctor, nil
}
