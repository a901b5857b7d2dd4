package domain

import (
	"fmt"
	"time"

	apperrors "github.com/mediccare/platform/pkg/util"
)

// DoctorProfile is the doctor-service record keyed by username.
type DoctorProfile struct {
	ID          string
	Username    string
	FirstName   string
	LastName    string
	Specialty   string
	PhoneNumber string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Apply copies recognised fields onto the profile.
func (p *DoctorProfile) Apply(fields map[string]any) error {
	return applyFields(fields, map[string]*string{
		"firstName":   &p.FirstName,
		"lastName":    &p.LastName,
		"specialty":   &p.Specialty,
		"phoneNumber": &p.PhoneNumber,
		"email":       &p.Email,
	})
}

// Fields renders the profile as the wire field map.
func (p *DoctorProfile) Fields() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"username":    p.Username,
		"firstName":   p.FirstName,
		"lastName":    p.LastName,
		"specialty":   p.Specialty,
		"phoneNumber": p.PhoneNumber,
		"email":       p.Email,
	}
}

// PatientProfile is the patient-service record keyed by username.
type PatientProfile struct {
	ID          string
	Username    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Address     string
	BloodGroup  string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Apply copies recognised fields onto the profile.
func (p *PatientProfile) Apply(fields map[string]any) error {
	return applyFields(fields, map[string]*string{
		"firstName":   &p.FirstName,
		"lastName":    &p.LastName,
		"phoneNumber": &p.PhoneNumber,
		"address":     &p.Address,
		"bloodGroup":  &p.BloodGroup,
		"email":       &p.Email,
	})
}

// Fields renders the profile as the wire field map.
func (p *PatientProfile) Fields() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"username":    p.Username,
		"firstName":   p.FirstName,
		"lastName":    p.LastName,
		"phoneNumber": p.PhoneNumber,
		"address":     p.Address,
		"bloodGroup":  p.BloodGroup,
		"email":       p.Email,
	}
}

// id and username identify the record and are ignored in field maps.
func applyFields(fields map[string]any, targets map[string]*string) error {
	for key, raw := range fields {
		if key == "id" || key == "username" {
			continue
		}
		target, ok := targets[key]
		if !ok {
			return apperrors.NewValidationError("unknown profile field", map[string]any{"field": key})
		}
		switch v := raw.(type) {
		case nil:
			*target = ""
		case string:
			*target = v
		default:
			return apperrors.NewValidationError("profile fields must be strings",
				map[string]any{"field": key, "type": fmt.Sprintf("%T", raw)})
		}
	}
	return nil
}
