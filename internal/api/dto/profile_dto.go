package dto

import "github.com/mediccare/platform/internal/domain"

// ProfileResponse is the merged account and remote profile view.
type ProfileResponse struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Role     domain.Role    `json:"role"`
	Details  map[string]any `json:"details,omitempty"`
}

// NewProfileResponse maps a profile view.
func NewProfileResponse(view *domain.ProfileView) ProfileResponse {
	return ProfileResponse{
		Username: view.Username,
		Email:    view.Email,
		Role:     view.Role,
		Details:  view.Details,
	}
}

// StubRequest asks a profile service for a minimal record.
type StubRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CountResponse wraps a record count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// DoctorList maps doctor records to their field maps.
func DoctorList(doctors []domain.DoctorProfile) []map[string]any {
	out := make([]map[string]any, 0, len(doctors))
	for i := range doctors {
		out = append(out, doctors[i].Fields())
	}
	return out
}
