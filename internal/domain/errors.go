package domain

import (
	"net/http"

	apperrors "github.com/mediccare/platform/pkg/util"
)

// Error taxonomy shared by the services. Matching with errors.Is compares codes,
// so messages may be specialised per call.
var (
	ErrAccountNotFound     = apperrors.NewDomainError("ACCOUNT_NOT_FOUND", "account not found", http.StatusNotFound, nil)
	ErrUsernameTaken       = apperrors.NewDomainError("USERNAME_TAKEN", "username already taken", http.StatusConflict, nil)
	ErrDuplicateUsername   = ErrUsernameTaken
	ErrInvalidCredentials  = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized, nil)
	ErrAccountSuspended    = apperrors.NewDomainError("ACCOUNT_SUSPENDED", "account suspended", http.StatusForbidden, nil)
	ErrAccountPending      = apperrors.NewDomainError("ACCOUNT_PENDING", "account pending approval", http.StatusForbidden, nil)
	ErrNotADoctor          = apperrors.NewDomainError("NOT_A_DOCTOR", "account is not a doctor", http.StatusConflict, nil)
	ErrNotPending          = apperrors.NewDomainError("NOT_PENDING", "account is not pending approval", http.StatusConflict, nil)
	ErrInvalidRole         = apperrors.NewDomainError("INVALID_ROLE", "unknown role", http.StatusBadRequest, nil)
	ErrInvalidStatus       = apperrors.NewDomainError("INVALID_STATUS", "unknown account status", http.StatusBadRequest, nil)
	ErrProfileNotFound     = apperrors.NewDomainError("PROFILE_NOT_FOUND", "profile not found", http.StatusNotFound, nil)
	ErrProfileUpdateFailed = apperrors.NewDomainError("PROFILE_UPDATE_FAILED", "profile update failed", http.StatusBadGateway, nil)
	ErrRemoteUnavailable   = apperrors.NewDomainError("REMOTE_UNAVAILABLE", "remote service unavailable", http.StatusServiceUnavailable, nil)
	ErrNoRemoteProfile     = apperrors.NewDomainError("NO_REMOTE_PROFILE", "role has no remote profile", http.StatusBadRequest, nil)
	ErrTooManyAttempts     = apperrors.NewDomainError("TOO_MANY_ATTEMPTS", "too many failed login attempts", http.StatusTooManyRequests, nil)
)
