package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediccare/platform/internal/auth"
	"github.com/mediccare/platform/internal/client"
	"github.com/mediccare/platform/internal/domain"
	"github.com/mediccare/platform/internal/events"
	"github.com/mediccare/platform/internal/repository"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// IdentityService owns registration, login and the account state machine.
type IdentityService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenManager
	profiles   client.ProfileClient
	dispatcher events.Dispatcher
	throttle   *LoginThrottle
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// IdentityDependencies bundles collaborators for the identity service.
type IdentityDependencies struct {
	AccountRepo repository.AccountRepository
	Tokens      *auth.TokenManager
	Profiles    client.ProfileClient
	Dispatcher  events.Dispatcher
	Throttle    *LoginThrottle
	Logger      *zap.Logger
	BcryptCost  int
}

// NewIdentityService builds the service.
func NewIdentityService(deps IdentityDependencies) *IdentityService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		accounts:   deps.AccountRepo,
		tokens:     deps.Tokens,
		profiles:   deps.Profiles,
		dispatcher: deps.Dispatcher,
		throttle:   deps.Throttle,
		logger:     logger,
		bcryptCost: deps.BcryptCost,
		now:        time.Now,
	}
}

// RegisterInput describes a registration request.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Role      domain.Role
}

// AccountPatch carries the admin-editable account fields. Nil fields are left alone.
type AccountPatch struct {
	Username *string
	Email    *string
	Role     *string
	Status   *string
}

// AccountStats summarises the account base for the admin dashboard.
type AccountStats struct {
	Total    int64                          `json:"total"`
	ByRole   map[domain.Role]int64          `json:"by_role"`
	ByStatus map[domain.AccountStatus]int64 `json:"by_status"`
	Profiles map[domain.Role]int64          `json:"profiles"`
}

// Register creates an account and provisions its remote profile stub.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError("password is too long",
				map[string]any{"max_bytes": auth.MaxPasswordBytes})
		}
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(in.Email),
		Role:         role,
		Status:       domain.InitialStatus(role),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.provisionStub(ctx, account)
	s.publishEvent(ctx, events.EventAccountRegistered, account, events.AccountRegisteredPayload{
		Email:  account.Email,
		Status: account.Status,
	})
	return account, nil
}

// provisionStub is best-effort: the account already exists and a missing stub
// is tolerated by every later read and update.
func (s *IdentityService) provisionStub(ctx context.Context, account *domain.Account) {
	if s.profiles == nil || !account.Role.HasRemoteProfile() {
		return
	}
	if err := s.profiles.CreateStub(context.WithoutCancel(ctx), account.Role, account.Username, account.Email); err != nil {
		s.logger.Warn("profile stub creation failed",
			zap.String("username", account.Username),
			zap.String("role", string(account.Role)),
			zap.Error(err))
	}
}

// Authenticate verifies credentials and mints a token.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}
	if err := s.throttle.Check(ctx, username); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.throttle.RecordFailure(ctx, username)
		}
		return nil, err
	}

	if account.Status == domain.AccountStatusSuspended {
		if !account.SuspensionElapsed(s.now()) {
			return nil, suspendedError(account)
		}
		account.SetStatus(domain.AccountStatusActive)
		if err := s.accounts.Save(ctx, account); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.EventAccountUnsuspended, account, events.AccountUnsuspendedPayload{Automatic: true})
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		s.throttle.RecordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}
	if account.Status == domain.AccountStatusPending {
		return nil, domain.ErrAccountPending
	}

	token, expiresAt, err := s.tokens.Mint(account.Username, account.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.throttle.Reset(ctx, username)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  account.Username,
		Role:      account.Role,
	}, nil
}

func suspendedError(account *domain.Account) error {
	if account.SuspensionEndDate == nil {
		return domain.ErrAccountSuspended.WithMessage("account suspended indefinitely")
	}
	until := account.SuspensionEndDate.UTC().Format(time.RFC3339)
	return domain.ErrAccountSuspended.
		WithMessage(fmt.Sprintf("account suspended until %s", until)).
		WithDetails(map[string]any{"suspension_end_date": until})
}

// GetProfile returns the account view enriched with the remote profile when reachable.
func (s *IdentityService) GetProfile(ctx context.Context, username string) (*domain.ProfileView, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	view := profileView(account)
	view.Details = s.enrich(ctx, account)
	return view, nil
}

// enrich never fails; the stub may not exist yet.
func (s *IdentityService) enrich(ctx context.Context, account *domain.Account) map[string]any {
	if s.profiles == nil || !account.Role.HasRemoteProfile() {
		return nil
	}
	details, err := s.profiles.FetchByUsername(ctx, account.Role, account.Username)
	if err != nil {
		s.logger.Debug("profile enrichment skipped",
			zap.String("username", account.Username),
			zap.Error(err))
		return nil
	}
	return accountOwnedRemoved(details)
}

// UpdateProfile applies email locally and forwards every other field to the
// role's profile service. Remote failures propagate as ErrProfileUpdateFailed.
// Requests that cannot be forwarded are rejected before anything is written.
func (s *IdentityService) UpdateProfile(ctx context.Context, username string, fields map[string]any) (*domain.ProfileView, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	remote := make(map[string]any, len(fields))
	for k, v := range fields {
		remote[k] = v
	}

	var email *string
	if raw, ok := remote["email"]; ok {
		delete(remote, "email")
		value, isString := raw.(string)
		if !isString {
			return nil, apperrors.NewValidationError("email must be a string", map[string]any{"field": "email"})
		}
		value = strings.TrimSpace(value)
		email = &value
	}
	if len(remote) > 0 && (!account.Role.HasRemoteProfile() || s.profiles == nil) {
		return nil, domain.ErrNoRemoteProfile.WithDetails(map[string]any{"role": account.Role})
	}

	if email != nil {
		account.Email = *email
		if err := s.accounts.Save(ctx, account); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.EventAccountUpdated, account, events.AccountUpdatedPayload{Fields: []string{"email"}})
	}

	view := profileView(account)
	if len(remote) == 0 {
		view.Details = s.enrich(ctx, account)
		return view, nil
	}

	details, err := s.profiles.UpdateByUsername(ctx, account.Role, account.Username, remote)
	if err != nil {
		s.logger.Warn("profile update failed",
			zap.String("username", account.Username),
			zap.Error(err))
		return nil, domain.ErrProfileUpdateFailed.Wrap(err)
	}
	view.Details = accountOwnedRemoved(details)
	return view, nil
}

// accountOwnedRemoved drops remote fields the account is authoritative for, so
// the view carries a single email.
func accountOwnedRemoved(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		if k == "email" {
			continue
		}
		out[k] = v
	}
	return out
}

func profileView(account *domain.Account) *domain.ProfileView {
	return &domain.ProfileView{
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role,
	}
}

// Suspend suspends an account until the given time, or indefinitely when until is nil.
func (s *IdentityService) Suspend(ctx context.Context, id string, until *time.Time) (*domain.Account, error) {
	if until != nil && !until.After(s.now()) {
		return nil, apperrors.NewValidationError("suspension end date must be in the future", nil)
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	account.SetStatus(domain.AccountStatusSuspended)
	if until != nil {
		end := until.UTC()
		account.SuspensionEndDate = &end
	} else {
		account.SuspensionEndDate = nil
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventAccountSuspended, account, events.AccountSuspendedPayload{Until: account.SuspensionEndDate})
	return account, nil
}

// Unsuspend reactivates an account.
func (s *IdentityService) Unsuspend(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	account.SetStatus(domain.AccountStatusActive)
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventAccountUnsuspended, account, events.AccountUnsuspendedPayload{})
	return account, nil
}

// ApproveDoctor activates a pending doctor.
func (s *IdentityService) ApproveDoctor(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleDoctor {
		return nil, domain.ErrNotADoctor
	}
	if account.Status != domain.AccountStatusPending {
		return nil, domain.ErrNotPending.WithDetails(map[string]any{"status": account.Status})
	}
	account.SetStatus(domain.AccountStatusActive)
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventAccountApproved, account, nil)
	return account, nil
}

// UpdateAccount applies an admin patch.
func (s *IdentityService) UpdateAccount(ctx context.Context, id string, patch AccountPatch) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := account.Status
	var changed []string

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, apperrors.NewValidationError("username cannot be empty", nil)
		}
		if username != account.Username {
			existing, err := s.accounts.GetByUsername(ctx, username)
			switch {
			case err == nil && existing.ID != account.ID:
				return nil, domain.ErrUsernameTaken.WithDetails(map[string]any{"username": username})
			case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
				return nil, err
			}
			account.Username = username
			changed = append(changed, "username")
		}
	}
	if patch.Email != nil {
		account.Email = strings.TrimSpace(*patch.Email)
		changed = append(changed, "email")
	}
	if patch.Role != nil {
		role, err := domain.ParseRole(*patch.Role)
		if err != nil {
			return nil, err
		}
		account.Role = role
		changed = append(changed, "role")
	}
	if patch.Status != nil {
		status, err := domain.ParseAccountStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		account.SetStatus(status)
		changed = append(changed, "status")
	}

	if len(changed) == 0 {
		return account, nil
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventAccountUpdated, account, events.AccountUpdatedPayload{
		Fields:    changed,
		OldStatus: oldStatus,
		NewStatus: account.Status,
	})
	return account, nil
}

// DeleteAccount removes an account in any state. The remote profile is left in place.
func (s *IdentityService) DeleteAccount(ctx context.Context, id string) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.accounts.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, events.EventAccountDeleted, account, nil)
	return nil
}

// ListAccounts returns every account ordered by username.
func (s *IdentityService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Username < accounts[j].Username })
	return accounts, nil
}

// Roster lists accounts, optionally restricted to one role.
func (s *IdentityService) Roster(ctx context.Context, role *domain.Role) ([]domain.Account, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil || role == nil {
		return accounts, err
	}
	filtered := accounts[:0]
	for _, account := range accounts {
		if account.Role == *role {
			filtered = append(filtered, account)
		}
	}
	return filtered, nil
}

// Stats aggregates account totals and remote profile counts. Remote counts
// fall back to zero when a profile service is unreachable.
func (s *IdentityService) Stats(ctx context.Context) (*AccountStats, error) {
	byRole, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &AccountStats{
		Total:    int64(len(accounts)),
		ByRole:   map[domain.Role]int64{domain.RolePatient: 0, domain.RoleDoctor: 0, domain.RoleAdmin: 0},
		ByStatus: map[domain.AccountStatus]int64{domain.AccountStatusPending: 0, domain.AccountStatusActive: 0, domain.AccountStatusSuspended: 0},
		Profiles: map[domain.Role]int64{domain.RolePatient: 0, domain.RoleDoctor: 0},
	}
	for role, n := range byRole {
		stats.ByRole[role] = n
	}
	for _, account := range accounts {
		stats.ByStatus[account.Status]++
	}

	if s.profiles == nil {
		return stats, nil
	}
	for role := range stats.Profiles {
		n, err := s.profiles.Count(ctx, role)
		if err != nil {
			s.logger.Warn("profile count unavailable", zap.String("role", string(role)), zap.Error(err))
			continue
		}
		stats.Profiles[role] = n
	}
	return stats, nil
}

func (s *IdentityService) publishEvent(ctx context.Context, eventType events.EventType, account *domain.Account, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
