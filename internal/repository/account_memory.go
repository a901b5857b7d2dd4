package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mediccare/platform/internal/domain"
)

type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

// NewMemoryAccountRepository returns a process-local store, used when no
// database is configured and in tests.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{accounts: make(map[string]domain.Account)}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.usernameTaken(account.Username, "") {
		return domain.ErrDuplicateUsername
	}
	now := time.Now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = cloneAccount(*account)
	return nil
}

func (r *memoryAccountRepository) Save(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	if r.usernameTaken(account.Username, account.ID) {
		return domain.ErrDuplicateUsername
	}
	account.UpdatedAt = time.Now().UTC()
	r.accounts[account.ID] = cloneAccount(*account)
	return nil
}

func (r *memoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := cloneAccount(account)
	return &cp, nil
}

func (r *memoryAccountRepository) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Username == username {
			cp := cloneAccount(account)
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memoryAccountRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accounts[id]
	return ok, nil
}

func (r *memoryAccountRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memoryAccountRepository) List(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, cloneAccount(account))
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].Username < accounts[j].Username
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *memoryAccountRepository) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.Role]int64)
	for _, account := range r.accounts {
		counts[account.Role]++
	}
	return counts, nil
}

// caller holds the lock
func (r *memoryAccountRepository) usernameTaken(username, exceptID string) bool {
	for id, account := range r.accounts {
		if account.Username == username && id != exceptID {
			return true
		}
	}
	return false
}

func cloneAccount(account domain.Account) domain.Account {
	if account.SuspensionEndDate != nil {
		end := *account.SuspensionEndDate
		account.SuspensionEndDate = &end
	}
	return account
}
