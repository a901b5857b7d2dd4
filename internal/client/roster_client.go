package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/mediccare/platform/internal/domain"
)

// RosterEntry is the account summary identity exposes to the profile services.
type RosterEntry struct {
	Username string               `json:"username"`
	Role     domain.Role          `json:"role"`
	Status   domain.AccountStatus `json:"status"`
}

// RosterClient reads account statuses from the identity service.
type RosterClient interface {
	Statuses(ctx context.Context, role domain.Role) (map[string]domain.AccountStatus, error)
}

type httpRosterClient struct {
	baseURL string
	caller  caller
}

// NewHTTPRosterClient builds a roster client against the identity base URL.
func NewHTTPRosterClient(identityURL string, timeout time.Duration) RosterClient {
	return &httpRosterClient{baseURL: identityURL, caller: caller{timeout: timeout}}
}

// Statuses returns username -> status for every account of role.
func (c *httpRosterClient) Statuses(ctx context.Context, role domain.Role) (map[string]domain.AccountStatus, error) {
	endpoint := c.baseURL + "/internal/accounts/roster?role=" + url.QueryEscape(string(role))
	var entries []RosterEntry
	if err := c.caller.do(ctx, http.MethodGet, endpoint, nil, &entries); err != nil {
		return nil, err
	}
	out := make(map[string]domain.AccountStatus, len(entries))
	for _, entry := range entries {
		out[entry.Username] = entry.Status
	}
	return out, nil
}
