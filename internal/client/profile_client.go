package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/mediccare/platform/internal/domain"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// ProfileClient reaches the role-specific profile services.
type ProfileClient interface {
	CreateStub(ctx context.Context, role domain.Role, username, email string) error
	FetchByUsername(ctx context.Context, role domain.Role, username string) (map[string]any, error)
	UpdateByUsername(ctx context.Context, role domain.Role, username string, fields map[string]any) (map[string]any, error)
	Count(ctx context.Context, role domain.Role) (int64, error)
}

// ProfileEndpoints holds the base URLs of the profile services.
type ProfileEndpoints struct {
	DoctorURL  string
	PatientURL string
}

type httpProfileClient struct {
	endpoints ProfileEndpoints
	caller    caller
}

// NewHTTPProfileClient builds a client bounded by timeout per call.
func NewHTTPProfileClient(endpoints ProfileEndpoints, timeout time.Duration) ProfileClient {
	return &httpProfileClient{endpoints: endpoints, caller: caller{timeout: timeout}}
}

// StubRequest is the body of a stub creation call.
type StubRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func (c *httpProfileClient) CreateStub(ctx context.Context, role domain.Role, username, email string) error {
	base, err := c.collection(role)
	if err != nil {
		return err
	}
	return c.caller.do(ctx, http.MethodPost, base+"/stub", StubRequest{Username: username, Email: email}, nil)
}

func (c *httpProfileClient) FetchByUsername(ctx context.Context, role domain.Role, username string) (map[string]any, error) {
	base, err := c.collection(role)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := c.caller.do(ctx, http.MethodGet, base+"/username/"+url.PathEscape(username), nil, &out); err != nil {
		return nil, notFoundAsProfile(err)
	}
	return out, nil
}

func (c *httpProfileClient) UpdateByUsername(ctx context.Context, role domain.Role, username string, fields map[string]any) (map[string]any, error) {
	base, err := c.collection(role)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	var out map[string]any
	if err := c.caller.do(ctx, http.MethodPut, base+"/username/"+url.PathEscape(username), fields, &out); err != nil {
		return nil, notFoundAsProfile(err)
	}
	return out, nil
}

func (c *httpProfileClient) Count(ctx context.Context, role domain.Role) (int64, error) {
	base, err := c.collection(role)
	if err != nil {
		return 0, err
	}
	var out countResponse
	if err := c.caller.do(ctx, http.MethodGet, base+"/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *httpProfileClient) collection(role domain.Role) (string, error) {
	switch role {
	case domain.RolePatient:
		return c.endpoints.PatientURL + "/internal/patients", nil
	case domain.RoleDoctor:
		return c.endpoints.DoctorURL + "/internal/doctors", nil
	default:
		return "", domain.ErrNoRemoteProfile.WithDetails(map[string]any{"role": role})
	}
}

func notFoundAsProfile(err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) && domainErr.HTTPStatus == http.StatusNotFound {
		return domain.ErrProfileNotFound.Wrap(err)
	}
	return err
}
