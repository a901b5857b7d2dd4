package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediccare/platform/internal/domain"
)

type recordedCall struct {
	method string
	path   string
	body   map[string]any
}

func profileServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{method: r.Method, path: r.URL.Path}
		if r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&call.body)
		}
		*calls = append(*calls, call)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestProfileClientRoutesByRole(t *testing.T) {
	doctors, doctorCalls := profileServer(t, http.StatusCreated, `{"data":{"username":"dr_who"}}`)
	patients, patientCalls := profileServer(t, http.StatusCreated, `{"data":{"username":"alice"}}`)
	c := NewHTTPProfileClient(ProfileEndpoints{DoctorURL: doctors.URL, PatientURL: patients.URL}, time.Second)

	require.NoError(t, c.CreateStub(context.Background(), domain.RoleDoctor, "dr_who", "who@example.com"))
	require.NoError(t, c.CreateStub(context.Background(), domain.RolePatient, "alice", ""))

	require.Len(t, *doctorCalls, 1)
	assert.Equal(t, http.MethodPost, (*doctorCalls)[0].method)
	assert.Equal(t, "/internal/doctors/stub", (*doctorCalls)[0].path)
	assert.Equal(t, "who@example.com", (*doctorCalls)[0].body["email"])

	require.Len(t, *patientCalls, 1)
	assert.Equal(t, "/internal/patients/stub", (*patientCalls)[0].path)
	assert.Equal(t, "alice", (*patientCalls)[0].body["username"])
}

func TestProfileClientAdminHasNoRemoteProfile(t *testing.T) {
	c := NewHTTPProfileClient(ProfileEndpoints{}, time.Second)

	err := c.CreateStub(context.Background(), domain.RoleAdmin, "root", "")
	assert.ErrorIs(t, err, domain.ErrNoRemoteProfile)

	_, err = c.FetchByUsername(context.Background(), domain.RoleAdmin, "root")
	assert.ErrorIs(t, err, domain.ErrNoRemoteProfile)
}

func TestProfileClientFetch(t *testing.T) {
	srv, calls := profileServer(t, http.StatusOK, `{"data":{"username":"alice","bloodGroup":"O+"}}`)
	c := NewHTTPProfileClient(ProfileEndpoints{PatientURL: srv.URL}, time.Second)

	details, err := c.FetchByUsername(context.Background(), domain.RolePatient, "alice")
	require.NoError(t, err)
	assert.Equal(t, "O+", details["bloodGroup"])
	assert.Equal(t, "/internal/patients/username/alice", (*calls)[0].path)
}

func TestProfileClientFetchNotFound(t *testing.T) {
	srv, _ := profileServer(t, http.StatusNotFound, `{"error":{"code":"PROFILE_NOT_FOUND","message":"profile not found"}}`)
	c := NewHTTPProfileClient(ProfileEndpoints{DoctorURL: srv.URL}, time.Second)

	_, err := c.FetchByUsername(context.Background(), domain.RoleDoctor, "ghost")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileClientServerErrorIsUnavailable(t *testing.T) {
	srv, _ := profileServer(t, http.StatusInternalServerError, `{"error":{"code":"INTERNAL_ERROR","message":"boom"}}`)
	c := NewHTTPProfileClient(ProfileEndpoints{DoctorURL: srv.URL}, time.Second)

	_, err := c.UpdateByUsername(context.Background(), domain.RoleDoctor, "dr_who", map[string]any{"specialty": "x"})
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestProfileClientRejectionKeepsRemoteCode(t *testing.T) {
	srv, _ := profileServer(t, http.StatusBadRequest, `{"error":{"code":"VALIDATION_FAILED","message":"unknown profile field"}}`)
	c := NewHTTPProfileClient(ProfileEndpoints{PatientURL: srv.URL}, time.Second)

	_, err := c.UpdateByUsername(context.Background(), domain.RolePatient, "alice", map[string]any{"shoeSize": "9"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "unknown profile field")
}

func TestProfileClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewHTTPProfileClient(ProfileEndpoints{PatientURL: base}, 200*time.Millisecond)
	err := c.CreateStub(context.Background(), domain.RolePatient, "alice", "")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestProfileClientCancelledContext(t *testing.T) {
	srv, calls := profileServer(t, http.StatusOK, `{"data":{}}`)
	c := NewHTTPProfileClient(ProfileEndpoints{PatientURL: srv.URL}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchByUsername(ctx, domain.RolePatient, "alice")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Empty(t, *calls)
}

func TestProfileClientCount(t *testing.T) {
	srv, calls := profileServer(t, http.StatusOK, `{"data":{"count":7}}`)
	c := NewHTTPProfileClient(ProfileEndpoints{DoctorURL: srv.URL}, time.Second)

	n, err := c.Count(context.Background(), domain.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "/internal/doctors/count", (*calls)[0].path)
}
