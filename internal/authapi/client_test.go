package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brk-portal/internal/models"
)

type fakeAPI struct {
	refreshOK  bool
	meCalls    atomic.Int32
	refreshes  atomic.Int32
	alwaysDeny bool
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(PathRefresh, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		f.refreshes.Add(1)
		if !f.refreshOK {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"refresh token expirado"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "fresh", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(PathMe, func(w http.ResponseWriter, r *http.Request) {
		f.meCalls.Add(1)
		ck, err := r.Cookie("access_token")
		if f.alwaysDeny || err != nil || ck.Value != "fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user": models.User{ID: "u1", Name: "Ana"}})
	})
	mux.HandleFunc(PathPreRegister, func(w http.ResponseWriter, r *http.Request) {
		var lead models.Lead
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&lead)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if lead.Email == "dup@example.com" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Email já cadastrado"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"ok","data":{"email":"` + lead.Email + `"}}`))
	})
	mux.HandleFunc(PathLogout, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newClient(t *testing.T, f *fakeAPI) *Client {
	t.Helper()
	ts := httptest.NewServer(f.handler(t))
	t.Cleanup(ts.Close)
	c, err := New(ts.URL, 2*time.Second)
	require.NoError(t, err)
	return c
}

func TestRefreshThenSingleRetry(t *testing.T) {
	f := &fakeAPI{refreshOK: true}
	c := newClient(t, f)

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, int32(2), f.meCalls.Load())
	assert.Equal(t, int32(1), f.refreshes.Load())

	// cookie now in the jar: no refresh needed
	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), f.meCalls.Load())
	assert.Equal(t, int32(1), f.refreshes.Load())
}

func TestFailedRefreshIsSessionExpired(t *testing.T) {
	f := &fakeAPI{refreshOK: false}
	c := newClient(t, f)

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, int32(1), f.meCalls.Load())
	assert.Equal(t, int32(1), f.refreshes.Load())
}

func TestRetryHappensOnlyOnce(t *testing.T) {
	f := &fakeAPI{refreshOK: true, alwaysDeny: true}
	c := newClient(t, f)

	_, err := c.Me(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, int32(2), f.meCalls.Load())
	assert.Equal(t, int32(1), f.refreshes.Load())
}

func TestRefreshEndpointIsNotRefreshed(t *testing.T) {
	f := &fakeAPI{refreshOK: false}
	c := newClient(t, f)

	resp, err := c.Do(context.Background(), http.MethodPost, PathRefresh, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), f.refreshes.Load())
}

func TestPreRegister(t *testing.T) {
	c := newClient(t, &fakeAPI{})

	resp, err := c.PreRegister(context.Background(), models.Lead{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Message)
	assert.JSONEq(t, `{"email":"ana@example.com"}`, string(resp.Data))

	_, err = c.PreRegister(context.Background(), models.Lead{Name: "Ana", Email: "dup@example.com"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusConflict, se.Code)
	assert.Equal(t, "Email já cadastrado", se.Message)
}

func TestLogout(t *testing.T) {
	c := newClient(t, &fakeAPI{})
	require.NoError(t, c.Logout(context.Background()))
}
