package client

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skillshare/cli/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(Options{BaseURL: "://bad"})
	assert.Error(t, err)
}

func TestSessionCookieRoundTrip(t *testing.T) {
	var sawCookie atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/"})
		case "/api/user":
			if c, err := r.Cookie("JSESSIONID"); err == nil && c.Value == "abc123" {
				sawCookie.Store(true)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL + "/api", Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.R().Post("/auth/login")
	require.NoError(t, err)

	cookies := c.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "JSESSIONID", cookies[0].Name)

	_, err = c.R().Get("/user")
	require.NoError(t, err)
	assert.True(t, sawCookie.Load())

	c.ClearCookies()
	assert.Empty(t, c.Cookies())
}

func TestSetCookiesSeedsJar(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("JSESSIONID"); err == nil {
			got.Store(c.Value)
		}
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	c.SetCookies([]*http.Cookie{{Name: "JSESSIONID", Value: "restored"}})
	_, err = c.R().Get("/posts")
	require.NoError(t, err)

	assert.Equal(t, "restored", got.Load())
}

func TestUnauthorizedResponseFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/private" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var fired atomic.Int32
	c, err := New(Options{BaseURL: srv.URL + "/api", OnUnauthenticated: func() { fired.Add(1) }})
	require.NoError(t, err)

	_, err = c.R().Get("/public")
	require.NoError(t, err)
	assert.Equal(t, int32(0), fired.Load())

	resp, err := c.R().Get("/private")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, int32(1), fired.Load())
}

func TestFromConfig(t *testing.T) {
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))

	c, err := FromConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081/api", c.BaseURL())
}
