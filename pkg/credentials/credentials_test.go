package credentials

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/skillshare/cli/pkg/config"
	"github.com/skillshare/cli/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
}

// TestCredentialsIsValid validates credential validity check
func TestCredentialsIsValid(t *testing.T) {
	testCases := []struct {
		userID  int64
		cookies []Cookie
		expect  bool
		name    string
	}{
		{42, []Cookie{{Name: "JSESSIONID", Value: "x"}}, true, "valid credentials"},
		{0, []Cookie{{Name: "JSESSIONID", Value: "x"}}, false, "missing user"},
		{42, nil, false, "missing cookie"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds := &Credentials{UserID: tc.userID, Cookies: tc.cookies}
			assert.Equal(t, tc.expect, creds.IsValid())
		})
	}
}

func TestSaveLoadDelete(t *testing.T) {
	initConfig(t)

	loaded, err := Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	creds := New("http://localhost:8081/api",
		[]*http.Cookie{{Name: "JSESSIONID", Value: "abc"}},
		session.Actor{ID: 42, Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, Save(creds))

	loaded, err = Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.Actor{ID: 42, Name: "Ada", Email: "ada@example.com"}, loaded.Actor())
	assert.True(t, loaded.Matches("http://localhost:8081/api/"))
	assert.False(t, loaded.Matches("http://example.com/api"))

	cookies := loaded.HTTPCookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "abc", cookies[0].Value)

	require.NoError(t, Delete())
	require.NoError(t, Delete())
	loaded, err = Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestParseCookie(t *testing.T) {
	c, ok := ParseCookie(" JSESSIONID=abc=def ")
	require.True(t, ok)
	assert.Equal(t, "JSESSIONID", c.Name)
	assert.Equal(t, "abc=def", c.Value)

	_, ok = ParseCookie("novalue=")
	assert.False(t, ok)
	_, ok = ParseCookie("garbage")
	assert.False(t, ok)
}
