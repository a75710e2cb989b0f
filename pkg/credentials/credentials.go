package credentials

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/skillshare/cli/pkg/config"
	"github.com/skillshare/cli/pkg/session"
)

// Cookie is a persisted session cookie
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Credentials is what survives between CLI invocations: the API the session
// belongs to, its cookies, and the signed-in user.
type Credentials struct {
	BaseURL string    `json:"base_url"`
	Cookies []Cookie  `json:"cookies"`
	UserID  int64     `json:"user_id"`
	Name    string    `json:"name,omitempty"`
	Email   string    `json:"email,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// New captures a signed-in session
func New(baseURL string, cookies []*http.Cookie, actor session.Actor) *Credentials {
	creds := &Credentials{
		BaseURL: baseURL,
		UserID:  actor.ID,
		Name:    actor.Name,
		Email:   actor.Email,
		SavedAt: time.Now(),
	}
	for _, c := range cookies {
		creds.Cookies = append(creds.Cookies, Cookie{Name: c.Name, Value: c.Value})
	}
	return creds
}

// Load loads credentials from disk
func Load() (*Credentials, error) {
	path := config.GetCredentialsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Credentials don't exist yet
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// Save saves credentials to disk
func Save(creds *Credentials) error {
	path := config.GetCredentialsPath()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Write with restricted permissions (owner read/write only)
	return os.WriteFile(path, data, 0600)
}

// Delete deletes credentials from disk. Missing credentials are not an error.
func Delete() error {
	err := os.Remove(config.GetCredentialsPath())
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// HTTPCookies returns the cookies to seed the transport's jar with
func (c *Credentials) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(c.Cookies))
	for _, ck := range c.Cookies {
		out = append(out, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	return out
}

// Actor returns the stored user as a session actor
func (c *Credentials) Actor() session.Actor {
	return session.Actor{ID: c.UserID, Name: c.Name, Email: c.Email}
}

// Matches reports whether the credentials were issued by baseURL
func (c *Credentials) Matches(baseURL string) bool {
	return strings.TrimRight(c.BaseURL, "/") == strings.TrimRight(baseURL, "/")
}

// IsValid checks that there is a user and a cookie to present
func (c *Credentials) IsValid() bool {
	return c.UserID > 0 && len(c.Cookies) > 0
}

// ParseCookie parses "name=value" as given on the command line
func ParseCookie(raw string) (*http.Cookie, bool) {
	name, value, ok := strings.Cut(strings.TrimSpace(raw), "=")
	if !ok || name == "" || value == "" {
		return nil, false
	}
	return &http.Cookie{Name: name, Value: value, Path: "/"}, true
}
