package api

import (
	"context"
	"strings"

	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
	"github.com/skillshare/cli/pkg/session"
)

// MinPasswordLength is enforced before a register request is sent
const MinPasswordLength = 6

// ValidateRegistration checks the fields the server would otherwise reject
func ValidateRegistration(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" {
		return clierrors.ValidationError("email", "is required")
	}
	if password != confirm {
		return clierrors.ValidationError("password", "passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return clierrors.ValidationError("password", "must be at least 6 characters long")
	}
	return nil
}

// CurrentUser fetches the principal behind the session cookie
func (c *Client) CurrentUser(ctx context.Context) (*session.Principal, error) {
	logger.Debug("Fetching current user")

	var principal session.Principal
	resp, err := c.r(ctx).Get("/user")
	if err := decode(resp, err, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

// Login starts a session; the server answers with a session cookie
func (c *Client) Login(ctx context.Context, email, password string) error {
	logger.Debug("Logging in", "email", email)

	resp, err := c.r(ctx).
		SetBody(Credentials{Email: email, Password: password}).
		Post("/auth/login")

	return CheckResponse(resp, err)
}

// Register creates an account
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	logger.Debug("Registering", "email", creds.Email)

	resp, err := c.r(ctx).
		SetBody(creds).
		Post("/auth/register")

	return CheckResponse(resp, err)
}

// Logout ends the server session
func (c *Client) Logout(ctx context.Context) error {
	logger.Debug("Logging out")

	resp, err := c.r(ctx).
		SetBody(map[string]string{}).
		Post("/auth/logout")

	return CheckResponse(resp, err)
}
