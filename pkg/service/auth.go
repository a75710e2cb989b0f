package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/credentials"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
	"github.com/skillshare/cli/pkg/output"
	"github.com/skillshare/cli/pkg/session"
)

// AuthService handles login, registration and the stored session
type AuthService struct {
	deps *Deps
}

// NewAuthService creates a new auth service
func NewAuthService(deps *Deps) *AuthService {
	return &AuthService{deps: deps}
}

// Login signs in with email and password, prompting for whichever is empty
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	var err error
	if email == "" {
		if email, err = s.deps.Prompt.String("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = s.deps.Prompt.Password("Password: "); err != nil {
			return err
		}
	}
	if email == "" || password == "" {
		return clierrors.ValidationError("credentials", "email and password are required")
	}

	if err := s.deps.API.Login(ctx, email, password); err != nil {
		if api.IsUnauthorized(err) {
			return clierrors.UnauthenticatedError("Invalid email or password").
				WithSuggestion("Check your credentials, or create an account with 'skillshare auth register'.")
		}
		return wrap("log in", err)
	}
	return s.establish(ctx)
}

// ImportCookie adopts a session cookie obtained elsewhere, such as a
// browser OAuth login, given as "name=value"
func (s *AuthService) ImportCookie(ctx context.Context, raw string) error {
	cookie, ok := credentials.ParseCookie(raw)
	if !ok {
		return clierrors.ValidationError("cookie", "expected name=value")
	}
	s.deps.API.Transport().SetCookies([]*http.Cookie{cookie})
	return s.establish(ctx)
}

// establish resolves the principal behind the current cookie, signs the
// session in and saves it.
func (s *AuthService) establish(ctx context.Context) error {
	principal, err := s.deps.API.CurrentUser(ctx)
	if err != nil {
		return wrap("fetch current user", err)
	}
	actor, err := session.Normalize(*principal)
	if err != nil {
		return err
	}
	s.deps.Session.SignIn(actor)

	transport := s.deps.API.Transport()
	if err := credentials.Save(credentials.New(transport.BaseURL(), transport.Cookies(), actor)); err != nil {
		logger.Warn("Failed to save credentials", "error", err)
		output.PrintWarning("Logged in, but the session could not be saved: %v", err)
	}

	output.PrintSuccess("✓ Logged in as %s", displayName(actor))
	return nil
}

// Register creates an account. The password rules match the web form.
func (s *AuthService) Register(ctx context.Context, name, email, password, confirm string) error {
	var err error
	if email == "" {
		if email, err = s.deps.Prompt.String("Email: "); err != nil {
			return err
		}
	}
	if name == "" {
		if name, err = s.deps.Prompt.String("Name: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = s.deps.Prompt.Password("Password: "); err != nil {
			return err
		}
		if confirm, err = s.deps.Prompt.Password("Confirm password: "); err != nil {
			return err
		}
	}
	if confirm == "" {
		confirm = password
	}

	if err := api.ValidateRegistration(email, password, confirm); err != nil {
		return err
	}

	if err := s.deps.API.Register(ctx, api.Credentials{Email: email, Password: password, Name: name}); err != nil {
		return wrap("register", err)
	}

	output.PrintSuccess("✓ Registration successful")
	output.PrintInfo("Log in with 'skillshare auth login --email %s'", email)
	return nil
}

// Logout ends the server session and forgets the stored one
func (s *AuthService) Logout(ctx context.Context) error {
	if _, ok := s.deps.Session.CurrentActor(); ok {
		if err := s.deps.API.Logout(ctx); err != nil {
			logger.Warn("Server logout failed", "error", err)
		}
	}

	s.deps.API.Transport().ClearCookies()
	s.deps.Session.SignOut()
	if err := credentials.Delete(); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	output.PrintSuccess("✓ Logged out")
	return nil
}

// WhoAmI shows the signed-in user as the server sees it
func (s *AuthService) WhoAmI(ctx context.Context) error {
	if _, err := s.deps.actor(); err != nil {
		return err
	}

	principal, err := s.deps.API.CurrentUser(ctx)
	if err != nil {
		return wrap("fetch current user", err)
	}
	actor, err := session.Normalize(*principal)
	if err != nil {
		return err
	}

	return output.PrintRecord("Current user", []output.Field{
		{Label: "ID", Value: actor.ID},
		{Label: "Name", Value: actor.Name},
		{Label: "Email", Value: actor.Email},
	}, actor)
}

func displayName(a session.Actor) string {
	switch {
	case a.Name != "":
		return a.Name
	case a.Email != "":
		return a.Email
	default:
		return fmt.Sprintf("user %d", a.ID)
	}
}
