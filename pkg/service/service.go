// Package service implements the CLI use cases on top of the API client,
// the session and the interaction synchronizer. Results are rendered with
// pkg/output in the configured format.
package service

import (
	"fmt"
	"time"

	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/credentials"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/interaction"
	"github.com/skillshare/cli/pkg/logger"
	"github.com/skillshare/cli/pkg/metrics"
	"github.com/skillshare/cli/pkg/prompter"
	"github.com/skillshare/cli/pkg/session"
)

// Deps is shared by every service
type Deps struct {
	API     *api.Client
	Session *session.Session
	Prompt  *prompter.Prompter
	Metrics *metrics.InteractionMetrics
}

// RestoreSession signs the session in from saved credentials when they were
// issued by the configured API. It reports whether a session was restored.
func (d *Deps) RestoreSession() (bool, error) {
	creds, err := credentials.Load()
	if err != nil {
		return false, err
	}
	if creds == nil || !creds.IsValid() {
		return false, nil
	}
	if !creds.Matches(d.API.Transport().BaseURL()) {
		logger.Debug("Ignoring credentials for another API", "saved", creds.BaseURL)
		return false, nil
	}

	d.API.Transport().SetCookies(creds.HTTPCookies())
	d.Session.SignIn(creds.Actor())
	return true, nil
}

func (d *Deps) actor() (session.Actor, error) {
	actor, ok := d.Session.Actor()
	if !ok {
		return session.Actor{}, clierrors.UnauthenticatedError("You are not logged in")
	}
	return actor, nil
}

func (d *Deps) synchronizer(observer func(interaction.Change)) *interaction.Synchronizer {
	opts := []interaction.Option{interaction.WithMetrics(d.Metrics)}
	if observer != nil {
		opts = append(opts, interaction.WithObserver(observer))
	}
	return interaction.New(d.API, d.Session, opts...)
}

// wrap classifies a failed API call for display
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return clierrors.FromRequest(op, err)
}

func pluralize(count int, word string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, word)
	}
	return fmt.Sprintf("%d %ss", count, word)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func check(b bool) string {
	if b {
		return "✓"
	}
	return ""
}
