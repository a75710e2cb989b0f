package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/skillshare/cli/pkg/api"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/output"
)

// ProgressService manages progress updates
type ProgressService struct {
	deps *Deps
}

// NewProgressService creates a new progress service
func NewProgressService(deps *Deps) *ProgressService {
	return &ProgressService{deps: deps}
}

// List shows all progress updates, newest first as the API returns them
func (s *ProgressService) List(ctx context.Context) error {
	updates, err := s.deps.API.ListProgress(ctx)
	if err != nil {
		return wrap("list progress", err)
	}

	rows := make([][]string, 0, len(updates))
	for _, u := range updates {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.UserName,
			u.TemplateType,
			formatTime(u.CreatedAt.Time),
			output.Truncate(u.Content, 50),
		})
	}
	return output.PrintList("Progress", updates, []string{"ID", "User", "Template", "When", "Update"}, rows)
}

// Create records a progress update. An empty template means custom.
func (s *ProgressService) Create(ctx context.Context, template, content string) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}
	if err := validTemplate(template); err != nil {
		return err
	}

	created, err := s.deps.API.CreateProgress(ctx, actor.ID, api.ProgressUpdate{Content: content, TemplateType: template})
	if err != nil {
		return wrap("create progress update", err)
	}
	output.PrintSuccess("✓ Progress update %d posted", created.ID)
	return nil
}

// Update replaces the content of one of the user's updates
func (s *ProgressService) Update(ctx context.Context, id int64, template, content string) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}
	if err := validTemplate(template); err != nil {
		return err
	}

	if _, err := s.deps.API.UpdateProgress(ctx, id, actor.ID, api.ProgressUpdate{Content: content, TemplateType: template}); err != nil {
		return wrap("update progress update", err)
	}
	output.PrintSuccess("✓ Progress update %d updated", id)
	return nil
}

// Delete removes one of the user's updates
func (s *ProgressService) Delete(ctx context.Context, id int64) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}

	if err := s.deps.API.DeleteProgress(ctx, id, actor.ID); err != nil {
		return wrap("delete progress update", err)
	}
	output.PrintSuccess("✓ Progress update %d deleted", id)
	return nil
}

func validTemplate(t string) error {
	if t == "" {
		return nil
	}
	for _, known := range api.ProgressTemplates {
		if t == known {
			return nil
		}
	}
	return clierrors.ValidationError("template", "must be one of "+strings.Join(api.ProgressTemplates, ", "))
}
