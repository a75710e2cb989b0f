package api

import (
	"context"
	"strings"

	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
)

// ProgressTemplates are the template types the progress form offers
var ProgressTemplates = []string{"completed_tutorial", "new_skill", "milestone", "custom"}

func progressBody(p ProgressUpdate) (map[string]string, error) {
	if strings.TrimSpace(p.Content) == "" {
		return nil, clierrors.ValidationError("content", "is required")
	}
	if p.TemplateType == "" {
		p.TemplateType = "custom"
	}
	return map[string]string{"content": p.Content, "templateType": p.TemplateType}, nil
}

// ListProgress retrieves all progress updates
func (c *Client) ListProgress(ctx context.Context) ([]ProgressUpdate, error) {
	logger.Debug("Listing progress updates")

	resp, err := c.r(ctx).Get("/progress")
	return decodeList[ProgressUpdate](resp, err, "progress")
}

// CreateProgress records a progress update for userID
func (c *Client) CreateProgress(ctx context.Context, userID int64, p ProgressUpdate) (*ProgressUpdate, error) {
	body, err := progressBody(p)
	if err != nil {
		return nil, err
	}
	logger.Debug("Creating progress update", "user_id", userID, "template", body["templateType"])

	var created ProgressUpdate
	resp, err := c.r(ctx).
		SetQueryParam("userId", id(userID)).
		SetBody(body).
		Post("/progress")
	if err := decode(resp, err, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProgress edits a progress update owned by userID
func (c *Client) UpdateProgress(ctx context.Context, progressID, userID int64, p ProgressUpdate) (*ProgressUpdate, error) {
	body, err := progressBody(p)
	if err != nil {
		return nil, err
	}
	logger.Debug("Updating progress update", "progress_id", progressID)

	var updated ProgressUpdate
	resp, err := c.r(ctx).
		SetPathParam("id", id(progressID)).
		SetQueryParam("userId", id(userID)).
		SetBody(body).
		Put("/progress/{id}")
	if err := decode(resp, err, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProgress deletes a progress update owned by userID
func (c *Client) DeleteProgress(ctx context.Context, progressID, userID int64) error {
	logger.Debug("Deleting progress update", "progress_id", progressID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(progressID)).
		SetQueryParam("userId", id(userID)).
		Delete("/progress/{id}")
	return CheckResponse(resp, err)
}
