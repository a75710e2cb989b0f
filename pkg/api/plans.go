package api

import (
	"context"
	"strings"

	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
)

// Validate checks the fields the plan form requires
func (p LearningPlan) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return clierrors.ValidationError("title", "is required")
	}
	return nil
}

// ListPlans retrieves all learning plans
func (c *Client) ListPlans(ctx context.Context) ([]LearningPlan, error) {
	logger.Debug("Listing learning plans")

	resp, err := c.r(ctx).Get("/plans")
	return decodeList[LearningPlan](resp, err, "plans")
}

// CreatePlan creates a plan owned by userID
func (c *Client) CreatePlan(ctx context.Context, userID int64, plan LearningPlan) (*LearningPlan, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Creating learning plan", "user_id", userID)

	plan.ID = 0
	var created LearningPlan
	resp, err := c.r(ctx).
		SetQueryParam("userId", id(userID)).
		SetBody(plan).
		Post("/plans")
	if err := decode(resp, err, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePlan replaces a plan's fields
func (c *Client) UpdatePlan(ctx context.Context, planID int64, plan LearningPlan) (*LearningPlan, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Updating learning plan", "plan_id", planID)

	var updated LearningPlan
	resp, err := c.r(ctx).
		SetPathParam("id", id(planID)).
		SetBody(plan).
		Put("/plans/{id}")
	if err := decode(resp, err, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePlan deletes a plan owned by userID
func (c *Client) DeletePlan(ctx context.Context, planID, userID int64) error {
	logger.Debug("Deleting learning plan", "plan_id", planID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(planID)).
		SetQueryParam("userId", id(userID)).
		Delete("/plans/{id}")
	return CheckResponse(resp, err)
}
