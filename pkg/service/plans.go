package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/output"
)

// PlanService manages learning plans
type PlanService struct {
	deps *Deps
}

// NewPlanService creates a new plan service
func NewPlanService(deps *Deps) *PlanService {
	return &PlanService{deps: deps}
}

// List shows every learning plan. With mine set only the signed-in user's
// plans are shown.
func (s *PlanService) List(ctx context.Context, mine bool) error {
	var owner int64
	if mine {
		actor, err := s.deps.actor()
		if err != nil {
			return err
		}
		owner = actor.ID
	}

	plans, err := s.deps.API.ListPlans(ctx)
	if err != nil {
		return wrap("list plans", err)
	}
	if mine {
		filtered := plans[:0]
		for _, p := range plans {
			if p.UserID == owner {
				filtered = append(filtered, p)
			}
		}
		plans = filtered
	}

	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			output.Truncate(p.Title, 30),
			p.UserName,
			output.Truncate(p.Topics, 30),
			p.Timeline,
		})
	}
	return output.PrintList("Learning plans", plans, []string{"ID", "Title", "Owner", "Topics", "Timeline"}, rows)
}

// Create saves a new plan owned by the signed-in user
func (s *PlanService) Create(ctx context.Context, plan api.LearningPlan) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}

	created, err := s.deps.API.CreatePlan(ctx, actor.ID, plan)
	if err != nil {
		return wrap("create plan", err)
	}
	output.PrintSuccess("✓ Plan %d created", created.ID)
	return nil
}

// Update replaces a plan's fields
func (s *PlanService) Update(ctx context.Context, planID int64, plan api.LearningPlan) error {
	if _, err := s.deps.actor(); err != nil {
		return err
	}

	if _, err := s.deps.API.UpdatePlan(ctx, planID, plan); err != nil {
		return wrap("update plan", err)
	}
	output.PrintSuccess("✓ Plan %d updated", planID)
	return nil
}

// Delete removes one of the user's plans after confirmation unless force
func (s *PlanService) Delete(ctx context.Context, planID int64, force bool) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}

	if !force {
		ok, err := s.deps.Prompt.Confirm(fmt.Sprintf("Delete plan %d?", planID))
		if err != nil {
			return err
		}
		if !ok {
			output.PrintInfo("Cancelled")
			return nil
		}
	}

	if err := s.deps.API.DeletePlan(ctx, planID, actor.ID); err != nil {
		return wrap("delete plan", err)
	}
	output.PrintSuccess("✓ Plan %d deleted", planID)
	return nil
}
