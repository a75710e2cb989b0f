package service

import (
	"context"

	"github.com/skillshare/cli/pkg/config"
	"github.com/skillshare/cli/pkg/notifications"
	"github.com/skillshare/cli/pkg/output"
)

// NotificationService shows activity on the signed-in user's posts
type NotificationService struct {
	deps *Deps
	path string
}

// NewNotificationService creates a notification service that keeps
// dismissals at the configured notifications path
func NewNotificationService(deps *Deps) *NotificationService {
	return &NotificationService{deps: deps, path: config.GetNotificationsPath()}
}

// visible builds the notifications for the user's posts, skipping their own
// activity and anything dismissed.
func (s *NotificationService) visible(ctx context.Context) ([]notifications.Notification, *notifications.Dismissed, error) {
	actor, err := s.deps.actor()
	if err != nil {
		return nil, nil, err
	}

	dismissed, err := notifications.Open(s.path)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.deps.API.ListUserPosts(ctx, actor.ID)
	if err != nil {
		return nil, nil, wrap("load notifications", err)
	}

	var others []notifications.Notification
	for _, n := range notifications.Build(posts) {
		if n.UserID != actor.ID {
			others = append(others, n)
		}
	}
	return dismissed.Filter(others), dismissed, nil
}

// List shows undismissed notifications, newest first
func (s *NotificationService) List(ctx context.Context) error {
	list, _, err := s.visible(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(list))
	for _, n := range list {
		what := n.UserName + " liked " + quoteTitle(n.PostTitle)
		if n.Type == notifications.TypeComment {
			what = n.UserName + " commented on " + quoteTitle(n.PostTitle) + ": " + output.Truncate(n.Content, 40)
		}
		rows = append(rows, []string{n.ID, formatTime(n.CreatedAt), what})
	}
	return output.PrintList("Notifications", list, []string{"ID", "When", "Activity"}, rows)
}

// Clear dismisses the given notifications, or every visible one when ids is
// empty
func (s *NotificationService) Clear(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		list, dismissed, err := s.visible(ctx)
		if err != nil {
			return err
		}
		for _, n := range list {
			ids = append(ids, n.ID)
		}
		if len(ids) == 0 {
			output.PrintInfo("No notifications to clear")
			return nil
		}
		if err := dismissed.Dismiss(ids...); err != nil {
			return err
		}
		output.PrintSuccess("✓ Cleared %s", pluralize(len(ids), "notification"))
		return nil
	}

	if _, err := s.deps.actor(); err != nil {
		return err
	}
	dismissed, err := notifications.Open(s.path)
	if err != nil {
		return err
	}
	if err := dismissed.Dismiss(ids...); err != nil {
		return err
	}
	output.PrintSuccess("✓ Cleared %s", pluralize(len(ids), "notification"))
	return nil
}

func quoteTitle(t string) string {
	return "\"" + output.Truncate(t, 30) + "\""
}
