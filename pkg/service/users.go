package service

import (
	"context"
	"strconv"

	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/interaction"
	"github.com/skillshare/cli/pkg/logger"
	"github.com/skillshare/cli/pkg/output"
	"golang.org/x/sync/errgroup"
)

// followLookups bounds concurrent isFollowing requests during a search
const followLookups = 4

// UserService covers profiles, search and following
type UserService struct {
	deps *Deps
}

// NewUserService creates a new user service
func NewUserService(deps *Deps) *UserService {
	return &UserService{deps: deps}
}

// Show prints a user's profile, including whether the signed-in user
// follows them
func (s *UserService) Show(ctx context.Context, userID int64) error {
	user, err := s.deps.API.GetUser(ctx, userID)
	if err != nil {
		return wrap("fetch user", err)
	}

	if actor, ok := s.deps.Session.CurrentActor(); ok && actor != userID {
		following, err := s.deps.API.IsFollowing(ctx, actor, userID)
		if err != nil {
			logger.Warn("Could not check follow status", "target_id", userID, "error", err)
		}
		user.IsFollowing = following
	}

	return output.PrintRecord(user.Name, []output.Field{
		{Label: "ID", Value: user.ID},
		{Label: "Email", Value: user.Email},
		{Label: "Followers", Value: user.FollowersCount},
		{Label: "Following", Value: user.FollowingCount},
		{Label: "You follow", Value: user.IsFollowing},
	}, user)
}

// Search finds users by name and marks the ones the signed-in user follows
func (s *UserService) Search(ctx context.Context, query string) error {
	users, err := s.deps.API.SearchUsers(ctx, query)
	if err != nil {
		return wrap("search users", err)
	}

	if actor, ok := s.deps.Session.CurrentActor(); ok {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(followLookups)
		for i := range users {
			if users[i].ID == actor {
				continue
			}
			u := &users[i]
			g.Go(func() error {
				following, err := s.deps.API.IsFollowing(gctx, actor, u.ID)
				if err != nil {
					// Only an interrupted search fails; a lost lookup just leaves the mark off.
					if ctx.Err() != nil {
						return ctx.Err()
					}
					logger.Debug("Follow status lookup failed", "target_id", u.ID, "error", err)
					return nil
				}
				u.IsFollowing = following
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return wrap("search users", err)
		}
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Email,
			strconv.Itoa(u.FollowersCount),
			check(u.IsFollowing),
		})
	}
	return output.PrintList("Users matching "+strconv.Quote(query), users,
		[]string{"ID", "Name", "Email", "Followers", "Following"}, rows)
}

// Follow starts following targetID
func (s *UserService) Follow(ctx context.Context, targetID int64) error {
	return s.setFollowing(ctx, targetID, true)
}

// Unfollow stops following targetID
func (s *UserService) Unfollow(ctx context.Context, targetID int64) error {
	return s.setFollowing(ctx, targetID, false)
}

// setFollowing loads the current relationship and toggles it through the
// synchronizer when it differs from want.
func (s *UserService) setFollowing(ctx context.Context, targetID int64, want bool) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}

	sync := s.deps.synchronizer(nil)
	defer sync.Close()

	// Self-follow is rejected by the toggle before any request.
	if targetID != actor.ID {
		following, err := s.deps.API.IsFollowing(ctx, actor.ID, targetID)
		if err != nil {
			return wrap("check follow status", err)
		}
		if following == want {
			if want {
				output.PrintInfo("You already follow user %d", targetID)
			} else {
				output.PrintInfo("You do not follow user %d", targetID)
			}
			return nil
		}
		sync.LoadFollow(targetID, following, nil)
	} else {
		sync.LoadFollow(targetID, false, nil)
	}

	res, err := sync.ToggleFollow(ctx, targetID)
	state, _ := sync.Follow(targetID)

	if output.GetOutputFormat() == output.FormatJSON {
		if perr := output.PrintJSON(map[string]interface{}{
			"outcome":   res.Outcome,
			"message":   res.Message,
			"following": state.Following,
			"profile":   state.Profile,
		}); perr != nil {
			return perr
		}
		return err
	}

	if res.Outcome == interaction.Confirmed {
		name := "user " + strconv.FormatInt(targetID, 10)
		if state.Profile != nil && state.Profile.Name != "" {
			name = state.Profile.Name
		}
		if state.Following {
			output.PrintSuccess("✓ Following %s%s", name, followers(state.Profile))
		} else {
			output.PrintSuccess("✓ Unfollowed %s%s", name, followers(state.Profile))
		}
	}
	return err
}

func followers(u *api.User) string {
	if u == nil {
		return ""
	}
	return " (" + pluralize(u.FollowersCount, "follower") + ")"
}
