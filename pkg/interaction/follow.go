package interaction

import (
	"context"

	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
)

// ToggleFollow follows or unfollows a loaded target depending on the current
// relationship. A confirmed toggle refreshes the target's profile; if that
// refresh fails the confirmed flag still stands.
func (s *Synchronizer) ToggleFollow(ctx context.Context, targetID int64) (Result, error) {
	return runToggle(ctx, s, toggle[FollowState, bool]{
		kind:  KindFollow,
		table: s.follows,
		verb:  "follow",
		noun:  "user",
		validate: func(id, actor int64) error {
			if id == actor {
				return clierrors.ValidationError("user", "you cannot follow yourself")
			}
			return nil
		},
		capture: func(e *FollowState, _ int64) bool {
			return e.Following
		},
		apply: func(e *FollowState, _ int64, prev bool) string {
			e.Following = !prev
			return ""
		},
		restore: func(e *FollowState, prev bool) string {
			e.Following = prev
			return ""
		},
		send: func(ctx context.Context, id, actor int64, prev bool) (*FollowState, error) {
			var err error
			if prev {
				err = s.remote.UnfollowUser(ctx, id, actor)
			} else {
				err = s.remote.FollowUser(ctx, id, actor)
			}
			if err != nil {
				return nil, err
			}

			profile, err := s.remote.GetUser(ctx, id)
			if err != nil {
				logger.Warn("Could not refresh profile after follow change", "target_id", id, "error", err)
				return nil, nil
			}
			return &FollowState{TargetID: id, Following: !prev, Profile: profile}, nil
		},
		adopt: func(e *FollowState, snap *FollowState, _ int64) string {
			if snap.Profile != nil {
				p := *snap.Profile
				e.Profile = &p
			}
			return ""
		},
	}, targetID)
}
