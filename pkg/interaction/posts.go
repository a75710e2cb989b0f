package interaction

import (
	"context"
	"slices"

	"github.com/skillshare/cli/pkg/api"
)

type likeValue struct {
	Liked   bool
	LikedBy api.IDList
	Count   int
}

type favoriteValue struct {
	Favorited bool
	Count     int
}

// ToggleLike flips the actor's like on a loaded post and confirms it with
// the API. A snapshot in the response replaces the like fields.
func (s *Synchronizer) ToggleLike(ctx context.Context, postID int64) (Result, error) {
	return runToggle(ctx, s, s.likeToggle(), postID)
}

func (s *Synchronizer) likeToggle() toggle[PostState, likeValue] {
	return toggle[PostState, likeValue]{
		kind:  KindLike,
		table: s.posts,
		verb:  "like",
		noun:  "post",
		capture: func(e *PostState, actor int64) likeValue {
			return likeValue{Liked: e.LikedByActor(actor), LikedBy: slices.Clone(e.LikedBy), Count: e.LikeCount}
		},
		apply: func(e *PostState, actor int64, prev likeValue) string {
			if prev.Liked {
				e.LikedBy = slices.DeleteFunc(slices.Clone(e.LikedBy), func(v int64) bool { return v == actor })
				e.LikeCount--
				if e.LikeCount < 0 {
					e.LikeCount = 0
					return "likeCount would go below zero"
				}
				return ""
			}
			e.LikedBy = append(slices.Clone(e.LikedBy), actor)
			e.LikeCount++
			return ""
		},
		restore: func(e *PostState, prev likeValue) string {
			e.LikedBy = slices.Clone(prev.LikedBy)
			e.LikeCount = prev.Count
			return ""
		},
		send: func(ctx context.Context, id, actor int64, _ likeValue) (*PostState, error) {
			return postSnapshot(s.remote.LikePost(ctx, id, actor))
		},
		adopt: func(e *PostState, snap *PostState, _ int64) string {
			// Without the list the count cannot be checked, so keep ours.
			if snap.LikedBy == nil {
				return ""
			}
			e.LikedBy = slices.Clone(snap.LikedBy)
			e.LikeCount = snap.LikeCount
			if snap.LikerInfo != nil {
				e.LikerInfo = slices.Clone(snap.LikerInfo)
			}
			return reconcileLikes(&e.Post)
		},
	}
}

// ToggleFavorite flips the actor's favorite on a loaded post. FavoriteCount
// is clamped at zero on every path; each clamp is recorded as a desync.
func (s *Synchronizer) ToggleFavorite(ctx context.Context, postID int64) (Result, error) {
	return runToggle(ctx, s, toggle[PostState, favoriteValue]{
		kind:  KindFavorite,
		table: s.posts,
		verb:  "favorite",
		noun:  "post",
		capture: func(e *PostState, _ int64) favoriteValue {
			return favoriteValue{Favorited: e.IsFavorited, Count: e.FavoriteCount}
		},
		apply: func(e *PostState, _ int64, prev favoriteValue) string {
			e.IsFavorited = !prev.Favorited
			if prev.Favorited {
				e.FavoriteCount = prev.Count - 1
			} else {
				e.FavoriteCount = prev.Count + 1
			}
			return clampFavorites(e)
		},
		restore: func(e *PostState, prev favoriteValue) string {
			e.IsFavorited = prev.Favorited
			e.FavoriteCount = prev.Count
			return clampFavorites(e)
		},
		send: func(ctx context.Context, id, actor int64, _ favoriteValue) (*PostState, error) {
			return postSnapshot(s.remote.FavoritePost(ctx, id, actor))
		},
		adopt: func(e *PostState, snap *PostState, actor int64) string {
			e.IsFavorited = snap.FavoritedByActor(actor)
			e.FavoriteCount = snap.FavoriteCount
			return clampFavorites(e)
		},
	}, postID)
}

func clampFavorites(e *PostState) string {
	if e.FavoriteCount >= 0 {
		return ""
	}
	e.FavoriteCount = 0
	return "favoriteCount would go below zero"
}

func postSnapshot(p *api.Post, err error) (*PostState, error) {
	if err != nil || p == nil {
		return nil, err
	}
	return &PostState{Post: *p}, nil
}
