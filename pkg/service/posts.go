package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/skillshare/cli/pkg/api"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/interaction"
	"github.com/skillshare/cli/pkg/output"
)

// PostService covers the feed, post authoring and like/favorite toggles
type PostService struct {
	deps *Deps
}

// NewPostService creates a new post service
func NewPostService(deps *Deps) *PostService {
	return &PostService{deps: deps}
}

// List shows the feed
func (s *PostService) List(ctx context.Context) error {
	posts, err := s.deps.API.ListPosts(ctx)
	if err != nil {
		return wrap("list posts", err)
	}
	return s.printPosts("Posts", posts)
}

// Mine shows the signed-in user's posts
func (s *PostService) Mine(ctx context.Context) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}
	posts, err := s.deps.API.ListUserPosts(ctx, actor.ID)
	if err != nil {
		return wrap("list your posts", err)
	}
	return s.printPosts("My posts", posts)
}

func (s *PostService) printPosts(title string, posts []api.Post) error {
	actor, signedIn := s.deps.Session.CurrentActor()

	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		author := ""
		if p.User != nil {
			author = p.User.Name
		}
		liked, favorited := "", ""
		if signedIn {
			liked = check(p.LikedBy.Contains(actor))
			favorited = check(p.FavoritedByActor(actor))
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			output.Truncate(p.Title, 40),
			author,
			strconv.Itoa(p.LikeCount) + " " + liked,
			strconv.Itoa(p.FavoriteCount) + " " + favorited,
			strconv.Itoa(len(p.Comments)),
		})
	}
	return output.PrintList(title, posts, []string{"ID", "Title", "Author", "Likes", "Favorites", "Comments"}, rows)
}

// Create publishes a post with optional media files
func (s *PostService) Create(ctx context.Context, req api.CreatePostRequest) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	post, err := s.deps.API.CreatePost(ctx, actor.ID, req)
	if err != nil {
		return wrap("create post", err)
	}

	output.PrintSuccess("✓ Post created")
	return output.PrintRecord("", []output.Field{
		{Label: "ID", Value: post.ID},
		{Label: "Title", Value: post.Title},
	}, post)
}

// Edit changes a post's title and description
func (s *PostService) Edit(ctx context.Context, postID int64, title, description string) error {
	if _, err := s.deps.actor(); err != nil {
		return err
	}

	post, err := s.deps.API.UpdatePost(ctx, postID, title, description)
	if err != nil {
		return wrap("update post", err)
	}

	output.PrintSuccess("✓ Post %d updated", post.ID)
	return nil
}

// Delete removes one of the user's posts after confirmation unless force
func (s *PostService) Delete(ctx context.Context, postID int64, force bool) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}

	if !force {
		ok, err := s.deps.Prompt.Confirm(fmt.Sprintf("Delete post %d?", postID))
		if err != nil {
			return err
		}
		if !ok {
			output.PrintInfo("Cancelled")
			return nil
		}
	}

	if err := s.deps.API.DeletePost(ctx, postID, actor.ID); err != nil {
		return wrap("delete post", err)
	}
	output.PrintSuccess("✓ Post %d deleted", postID)
	return nil
}

// Like toggles the user's like on a post
func (s *PostService) Like(ctx context.Context, postID int64) error {
	return s.toggle(ctx, postID, interaction.KindLike)
}

// Favorite toggles the user's favorite on a post
func (s *PostService) Favorite(ctx context.Context, postID int64) error {
	return s.toggle(ctx, postID, interaction.KindFavorite)
}

// toggle loads the feed into a synchronizer, shows the optimistic state as
// soon as it is applied, then reports how the toggle resolved.
func (s *PostService) toggle(ctx context.Context, postID int64, kind interaction.Kind) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}

	posts, err := s.deps.API.ListPosts(ctx)
	if err != nil {
		return wrap("list posts", err)
	}

	text := output.GetOutputFormat() != output.FormatJSON
	var sync *interaction.Synchronizer
	sync = s.deps.synchronizer(func(c interaction.Change) {
		if c.Phase != interaction.PhaseOptimistic || !text {
			return
		}
		if post, ok := sync.Post(c.ID); ok {
			output.PrintInfo("%s (pending)", describe(kind, post, actor.ID))
		}
	})
	defer sync.Close()

	sync.LoadPosts(posts)
	if _, ok := sync.Post(postID); !ok {
		return clierrors.NotFoundError("Post", strconv.FormatInt(postID, 10))
	}

	var res interaction.Result
	if kind == interaction.KindLike {
		res, err = sync.ToggleLike(ctx, postID)
	} else {
		res, err = sync.ToggleFavorite(ctx, postID)
	}

	final, _ := sync.Post(postID)
	if !text {
		if perr := output.PrintJSON(map[string]interface{}{
			"outcome": res.Outcome,
			"message": res.Message,
			"post":    final.Post,
		}); perr != nil {
			return perr
		}
		return err
	}

	switch res.Outcome {
	case interaction.Confirmed:
		output.PrintSuccess("✓ %s", describe(kind, final, actor.ID))
	case interaction.RolledBack:
		output.PrintInfo("Restored: %s", describe(kind, final, actor.ID))
	case interaction.Discarded:
		output.PrintWarning("Post %d is no longer available", postID)
	}
	return err
}

func describe(kind interaction.Kind, p interaction.PostState, actor int64) string {
	title := output.Truncate(p.Title, 40)
	if title == "" {
		title = fmt.Sprintf("post %d", p.ID)
	}
	if kind == interaction.KindFavorite {
		verb := "Not favorited"
		if p.IsFavorited {
			verb = "Favorited"
		}
		return fmt.Sprintf("%s %q (%s)", verb, title, pluralize(p.FavoriteCount, "favorite"))
	}
	verb := "Not liked"
	if p.LikedByActor(actor) {
		verb = "Liked"
	}
	return fmt.Sprintf("%s %q (%s)", verb, title, pluralize(p.LikeCount, "like"))
}
