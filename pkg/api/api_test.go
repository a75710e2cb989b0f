package api_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skillshare/cli/internal/apitest"
	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/client"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	transport, err := client.New(client.Options{BaseURL: srv.BaseURL(), Timeout: 5 * time.Second})
	require.NoError(t, err)
	return api.New(transport), srv
}

func TestLoginAndCurrentUser(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddUser(api.User{ID: 7, Name: "Ada", Email: "ada@example.com"}, "secret1")
	ctx := context.Background()

	_, err := c.CurrentUser(ctx)
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	require.NoError(t, c.Login(ctx, "ada@example.com", "secret1"))

	principal, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", principal.ID.String())
	assert.Equal(t, "Ada", principal.Name)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddUser(api.User{ID: 7, Email: "ada@example.com"}, "secret1")

	err := c.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestRegisterConflict(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddUser(api.User{ID: 7, Email: "ada@example.com"}, "secret1")

	err := c.Register(context.Background(), api.Credentials{Email: "ada@example.com", Password: "secret1", Name: "Ada"})
	require.Error(t, err)

	cliErr := clierrors.FromRequest("register", err)
	assert.Equal(t, clierrors.ErrorTypeConflict, cliErr.Type)
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		confirm  string
		wantErr  bool
	}{
		{"valid", "a@b.c", "secret1", "secret1", false},
		{"missing email", " ", "secret1", "secret1", true},
		{"mismatch", "a@b.c", "secret1", "secret2", true},
		{"too short", "a@b.c", "abc", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := api.ValidateRegistration(tt.email, tt.password, tt.confirm)
			if tt.wantErr {
				assert.True(t, clierrors.Is(err, clierrors.ErrorTypeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLikePostReturnsSnapshot(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddPost(api.Post{ID: 1, Title: "Go", LikedBy: api.IDList{}})

	post, err := c.LikePost(context.Background(), 1, 7)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, 1, post.LikeCount)
	assert.True(t, post.LikedBy.Contains(7))

	reqs := srv.Requests(apitest.RouteLike)
	require.Len(t, reqs, 1)
	assert.Equal(t, "7", reqs[0].URL.Query().Get("userId"))
}

func TestToggleWithoutBodyHasNoSnapshot(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.SnapshotOnToggle = false
	srv.AddPost(api.Post{ID: 1})

	post, err := c.FavoritePost(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Nil(t, post)

	stored, _ := srv.Post(1)
	assert.Equal(t, 1, stored.FavoriteCount)
}

func TestLikePostServerError(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddPost(api.Post{ID: 2})
	srv.FailNext(apitest.RouteLike, http.StatusInternalServerError, 1)

	_, err := c.LikePost(context.Background(), 2, 7)
	require.Error(t, err)
	assert.True(t, api.IsServerError(err))
	assert.True(t, clierrors.IsNetworkOrServer(clierrors.FromRequest("like post", err)))
}

func TestCreatePostMultipart(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddUser(api.User{ID: 7, Name: "Ada"}, "pw")

	dir := t.TempDir()
	img := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0600))

	post, err := c.CreatePost(context.Background(), 7, api.CreatePostRequest{
		Title:       "Knitting",
		Description: "Basics",
		ImagePaths:  []string{img},
	})
	require.NoError(t, err)
	assert.Equal(t, "Knitting", post.Title)
	assert.Equal(t, "img:cover.png", post.Image1)
	require.NotNil(t, post.User)
	assert.Equal(t, int64(7), post.User.ID)
}

func TestCreatePostValidation(t *testing.T) {
	c, srv := newTestAPI(t)

	_, err := c.CreatePost(context.Background(), 7, api.CreatePostRequest{
		Title:       "t",
		Description: "d",
		ImagePaths:  []string{"a", "b", "c", "d"},
	})
	assert.True(t, clierrors.Is(err, clierrors.ErrorTypeValidation))

	_, err = c.CreatePost(context.Background(), 7, api.CreatePostRequest{Description: "d"})
	assert.True(t, clierrors.Is(err, clierrors.ErrorTypeValidation))
	assert.Zero(t, srv.Calls("POST /api/posts"))
}

func TestListUserPostsFiltersByAuthor(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddPost(api.Post{ID: 1, User: &api.Author{ID: 7}})
	srv.AddPost(api.Post{ID: 2, User: &api.Author{ID: 8}})

	posts, err := c.ListUserPosts(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), posts[0].ID)

	all, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCommentLifecycle(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddUser(api.User{ID: 7, Name: "Ada"}, "pw")
	srv.AddPost(api.Post{ID: 1})
	ctx := context.Background()

	_, err := c.AddComment(ctx, 1, 7, "   ")
	assert.True(t, clierrors.Is(err, clierrors.ErrorTypeValidation))

	comment, err := c.AddComment(ctx, 1, 7, "Nice")
	require.NoError(t, err)
	assert.Equal(t, "Ada", comment.UserName)

	updated, err := c.UpdateComment(ctx, comment.ID, "Nicer")
	require.NoError(t, err)
	assert.Equal(t, "Nicer", updated.Content)

	comments, err := c.ListComments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.NoError(t, c.DeleteComment(ctx, comment.ID))
	comments, err = c.ListComments(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestPlanLifecycle(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	_, err := c.CreatePlan(ctx, 7, api.LearningPlan{})
	assert.True(t, clierrors.Is(err, clierrors.ErrorTypeValidation))

	plan, err := c.CreatePlan(ctx, 7, api.LearningPlan{Title: "Learn Go", Topics: "types"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), plan.UserID)

	plan.Title = "Learn more Go"
	updated, err := c.UpdatePlan(ctx, plan.ID, *plan)
	require.NoError(t, err)
	assert.Equal(t, "Learn more Go", updated.Title)

	err = c.DeletePlan(ctx, plan.ID, 8)
	assert.True(t, api.IsForbidden(err))
	require.NoError(t, c.DeletePlan(ctx, plan.ID, 7))

	plans, err := c.ListPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestProgressDefaultsTemplate(t *testing.T) {
	c, _ := newTestAPI(t)

	p, err := c.CreateProgress(context.Background(), 7, api.ProgressUpdate{Content: "Finished chapter 1"})
	require.NoError(t, err)
	assert.Equal(t, "custom", p.TemplateType)

	_, err = c.CreateProgress(context.Background(), 7, api.ProgressUpdate{})
	assert.True(t, clierrors.Is(err, clierrors.ErrorTypeValidation))
}

func TestFollowAndIsFollowing(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddUser(api.User{ID: 7, Name: "Ada"}, "pw")
	srv.AddUser(api.User{ID: 9, Name: "Grace"}, "pw")
	ctx := context.Background()

	following, err := c.IsFollowing(ctx, 7, 9)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, c.FollowUser(ctx, 9, 7))
	following, err = c.IsFollowing(ctx, 7, 9)
	require.NoError(t, err)
	assert.True(t, following)

	user, err := c.GetUser(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, user.FollowersCount)

	require.NoError(t, c.UnfollowUser(ctx, 9, 7))
	assert.False(t, srv.Following(7, 9))
}

func TestGetUserNotFound(t *testing.T) {
	c, _ := newTestAPI(t)

	_, err := c.GetUser(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
}

func TestSearchUsers(t *testing.T) {
	c, srv := newTestAPI(t)
	srv.AddUser(api.User{ID: 7, Name: "Ada Lovelace", Email: "ada@example.com"}, "pw")
	srv.AddUser(api.User{ID: 9, Name: "Grace Hopper", Email: "grace@example.com"}, "pw")

	users, err := c.SearchUsers(context.Background(), "grace")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(9), users[0].ID)
}
