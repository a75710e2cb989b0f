package notifications

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skillshare/cli/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) api.Timestamp {
	return api.Timestamp{Time: time.Date(2024, 5, 1, hour, 0, 0, 0, time.UTC)}
}

func TestBuild(t *testing.T) {
	posts := []api.Post{
		{
			ID:        1,
			Title:     "Sourdough",
			CreatedAt: at(8),
			UpdatedAt: at(12),
			LikedBy:   api.IDList{7, 8},
			LikerInfo: []api.Liker{{ID: 7, Name: "Ada", ProfileImage: "ada.png"}},
			Comments: []api.Comment{
				{ID: 50, UserID: 9, UserName: "Grace", Content: "Yum", CreatedAt: at(10)},
				{ID: 51, UserID: 7, UserName: "Ada", Content: "Recipe?", CreatedAt: at(14)},
			},
		},
		{ID: 2, CreatedAt: at(9), LikedBy: api.IDList{9}},
	}

	got := Build(posts)
	require.Len(t, got, 5)

	ids := make([]string, len(got))
	for i, n := range got {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"comment-51", "like-1-7", "like-1-8", "comment-50", "like-2-9"}, ids)

	assert.Equal(t, TypeComment, got[0].Type)
	assert.Equal(t, "Recipe?", got[0].Content)
	assert.Equal(t, "Sourdough", got[0].PostTitle)

	assert.Equal(t, "Ada", got[1].UserName)
	assert.Equal(t, "ada.png", got[1].UserImage)
	assert.Equal(t, "Someone", got[2].UserName)

	assert.Equal(t, "your post", got[4].PostTitle)
	assert.True(t, got[4].CreatedAt.Equal(at(9).Time))
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(nil))
	assert.Empty(t, Build([]api.Post{{ID: 1}}))
}

func TestDismissedPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "notifications.json")

	d, err := Open(path)
	require.NoError(t, err)
	assert.False(t, d.Has("like-1-7"))

	all := []Notification{{ID: "like-1-7"}, {ID: "comment-3"}, {ID: "comment-4"}}
	require.NoError(t, d.Dismiss("like-1-7", "comment-4"))
	assert.Equal(t, []Notification{{ID: "comment-3"}}, d.Filter(all))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.True(t, reopened.Has("like-1-7"))
	assert.True(t, reopened.Has("comment-4"))
	assert.Len(t, reopened.Filter(all), 1)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Open(path)
	assert.Error(t, err)
}
