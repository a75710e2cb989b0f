// Package notifications derives comment and like notifications from the
// signed-in user's own posts. The API has no notification endpoint, so
// dismissals are remembered locally.
package notifications

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	json "github.com/json-iterator/go"
	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/logger"
)

// Type is the kind of activity a notification reports
type Type string

const (
	TypeComment Type = "comment"
	TypeLike    Type = "like"
)

// Notification is one piece of activity on the user's posts
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	UserImage string    `json:"userImage,omitempty"`
	PostID    int64     `json:"postId"`
	PostTitle string    `json:"postTitle"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Build turns posts into notifications, newest first. Likes carry the post's
// last update time because the API does not timestamp individual likes.
func Build(posts []api.Post) []Notification {
	var out []Notification
	for _, post := range posts {
		title := post.Title
		if title == "" {
			title = "your post"
		}

		for _, c := range post.Comments {
			out = append(out, Notification{
				ID:        fmt.Sprintf("comment-%d", c.ID),
				Type:      TypeComment,
				UserID:    c.UserID,
				UserName:  c.UserName,
				UserImage: c.UserProfileImage,
				PostID:    post.ID,
				PostTitle: title,
				Content:   c.Content,
				CreatedAt: c.CreatedAt.Time,
			})
		}

		likedAt := post.UpdatedAt.Time
		if likedAt.IsZero() {
			likedAt = post.CreatedAt.Time
		}
		for _, likerID := range post.LikedBy {
			n := Notification{
				ID:        fmt.Sprintf("like-%d-%d", post.ID, likerID),
				Type:      TypeLike,
				UserID:    likerID,
				UserName:  "Someone",
				PostID:    post.ID,
				PostTitle: title,
				CreatedAt: likedAt,
			}
			for _, info := range post.LikerInfo {
				if info.ID == likerID {
					if info.Name != "" {
						n.UserName = info.Name
					}
					n.UserImage = info.ProfileImage
					break
				}
			}
			out = append(out, n)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Dismissed is the set of notification IDs the user has cleared
type Dismissed struct {
	path string

	mu  sync.Mutex
	ids map[string]struct{}
}

type dismissedFile struct {
	Dismissed []string `json:"dismissed"`
}

// Open loads the dismissed set stored at path. A missing file is an empty set.
func Open(path string) (*Dismissed, error) {
	d := &Dismissed{path: path, ids: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, err
	}

	var file dismissedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	for _, id := range file.Dismissed {
		d.ids[id] = struct{}{}
	}
	return d, nil
}

// Has reports whether id was dismissed
func (d *Dismissed) Has(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.ids[id]
	return ok
}

// Filter returns the notifications that have not been dismissed
func (d *Dismissed) Filter(all []Notification) []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Notification, 0, len(all))
	for _, n := range all {
		if _, gone := d.ids[n.ID]; !gone {
			out = append(out, n)
		}
	}
	return out
}

// Dismiss hides the given notifications and saves the set
func (d *Dismissed) Dismiss(ids ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range ids {
		d.ids[id] = struct{}{}
	}
	logger.Debug("Dismissing notifications", "count", len(ids), "total", len(d.ids))
	return d.save()
}

// save must be called with mu held
func (d *Dismissed) save() error {
	file := dismissedFile{Dismissed: make([]string, 0, len(d.ids))}
	for id := range d.ids {
		file.Dismissed = append(file.Dismissed, id)
	}
	sort.Strings(file.Dismissed)

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(d.path, data, 0600)
}
