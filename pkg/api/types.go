package api

import (
	"bytes"
	"fmt"
	"time"

	json "github.com/json-iterator/go"
)

// Timestamp accepts the server's LocalDateTime encodings: ISO strings with or
// without a zone, and the [y,m,d,h,m,s,nanos] array form.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		if parts[1] == 0 {
			parts[1] = 1
		}
		if parts[2] == 0 {
			parts[2] = 1
		}
		t.Time = time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.Local)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// IDList is a list of user IDs. The list endpoints send bare numbers; entity
// responses send full user objects. Both decode to IDs.
type IDList []int64

// UnmarshalJSON implements json.Unmarshaler
func (l *IDList) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*l = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ids := make(IDList, 0, len(raw))
	for _, item := range raw {
		var n int64
		if err := json.Unmarshal(item, &n); err == nil {
			ids = append(ids, n)
			continue
		}
		var obj struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("id list element: %w", err)
		}
		ids = append(ids, obj.ID)
	}
	*l = ids
	return nil
}

// Contains reports whether userID is in the list
func (l IDList) Contains(userID int64) bool {
	for _, v := range l {
		if v == userID {
			return true
		}
	}
	return false
}

// Author is the embedded owner of a post
type Author struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Comment is a comment on a post
type Comment struct {
	ID               int64     `json:"id"`
	Content          string    `json:"content"`
	CreatedAt        Timestamp `json:"createdAt"`
	UserID           int64     `json:"userId"`
	UserName         string    `json:"userName"`
	UserProfileImage string    `json:"userProfileImage,omitempty"`
	PostID           int64     `json:"postId,omitempty"`
}

// Liker carries display info for a user in a post's likedBy list
type Liker struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Post is a skill-sharing post with its interaction state
type Post struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
	User          *Author   `json:"user,omitempty"`
	Image1        string    `json:"image1,omitempty"`
	Image2        string    `json:"image2,omitempty"`
	Image3        string    `json:"image3,omitempty"`
	Video         string    `json:"video,omitempty"`
	LikeCount     int       `json:"likeCount"`
	FavoriteCount int       `json:"favoriteCount"`
	ShareCount    int       `json:"shareCount"`
	LikedBy       IDList    `json:"likedBy"`
	FavoritedBy   IDList    `json:"favoritedBy"`
	// IsFavorited is only meaningful when FavoritedBy is absent.
	IsFavorited bool      `json:"isFavorited"`
	LikerInfo   []Liker   `json:"likerInfo,omitempty"`
	Comments    []Comment `json:"comments"`
}

// FavoritedByActor resolves the favorite flag for userID
func (p *Post) FavoritedByActor(userID int64) bool {
	if p.FavoritedBy != nil {
		return p.FavoritedBy.Contains(userID)
	}
	return p.IsFavorited
}

// User is a public profile
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfileImage   string `json:"profileImage,omitempty"`
	Source         string `json:"source,omitempty"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
	IsFollowing    bool   `json:"isFollowing"`
}

// LearningPlan is a user's study plan
type LearningPlan struct {
	ID        int64  `json:"id,omitempty"`
	Title     string `json:"title"`
	Topics    string `json:"topics"`
	Resources string `json:"resources"`
	Timeline  string `json:"timeline"`
	UserID    int64  `json:"userId,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

// ProgressUpdate is a templated progress entry
type ProgressUpdate struct {
	ID           int64     `json:"id,omitempty"`
	Content      string    `json:"content"`
	TemplateType string    `json:"templateType"`
	CreatedAt    Timestamp `json:"createdAt,omitempty"`
	UserID       int64     `json:"userId,omitempty"`
	UserName     string    `json:"userName,omitempty"`
}

// Credentials is the body of login and register requests
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// FollowResponse is returned by the follow/unfollow endpoints
type FollowResponse struct {
	FollowersCount int    `json:"followersCount"`
	Message        string `json:"message"`
}
