package api

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
)

// MaxPostImages is the number of image slots a post has
const MaxPostImages = 3

// CreatePostRequest describes a new post and its media files on disk
type CreatePostRequest struct {
	Title       string
	Description string
	ImagePaths  []string
	VideoPath   string
}

// Validate checks required fields and attachment limits
func (r CreatePostRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return clierrors.ValidationError("title", "is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return clierrors.ValidationError("description", "is required")
	}
	if len(r.ImagePaths) > MaxPostImages {
		return clierrors.ValidationError("images", fmt.Sprintf("at most %d images are allowed", MaxPostImages))
	}
	return nil
}

// ListPosts retrieves the feed
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	logger.Debug("Listing posts")

	resp, err := c.r(ctx).Get("/posts")
	return decodeList[Post](resp, err, "posts")
}

// ListUserPosts retrieves the posts authored by userID
func (c *Client) ListUserPosts(ctx context.Context, userID int64) ([]Post, error) {
	logger.Debug("Listing user posts", "user_id", userID)

	resp, err := c.r(ctx).
		SetPathParam("userId", id(userID)).
		Get("/posts/user/{userId}")
	return decodeList[Post](resp, err, "user posts")
}

// CreatePost uploads a post as multipart form data
func (c *Client) CreatePost(ctx context.Context, userID int64, req CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Creating post", "user_id", userID, "images", len(req.ImagePaths), "has_video", req.VideoPath != "")

	request := c.r(ctx).SetFormData(map[string]string{
		"title":       req.Title,
		"description": req.Description,
		"userId":      id(userID),
	})

	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	attach := func(param, path string) error {
		f, err := os.Open(path)
		if err != nil {
			return clierrors.ValidationError(param, fmt.Sprintf("cannot open %s", path))
		}
		files = append(files, f)
		request.SetFileReader(param, filepath.Base(path), f)
		return nil
	}

	for _, path := range req.ImagePaths {
		if err := attach("images", path); err != nil {
			return nil, err
		}
	}
	if req.VideoPath != "" {
		if err := attach("video", req.VideoPath); err != nil {
			return nil, err
		}
	}

	var post Post
	resp, err := request.Post("/posts")
	if err := decode(resp, err, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost edits the title and description of a post
func (c *Client) UpdatePost(ctx context.Context, postID int64, title, description string) (*Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, clierrors.ValidationError("post", "title and description are required")
	}
	logger.Debug("Updating post", "post_id", postID)

	var post Post
	resp, err := c.r(ctx).
		SetPathParam("id", id(postID)).
		SetBody(map[string]string{"title": title, "description": description}).
		Put("/posts/{id}")
	if err := decode(resp, err, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post owned by userID
func (c *Client) DeletePost(ctx context.Context, postID, userID int64) error {
	logger.Debug("Deleting post", "post_id", postID, "user_id", userID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(postID)).
		SetQueryParam("userId", id(userID)).
		Delete("/posts/{id}")
	return CheckResponse(resp, err)
}

// LikePost toggles userID's like on a post. The server flips on every call.
// The returned snapshot is nil when the response has no usable post body.
func (c *Client) LikePost(ctx context.Context, postID, userID int64) (*Post, error) {
	logger.Debug("Toggling like", "post_id", postID, "user_id", userID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(postID)).
		SetQueryParam("userId", id(userID)).
		Post("/posts/{id}/like")
	return postSnapshot(resp, err)
}

// FavoritePost toggles userID's favorite on a post, same semantics as LikePost
func (c *Client) FavoritePost(ctx context.Context, postID, userID int64) (*Post, error) {
	logger.Debug("Toggling favorite", "post_id", postID, "user_id", userID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(postID)).
		SetQueryParam("userId", id(userID)).
		Post("/posts/{id}/favorite")
	return postSnapshot(resp, err)
}

func postSnapshot(resp *resty.Response, err error) (*Post, error) {
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || body[0] != '{' {
		return nil, nil
	}
	var post Post
	if err := json.Unmarshal(body, &post); err != nil || post.ID == 0 {
		logger.Debug("Ignoring unusable post snapshot", "error", err)
		return nil, nil
	}
	return &post, nil
}
