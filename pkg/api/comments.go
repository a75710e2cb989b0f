package api

import (
	"context"
	"strings"

	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
)

func validateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return clierrors.ValidationError("comment", "cannot be empty")
	}
	return nil
}

// ListComments retrieves the comments on a post
func (c *Client) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	logger.Debug("Listing comments", "post_id", postID)

	resp, err := c.r(ctx).
		SetPathParam("postId", id(postID)).
		Get("/comments/post/{postId}")
	return decodeList[Comment](resp, err, "comments")
}

// AddComment posts a comment as userID
func (c *Client) AddComment(ctx context.Context, postID, userID int64, content string) (*Comment, error) {
	if err := validateComment(content); err != nil {
		return nil, err
	}
	logger.Debug("Adding comment", "post_id", postID, "user_id", userID)

	var comment Comment
	resp, err := c.r(ctx).
		SetPathParam("postId", id(postID)).
		SetQueryParam("userId", id(userID)).
		SetBody(map[string]string{"content": content}).
		Post("/posts/{postId}/comments")
	if err := decode(resp, err, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment replaces a comment's content
func (c *Client) UpdateComment(ctx context.Context, commentID int64, content string) (*Comment, error) {
	if err := validateComment(content); err != nil {
		return nil, err
	}
	logger.Debug("Updating comment", "comment_id", commentID)

	var comment Comment
	resp, err := c.r(ctx).
		SetPathParam("id", id(commentID)).
		SetBody(map[string]string{"content": content}).
		Put("/comments/{id}")
	if err := decode(resp, err, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment deletes a comment
func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	logger.Debug("Deleting comment", "comment_id", commentID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(commentID)).
		Delete("/comments/{id}")
	return CheckResponse(resp, err)
}
