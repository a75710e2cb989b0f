package api

import (
	"bytes"
	"context"

	json "github.com/json-iterator/go"
	"github.com/skillshare/cli/pkg/logger"
)

// GetUser fetches the authoritative profile snapshot, including counts
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	logger.Debug("Fetching user", "user_id", userID)

	var user User
	resp, err := c.r(ctx).
		SetPathParam("id", id(userID)).
		Get("/users/{id}")
	if err := decode(resp, err, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers finds users by name or email
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	logger.Debug("Searching users", "query", query)

	resp, err := c.r(ctx).
		SetQueryParam("query", query).
		Get("/users/search")
	return decodeList[User](resp, err, "user search")
}

// IsFollowing reports whether userID follows targetID
func (c *Client) IsFollowing(ctx context.Context, userID, targetID int64) (bool, error) {
	logger.Debug("Checking follow status", "user_id", userID, "target_id", targetID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(userID)).
		SetPathParam("targetId", id(targetID)).
		Get("/users/{id}/following/{targetId}")
	if err := CheckResponse(resp, err); err != nil {
		return false, err
	}

	body := bytes.TrimSpace(resp.Body())
	var flag bool
	if err := json.Unmarshal(body, &flag); err == nil {
		return flag, nil
	}
	var wrapped struct {
		IsFollowing bool `json:"isFollowing"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return false, err
	}
	return wrapped.IsFollowing, nil
}

// FollowUser makes followerID follow targetID
func (c *Client) FollowUser(ctx context.Context, targetID, followerID int64) error {
	logger.Debug("Following user", "target_id", targetID, "follower_id", followerID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(targetID)).
		SetQueryParam("followerId", id(followerID)).
		Post("/users/{id}/follow")
	return CheckResponse(resp, err)
}

// UnfollowUser removes followerID from targetID's followers
func (c *Client) UnfollowUser(ctx context.Context, targetID, followerID int64) error {
	logger.Debug("Unfollowing user", "target_id", targetID, "follower_id", followerID)

	resp, err := c.r(ctx).
		SetPathParam("id", id(targetID)).
		SetQueryParam("followerId", id(followerID)).
		Post("/users/{id}/unfollow")
	return CheckResponse(resp, err)
}
