package service

import (
	"context"
	"strconv"

	"github.com/skillshare/cli/pkg/output"
)

// CommentService manages comments on posts
type CommentService struct {
	deps *Deps
}

// NewCommentService creates a new comment service
func NewCommentService(deps *Deps) *CommentService {
	return &CommentService{deps: deps}
}

// List shows the comments on a post
func (s *CommentService) List(ctx context.Context, postID int64) error {
	comments, err := s.deps.API.ListComments(ctx, postID)
	if err != nil {
		return wrap("list comments", err)
	}

	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.UserName,
			formatTime(c.CreatedAt.Time),
			output.Truncate(c.Content, 60),
		})
	}
	return output.PrintList("Comments on post "+strconv.FormatInt(postID, 10), comments,
		[]string{"ID", "Author", "When", "Comment"}, rows)
}

// Add comments on a post as the signed-in user
func (s *CommentService) Add(ctx context.Context, postID int64, content string) error {
	actor, err := s.deps.actor()
	if err != nil {
		return err
	}

	comment, err := s.deps.API.AddComment(ctx, postID, actor.ID, content)
	if err != nil {
		return wrap("add comment", err)
	}
	output.PrintSuccess("✓ Comment %d added", comment.ID)
	return nil
}

// Edit replaces a comment's content
func (s *CommentService) Edit(ctx context.Context, commentID int64, content string) error {
	if _, err := s.deps.actor(); err != nil {
		return err
	}

	if _, err := s.deps.API.UpdateComment(ctx, commentID, content); err != nil {
		return wrap("update comment", err)
	}
	output.PrintSuccess("✓ Comment %d updated", commentID)
	return nil
}

// Delete removes a comment
func (s *CommentService) Delete(ctx context.Context, commentID int64) error {
	if _, err := s.deps.actor(); err != nil {
		return err
	}

	if err := s.deps.API.DeleteComment(ctx, commentID); err != nil {
		return wrap("delete comment", err)
	}
	output.PrintSuccess("✓ Comment %d deleted", commentID)
	return nil
}
