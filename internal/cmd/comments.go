package cmd

import (
	"github.com/skillshare/cli/pkg/service"
	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment commands",
	Long:  "Read and write comments on posts",
}

var createCommentCmd = &cobra.Command{
	Use:     "add <post-id> <text>",
	Aliases: []string{"create"},
	Short:   "Comment on a post",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := parseID(args[0], "post")
		if err != nil {
			return err
		}
		svc := service.NewCommentService(deps)
		return svc.Add(cmd.Context(), postID, args[1])
	},
}

var viewCommentsCmd = &cobra.Command{
	Use:   "list <post-id>",
	Short: "List the comments on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := parseID(args[0], "post")
		if err != nil {
			return err
		}
		svc := service.NewCommentService(deps)
		return svc.List(cmd.Context(), postID)
	},
}

var updateCommentCmd = &cobra.Command{
	Use:     "edit <comment-id> <text>",
	Aliases: []string{"update"},
	Short:   "Edit a comment",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}
		svc := service.NewCommentService(deps)
		return svc.Edit(cmd.Context(), commentID, args[1])
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}
		svc := service.NewCommentService(deps)
		return svc.Delete(cmd.Context(), commentID)
	},
}

func init() {
	commentCmd.AddCommand(createCommentCmd)
	commentCmd.AddCommand(viewCommentsCmd)
	commentCmd.AddCommand(updateCommentCmd)
	commentCmd.AddCommand(deleteCommentCmd)
}
