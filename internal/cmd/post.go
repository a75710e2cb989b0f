package cmd

import (
	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	postTitle       string
	postDescription string
	postImages      []string
	postVideo       string
	postForce       bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post management commands",
	Long:  "Browse, create, and interact with posts",
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService(deps).List(cmd.Context())
	},
}

var postMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService(deps).Mine(cmd.Context())
	},
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	Long:  "Create a post with a title and description, plus up to three images and a video",
	RunE: func(cmd *cobra.Command, args []string) error {
		postService := service.NewPostService(deps)
		return postService.Create(cmd.Context(), api.CreatePostRequest{
			Title:       postTitle,
			Description: postDescription,
			ImagePaths:  postImages,
			VideoPath:   postVideo,
		})
	},
}

var postEditCmd = &cobra.Command{
	Use:   "edit <post-id>",
	Short: "Edit a post's title and description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "post")
		if err != nil {
			return err
		}
		postService := service.NewPostService(deps)
		return postService.Edit(cmd.Context(), id, postTitle, postDescription)
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "post")
		if err != nil {
			return err
		}
		postService := service.NewPostService(deps)
		return postService.Delete(cmd.Context(), id, postForce)
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like or unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "post")
		if err != nil {
			return err
		}
		postService := service.NewPostService(deps)
		return postService.Like(cmd.Context(), id)
	},
}

var postFavoriteCmd = &cobra.Command{
	Use:   "favorite <post-id>",
	Short: "Favorite or unfavorite a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "post")
		if err != nil {
			return err
		}
		postService := service.NewPostService(deps)
		return postService.Favorite(cmd.Context(), id)
	},
}

func init() {
	postCreateCmd.Flags().StringVarP(&postTitle, "title", "t", "", "Post title")
	postCreateCmd.Flags().StringVarP(&postDescription, "description", "d", "", "Post description")
	postCreateCmd.Flags().StringSliceVarP(&postImages, "image", "i", nil, "Image file to attach (repeatable, up to 3)")
	postCreateCmd.Flags().StringVar(&postVideo, "video", "", "Video file to attach")

	postEditCmd.Flags().StringVarP(&postTitle, "title", "t", "", "New title")
	postEditCmd.Flags().StringVarP(&postDescription, "description", "d", "", "New description")

	postDeleteCmd.Flags().BoolVarP(&postForce, "force", "f", false, "Delete without confirmation")

	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postMineCmd)
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postEditCmd)
	postCmd.AddCommand(postDeleteCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postFavoriteCmd)
}
