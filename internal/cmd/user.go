package cmd

import (
	"github.com/skillshare/cli/pkg/service"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User commands",
	Long:  "View profiles, search for people, and follow them",
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		return service.NewUserService(deps).Show(cmd.Context(), id)
	},
}

var userSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewUserService(deps).Search(cmd.Context(), args[0])
	},
}

var userFollowCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		return service.NewUserService(deps).Follow(cmd.Context(), id)
	},
}

var userUnfollowCmd = &cobra.Command{
	Use:   "unfollow <user-id>",
	Short: "Unfollow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		return service.NewUserService(deps).Unfollow(cmd.Context(), id)
	},
}

func init() {
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSearchCmd)
	userCmd.AddCommand(userFollowCmd)
	userCmd.AddCommand(userUnfollowCmd)
}
