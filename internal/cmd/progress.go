package cmd

import (
	"strings"

	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/service"
	"github.com/spf13/cobra"
)

var progressTemplate string

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Progress update commands",
	Long:  "Share what you have learned",
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List progress updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProgressService(deps).List(cmd.Context())
	},
}

var progressCreateCmd = &cobra.Command{
	Use:   "create <text>",
	Short: "Post a progress update",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProgressService(deps).Create(cmd.Context(), progressTemplate, args[0])
	},
}

var progressUpdateCmd = &cobra.Command{
	Use:     "edit <progress-id> <text>",
	Aliases: []string{"update"},
	Short:   "Edit a progress update",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "progress")
		if err != nil {
			return err
		}
		return service.NewProgressService(deps).Update(cmd.Context(), id, progressTemplate, args[1])
	},
}

var progressDeleteCmd = &cobra.Command{
	Use:   "delete <progress-id>",
	Short: "Delete a progress update",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "progress")
		if err != nil {
			return err
		}
		return service.NewProgressService(deps).Delete(cmd.Context(), id)
	},
}

func init() {
	usage := "Template: " + strings.Join(api.ProgressTemplates, ", ")
	progressCreateCmd.Flags().StringVar(&progressTemplate, "template", "custom", usage)
	progressUpdateCmd.Flags().StringVar(&progressTemplate, "template", "custom", usage)

	progressCmd.AddCommand(progressListCmd)
	progressCmd.AddCommand(progressCreateCmd)
	progressCmd.AddCommand(progressUpdateCmd)
	progressCmd.AddCommand(progressDeleteCmd)
}
