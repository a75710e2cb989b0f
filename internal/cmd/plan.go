package cmd

import (
	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	planMine  bool
	planForce bool
	planInput api.LearningPlan
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Learning plan commands",
	Long:  "Browse and manage learning plans",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learning plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPlanService(deps).List(cmd.Context(), planMine)
	},
}

var planCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a learning plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPlanService(deps).Create(cmd.Context(), planInput)
	},
}

var planUpdateCmd = &cobra.Command{
	Use:     "edit <plan-id>",
	Aliases: []string{"update"},
	Short:   "Replace a learning plan",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "plan")
		if err != nil {
			return err
		}
		return service.NewPlanService(deps).Update(cmd.Context(), id, planInput)
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a learning plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "plan")
		if err != nil {
			return err
		}
		return service.NewPlanService(deps).Delete(cmd.Context(), id, planForce)
	},
}

func init() {
	planListCmd.Flags().BoolVar(&planMine, "mine", false, "Only your plans")

	for _, c := range []*cobra.Command{planCreateCmd, planUpdateCmd} {
		c.Flags().StringVarP(&planInput.Title, "title", "t", "", "Plan title")
		c.Flags().StringVar(&planInput.Topics, "topics", "", "Topics to cover")
		c.Flags().StringVar(&planInput.Resources, "resources", "", "Resources to study")
		c.Flags().StringVar(&planInput.Timeline, "timeline", "", "Timeline, e.g. \"6 weeks\"")
	}

	planDeleteCmd.Flags().BoolVarP(&planForce, "force", "f", false, "Delete without confirmation")

	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planUpdateCmd)
	planCmd.AddCommand(planDeleteCmd)
}
