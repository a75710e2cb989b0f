package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/client"
	"github.com/skillshare/cli/pkg/config"
	"github.com/skillshare/cli/pkg/credentials"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
	"github.com/skillshare/cli/pkg/metrics"
	"github.com/skillshare/cli/pkg/output"
	"github.com/skillshare/cli/pkg/prompter"
	"github.com/skillshare/cli/pkg/service"
	"github.com/skillshare/cli/pkg/session"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string

	deps     *service.Deps
	registry *prometheus.Registry
)

var rootCmd = &cobra.Command{
	Use:   "skillshare",
	Short: "Skillshare CLI - share skills, plans and progress",
	Long: `Skillshare CLI is a command-line client for the Skillshare
platform. Browse and publish posts, like and favorite them, follow
other learners, and keep your learning plans and progress up to date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return clierrors.ValidationError("output", "must be one of text, json, table")
			}
			config.Set("output.format", outputFmt)
		}

		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if !verbose || registry == nil {
			return
		}
		summary, err := metrics.Summary(registry)
		if err != nil {
			logger.Debug("Could not gather metrics", "error", err)
			return
		}
		if summary != "" {
			logger.Info("Interaction metrics\n" + summary)
		}
	},
}

// setup wires the session, transport and services for one invocation
func setup() error {
	sess := session.New()

	transport, err := client.FromConfig(sess.Invalidate)
	if err != nil {
		return err
	}

	// A rejected cookie is gone for good; forget it so the next run starts
	// signed out instead of replaying it.
	sess.OnUnauthenticated(func() {
		if err := credentials.Delete(); err != nil {
			logger.Warn("Failed to remove stale credentials", "error", err)
		}
	})

	registry = prometheus.NewRegistry()
	deps = &service.Deps{
		API:     api.New(transport),
		Session: sess,
		Prompt:  prompter.Default(),
		Metrics: metrics.NewInteractionMetrics(registry),
	}

	restored, err := deps.RestoreSession()
	if err != nil {
		logger.Warn("Could not load saved credentials", "error", err)
		return nil
	}
	logger.Debug("Session", "restored", restored, "api", transport.BaseURL())
	return nil
}

// Execute runs the CLI. Interrupts cancel the command context so in-flight
// requests end and pending toggles roll back.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		stop()
		os.Exit(1)
	}
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, clierrors.ValidationError(what, fmt.Sprintf("%q is not a valid id", arg))
	}
	return id, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/skillshare/cli/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(versionCmd)
}
