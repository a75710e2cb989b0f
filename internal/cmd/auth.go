package cmd

import (
	"github.com/skillshare/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
	authName     string
	authCookie   string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Log in to Skillshare, create an account, or end the saved session",
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new Skillshare account",
	Long:  "Register a new account. Missing fields are prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService(deps)
		return authSvc.Register(cmd.Context(), authName, authEmail, authPassword, authPassword)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Skillshare",
	Long: `Authenticate with email and password, or import the session cookie of
a browser login (for accounts created through Google sign-in) with --cookie.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService(deps)
		if authCookie != "" {
			return authSvc.ImportCookie(cmd.Context(), authCookie)
		}
		return authSvc.Login(cmd.Context(), authEmail, authPassword)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of Skillshare",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService(deps)
		return authSvc.Logout(cmd.Context())
	},
}

var meCmd = &cobra.Command{
	Use:     "me",
	Aliases: []string{"whoami"},
	Short:   "Display the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService(deps)
		return authSvc.WhoAmI(cmd.Context())
	},
}

func init() {
	loginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Account password (prompted when omitted)")
	loginCmd.Flags().StringVar(&authCookie, "cookie", "", "Session cookie as name=value")
	loginCmd.MarkFlagsMutuallyExclusive("cookie", "email")

	registerCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
	registerCmd.Flags().StringVarP(&authName, "name", "n", "", "Display name")
	registerCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Account password (prompted when omitted)")

	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(meCmd)
}
