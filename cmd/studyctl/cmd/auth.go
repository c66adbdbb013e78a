package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtereshkin/studykit/internal/service"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account and log in",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the current session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session user",
	RunE:  runWhoami,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the current user's profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the current user's name or email",
	RunE:  runProfileUpdate,
}

func init() {
	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("password", "", "password (prompted when omitted)")

	loginCmd.Flags().String("email", "", "email address")
	loginCmd.Flags().String("password", "", "password (prompted when omitted)")

	profileUpdateCmd.Flags().String("name", "", "new display name")
	profileUpdateCmd.Flags().String("email", "", "new email address")

	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, profileCmd)
}

func promptPassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, err := promptPassword(cmd)
	if err != nil {
		return err
	}

	view, err := a.identity.Register(ctx, service.RegisterParams{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s <%s>\n", view.Name, view.Email)
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	password, err := promptPassword(cmd)
	if err != nil {
		return err
	}

	view, err := a.identity.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", view.Name, view.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	if err := a.identity.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	user, err := a.requireUser()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (since %s)\n", user.Name, user.Email, user.CreatedAt.Format("2006-01-02"))
	return nil
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	if name == "" && email == "" {
		return fmt.Errorf("nothing to update, pass --name or --email")
	}

	view, err := a.identity.UpdateProfile(ctx, service.ProfilePatch{Name: name, Email: email})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s <%s>\n", view.Name, view.Email)
	return nil
}
