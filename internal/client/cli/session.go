package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/client/ui"
)

func (a *App) sessionCommands() []*cobra.Command {
	login := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in with a registered email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.sessions.Login(cmd.Context(), args[0])
			return err
		},
	}

	demo := &cobra.Command{
		Use:   "demo",
		Short: "Log in as the demo account, creating it if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.sessions.DemoLogin(cmd.Context())
			return err
		},
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.sessions.Logout(cmd.Context())
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			u := a.sess.User()
			fmt.Fprintln(a.out, a.view.Styles.Header(u))
			if u == nil {
				return nil
			}
			if at, ok, err := a.sessions.SavedAt(ctx); err != nil {
				a.log.Warn(ctx, "session timestamp unreadable", "error", err)
			} else if ok {
				fmt.Fprintln(a.out, a.view.Styles.Muted.Render("session saved "+humanize.Time(at)))
			}
			return nil
		},
	}

	var in models.UserCreate
	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log into it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.askIfEmpty(&in.Name, "Full name"); err != nil {
				return err
			}
			if err := a.askIfEmpty(&in.Email, "Email"); err != nil {
				return err
			}
			_, err := a.forms.Register(cmd.Context(), in)
			return err
		},
	}
	register.Flags().StringVar(&in.Name, "name", "", "full name")
	register.Flags().StringVar(&in.Email, "email", "", "email")
	register.Flags().IntVar(&in.Semester, "semester", 1, "semester (1-8)")
	register.Flags().StringVar(&in.Department, "department", "", "department")
	register.Flags().StringVar(&in.Hostel, "hostel", "", "hostel")

	users := &cobra.Command{
		Use:   "users",
		Short: "List the profiles offered by the selectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.sessions.PopulateSelectors(cmd.Context()); err != nil {
				return err
			}
			a.sessions.SelectSessionUser(cmd.Context())
			for _, o := range a.view.Selector(ui.SelectUpload).Options() {
				fmt.Fprintf(a.out, "%4d  %s\n", o.Value, o.Label)
			}
			return nil
		},
	}

	return []*cobra.Command{login, demo, logout, whoami, register, users}
}
