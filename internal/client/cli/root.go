package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecosync/ecosync/internal/client/ui"
)

const longHelp = `EcoSync is a campus marketplace: list items from a photo, post barter
intents, accept trade matches and report lost or found belongings.

Run without arguments to start the interactive shell.`

// NewRootCommand builds the command tree for one invocation. The saved
// session is restored before any command runs.
func NewRootCommand(a *App) *cobra.Command {
	root := a.baseCommand()
	root.Short = "EcoSync campus marketplace client"
	root.Long = longHelp
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.restore(cmd.Context())
	}
	root.RunE = a.runShell

	root.AddCommand(&cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE:  a.runShell,
	})
	return root
}

// baseCommand is the tree shared by one-shot invocations and shell lines.
func (a *App) baseCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ecosync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.SetIn(a.reader)

	root.AddCommand(a.sessionCommands()...)
	root.AddCommand(a.formCommands()...)
	root.AddCommand(a.listCommands()...)
	return root
}

// Execute runs args through a fresh command tree. An empty args starts the
// shell.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := NewRootCommand(a)
	if args == nil {
		// cobra reads os.Args when given nil
		args = []string{}
	}
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) execLine(ctx context.Context, args []string) error {
	root := a.baseCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) runShell(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	fmt.Fprintln(a.out, a.view.Styles.Title.Render("Welcome to EcoSync")+" (type 'help' for commands)")
	if !a.sess.LoggedIn() {
		a.view.Show(ui.RegionHeader, a.view.Styles.Header(nil))
	}

	if _, err := a.sessions.PopulateSelectors(ctx); err != nil {
		a.log.Warn(ctx, "could not load profiles", "error", err)
	}
	a.sessions.SelectSessionUser(ctx)

	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a.execLine, a.getStatus, a.reader, a.out, a.interactive)
	return nil
}
