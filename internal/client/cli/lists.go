package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ecosync/ecosync/internal/client/forms"
	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/client/services"
	"github.com/ecosync/ecosync/internal/client/ui"
)

// ErrReported is returned by commands whose failure is already on screen.
var ErrReported = errors.New("command failed")

// selectorNames maps shell names to selectors.
var selectorNames = map[string]ui.SelectorID{
	"upload":    ui.SelectUpload,
	"barter":    ui.SelectBarter,
	"matches":   ui.SelectMatches,
	"lostfound": ui.SelectLostFound,
	"item":      ui.SelectBarterItem,
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (a *App) listCommands() []*cobra.Command {
	var filter models.LostFoundFilter
	lostfound := &cobra.Command{
		Use:   "lostfound",
		Short: "Show lost & found reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.lists.LostFound(cmd.Context(), filter)
			return a.failed(err)
		},
	}
	lostfound.Flags().StringVar(&filter.Type, "type", "", "lost or found")
	lostfound.Flags().StringVar(&filter.Category, "category", "", "category (wins over --type)")

	var itemsUser int64
	items := &cobra.Command{
		Use:   "items",
		Short: "Show a user's items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.lists.UserItems(cmd.Context(), itemsUser)
			return a.failed(err)
		},
	}
	items.Flags().Int64Var(&itemsUser, "user", 0, "user id")

	var matchesUser int64
	matches := &cobra.Command{
		Use:   "matches",
		Short: "Show trade matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.lists.Matches(cmd.Context(), matchesUser)
			return a.failed(err)
		},
	}
	matches.Flags().Int64Var(&matchesUser, "user", 0, "user id")

	accept := &cobra.Command{
		Use:   "accept <match-id>",
		Short: "Authorize a match as the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.lists.AcceptMatch(cmd.Context(), id)
			if err != nil {
				return a.failed(err)
			}
			fmt.Fprintln(a.out, a.view.Styles.Success.Render(fmt.Sprintf("Match #%d %s", res.MatchID, res.Status)))
			return nil
		},
	}

	leaderboard := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top eco-credit earners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.lists.Leaderboard(cmd.Context())
			return a.failed(err)
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <upload|barter|matches|lostfound|item> <id>",
		Short: "Choose the profile or item a form acts on",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.selectOption(cmd.Context(), args[0], args[1])
		},
	}

	ping := &cobra.Command{
		Use:   "ping",
		Short: "Check whether the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.checkOnline(cmd.Context())
			fmt.Fprintln(a.out, string(a.Mode()))
			return nil
		},
	}

	return []*cobra.Command{lostfound, items, matches, accept, leaderboard, selectCmd, ping}
}

// selectOption selects value in the named selector. Profile selectors are
// populated first when empty.
func (a *App) selectOption(ctx context.Context, name, value string) error {
	id, ok := selectorNames[name]
	if !ok {
		return fmt.Errorf("unknown selector %q", name)
	}
	v, err := parseID(value)
	if err != nil {
		return err
	}

	sel := a.view.Selector(id)
	if len(sel.Options()) == 0 {
		if id == ui.SelectBarterItem {
			_, err = a.lists.BarterItems(ctx, 0)
		} else {
			_, err = a.sessions.PopulateSelectors(ctx)
		}
		if err != nil {
			return a.failed(err)
		}
	}
	if !sel.Select(v) {
		return fmt.Errorf("%d is not offered by %s", v, name)
	}
	fmt.Fprintf(a.out, "%s: %d selected\n", name, v)

	if id == ui.SelectBarter {
		if _, err := a.lists.BarterItems(ctx, v); err != nil {
			a.log.Warn(ctx, "load barter items failed", "user_id", v, "error", err)
		}
	}
	return nil
}

// failed shows a backend failure the way forms show theirs and returns
// ErrReported. Validation errors pass through untouched.
func (a *App) failed(err error) error {
	if err == nil || errors.Is(err, forms.ErrValidation) || errors.Is(err, services.ErrNotLoggedIn) {
		return err
	}
	fmt.Fprintln(a.out, a.view.Styles.Message(services.Classify(err)))
	return ErrReported
}
