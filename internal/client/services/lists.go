package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ecosync/ecosync/internal/client/api"
	"github.com/ecosync/ecosync/internal/client/forms"
	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/client/session"
	"github.com/ecosync/ecosync/internal/client/ui"
	"github.com/ecosync/ecosync/internal/logging"
)

// ListService fetches collections and re-renders their regions. A failed
// fetch leaves the region as it was.
type ListService struct {
	client api.Client
	view   *ui.View
	sess   *session.Context
	log    logging.Logger
	now    func() time.Time
}

func NewListService(client api.Client, view *ui.View, sess *session.Context, log logging.Logger) *ListService {
	return &ListService{
		client: client,
		view:   view,
		sess:   sess,
		log:    log.With("service", "lists"),
		now:    time.Now,
	}
}

func (l *ListService) LostFound(ctx context.Context, filter models.LostFoundFilter) ([]models.LostFoundReport, error) {
	reports, err := l.client.ListLostFound(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list lost & found: %w", err)
	}
	l.view.Show(ui.RegionLostFoundList, l.view.Styles.LostFoundList(reports, l.now()))
	return reports, nil
}

// UserItems renders the items of userID (the barter profile or session user
// when zero) and offers them in the barter item selector.
func (l *ListService) UserItems(ctx context.Context, userID int64) ([]models.Item, error) {
	items, err := l.BarterItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	l.view.Show(ui.RegionItemsList, l.view.Styles.ItemsList(items))
	return items, nil
}

// BarterItems offers the items of userID (the barter profile or session user
// when zero) in the barter item selector without rendering them.
func (l *ListService) BarterItems(ctx context.Context, userID int64) ([]models.Item, error) {
	userID, err := pickUser(l.view, l.sess, ui.SelectBarter, userID)
	if err != nil {
		return nil, err
	}

	items, err := l.client.ListUserItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items of user %d: %w", userID, err)
	}

	opts := make([]ui.Option, 0, len(items))
	for _, it := range items {
		opts = append(opts, ui.Option{Value: it.ID, Label: it.Name})
	}
	l.view.Selector(ui.SelectBarterItem).Populate(opts)
	return items, nil
}

// Matches renders the matches of userID (the matches profile or session
// user when zero).
func (l *ListService) Matches(ctx context.Context, userID int64) ([]models.Match, error) {
	userID, err := pickUser(l.view, l.sess, ui.SelectMatches, userID)
	if err != nil {
		return nil, err
	}

	matches, err := l.client.ListMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches of user %d: %w", userID, err)
	}
	l.view.Show(ui.RegionMatchesList, l.view.Styles.MatchesList(matches, userID))
	return matches, nil
}

// AcceptMatch authorizes matchID for the session user and re-renders that
// user's matches.
func (l *ListService) AcceptMatch(ctx context.Context, matchID int64) (*models.AcceptResult, error) {
	userID, ok := l.sess.UserID()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	res, err := l.client.AcceptMatch(ctx, matchID, userID)
	if err != nil {
		return nil, fmt.Errorf("accept match %d: %w", matchID, err)
	}
	l.log.Info(ctx, "match accepted", "match_id", matchID, "status", res.Status)

	if _, err := l.Matches(ctx, userID); err != nil {
		l.log.Warn(ctx, "reload matches failed", "error", err)
	}
	return res, nil
}

func (l *ListService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := l.client.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	l.view.Show(ui.RegionLeaderboard, l.view.Styles.Leaderboard(entries))
	return entries, nil
}

// pickUser resolves who a form or list acts for: an explicit id, else the
// selector's choice, else the session user.
func pickUser(view *ui.View, sess *session.Context, sel ui.SelectorID, given int64) (int64, error) {
	if given > 0 {
		return given, nil
	}
	if id, ok := view.Selector(sel).Selected(); ok {
		return id, nil
	}
	if id, ok := sess.UserID(); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: select a profile first", forms.ErrValidation)
}
