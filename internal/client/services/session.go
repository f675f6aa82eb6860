// Package services contains the application services of the EcoSync client.
// This file holds the session service: login by email, session restore,
// logout, the demo profile and the profile selectors that follow the
// logged-in user.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecosync/ecosync/internal/client/api"
	"github.com/ecosync/ecosync/internal/client/forms"
	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/client/repositories/storage"
	"github.com/ecosync/ecosync/internal/client/session"
	"github.com/ecosync/ecosync/internal/client/ui"
	"github.com/ecosync/ecosync/internal/common"
	"github.com/ecosync/ecosync/internal/dbx"
	"github.com/ecosync/ecosync/internal/logging"
)

const (
	msgLoginSuccess = "Success! Redirecting..."
	msgUserNotFound = "User not found. Please register."
	msgUnavailable  = "Error connecting to server."
)

// DemoProfile is the account behind the one-step demo login.
var DemoProfile = models.UserCreate{
	Name:       "Demo Creator",
	Email:      "demo@ecosync.com",
	Semester:   4,
	Department: "Product",
	Hostel:     "Innovation Lab",
}

// SeedUsers are created when the backend has no users at all, so the profile
// selectors are never empty.
var SeedUsers = []models.UserCreate{
	{Name: "Alice Logistics", Email: "alice@corp.com", Semester: 1, Department: "Logistics", Hostel: "Block A"},
	{Name: "Bob IT Solutions", Email: "bob@tech.com", Semester: 2, Department: "IT", Hostel: "Block B"},
	{Name: "Charlie Sales", Email: "charlie@sales.com", Semester: 3, Department: "Sales", Hostel: "Block C"},
}

// SessionService owns the logged-in identity.
//
// The session user lives in three places kept in step by UpdateAuthState:
// the in-memory session.Context, the persisted blob under
// common.CurrentUserKey and the header region of the view.
type SessionService struct {
	client api.Client
	db     *sql.DB
	view   *ui.View
	sess   *session.Context
	lists  *ListService
	log    logging.Logger
	login  *forms.Form
	now    func() time.Time
}

// NewSessionService builds the session service. lists, when not nil, keeps
// the barter item selector in step with the barter profile.
func NewSessionService(client api.Client, db *sql.DB, view *ui.View, sess *session.Context, lists *ListService, log logging.Logger, opts ...forms.Option) *SessionService {
	return &SessionService{
		client: client,
		db:     db,
		view:   view,
		sess:   sess,
		lists:  lists,
		log:    log.With("service", "session"),
		login:  forms.New(FormLogin, opts...),
		now:    time.Now,
	}
}

func (s *SessionService) getStorageRepo() storage.Repository {
	return storage.NewSQLiteRepository(s.db)
}

// Login looks email up among the backend's users. It never creates an
// account: an unknown email only produces the not-found message.
func (s *SessionService) Login(ctx context.Context, email string) (forms.Outcome, error) {
	if err := forms.Required(forms.Field{Name: "email", Value: email}); err != nil {
		return forms.Outcome{}, err
	}

	s.view.Show(ui.RegionLogin, "")
	out, err := s.login.Submit(ctx, func(ctx context.Context) forms.Outcome {
		users, err := s.client.ListUsers(ctx)
		if err != nil {
			s.log.Warn(ctx, "login lookup failed", "error", err)
			return forms.Outcome{State: forms.NetworkError, Message: msgUnavailable}
		}

		found, ok := models.FindByEmail(users, email)
		if !ok {
			return forms.Outcome{State: forms.DomainError, Message: msgUserNotFound}
		}

		s.fillSelectors(users)
		s.apply(ctx, found)
		return forms.Succeeded(msgLoginSuccess)
	})
	if err != nil {
		return out, err
	}

	s.view.Show(ui.RegionLogin, s.view.Styles.Message(out))
	return out, nil
}

// DemoLogin signs in as DemoProfile, creating it on first use.
func (s *SessionService) DemoLogin(ctx context.Context) (forms.Outcome, error) {
	out, err := s.login.Submit(ctx, func(ctx context.Context) forms.Outcome {
		user, err := s.client.CreateUser(ctx, DemoProfile)
		switch {
		case errors.Is(err, api.ErrConflict):
			users, lerr := s.client.ListUsers(ctx)
			if lerr != nil {
				return classify(lerr, "")
			}
			found, ok := models.FindByEmail(users, DemoProfile.Email)
			if !ok {
				return forms.Outcome{State: forms.Failed, Message: "Demo Login Failed: " + api.Detail(err)}
			}
			user = &found
		case errors.Is(err, api.ErrUnavailable):
			return forms.Outcome{State: forms.NetworkError, Message: msgUnavailable}
		case err != nil:
			return forms.Outcome{State: forms.Failed, Message: "Demo Login Failed: " + api.Detail(err)}
		}

		if _, perr := s.PopulateSelectors(ctx); perr != nil {
			s.log.Warn(ctx, "populate selectors failed", "error", perr)
		}
		s.apply(ctx, *user)
		return forms.Succeeded(msgLoginSuccess)
	})
	if err != nil {
		return out, err
	}

	s.view.Show(ui.RegionLogin, s.view.Styles.Message(out))
	return out, nil
}

// apply makes u the session user and moves to the landing page. A failure to
// persist is logged; the in-memory session still holds.
func (s *SessionService) apply(ctx context.Context, u models.User) {
	if err := s.UpdateAuthState(ctx, u); err != nil {
		s.log.Error(ctx, "persist session failed", "error", err)
	}
	s.view.Navigate(ui.PageLanding)
	s.log.Info(ctx, "logged in", "user_id", u.ID)
}

// UpdateAuthState makes u the current user (see applyUser) and persists the
// user blob with the time it was saved, so Restore can bring it back.
func (s *SessionService) UpdateAuthState(ctx context.Context, u models.User) error {
	s.applyUser(ctx, u)
	return s.persist(ctx, u)
}

// applyUser stores u in the session, redraws the header and selects u in
// every profile selector offering it. The barter item selector follows the
// barter profile.
func (s *SessionService) applyUser(ctx context.Context, u models.User) {
	s.sess.Set(u)
	s.view.Show(ui.RegionHeader, s.view.Styles.Header(&u))
	s.SelectSessionUser(ctx)
}

// SelectSessionUser points every profile selector at the session user. Call
// it again once the selectors are populated.
func (s *SessionService) SelectSessionUser(ctx context.Context) {
	id, ok := s.sess.UserID()
	if !ok {
		return
	}
	for _, sel := range ui.ProfileSelectors {
		s.view.Selector(sel).Select(id)
	}
	s.followBarterProfile(ctx)
}

// followBarterProfile loads the items of the selected barter profile into
// the barter item selector.
func (s *SessionService) followBarterProfile(ctx context.Context) {
	id, ok := s.view.Selector(ui.SelectBarter).Selected()
	if !ok || s.lists == nil {
		return
	}
	if _, err := s.lists.BarterItems(ctx, id); err != nil {
		s.log.Warn(ctx, "load barter items failed", "user_id", id, "error", err)
	}
}

func (s *SessionService) persist(ctx context.Context, u models.User) error {
	blob, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	savedAt := []byte(s.now().UTC().Format(time.RFC3339))

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.CurrentUserKey, blob); err != nil {
			return err
		}
		return repo.Set(ctx, common.SessionSavedAtKey, savedAt)
	})
}

// Restore applies the persisted user, if any, without asking the backend
// whether it still exists. The blob and its saved time are left as they
// were. A blob that cannot be decoded is discarded.
func (s *SessionService) Restore(ctx context.Context) (bool, error) {
	repo := s.getStorageRepo()

	blob, err := repo.Get(ctx, common.CurrentUserKey)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if blob == nil {
		return false, nil
	}

	var u models.User
	if err := json.Unmarshal(blob, &u); err != nil {
		s.log.Warn(ctx, "discarding unreadable session", "error", err)
		return false, repo.Delete(ctx, common.CurrentUserKey)
	}

	s.applyUser(ctx, u)
	s.view.Navigate(ui.PageLanding)
	s.log.Debug(ctx, "session restored", "user_id", u.ID)
	return true, nil
}

// Logout forgets the session user everywhere.
func (s *SessionService) Logout(ctx context.Context) error {
	s.sess.Clear()
	s.view.Show(ui.RegionHeader, s.view.Styles.Header(nil))
	for _, id := range ui.ProfileSelectors {
		s.view.Selector(id).Reset()
	}
	s.view.Selector(ui.SelectBarterItem).Populate(nil)
	s.view.Navigate(ui.PageLogin)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.CurrentUserKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.SessionSavedAtKey)
	})
}

// SavedAt reports when the session blob was last written.
func (s *SessionService) SavedAt(ctx context.Context) (time.Time, bool, error) {
	raw, err := s.getStorageRepo().Get(ctx, common.SessionSavedAtKey)
	if err != nil || raw == nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("session timestamp: %w", err)
	}
	return t, true, nil
}

// PopulateSelectors fills the profile selectors with the backend's users.
// An empty backend is seeded with SeedUsers first. Existing selections that
// are still offered survive.
func (s *SessionService) PopulateSelectors(ctx context.Context) ([]models.User, error) {
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		s.log.Info(ctx, "no users found, seeding demo users", "count", len(SeedUsers))

		g, gctx := errgroup.WithContext(ctx)
		for _, u := range SeedUsers {
			u := u
			g.Go(func() error {
				if _, err := s.client.CreateUser(gctx, u); err != nil && !errors.Is(err, api.ErrConflict) {
					return fmt.Errorf("seed %s: %w", u.Email, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if users, err = s.client.ListUsers(ctx); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
	}

	s.fillSelectors(users)
	return users, nil
}

func (s *SessionService) fillSelectors(users []models.User) {
	opts := make([]ui.Option, 0, len(users))
	for _, u := range users {
		opts = append(opts, ui.Option{Value: u.ID, Label: u.Label()})
	}
	for _, id := range ui.ProfileSelectors {
		s.view.Selector(id).Populate(opts)
	}
}

// Ping checks that the backend answers its health probe.
func (s *SessionService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
