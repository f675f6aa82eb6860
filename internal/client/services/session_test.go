package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosync/ecosync/internal/client/api"
	"github.com/ecosync/ecosync/internal/client/forms"
	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/client/repositories/storage"
	"github.com/ecosync/ecosync/internal/client/ui"
	"github.com/ecosync/ecosync/internal/common"
)

func storedUser(t *testing.T, h *harness) *models.User {
	t.Helper()
	blob, err := storage.NewSQLiteRepository(h.db).Get(context.Background(), common.CurrentUserKey)
	require.NoError(t, err)
	if blob == nil {
		return nil
	}
	var u models.User
	require.NoError(t, json.Unmarshal(blob, &u))
	return &u
}

func TestLogin_MatchesEmailIgnoringCase(t *testing.T) {
	fc := &fakeClient{Users: []models.User{
		{ID: 1, Name: "Alice", Email: "alice@uni.edu", Department: "CSE", Semester: 3},
		{ID: 2, Name: "Bob", Email: "Bob@Uni.edu", Department: "IT", Semester: 5},
	}}
	h := newHarness(t, fc)

	out, err := h.sessions.Login(context.Background(), "  BOB@uni.EDU ")
	require.NoError(t, err)

	assert.Equal(t, forms.Success, out.State)
	assert.Equal(t, "Success! Redirecting...", out.Message)
	assert.Contains(t, h.view.Region(ui.RegionLogin), "Success! Redirecting...")

	id, ok := h.sess.UserID()
	require.True(t, ok)
	assert.EqualValues(t, 2, id)
	assert.Equal(t, ui.PageLanding, h.view.Page())
	assert.Contains(t, h.view.Region(ui.RegionHeader), "Bob")

	for _, sel := range ui.ProfileSelectors {
		got, ok := h.view.Selector(sel).Selected()
		assert.True(t, ok, sel)
		assert.EqualValues(t, 2, got, sel)
		assert.Len(t, h.view.Selector(sel).Options(), 2, sel)
	}

	stored := storedUser(t, h)
	require.NotNil(t, stored)
	assert.EqualValues(t, 2, stored.ID)
	assert.Empty(t, fc.CreateCalls)
}

func TestLogin_UnknownEmailNeverCreatesUser(t *testing.T) {
	b, h := backendHarness(t)
	b.AddUser(alice)

	for i := 0; i < 3; i++ {
		out, err := h.sessions.Login(context.Background(), "ghost@uni.edu")
		require.NoError(t, err)
		assert.Equal(t, forms.DomainError, out.State)
		assert.Equal(t, "User not found. Please register.", out.Message)
	}

	assert.Zero(t, b.Count("POST /api/v1/users/"))
	assert.Len(t, b.Users(), 1)
	assert.False(t, h.sess.LoggedIn())
	assert.Nil(t, storedUser(t, h))
	assert.Equal(t, ui.PageLogin, h.view.Page())
}

func TestLogin_ServerUnreachable(t *testing.T) {
	fc := &fakeClient{ListUsersErr: fmt.Errorf("GET /users/: %w", api.ErrUnavailable)}
	h := newHarness(t, fc)

	out, err := h.sessions.Login(context.Background(), "alice@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, forms.NetworkError, out.State)
	assert.Contains(t, h.view.Region(ui.RegionLogin), "Error connecting to server.")
}

func TestLogin_ServerErrorIsReportedAsConnectionError(t *testing.T) {
	b, h := backendHarness(t)
	b.FailNext("GET /api/v1/users/", http.StatusInternalServerError, 1)

	out, err := h.sessions.Login(context.Background(), "alice@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, forms.NetworkError, out.State)
}

func TestLogin_RequiresEmail(t *testing.T) {
	fc := &fakeClient{}
	h := newHarness(t, fc)

	_, err := h.sessions.Login(context.Background(), "   ")
	assert.ErrorIs(t, err, forms.ErrValidation)
	assert.Zero(t, fc.ListCalls)
}

func TestRestore_ReproducesLoginHeader(t *testing.T) {
	fc := &fakeClient{Users: []models.User{{ID: 7, Name: "Dana", Email: "dana@uni.edu", Department: "Design", Semester: 6}}}
	first := newHarness(t, fc)

	_, err := first.sessions.Login(context.Background(), "dana@uni.edu")
	require.NoError(t, err)
	loginHeader := first.view.Region(ui.RegionHeader)

	second := newHarnessOn(t, fc, first.db)
	_, err = second.sessions.PopulateSelectors(context.Background())
	require.NoError(t, err)
	listCalls := fc.ListCalls

	restored, err := second.sessions.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)

	assert.Equal(t, loginHeader, second.view.Region(ui.RegionHeader))
	assert.Equal(t, first.sess.User(), second.sess.User())
	assert.Equal(t, ui.PageLanding, second.view.Page())
	assert.Equal(t, listCalls, fc.ListCalls, "restore does not re-validate against the server")

	got, ok := second.view.Selector(ui.SelectMatches).Selected()
	assert.True(t, ok)
	assert.EqualValues(t, 7, got)
}

func TestRestore_NothingStored(t *testing.T) {
	h := newHarness(t, &fakeClient{})

	restored, err := h.sessions.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
	assert.False(t, h.sess.LoggedIn())
}

func TestRestore_DiscardsUnreadableBlob(t *testing.T) {
	h := newHarness(t, &fakeClient{})
	repo := storage.NewSQLiteRepository(h.db)
	require.NoError(t, repo.Set(context.Background(), common.CurrentUserKey, []byte("{not json")))

	restored, err := h.sessions.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)

	blob, err := repo.Get(context.Background(), common.CurrentUserKey)
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestLogout(t *testing.T) {
	fc := &fakeClient{Users: []models.User{{ID: 1, Name: "Alice", Email: "alice@uni.edu"}}}
	h := newHarness(t, fc)
	ctx := context.Background()

	_, err := h.sessions.Login(ctx, "alice@uni.edu")
	require.NoError(t, err)
	_, ok, err := h.sessions.SavedAt(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, h.sessions.Logout(ctx))

	assert.False(t, h.sess.LoggedIn())
	assert.Nil(t, storedUser(t, h))
	assert.Contains(t, h.view.Region(ui.RegionHeader), "not signed in")
	assert.Equal(t, ui.PageLogin, h.view.Page())
	_, selected := h.view.Selector(ui.SelectUpload).Selected()
	assert.False(t, selected)

	_, ok, err = h.sessions.SavedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	restored, err := h.sessions.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestUpdateAuthState_RecordsSaveTime(t *testing.T) {
	h := newHarness(t, &fakeClient{})
	fixed := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	h.sessions.now = func() time.Time { return fixed }

	require.NoError(t, h.sessions.UpdateAuthState(context.Background(), models.User{ID: 3, Name: "Carol"}))

	at, ok, err := h.sessions.SavedAt(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, fixed.Equal(at))
}

func TestDemoLogin_CreatesOnceThenReuses(t *testing.T) {
	b, h := backendHarness(t)
	ctx := context.Background()

	out, err := h.sessions.DemoLogin(ctx)
	require.NoError(t, err)
	require.Equal(t, forms.Success, out.State)
	first := h.sess.User()
	require.NotNil(t, first)
	assert.Equal(t, "demo@ecosync.com", first.Email)

	require.NoError(t, h.sessions.Logout(ctx))

	out, err = h.sessions.DemoLogin(ctx)
	require.NoError(t, err)
	require.Equal(t, forms.Success, out.State)
	assert.Equal(t, first.ID, h.sess.User().ID)

	demo := 0
	for _, u := range b.Users() {
		if u.Email == DemoProfile.Email {
			demo++
		}
	}
	assert.Equal(t, 1, demo)
}

func TestDemoLogin_Unreachable(t *testing.T) {
	h := newHarness(t, &fakeClient{CreateUserErr: api.ErrUnavailable})

	out, err := h.sessions.DemoLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, forms.NetworkError, out.State)
	assert.False(t, h.sess.LoggedIn())
}

func TestPopulateSelectors_SeedsEmptyBackend(t *testing.T) {
	b, h := backendHarness(t)

	users, err := h.sessions.PopulateSelectors(context.Background())
	require.NoError(t, err)
	require.Len(t, users, len(SeedUsers))
	assert.Equal(t, len(SeedUsers), b.Count("POST /api/v1/users/"))

	labels := map[string]bool{}
	for _, o := range h.view.Selector(ui.SelectBarter).Options() {
		labels[o.Label] = true
	}
	assert.True(t, labels["Alice Logistics (Logistics)"])
	assert.True(t, labels["Bob IT Solutions (IT)"])
	assert.True(t, labels["Charlie Sales (Sales)"])

	_, err = h.sessions.PopulateSelectors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(SeedUsers), b.Count("POST /api/v1/users/"), "seeding happens only on an empty backend")
}

func TestPopulateSelectors_KeepsSelectionThenSelects(t *testing.T) {
	fc := &fakeClient{Users: []models.User{{ID: 1, Name: "Alice", Email: "alice@uni.edu"}}}
	h := newHarness(t, fc)

	ok := h.view.Selector(ui.SelectUpload).Select(1)
	assert.False(t, ok, "nothing to select before populate")

	_, err := h.sessions.PopulateSelectors(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.sessions.UpdateAuthState(context.Background(), fc.Users[0]))

	got, ok := h.view.Selector(ui.SelectUpload).Selected()
	assert.True(t, ok)
	assert.EqualValues(t, 1, got)
}

func TestPopulateSelectors_SeedFailure(t *testing.T) {
	h := newHarness(t, &fakeClient{CreateUserErr: &api.StatusError{Code: 500, Detail: "db down"}})

	_, err := h.sessions.PopulateSelectors(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestPing(t *testing.T) {
	h := newHarness(t, &fakeClient{PingErr: api.ErrUnavailable})
	assert.ErrorIs(t, h.sessions.Ping(context.Background()), api.ErrUnavailable)
}

func TestRestore_KeepsSavedTime(t *testing.T) {
	fc := &fakeClient{Users: []models.User{{ID: 1, Name: "Alice", Email: "alice@uni.edu"}}}
	loginAt := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	first := newHarness(t, fc)
	first.sessions.now = func() time.Time { return loginAt }

	_, err := first.sessions.Login(context.Background(), "alice@uni.edu")
	require.NoError(t, err)

	second := newHarnessOn(t, fc, first.db)
	second.sessions.now = func() time.Time { return loginAt.Add(72 * time.Hour) }

	restored, err := second.sessions.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, restored)

	at, ok, err := second.sessions.SavedAt(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, loginAt.Equal(at), "saved at %v, login was %v", at, loginAt)
}

func TestLogin_LoadsBarterItemsOfProfile(t *testing.T) {
	b, h := backendHarness(t)
	a := b.AddUser(alice)
	item := b.AddItem(a.ID, "Drafter", "Stationery")

	_, err := h.sessions.Login(context.Background(), "alice@uni.edu")
	require.NoError(t, err)

	assert.Equal(t, []ui.Option{{Value: item.ID, Label: "Drafter"}}, h.view.Selector(ui.SelectBarterItem).Options())
	assert.Empty(t, h.view.Region(ui.RegionItemsList), "items are offered, not rendered")

	out, err := h.dispatch.PostBarterIntent(context.Background(), 0, models.BarterIntentCreate{ItemID: 0, WantCategory: "Books"})
	assert.ErrorIs(t, err, forms.ErrValidation, "an offered item still has to be picked")
	assert.Equal(t, forms.Outcome{}, out)

	require.True(t, h.view.Selector(ui.SelectBarterItem).Select(item.ID))
	out, err = h.dispatch.PostBarterIntent(context.Background(), 0, models.BarterIntentCreate{WantCategory: "Books"})
	require.NoError(t, err)
	assert.Equal(t, forms.Success, out.State)

	require.NoError(t, h.sessions.Logout(context.Background()))
	assert.Empty(t, h.view.Selector(ui.SelectBarterItem).Options())
}
