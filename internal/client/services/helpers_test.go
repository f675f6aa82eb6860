package services

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecosync/ecosync/internal/client/api"
	"github.com/ecosync/ecosync/internal/client/apitest"
	"github.com/ecosync/ecosync/internal/client/localdb"
	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/client/session"
	"github.com/ecosync/ecosync/internal/client/ui"
	"github.com/ecosync/ecosync/internal/logging"
)

// ---- helpers ----

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func itoa(i int64) string { return strconv.FormatInt(i, 10) }

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := localdb.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newView() *ui.View {
	return ui.NewView(nil, ui.NewStyles(&bytes.Buffer{}, 0))
}

type harness struct {
	db       *sql.DB
	view     *ui.View
	sess     *session.Context
	sessions *SessionService
	lists    *ListService
	dispatch *Dispatcher
}

func newHarness(t *testing.T, client api.Client) *harness {
	t.Helper()
	return newHarnessOn(t, client, setupDB(t))
}

func newHarnessOn(t *testing.T, client api.Client, db *sql.DB) *harness {
	t.Helper()
	log := logging.Discard()
	h := &harness{db: db, view: newView(), sess: session.New()}
	h.lists = NewListService(client, h.view, h.sess, log)
	h.sessions = NewSessionService(client, db, h.view, h.sess, h.lists, log)
	h.dispatch = NewDispatcher(client, h.view, h.sess, h.sessions, h.lists, log)
	return h
}

// backendHarness wires the services to a fake backend over real HTTP.
func backendHarness(t *testing.T) (*apitest.Backend, *harness) {
	t.Helper()
	b := apitest.NewBackend(t)
	c, err := api.NewHTTPClient(b.BaseURL(), 0, logging.Discard())
	require.NoError(t, err)
	return b, newHarness(t, c)
}

func writePNG(t *testing.T, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{200, 40, 40, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

var (
	alice = models.UserCreate{Name: "Alice", Email: "alice@uni.edu", Semester: 3, Department: "CSE", Hostel: "H1"}
	bob   = models.UserCreate{Name: "Bob", Email: "bob@uni.edu", Semester: 5, Department: "IT", Hostel: "H2"}
)

// ---- fake client ----

// fakeClient implements api.Client for unit tests. It is safe for the
// concurrent calls made while seeding users.
type fakeClient struct {
	mu sync.Mutex

	PingErr error

	Users        []models.User
	ListUsersErr error
	ListCalls    int

	CreateUserRet   *models.User
	CreateUserErr   error
	CreateUserBlock chan struct{}
	CreateCalls     []models.UserCreate

	Items        []models.Item
	ListItemsErr error

	UploadRet *models.PhotoUploadResult
	UploadErr error

	IntentRet  *models.BarterIntentResult
	IntentErr  error
	LastIntent models.BarterIntentCreate

	Reports        []models.LostFoundReport
	ListReportsErr error
	LastFilter     models.LostFoundFilter
	LFPhotoURL     string
	LFPhotoErr     error
	CreateLFErr    error
	LastLostFound  models.LostFoundCreate

	Matches     []models.Match
	MatchesErr  error
	AcceptRet   *models.AcceptResult
	AcceptErr   error
	LastAccept  [2]int64
	Board       []models.LeaderboardEntry
	BoardErr    error
	LastUserArg int64
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) ListUsers(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	return append([]models.User(nil), f.Users...), f.ListUsersErr
}

func (f *fakeClient) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	if f.CreateUserBlock != nil {
		<-f.CreateUserBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls = append(f.CreateCalls, in)
	if f.CreateUserErr != nil {
		return nil, f.CreateUserErr
	}
	if f.CreateUserRet != nil {
		return f.CreateUserRet, nil
	}
	u := models.User{ID: int64(len(f.Users) + 1), Name: in.Name, Email: in.Email, Semester: in.Semester, Department: in.Department, Hostel: in.Hostel}
	f.Users = append(f.Users, u)
	return &u, nil
}

func (f *fakeClient) ListUserItems(_ context.Context, userID int64) ([]models.Item, error) {
	f.LastUserArg = userID
	return f.Items, f.ListItemsErr
}

func (f *fakeClient) UploadItemPhoto(_ context.Context, userID int64, _ models.Photo) (*models.PhotoUploadResult, error) {
	f.LastUserArg = userID
	return f.UploadRet, f.UploadErr
}

func (f *fakeClient) CreateBarterIntent(_ context.Context, userID int64, in models.BarterIntentCreate) (*models.BarterIntentResult, error) {
	f.LastUserArg = userID
	f.LastIntent = in
	return f.IntentRet, f.IntentErr
}

func (f *fakeClient) ListLostFound(_ context.Context, filter models.LostFoundFilter) ([]models.LostFoundReport, error) {
	f.LastFilter = filter
	return f.Reports, f.ListReportsErr
}

func (f *fakeClient) UploadLostFoundPhoto(context.Context, models.Photo) (string, error) {
	return f.LFPhotoURL, f.LFPhotoErr
}

func (f *fakeClient) CreateLostFound(_ context.Context, userID int64, in models.LostFoundCreate) (*models.LostFoundReport, error) {
	f.LastUserArg = userID
	f.LastLostFound = in
	if f.CreateLFErr != nil {
		return nil, f.CreateLFErr
	}
	return &models.LostFoundReport{ID: 1, UserID: userID, ItemName: in.ItemName, Type: in.Type}, nil
}

func (f *fakeClient) ListMatches(_ context.Context, userID int64) ([]models.Match, error) {
	f.LastUserArg = userID
	return f.Matches, f.MatchesErr
}

func (f *fakeClient) AcceptMatch(_ context.Context, matchID, userID int64) (*models.AcceptResult, error) {
	f.LastAccept = [2]int64{matchID, userID}
	return f.AcceptRet, f.AcceptErr
}

func (f *fakeClient) Leaderboard(context.Context) ([]models.LeaderboardEntry, error) {
	return f.Board, f.BoardErr
}
