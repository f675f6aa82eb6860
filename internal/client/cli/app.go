package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ecosync/ecosync/internal/client/api"
	"github.com/ecosync/ecosync/internal/client/config"
	"github.com/ecosync/ecosync/internal/client/forms"
	"github.com/ecosync/ecosync/internal/client/localdb"
	"github.com/ecosync/ecosync/internal/client/services"
	"github.com/ecosync/ecosync/internal/client/session"
	"github.com/ecosync/ecosync/internal/client/ui"
	"github.com/ecosync/ecosync/internal/filex"
	"github.com/ecosync/ecosync/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	db       *sql.DB
	view     *ui.View
	sess     *session.Context
	sessions *services.SessionService
	lists    *services.ListService
	forms    *services.Dispatcher
	log      logging.Logger

	reader      *bufio.Reader
	out         io.Writer
	interactive bool
	restored    bool

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the session store, builds the REST client and wires the
// services to a terminal view on stdout.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if c.StorePath != ":memory:" {
		if err := filex.EnsureParentDir(c.StorePath); err != nil {
			return nil, err
		}
	}

	db, err := localdb.InitDatabase(ctx, c.StorePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.StorePath, "error", err)
		return nil, err
	}

	apiClient, err := api.NewHTTPClient(c.BaseURL(), c.RequestTimeout, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, apiClient, db, os.Stdin, os.Stdout, terminalWidth(os.Stdout), log)
	a.interactive = isTerminal(int(os.Stdin.Fd()))
	return a, nil
}

func newApp(c *config.Config, client api.Client, db *sql.DB, in io.Reader, out io.Writer, width int, log logging.Logger) *App {
	view := ui.NewView(out, ui.NewStyles(out, width))
	sess := session.New()
	transitions := forms.WithTransitions(func(form string, from, to forms.State) {
		log.Debug(context.Background(), "form state", "form", form, "from", from.String(), "to", to.String())
	})
	lists := services.NewListService(client, view, sess, log)
	sessions := services.NewSessionService(client, db, view, sess, lists, log, transitions)

	return &App{
		config:   c,
		db:       db,
		view:     view,
		sess:     sess,
		sessions: sessions,
		lists:    lists,
		forms:    services.NewDispatcher(client, view, sess, sessions, lists, log, transitions),
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Close releases the session store.
func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, fmt.Sprintf("switched to %s mode", mode))
	}
}

// checkOnline probes the backend once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.sessions.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes /health every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// restore applies the saved session once per process.
func (a *App) restore(ctx context.Context) error {
	if a.restored {
		return nil
	}
	a.restored = true
	_, err := a.sessions.Restore(ctx)
	return err
}

func (a *App) getStatus() string {
	s := ""
	if u := a.sess.User(); u != nil {
		s = u.Name + " "
	}
	if m := a.Mode(); m != ModeUnknown {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
