package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/chat"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/client"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/config"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/conversation"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/credentials"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/services"
	"github.com/dmitrijs2005/cbtcompanion/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	ModeDemo    Mode = "demo"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	authService services.AuthService
	chat        *chat.Controller
	conv        *conversation.Manager
	api         pinger

	mu     sync.RWMutex
	userID string
	mode   Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and wires the services for cfg. With the
// backend disabled the app runs in demo mode and never contacts a server.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := credentials.NewSQLiteStore(db, log)

	apiClient, err := client.NewHTTPClient(cfg.APIBaseURL, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	conv := conversation.NewManager(apiClient)

	var (
		auth services.AuthService
		ctrl *chat.Controller
		mode Mode
	)
	if cfg.EnableBackend {
		auth = services.NewAuthService(apiClient, store, services.WithAuthLogger(log))
		ctrl = chat.NewController(conv, chat.NewBackendResponder(apiClient),
			chat.WithHistorySource(apiClient),
			chat.WithCredentialClearer(store),
			chat.WithLogger(log))
		mode = ModeOffline
	} else {
		auth = services.NewAuthService(apiClient, store,
			services.WithAuthLogger(log),
			services.WithDemoMode(cfg.AuthDemoDelay))
		ctrl = chat.NewController(conv, chat.NewDemoResponder(nil, cfg.DemoDelay),
			chat.WithLogger(log))
		mode = ModeDemo
	}

	a := newApp(cfg, log, auth, ctrl, conv, apiClient, os.Stdin, os.Stdout)
	a.db = db
	a.mode = mode
	return a, nil
}

func newApp(cfg *config.Config, log logging.Logger, auth services.AuthService, ctrl *chat.Controller,
	conv *conversation.Manager, api pinger, in io.Reader, out io.Writer) *App {
	return &App{
		config:      cfg,
		log:         log,
		authService: auth,
		chat:        ctrl,
		conv:        conv,
		api:         api,
		reader:      bufio.NewReader(in),
		out:         out,
	}
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

func (a *App) setUser(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userID = id
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userID != ""
}

// Run restores a stored session, starts the connectivity watcher and blocks
// in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.Mode() != ModeDemo {
		a.checkOnline(ctx)
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "closing database", "error", err)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.api.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
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

// report prints err in user facing form. A session expiry also logs the
// user out locally.
func (a *App) report(err error) {
	if route := chat.RouteFor(err); route != nil {
		a.follow(route)
		return
	}
	switch {
	case err == nil:
		return
	case errors.Is(err, services.ErrValidation):
		fmt.Fprintln(a.out, "Error:", validationMessage(err))
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Error: server unavailable, please try again later.")
	case client.Detail(err) != "":
		fmt.Fprintln(a.out, "Error:", client.Detail(err))
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
}
