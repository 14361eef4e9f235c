package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/vitapick/internal/client/api"
	"github.com/dmitrijs2005/vitapick/internal/client/client"
	"github.com/dmitrijs2005/vitapick/internal/client/config"
	"github.com/dmitrijs2005/vitapick/internal/client/metrics"
	"github.com/dmitrijs2005/vitapick/internal/client/push"
	"github.com/dmitrijs2005/vitapick/internal/client/services"
	"github.com/dmitrijs2005/vitapick/internal/client/storage"
	"github.com/dmitrijs2005/vitapick/internal/client/tokenstore"
	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/dmitrijs2005/vitapick/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// App is the wired client behind the command tree.
type App struct {
	config *config.Config
	out    io.Writer
	errOut io.Writer
	log    logging.Logger

	db        *sql.DB
	store     *tokenstore.Store
	registry  *prometheus.Registry
	api       *api.API
	provider  *push.StaticProvider
	sync      *push.Synchronizer
	auth      services.AuthService
	dashboard *services.DashboardService

	unsubscribe func()
}

// NewApp opens the local database and builds every service on top of it.
// The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, out, errOut io.Writer) (*App, error) {
	log := logging.NewTextLogger(errOut, c.LogLevel)

	db, err := storage.Open(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		config:   c,
		out:      out,
		errOut:   errOut,
		log:      log,
		db:       db,
		store:    tokenstore.New(db, log),
		registry: prometheus.NewRegistry(),
	}
	m := metrics.New(a.registry)

	httpClient, err := client.New(client.Options{
		BaseURL:        c.BaseURL,
		HTTPClient:     &http.Client{Timeout: c.RequestTimeout},
		RefreshTimeout: c.RefreshTimeout,
		Logger:         log,
		Metrics:        m,
		Redirector:     client.RedirectFunc(a.redirectToLogin),
	}, a.store)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a.api = api.New(httpClient)
	a.provider = push.NewStaticProvider(c.PushDeviceToken, push.ParsePermission(c.PushPermission))
	a.provider.SetSupported(c.PushEnabled)
	a.sync = push.NewSynchronizer(a.store, a.provider, a.api, log, m)
	a.auth = services.NewAuthService(a.api, a.store, a.sync, log)
	a.dashboard = services.NewDashboardService(a.api)
	a.unsubscribe = a.provider.Subscribe(a.printMessage)

	return a, nil
}

func (a *App) Close() error {
	a.unsubscribe()
	return a.db.Close()
}

func (a *App) redirectToLogin(ctx context.Context) {
	fmt.Fprintf(a.errOut, "Session expired. Sign in again with `vitapick login` (%s).\n", common.LoginEntryPoint)
}

func (a *App) printMessage(msg push.Message) {
	fmt.Fprintf(a.out, "[notification] %s: %s\n", msg.Title, msg.Body)
}
