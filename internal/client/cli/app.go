package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/cache"
	"github.com/dmitrijs2005/gophtrip/internal/client/config"
	"github.com/dmitrijs2005/gophtrip/internal/client/gateway"
	"github.com/dmitrijs2005/gophtrip/internal/client/geo"
	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/client/planner"
	"github.com/dmitrijs2005/gophtrip/internal/client/render"
	"github.com/dmitrijs2005/gophtrip/internal/client/services"
	"github.com/dmitrijs2005/gophtrip/internal/client/storage"
	"github.com/dmitrijs2005/gophtrip/internal/client/store"
	"github.com/dmitrijs2005/gophtrip/internal/client/web"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
	"github.com/dmitrijs2005/gophtrip/internal/netx"
)

const (
	retryBackoff = 200 * time.Millisecond
	pingTimeout  = 2 * time.Second
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *store.Store
	authService services.AuthService
	tripService services.TripService
	planner     *planner.Planner
	geo         *geo.Client
	mapRenderer *render.GeoJSONRenderer
	closers     []io.Closer

	user   *models.User
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, c.LogFormat)

	repo, err := storage.Open(ctx, c.StorageBackend, c.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing storage: %w", err)
	}
	st := store.New(repo)
	closers := []io.Closer{st}

	httpClient := netx.NewClient(c.RequestTimeout, logger.With("module", "http"),
		netx.WithRetries(uint64(max(0, c.RequestRetries)), retryBackoff))

	var gw gateway.Gateway
	if c.OpenFlightsDir != "" {
		csvGateway, err := gateway.LoadCSVGateway(c.OpenFlightsDir)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("error loading OpenFlights data: %w", err)
		}
		gw = csvGateway
	} else {
		gw = gateway.NewHTTPGateway(c.GatewayURL, httpClient)
	}

	if c.RedisAddr != "" {
		rc := cache.NewRedisCache(c.RedisAddr, c.RedisPassword, c.RedisDB, c.CacheTTL)
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn(ctx, "redis unavailable, caching disabled", "addr", c.RedisAddr, "error", err)
			_ = rc.Close()
		} else {
			gw = gateway.NewCachedGateway(gw, rc, logger.With("module", "cache"))
			closers = append(closers, rc)
		}
	}

	mapRenderer := render.NewGeoJSONRenderer(c.MapPath)
	renderer := render.Multi{mapRenderer, render.NewTextRenderer(os.Stdout)}

	return &App{
		config:      c,
		logger:      logger,
		store:       st,
		authService: services.NewAuthService(st, logger.With("module", "auth")),
		tripService: services.NewTripService(st, logger.With("module", "trips")),
		planner:     planner.New(gw, renderer, logger.With("module", "planner")),
		geo: geo.NewClient(geo.Config{
			OpenCageKey: c.OpenCageKey,
			MapboxToken: c.MapboxToken,
		}, httpClient),
		mapRenderer: mapRenderer,
		closers:     closers,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		now:         time.Now,
	}, nil
}

// Run starts the web viewer when configured with -serve, the REPL otherwise.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.config.Serve {
		a.Serve(ctx)
		return
	}
	a.Root(ctx)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error(context.Background(), "close", "error", err)
		}
	}
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Serve runs the trip viewer until interrupted.
func (a *App) Serve(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	a.initSignalHandler(cancelFunc)

	router := web.NewRouter(a.authService, a.tripService, a.logger.With("module", "web"), a.now)
	srv := web.NewServer(a.config.WebAddr, router, a.logger)

	if err := srv.Run(ctx); err != nil {
		a.logger.Error(ctx, "web server failed", "error", err)
	}
}

func (a *App) isSignedIn() bool {
	return a.user != nil
}

func (a *App) isPlanning() bool {
	return a.planner.Planning()
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	s := a.user.Username
	if sess, err := a.planner.Session(); err == nil {
		s = fmt.Sprintf("%s, planning %s: %d legs", s, sess.Country, sess.Len())
	}
	return fmt.Sprintf("(%s)", s)
}

// Root resumes the stored sign-in, if any, and runs the REPL on stdin.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to gophtrip (type 'help' for commands)")

	if u, err := a.authService.CurrentUser(ctx); err == nil {
		a.user = u
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
