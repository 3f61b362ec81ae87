package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"menu-signage/app/controller"
	appmw "menu-signage/app/middleware"
	"menu-signage/app/router"
	"menu-signage/config"
	"menu-signage/db"
	"menu-signage/display"
	"menu-signage/logging"
	"menu-signage/models"
	"menu-signage/repository"
	"menu-signage/service"
)

// App is the wired signage server
type App struct {
	cfg     *config.Config
	server  *http.Server
	session *display.Session
	runner  *display.Runner
	initial *models.Catalog

	watcher   *service.FallbackWatcher
	probe     *service.ChromeProbe
	snapshots *repository.SnapshotStore
}

// Initialize connects the stores, loads settings and the first catalog, and
// builds the HTTP handler. Nothing is served until Run.
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	if dsn, err := cfg.Database.DSN(); err != nil {
		logging.Log.Warnf("⚠️ %v; running without database", err)
	} else if err := db.InitDB(ctx, dsn); err != nil {
		logging.Log.Warnf("⚠️ Database unavailable, running on fallback catalog: %v", err)
	}

	var snapshotStore repository.SnapshotStoreInterface
	if store, err := repository.OpenSnapshotStore(cfg.Catalog.SnapshotDBPath); err != nil {
		logging.Log.Warnf("⚠️ Catalog snapshot store unavailable: %v", err)
	} else {
		a.snapshots = store
		snapshotStore = store
	}

	fallback := &service.FileCatalogSource{Path: cfg.Catalog.FallbackPath}
	provider := service.NewCatalogProvider(a.primarySource(fallback), fallback, snapshotStore,
		cfg.Catalog.InitialTimeout, cfg.Catalog.RetryDelay)

	var settingsRepo repository.SettingsRepositoryInterface
	if db.Connected() {
		settingsRepo = repository.NewSettingsRepository()
	}
	initialSettings := models.DefaultDisplaySettings()
	initialSettings.Columns = cfg.Display.Columns
	initialSettings.RotationInterval = int(cfg.Display.RotationInterval / time.Millisecond)
	settingsSvc := service.NewSettingsService(settingsRepo, initialSettings)

	// settings and catalog are independent; load both at once
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := settingsSvc.DisplaySettings(gctx); err != nil {
			logging.Log.Warnf("⚠️ Failed to load display settings, using defaults: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		a.initial = provider.Initial(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	settings := settingsSvc.Current()
	logging.Log.Infof("✓ Display settings: %s", settings)

	hub := display.NewBroadcaster()
	a.session = display.NewSession(a.sizeProbe(ctx),
		display.WithColumns(settings.Columns),
		display.OnRender(hub.Publish),
	)
	a.runner = display.NewRunner(a.session, display.NewCoordinator(provider, a.session), settingsSvc, display.RunnerConfig{
		RotationInterval: time.Duration(settings.RotationInterval) * time.Millisecond,
		PollInterval:     cfg.Catalog.RefreshInterval,
		SettleDelay:      cfg.Display.FontSettleDelay,
	})

	if w, err := service.NewFallbackWatcher(cfg.Catalog.FallbackPath, a.runner.Invalidate); err != nil {
		logging.Log.Warnf("⚠️ Not watching fallback catalog: %v", err)
	} else {
		a.watcher = w
	}

	auth, err := appmw.NewAuthenticator(ctx, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authentication: %w", err)
	}
	if auth.DevelopmentMode() {
		logging.Log.Warnf("⚠️ No ADMIN_API_KEY or AUTH0_DOMAIN set: admin endpoints are open")
	}

	a.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(a.controllers(ctx, hub, settingsSvc, auth), auth),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// primarySource picks where catalog refreshes come from: the remote CMS
// when configured, else the database, else the fallback file itself.
func (a *App) primarySource(fallback display.CatalogSource) display.CatalogSource {
	switch {
	case a.cfg.Catalog.APIURL != "":
		logging.Log.Infof("✓ Catalog source: %s", a.cfg.Catalog.APIURL)
		return &service.HTTPCatalogSource{URL: a.cfg.Catalog.APIURL, Client: &http.Client{}}
	case db.Connected():
		logging.Log.Infof("✓ Catalog source: database")
		return &service.RepositoryCatalogSource{Repo: repository.NewCatalogRepository()}
	default:
		logging.Log.Infof("✓ Catalog source: %s", a.cfg.Catalog.FallbackPath)
		return fallback
	}
}

func (a *App) sizeProbe(ctx context.Context) display.SizeProbe {
	lines := display.LineProbe{Lines: a.cfg.Display.SlotLines}
	if a.cfg.Display.Probe != config.ProbeChrome {
		return lines
	}
	probe, err := service.NewChromeProbe(ctx, a.cfg.BaseURL, a.cfg.Display.ChromePath,
		a.cfg.Display.ViewportWidth, a.cfg.Display.ViewportHeight)
	if err != nil {
		logging.Log.Warnf("⚠️ Chrome unavailable, measuring slots by line count: %v", err)
		return lines
	}
	a.probe = probe
	return probe
}

func (a *App) controllers(ctx context.Context, hub *display.Broadcaster, settingsSvc *service.SettingsService, auth *appmw.Authenticator) *router.Controllers {
	cfg := a.cfg
	displayCtl := controller.NewDisplayController(a.session, hub, settingsSvc, a.runner, cfg.Display.KioskToken)

	c := &router.Controllers{
		Display: displayCtl,
		Auth:    controller.NewAuthController(cfg.Auth, auth),
		Settings: controller.NewSettingsController(settingsSvc, controller.InvalidatorFunc(func() {
			a.runner.Invalidate()
			displayCtl.ReloadPages()
		})),
	}

	assets := controller.AssetControllerConfig{
		Logos:         service.NewLogoService(cfg.Assets.LogoPath, filepath.Join(cfg.Assets.CacheDir, "logo")),
		Snapshots:     service.NewSnapshotService(cfg.BaseURL, cfg.Display.ChromePath),
		Viewport:      a.session,
		DriveFolderID: cfg.Assets.DriveFolderID,
		OnSync:        controller.InvalidatorFunc(displayCtl.ReloadPages),
	}
	if cfg.Assets.CredentialsPath != "" {
		if drive, err := service.NewDriveService(ctx, cfg.Assets.CredentialsPath); err != nil {
			logging.Log.Warnf("⚠️ Google Drive sync disabled: %v", err)
		} else {
			assets.Sync = service.NewAssetSyncService(drive, cfg.Assets.LogoDir)
		}
	}

	if db.Connected() {
		c.Catalog = controller.NewCatalogController(&service.RepositoryCatalogSource{Repo: repository.NewCatalogRepository()})
		c.Category = controller.NewCategoryController(repository.NewCategoryRepository(), a.runner)
		c.Product = controller.NewProductController(repository.NewProductRepository(), a.runner)
		assets.Migrate = db.Migrate
	} else {
		c.Catalog = controller.NewCatalogController(display.CatalogSourceFunc(func(ctx context.Context) (*models.Catalog, error) {
			return &models.Catalog{
				Categories:  a.session.Categories(),
				LastUpdated: time.Now().UTC(),
				Source:      "display-session",
			}, nil
		}))
	}
	c.Asset = controller.NewAssetController(assets)
	return c
}

// Run serves HTTP and drives the display until ctx is done or the server fails
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.server.Addr, err)
	}
	logging.Log.Infof("🚀 Server listening on %s", a.server.Addr)

	g, gctx := errgroup.WithContext(ctx)
	// request contexts end with the group so open display streams let go
	a.server.BaseContext = func(net.Listener) context.Context { return gctx }

	g.Go(func() error {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	// the chrome probe measures against this server, so load once it listens
	a.session.Load(a.initial)
	logging.Log.Infof("🎉 Display session %s started with %d categories", a.session.ID(), len(a.session.Categories()))

	g.Go(func() error { return ignoreCanceled(a.runner.Run(gctx)) })
	if a.watcher != nil {
		g.Go(func() error { return ignoreCanceled(a.watcher.Run(gctx)) })
	}
	return g.Wait()
}

// Close releases the browser and the stores
func (a *App) Close() {
	if a.probe != nil {
		a.probe.Close()
	}
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			logging.Log.Warnf("⚠️ Failed to close snapshot store: %v", err)
		}
	}
	if err := db.CloseDB(); err != nil {
		logging.Log.Warnf("⚠️ Failed to close database: %v", err)
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
