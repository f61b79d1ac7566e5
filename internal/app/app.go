package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/wallfeed/internal/actions"
	"github.com/five82/wallfeed/internal/config"
	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/kv"
	"github.com/five82/wallfeed/internal/logging"
	"github.com/five82/wallfeed/internal/prefs"
	"github.com/five82/wallfeed/internal/state"
	"github.com/five82/wallfeed/internal/ui"
	"github.com/five82/wallfeed/internal/wallpaper"
	"github.com/five82/wallfeed/internal/web"
)

// Options configure the wallfeed application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/wallfeed/prefs.toml
	Verbose    bool   // debug logging
	JSONLogs   bool
	// LogToFile sends logs to the configured log file instead of stderr.
	LogToFile bool
	// Clipboard overrides the system clipboard used by share.
	Clipboard func(string) error
}

// Env is the wired runtime shared by every command.
type Env struct {
	Config  config.Config
	Client  *feed.Client
	KV      kv.Store
	Store   *state.Store
	Actions *actions.Actions
	Log     *logrus.Entry
}

// Setup loads configuration, configures logging, opens storage and restores
// the user's favorites and downloads. Callers must Close the Env.
func Setup(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logOpts := logging.Options{Level: cfg.LogLevel, JSON: opts.JSONLogs}
	if opts.Verbose {
		logOpts.Level = "debug"
	}
	if opts.LogToFile {
		logOpts.File = cfg.LogPath()
	}
	if err := logging.Configure(logOpts); err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	log := logging.NewLogger("app")

	client, err := feed.NewClient(feed.Options{
		BaseURL:  cfg.BaseURL,
		PageSize: cfg.PageSize,
		Total:    cfg.Total,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init feed client: %w", err)
	}

	storage, err := kv.Open(ctx, kv.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		DSN:    cfg.Storage.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store := state.New(state.Options{
		Source: client,
		KV:     storage,
		Logger: logging.NewLogger("state"),
	})
	if err := store.Load(ctx); err != nil {
		log.WithError(err).Warn("starting without saved favorites and downloads")
	}

	acts := actions.New(actions.Options{
		Marker:      store,
		Source:      client,
		DownloadDir: cfg.DownloadDir,
		CacheDir:    cfg.CacheDir,
		Setter:      wallpaper.NewCommandSetter(cfg.WallpaperCommand),
		Clipboard:   opts.Clipboard,
		Logger:      logging.NewLogger("actions"),
	})

	log.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"storage":  cfg.Storage.Driver,
	}).Debug("wallfeed initialised")

	return &Env{Config: cfg, Client: client, KV: storage, Store: store, Actions: acts, Log: log}, nil
}

// Close flushes pending writes and releases storage and the log file.
func (e *Env) Close() error {
	e.Store.Close()
	err := e.KV.Close()
	logging.Close()
	return err
}

// Resolve finds the record for id among the loaded items and favorites,
// falling back to the synthetic record for numeric ids within the total.
func (e *Env) Resolve(id string) (feed.Record, bool) {
	if rec, ok := e.Store.Lookup(id); ok {
		return rec, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return feed.Record{}, false
	}
	return e.Client.Record(n)
}

// Run boots the wallfeed TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts.LogToFile = true
	env, err := Setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		env.Log.WithError(err).Warn("using default preferences")
	}

	// The UI shows a loading state until the first page lands.
	StartLoader(ctx, env.Store, defaultRetryInterval, env.Log)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     env.Store,
		Actions:   env.Actions,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}

// Serve loads the first page and serves the JSON API until ctx is cancelled.
func Serve(ctx context.Context, opts Options, listen string) error {
	env, err := Setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	addr := env.Config.Listen
	if strings.TrimSpace(listen) != "" {
		addr = listen
	}

	StartLoader(ctx, env.Store, defaultRetryInterval, env.Log)

	router := web.NewRouter(web.Options{
		Store:   env.Store,
		Actions: env.Actions,
		Resolve: env.Resolve,
		Logger:  logging.NewLogger("web"),
	})
	env.Log.WithField("addr", addr).Info("serving wallpaper API")
	return web.Serve(ctx, addr, router)
}
