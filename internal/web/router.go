// Package web serves wallfeed's state as a small JSON API so browser or
// script clients can browse the same feed the terminal UI shows.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/five82/wallfeed/internal/actions"
	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/logging"
	"github.com/five82/wallfeed/internal/state"
)

const shutdownTimeout = 5 * time.Second

// Resolver maps a wallpaper id to its record, including ids not yet loaded.
type Resolver func(id string) (feed.Record, bool)

// Options configure the API.
type Options struct {
	Store   *state.Store
	Actions *actions.Actions // nil disables the action routes
	Resolve Resolver         // nil falls back to Store.Lookup
	Logger  *logrus.Entry
}

type server struct {
	store   *state.Store
	actions *actions.Actions
	resolve Resolver
	log     *logrus.Entry
}

// NewRouter builds the API router.
func NewRouter(opts Options) *mux.Router {
	s := &server{store: opts.Store, actions: opts.Actions, resolve: opts.Resolve, log: opts.Logger}
	if s.log == nil {
		s.log = logging.NewLogger("web")
	}
	if s.resolve == nil {
		s.resolve = s.store.Lookup
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/wallpapers", s.listWallpapers).Methods(http.MethodGet)
	api.HandleFunc("/wallpapers/refresh", s.refresh).Methods(http.MethodPost)
	api.HandleFunc("/wallpapers/more", s.loadMore).Methods(http.MethodPost)
	api.HandleFunc("/wallpapers/{id}/download", s.download).Methods(http.MethodPost)
	api.HandleFunc("/wallpapers/{id}/wallpaper", s.setWallpaper).Methods(http.MethodPost)
	api.HandleFunc("/wallpapers/{id}/share", s.share).Methods(http.MethodPost)
	api.HandleFunc("/categories", s.categories).Methods(http.MethodGet)
	api.HandleFunc("/favorites", s.favorites).Methods(http.MethodGet)
	api.HandleFunc("/favorites/{id}", s.toggleFavorite).Methods(http.MethodPost)
	return r
}

// Serve runs the API on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return serveListener(ctx, ln, handler)
}

func serveListener(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Debug("request")
	})
}
