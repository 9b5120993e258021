// Package stub serves a TKO frontend's JSON endpoints from a results
// fixture tree, for local development and integration tests.
package stub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/s22625/tkoview/internal/config"
	"github.com/s22625/tkoview/internal/results"
)

// Server answers the RPC, log fetcher and raw results endpoints the client
// talks to, backed by a results.Store.
type Server struct {
	store  *results.Store
	cfg    *config.Config
	logger zerolog.Logger
}

func New(store *results.Store, cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{store: store, cfg: cfg, logger: logger}
}

// Handler builds the route table. Endpoint paths come from the same config
// the client derives its URLs from.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// JSON endpoints
	r.Post(s.cfg.RPCPath, s.rpcHandler)
	r.Post(s.cfg.LogFetchPath, s.rpcHandler)

	// Browser surfaces
	r.Get(s.cfg.RetrieveLogsPath, s.retrieveLogsHandler)
	r.Handle(s.cfg.ResultsPath+"*", http.StripPrefix(s.cfg.ResultsPath, http.FileServer(http.Dir(s.store.Root()))))

	return r
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Int("tests", s.store.TestCount()).Msg("stub server started")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		s.logger.Info().Msg("stub server stopped")
		return nil
	case err := <-errCh:
		if err != nil {
			return err
		}
		s.logger.Info().Msg("stub server stopped")
		return nil
	}
}
