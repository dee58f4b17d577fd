// Package server serves rendered previews over HTTP.
//
// Preview request may be bound to a slot (?slot=), a named presentation with
// its own loader.View. Requests of the same slot supersede each other: the
// older one is answered with 409 Conflict and never commits its result.
// Requests without slot are one-shot and keep no state.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"newsview/block"
	"newsview/config"
	"newsview/css"
	"newsview/loader"
	"newsview/render"
)

// RawSource provides stored documents as is.
type RawSource interface {
	Raw(ctx context.Context, id string) ([]byte, error)
}

type Options struct {
	Renderer *render.Renderer
	// Fetcher may be nil, then only posted preview state could be rendered.
	Fetcher loader.Fetcher
	// Raw enables document API, nil when documents are not stored locally.
	Raw   RawSource
	Theme block.Theme
	Page  render.PageOptions
	// Checker is optional stylesheet coverage check of rendered pages.
	Checker *css.Checker
	Report  *config.Report
}

type Server struct {
	opts Options
	log  *zap.Logger

	mu    sync.Mutex
	views map[string]*loader.View

	// config.Report could not be used concurrently
	rptMu sync.Mutex
}

func New(opts Options, log *zap.Logger) *Server {
	return &Server{
		opts:  opts,
		log:   log.Named("server"),
		views: make(map[string]*loader.View),
	}
}

// view returns view of the slot creating it on first use.
func (s *Server) view(slot string) *loader.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[slot]
	if !ok {
		v = loader.NewView(s.opts.Fetcher, s.opts.Theme, s.log.With(zap.String("slot", slot)))
		s.views[slot] = v
	}
	return v
}

func (s *Server) existingView(slot string) (*loader.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[slot]
	return v, ok
}

func (s *Server) dropView(slot string) bool {
	s.mu.Lock()
	v, ok := s.views[slot]
	delete(s.views, slot)
	s.mu.Unlock()

	if ok {
		v.Close()
	}
	return ok
}

// Close abandons all loads in flight.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot, v := range s.views {
		v.Close()
		delete(s.views, slot)
	}
}

func (s *Server) storeReport(name string, data []byte) {
	if s.opts.Report == nil {
		return
	}
	s.rptMu.Lock()
	defer s.rptMu.Unlock()
	s.opts.Report.StoreData(name, data)
}

// Run serves until context is canceled, then shuts server down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.log.Info("Serving previews", zap.String("listen", addr))

	select {
	case err := <-errc:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.Close()
	return srv.Shutdown(shutdownCtx)
}
