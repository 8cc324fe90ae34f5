package diag

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grailbio/base/log"
)

// Server is the optional diagnostics HTTP surface, started only when
// -diag-addr is non-empty. It is additive instrumentation around a pass,
// never part of the overlap-resolution engine itself.
type Server struct {
	Metrics *Metrics

	mu    chan struct{} // 1-buffered mutex: guards stats.
	stats PassStats
	srv   *http.Server
}

// NewServer builds a Server routed with gorilla/mux.
func NewServer(addr string, metrics *Metrics) *Server {
	s := &Server{Metrics: metrics, mu: make(chan struct{}, 1)}
	s.mu <- struct{}{}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

// SetStats replaces the diagnostics snapshot served at /stats, normally
// called once per completed pass.
func (s *Server) SetStats(st PassStats) {
	<-s.mu
	s.stats = st
	s.mu <- struct{}{}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	<-s.mu
	st := s.stats
	s.mu <- struct{}{}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		log.Error.Printf("dataselect: encode /stats response: %v", err)
	}
}

// ListenAndServe blocks serving diagnostics until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		return s.srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
