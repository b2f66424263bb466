// Package agent exposes sweep progress over HTTP while a benchmark runs.
package agent

import (
	"context"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Metrics counts sweep progress in its own Prometheus registry.
type Metrics struct {
	reg *prometheus.Registry

	trials  *prometheus.CounterVec
	written *prometheus.CounterVec
	read    *prometheus.CounterVec
	size    *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		trials: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "microbench",
			Name:      "trials_total",
			Help:      "Finished trials (disk) or batches (interval set) per operation",
		}, []string{"op"}),
		written: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "microbench",
			Name:      "bytes_written_total",
			Help:      "Bytes written by timed disk trials",
		}, []string{"op"}),
		read: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "microbench",
			Name:      "bytes_read_total",
			Help:      "Bytes read by timed disk trials",
		}, []string{"op"}),
		size: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "microbench",
			Name:      "current_size",
			Help:      "Workload size currently being measured",
		}, []string{"group"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Size(group string, size int) {
	m.size.WithLabelValues(group).Set(float64(size))
}

func (m *Metrics) Trial(op string, written, read int64) {
	m.trials.WithLabelValues(op).Inc()
	if written > 0 {
		m.written.WithLabelValues(op).Add(float64(written))
	}
	if read > 0 {
		m.read.WithLabelValues(op).Add(float64(read))
	}
}

// Server serves /health and /metrics.
type Server struct {
	metrics *Metrics
	srv     *http.Server
	ln      net.Listener
}

func NewServer(addr string, m *Metrics) *Server {
	s := &Server{metrics: m}
	s.srv = &http.Server{Addr: addr, Handler: s.Handler()}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.reg, promhttp.HandlerOpts{}))
	return mux
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.srv.Addr)
	}
	s.ln = ln
	log.WithField("addr", ln.Addr().String()).Info("Metrics server listening")
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()
	return nil
}

// Addr is the bound address, valid after Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
