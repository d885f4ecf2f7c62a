// Package preview serves the report directory over HTTP for local viewing.
package preview

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	loopback = "127.0.0.1"

	// Connecting a UDP socket sends nothing; it only selects the outbound
	// interface.
	probeAddr = "8.8.8.8:80"

	metricsPath = "/metrics"
	namespace   = "marketintel_preview"
)

type Server struct {
	cfg      Config
	log      logger.Logger
	out      io.Writer
	open     func(url string) error
	lanAddr  func() string
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

type Option func(*Server)

func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithOutput sets where the URL banner is printed.
func WithOutput(w io.Writer) Option {
	return func(s *Server) {
		s.out = w
	}
}

// WithBrowser replaces the function that opens the entry page.
func WithBrowser(open func(url string) error) Option {
	return func(s *Server) {
		s.open = open
	}
}

func WithLANAddress(addr func() string) Option {
	return func(s *Server) {
		s.lanAddr = addr
	}
}

func New(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		log:      logger.Nop(),
		out:      os.Stdout,
		open:     browser.OpenURL,
		lanAddr:  LANAddress,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Preview requests served, by status class.",
		}, []string{"code"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("preview")
	s.registry.MustRegister(s.requests)

	return s, nil
}

// Handler serves the report artifacts and the server's own metrics.
func (s *Server) Handler() http.Handler {
	files := http.FileServer(artifactFS{root: http.Dir(s.cfg.Dir)})

	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.Handle("/", promhttp.InstrumentHandlerCounter(s.requests, files))
	return mux
}

// Listen binds the configured port. A port held by another process yields
// ErrPortInUse.
func (s *Server) Listen() (net.Listener, error) {
	errFactory := errors.New()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return nil, errFactory.Wrap(ErrPortInUse, err).
				WithMessage(fmt.Sprintf("port %d is already in use; stop the other server or change preview.port", s.cfg.Port))
		}
		return nil, errFactory.Wrap(ErrListen, err)
	}

	return ln, nil
}

// ListenAndServe binds the port and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errFactory := errors.New()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	port := s.cfg.Port
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	local, network := s.urls(port)
	s.banner(local, network)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	if s.cfg.OpenBrowser {
		if err := s.open(local + s.cfg.Entry); err != nil {
			s.log.Warn().Err(err).Msg("Could not open browser")
		}
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errFactory.Wrap(errors.ErrServe, err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errFactory.Wrap(ErrShutdown, err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errFactory.Wrap(errors.ErrServe, err)
	}

	return nil
}

func (s *Server) urls(port int) (local, network string) {
	p := strconv.Itoa(port)
	local = "http://" + net.JoinHostPort("localhost", p) + "/"
	network = "http://" + net.JoinHostPort(s.lanAddr(), p) + "/"
	return local, network
}

func (s *Server) banner(local, network string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(s.out, rule)
	fmt.Fprintln(s.out, "AI Market Intelligence Dashboard Preview")
	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "Serving %s\n", s.cfg.Dir)
	fmt.Fprintf(s.out, "Local:   %s%s\n", local, s.cfg.Entry)
	fmt.Fprintf(s.out, "Network: %s%s\n", network, s.cfg.Entry)
	fmt.Fprintln(s.out, "Press Ctrl+C to stop")
	fmt.Fprintln(s.out, rule)
}

// LANAddress returns the address of the interface used for outbound
// traffic, or the loopback address when there is none.
func LANAddress() string {
	conn, err := net.Dial("udp", probeAddr)
	if err != nil {
		return loopback
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.IsUnspecified() {
		return loopback
	}
	return addr.IP.String()
}
