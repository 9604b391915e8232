package hub

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/protocol"
)

const (
	// DefaultPort is the port the simulated hub listens on
	DefaultPort = 21110

	// DefaultPath is the WebSocket endpoint
	DefaultPath = "/ws"

	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
)

// Config holds the simulated hub configuration
type Config struct {
	Host      string
	Port      int
	Path      string
	Name      string // mDNS instance name (empty = no advertisement)
	LogLevel  string
	Fixture   *Fixture
	Advertise bool
}

// Server is a simulated tracking hub that speaks the protocol package
type Server struct {
	config   *Config
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	listener net.Listener

	mu          sync.Mutex
	fixture     *Fixture
	peers       map[*peer]struct{}
	closing     bool // set by Shutdown; no new peers after it
	provisioned []protocol.WifiCredentialsPayload

	wg sync.WaitGroup
}

// peer is one connected wizard
type peer struct {
	conn    *websocket.Conn
	addr    string
	writeMu sync.Mutex
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.LogLevel != "" {
		if err := logging.Initialize(config.LogLevel); err != nil {
			return nil, fmt.Errorf("failed to initialize logging: %w", err)
		}
	}
	if config.Path == "" {
		config.Path = DefaultPath
	}
	fixture := config.Fixture
	if fixture == nil {
		fixture = DefaultFixture()
	}

	return &Server{
		config:  config,
		fixture: fixture,
		peers:   make(map[*peer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The wizard is a local CLI; there is no browser origin to check
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Handler returns the HTTP handler serving the WebSocket endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.serveWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Start listens and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	logging.Info("Simulated tracking hub listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("path", s.config.Path),
		zap.Int("networks", len(s.fixture.Networks)),
		zap.Int("trackers", len(s.fixture.Trackers)),
	)

	if s.config.Advertise {
		stop, err := Advertise(s.config.Name, s.Port(), s.config.Path)
		if err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			defer stop()
		}
	}

	if s.fixture.RescanInterval > 0 {
		s.wg.Add(1)
		go s.rescanLoop(ctx, s.fixture.RescanInterval)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpSrv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Port returns the bound port, or the configured one before Start
func (s *Server) Port() int {
	if s.listener != nil {
		if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return tcp.Port
		}
	}
	return s.config.Port
}

// Shutdown closes the listener and every peer connection
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down simulated hub...")

	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}

	s.mu.Lock()
	s.closing = true
	for p := range s.peers {
		_ = p.conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// ActivePeers returns the number of connected wizards
func (s *Server) ActivePeers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

// Provisioned returns the credentials the hub has accepted, oldest first
func (s *Server) Provisioned() []protocol.WifiCredentialsPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.WifiCredentialsPayload, len(s.provisioned))
	copy(out, s.provisioned)
	return out
}

// SetNetworks replaces the scanned networks and pushes them to every peer
func (s *Server) SetNetworks(networks []protocol.NetworkInfo) {
	s.mu.Lock()
	s.fixture.Networks = networks
	s.mu.Unlock()
	s.broadcast(protocol.TypeWifiNetworks, s.networksPayload())
}

// SetTrackers replaces the connected trackers and pushes them to every peer
func (s *Server) SetTrackers(trackers []protocol.TrackerInfo) {
	s.mu.Lock()
	s.fixture.Trackers = trackers
	s.mu.Unlock()
	s.broadcast(protocol.TypeTrackers, s.trackersPayload())
}

func (s *Server) networksPayload() protocol.WifiNetworksPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return protocol.WifiNetworksPayload{Networks: append([]protocol.NetworkInfo(nil), s.fixture.Networks...)}
}

func (s *Server) trackersPayload() protocol.TrackersPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return protocol.TrackersPayload{Trackers: append([]protocol.TrackerInfo(nil), s.fixture.Trackers...)}
}

func (s *Server) broadcast(t protocol.MessageType, payload any) {
	env, err := protocol.NewPush(t, payload)
	if err != nil {
		logging.Error("Failed to build push", zap.Error(err))
		return
	}
	s.mu.Lock()
	peers := make([]*peer, 0, len(s.peers))
	for p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.Unlock()

	for _, p := range peers {
		if err := p.write(env); err != nil {
			logging.Warn("Push failed", zap.String("remote_addr", p.addr), zap.Error(err))
		}
	}
}

func (s *Server) rescanLoop(ctx context.Context, every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast(protocol.TypeWifiNetworks, s.networksPayload())
		}
	}
}

func (p *peer) write(env *protocol.Envelope) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := p.conn.WriteJSON(env); err != nil {
		return err
	}
	logging.LogHubMessage(p.addr, "sent", string(env.Type), env.ID)
	return nil
}
