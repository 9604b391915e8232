package hub

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/protocol"
)

// Time allowed to read the next message from the peer
const readWait = 5 * time.Minute

// Maximum message size allowed from peer
const maxMessageSize = 8192

// serveWebSocket upgrades the request and runs the peer's message loop.
// On connect the peer receives the current networks and trackers.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	p := &peer{conn: conn, addr: r.RemoteAddr}
	if !s.addPeer(p) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "hub shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	logging.LogConnection(p.addr, "websocket_upgraded")

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.peers, p)
		s.mu.Unlock()
		s.wg.Done()
		logging.LogConnection(p.addr, "websocket_closed")
	}()

	s.greet(p)

	conn.SetReadLimit(maxMessageSize)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Connection closed or error reading message",
					zap.String("remote_addr", p.addr),
					zap.Error(err),
				)
			}
			return
		}

		req, err := protocol.Parse(data)
		if err != nil {
			s.replyError(p, &protocol.Envelope{}, err.Error())
			continue
		}
		logging.LogHubMessage(p.addr, "received", string(req.Type), req.ID)
		s.handle(p, req)
	}
}

// addPeer registers p unless Shutdown has begun. The WaitGroup is only
// grown under s.mu while closing is false, so Shutdown's Wait never races an Add.
func (s *Server) addPeer(p *peer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.peers[p] = struct{}{}
	s.wg.Add(1)
	return true
}

// greet pushes the current state to a newly connected peer
func (s *Server) greet(p *peer) {
	for _, push := range []struct {
		t       protocol.MessageType
		payload any
	}{
		{protocol.TypeWifiNetworks, s.networksPayload()},
		{protocol.TypeTrackers, s.trackersPayload()},
	} {
		env, err := protocol.NewPush(push.t, push.payload)
		if err != nil {
			continue
		}
		if err := p.write(env); err != nil {
			logging.Warn("Initial push failed", zap.String("remote_addr", p.addr), zap.Error(err))
			return
		}
	}
}

// handle answers a single request
func (s *Server) handle(p *peer, req *protocol.Envelope) {
	switch req.Type {
	case protocol.TypeWifiScanRequest:
		s.mu.Lock()
		delay := s.fixture.ScanDelay
		s.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		s.reply(p, req, protocol.TypeWifiNetworks, s.networksPayload())

	case protocol.TypeTrackersRequest:
		s.reply(p, req, protocol.TypeTrackers, s.trackersPayload())

	case protocol.TypeWifiCredentials:
		var creds protocol.WifiCredentialsPayload
		if err := req.Decode(&creds); err != nil {
			s.replyError(p, req, err.Error())
			return
		}
		s.reply(p, req, protocol.TypeWifiCredentialsResult, s.provision(p, creds))

	default:
		s.replyError(p, req, "unsupported message type: "+string(req.Type))
	}
}

// provision applies the credential policy and records accepted credentials
func (s *Server) provision(p *peer, creds protocol.WifiCredentialsPayload) protocol.WifiCredentialsResultPayload {
	s.mu.Lock()
	policy := s.fixture.Credentials
	s.mu.Unlock()

	if err := policy.Check(creds); err != nil {
		logging.Info("Rejected wifi credentials",
			zap.String("remote_addr", p.addr),
			zap.String("ssid", creds.SSID),
			zap.Error(err),
		)
		return protocol.WifiCredentialsResultPayload{OK: false, Error: err.Error()}
	}

	s.mu.Lock()
	s.provisioned = append(s.provisioned, creds)
	s.mu.Unlock()
	logging.Info("Provisioned wifi credentials",
		zap.String("remote_addr", p.addr),
		zap.String("ssid", creds.SSID),
	)
	return protocol.WifiCredentialsResultPayload{OK: true}
}

func (s *Server) reply(p *peer, req *protocol.Envelope, t protocol.MessageType, payload any) {
	env, err := protocol.NewResponse(req, t, payload)
	if err != nil {
		logging.Error("Failed to build response", zap.Error(err))
		return
	}
	if err := p.write(env); err != nil {
		logging.Warn("Reply failed", zap.String("remote_addr", p.addr), zap.Error(err))
	}
}

func (s *Server) replyError(p *peer, req *protocol.Envelope, message string) {
	s.reply(p, req, protocol.TypeError, protocol.ErrorPayload{Message: message})
}
