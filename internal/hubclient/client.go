package hubclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/onboarding"
	"github.com/muurk/trackersetup/internal/protocol"
	"github.com/muurk/trackersetup/internal/version"
)

const (
	// DefaultHubURL is where a hub listens when running on the same machine
	DefaultHubURL = "ws://127.0.0.1:21110/ws"

	// DefaultRequestTimeout bounds requests whose context has no deadline
	DefaultRequestTimeout = 15 * time.Second

	// writeWait is the time allowed to write a frame
	writeWait = 10 * time.Second
)

// Client is a connection to a tracking hub.
// Network lists pushed by the hub are published into the Feed passed to Dial;
// tracker lists are kept and offered on Trackers().
type Client struct {
	url  string
	conn *websocket.Conn
	feed *onboarding.Feed

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]chan *protocol.Envelope
	units    []onboarding.TrackingUnit
	unitsSub chan []onboarding.TrackingUnit
	err      error

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the hub at url and starts the read loop
func Dial(ctx context.Context, url string, feed *onboarding.Feed) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, http.Header{
		"User-Agent": []string{version.UserAgent()},
	})
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("failed to connect to hub at %s", url), err)
	}
	logging.LogConnection(url, "hub_connected")

	c := &Client{
		url:      url,
		conn:     conn,
		feed:     feed,
		pending:  make(map[string]chan *protocol.Envelope),
		unitsSub: make(chan []onboarding.TrackingUnit, 1),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// URL returns the hub address
func (c *Client) URL() string {
	return c.url
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns why the connection ended, or nil while it is up
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close shuts the connection down. Outstanding requests fail with ErrTypeClosed.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	<-c.done
	return err
}

func (c *Client) readLoop() {
	defer c.shutdown()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.err = &HubError{Type: ErrTypeClosed, Message: "hub closed the connection", Err: err}
			} else {
				c.err = NewNetworkError("lost connection to hub", err)
			}
			c.mu.Unlock()
			return
		}

		env, err := protocol.Parse(data)
		if err != nil {
			logging.Warn("Ignoring malformed hub message",
				zap.String("remote_addr", c.url),
				zap.Error(err),
			)
			continue
		}
		logging.LogHubMessage(c.url, "received", string(env.Type), env.ID)
		c.dispatch(env)
	}
}

// dispatch applies pushes and routes responses to their waiting request
func (c *Client) dispatch(env *protocol.Envelope) {
	switch env.Type {
	case protocol.TypeWifiNetworks:
		var p protocol.WifiNetworksPayload
		if err := env.Decode(&p); err == nil && c.feed != nil {
			c.feed.Publish(p.ToNetworks())
		}
	case protocol.TypeTrackers:
		var p protocol.TrackersPayload
		if err := env.Decode(&p); err == nil {
			c.setUnits(p.ToUnits())
		}
	}

	if env.ID == "" {
		return
	}
	c.mu.Lock()
	ch, ok := c.pending[env.ID]
	delete(c.pending, env.ID)
	c.mu.Unlock()
	if ok {
		ch <- env
	}
}

func (c *Client) setUnits(units []onboarding.TrackingUnit) {
	c.mu.Lock()
	c.units = units
	c.mu.Unlock()

	select {
	case <-c.unitsSub:
	default:
	}
	select {
	case c.unitsSub <- units:
	default:
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	if c.err == nil {
		c.err = &HubError{Type: ErrTypeClosed, Message: "connection closed"}
	}
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
	close(c.done)
	logging.LogConnection(c.url, "hub_disconnected")
}

func (c *Client) send(env *protocol.Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return NewNetworkError("failed to set write deadline", err)
	}
	if err := c.conn.WriteJSON(env); err != nil {
		return NewNetworkError(fmt.Sprintf("failed to send %s", env.Type), err)
	}
	logging.LogHubMessage(c.url, "sent", string(env.Type), env.ID)
	return nil
}

// request sends a message and waits for the envelope echoing its id
func (c *Client) request(ctx context.Context, t protocol.MessageType, payload any) (*protocol.Envelope, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}

	env, err := protocol.NewRequest(t, payload)
	if err != nil {
		return nil, NewProtocolError("failed to build request", err)
	}

	ch := make(chan *protocol.Envelope, 1)
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return nil, err
	}
	c.pending[env.ID] = ch
	c.mu.Unlock()

	if err := c.send(env); err != nil {
		c.forget(env.ID)
		return nil, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, c.Err()
		}
		if resp.Type == protocol.TypeError {
			var p protocol.ErrorPayload
			_ = resp.Decode(&p)
			return nil, NewRejectedError(p.Message)
		}
		return resp, nil
	case <-ctx.Done():
		c.forget(env.ID)
		return nil, fromContext(ctx.Err())
	}
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// RequestScan asks the hub to rescan Wi-Fi. The result is published into the
// feed and also returned.
func (c *Client) RequestScan(ctx context.Context) ([]onboarding.WirelessNetwork, error) {
	resp, err := c.request(ctx, protocol.TypeWifiScanRequest, nil)
	if err != nil {
		return nil, err
	}
	var p protocol.WifiNetworksPayload
	if err := resp.Decode(&p); err != nil {
		return nil, NewProtocolError("unexpected scan response", err)
	}
	return p.ToNetworks(), nil
}

// Trackers asks the hub for the connected tracking units
func (c *Client) Trackers(ctx context.Context) ([]onboarding.TrackingUnit, error) {
	resp, err := c.request(ctx, protocol.TypeTrackersRequest, nil)
	if err != nil {
		return nil, err
	}
	var p protocol.TrackersPayload
	if err := resp.Decode(&p); err != nil {
		return nil, NewProtocolError("unexpected trackers response", err)
	}
	return p.ToUnits(), nil
}

// Units returns the last tracker list received from the hub
func (c *Client) Units() []onboarding.TrackingUnit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.units
}

// TrackerUpdates delivers tracker lists as they arrive; only the newest
// undelivered list is kept.
func (c *Client) TrackerUpdates() <-chan []onboarding.TrackingUnit {
	return c.unitsSub
}

// SubmitCredentials sends Wi-Fi credentials to the hub and waits for the
// outcome. It implements onboarding.CredentialSubmitter.
func (c *Client) SubmitCredentials(ctx context.Context, sel onboarding.CredentialSelection) error {
	resp, err := c.request(ctx, protocol.TypeWifiCredentials, protocol.CredentialsFromSelection(sel))
	if err != nil {
		return err
	}
	var p protocol.WifiCredentialsResultPayload
	if err := resp.Decode(&p); err != nil {
		return NewProtocolError("unexpected credentials response", err)
	}
	if !p.OK {
		msg := p.Error
		if msg == "" {
			msg = "hub rejected the credentials"
		}
		return NewRejectedError(msg)
	}
	return nil
}
