package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"

	"swarmview/internal/debug"
	"swarmview/pkg/protocol"
)

// Connection manager defaults.
const (
	// DefaultReconnectDelay is the fixed wait between reconnect attempts.
	// The dashboard runs unattended, so reconnection is attempted forever.
	DefaultReconnectDelay = 3 * time.Second

	// DefaultDetailTimeout bounds a detail request. The protocol itself has
	// no timeout; without one a lost response would hang the caller.
	DefaultDetailTimeout = 5 * time.Second

	dialTimeout = 10 * time.Second
)

// ErrNotConnected is returned for requests issued while the transport is
// down.
var ErrNotConnected = errors.New("viewer: not connected")

// ErrDetailTimeout is returned when the server does not answer a detail
// request in time; callers should treat the details as unavailable.
var ErrDetailTimeout = errors.New("viewer: detail request timed out")

// Client owns the transport connection lifecycle for one viewer: dial,
// read, reconnect after loss, forever. Decoded events are applied to the
// session state in arrival order from a single goroutine; malformed
// payloads are dropped with a logged warning and never close the
// connection.
type Client struct {
	url   string
	state *SessionState

	// ReconnectDelay and DetailTimeout may be adjusted before Run.
	ReconnectDelay time.Duration
	DetailTimeout  time.Duration

	// OnStatusChange, when set, is invoked on every connectivity
	// transition. Called from the connection goroutine.
	OnStatusChange func(connected bool)

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	// pending holds the waiters per requested agent id. Concurrent
	// requests for the same agent all wait here and a single response
	// resolves every one of them.
	pending map[string][]chan protocol.AgentDetails
}

// NewClient returns a client that will feed the given session state.
func NewClient(url string, state *SessionState) *Client {
	return &Client{
		url:            url,
		state:          state,
		ReconnectDelay: DefaultReconnectDelay,
		DetailTimeout:  DefaultDetailTimeout,
		pending:        make(map[string][]chan protocol.AgentDetails),
	}
}

// State returns the session state owned by this connection.
func (c *Client) State() *SessionState { return c.state }

// Connected reports whether the transport is currently up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Run drives the connect/read/reconnect loop until ctx is done.
// Each successful (re)connection resets the session state to empty before
// any event from the new stream is applied.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := c.dial(ctx)
		if err != nil {
			debug.LogKV("viewer", "connect failed", "url", c.url, "error", err)
			if !c.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		c.state.Reset()
		c.setConn(conn)
		debug.LogKV("viewer", "connected", "url", c.url)

		c.readLoop(ctx, conn)

		c.setConn(nil)
		conn.Close(websocket.StatusNormalClosure, "")
		c.failPending()
		debug.LogKV("viewer", "connection lost", "url", c.url)

		if !c.sleep(ctx) {
			return ctx.Err()
		}
	}
}

// RequestDetails asks the server for the out-of-band detail payload of one
// agent and waits for the matching response. A response for an agent the
// session no longer has resident is still returned; the caller decides
// whether to render or drop it.
func (c *Client) RequestDetails(ctx context.Context, agentID string) (protocol.AgentDetails, error) {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return protocol.AgentDetails{}, ErrNotConnected
	}
	ch := make(chan protocol.AgentDetails, 1)
	c.pending[agentID] = append(c.pending[agentID], ch)
	c.mu.Unlock()

	defer c.removePending(agentID, ch)

	ev, err := protocol.NewEvent(protocol.EventGetAgentDetails, time.Now(), protocol.DetailsRequest{AgentID: agentID})
	if err != nil {
		return protocol.AgentDetails{}, err
	}
	raw, err := protocol.Encode(ev)
	if err != nil {
		return protocol.AgentDetails{}, err
	}

	writeCtx, cancel := context.WithTimeout(ctx, c.DetailTimeout)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, raw); err != nil {
		return protocol.AgentDetails{}, fmt.Errorf("sending detail request: %w", err)
	}

	timer := time.NewTimer(c.DetailTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return protocol.AgentDetails{}, ctx.Err()
	case <-timer.C:
		return protocol.AgentDetails{}, ErrDetailTimeout
	case details, ok := <-ch:
		if !ok {
			return protocol.AgentDetails{}, ErrNotConnected
		}
		return details, nil
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, c.url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// readLoop applies incoming events in arrival order until the connection
// breaks or ctx is done. This goroutine is the only writer to the session
// state.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return
		}

		ev, err := protocol.Decode(raw)
		if err != nil {
			debug.LogKV("viewer", "dropping malformed message", "error", err)
			continue
		}

		if ev.Type == protocol.EventAgentDetails {
			c.resolveDetails(ev)
			continue
		}
		c.state.Apply(ev)
	}
}

func (c *Client) resolveDetails(ev protocol.Event) {
	details, err := protocol.DecodeData[protocol.AgentDetails](ev)
	if err != nil {
		debug.LogKV("viewer", "bad details payload", "error", err)
		return
	}

	c.mu.Lock()
	waiters := c.pending[details.ID]
	delete(c.pending, details.ID)
	c.mu.Unlock()

	if len(waiters) == 0 {
		// Unsolicited or late response; drop it.
		debug.LogKV("viewer", "unmatched details response", "id", details.ID)
		return
	}
	for _, ch := range waiters {
		select {
		case ch <- *details:
		default:
		}
	}
}

// removePending drops one waiter; a no-op when the response already
// resolved it.
func (c *Client) removePending(agentID string, ch chan protocol.AgentDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	waiters := c.pending[agentID]
	for i, w := range waiters {
		if w == ch {
			waiters = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(waiters) == 0 {
		delete(c.pending, agentID)
		return
	}
	c.pending[agentID] = waiters
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	wasConnected := c.connected
	c.connected = conn != nil
	changed := wasConnected != c.connected
	cb := c.OnStatusChange
	c.mu.Unlock()

	if changed && cb != nil {
		cb(conn != nil)
	}
}

func (c *Client) failPending() {
	c.mu.Lock()
	for id, waiters := range c.pending {
		for _, ch := range waiters {
			close(ch)
		}
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

// sleep waits out the reconnect delay; false means ctx ended first.
func (c *Client) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.ReconnectDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
