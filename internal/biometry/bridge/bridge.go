// Package bridge implements biometry.Manager by forwarding every operation
// over a websocket to the Mini App running on the user's device, where
// web/static/bridge.js calls Telegram's BiometricManager and replies.
//
// Protocol (JSON text frames):
//
//	client -> server  {"type":"hello","capabilities":["mount","authenticate",...]}
//	server -> client  {"id":"<uuid>","op":"authenticate","reason":"..."}
//	client -> server  {"type":"result","id":"<uuid>","status":"authorized"}
//
// The hello frame must arrive first; the connection is registered for its
// device only once the capabilities are known.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/nfrund/starbeam/internal/biometry"
)

const (
	frameHello  = "hello"
	frameResult = "result"
)

// ErrClosed is returned for calls on, or pending on, a closed connection.
var ErrClosed = errors.New("bridge: connection closed")

// Request is a server-to-device call.
type Request struct {
	ID     string             `json:"id"`
	Op     biometry.Operation `json:"op"`
	Reason string             `json:"reason,omitempty"`
	// Token is only meaningful for update_token; absent means erase.
	Token *string `json:"token,omitempty"`
}

// Frame is a device-to-server message.
type Frame struct {
	Type         string               `json:"type"`
	ID           string               `json:"id,omitempty"`
	Capabilities []biometry.Operation `json:"capabilities,omitempty"`
	Granted      bool                 `json:"granted,omitempty"`
	Status       string               `json:"status,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// RemoteError carries an error message reported by the device.
type RemoteError struct {
	Op      biometry.Operation
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("bridge: %s: %s", e.Op, e.Message)
}

// Conn is one device's live bridge. It is safe for concurrent use.
type Conn struct {
	ws      *websocket.Conn
	device  string
	timeout time.Duration
	logger  *slog.Logger

	caps biometry.Capabilities

	mu      sync.Mutex
	pending map[string]chan Frame
	closed  chan struct{}
	once    sync.Once
}

var _ biometry.Manager = (*Conn)(nil)

func newConn(ws *websocket.Conn, device string, caps biometry.Capabilities, timeout time.Duration) *Conn {
	return &Conn{
		ws:      ws,
		device:  device,
		timeout: timeout,
		logger:  slog.Default().With("service", "biometry.bridge", "device", device),
		caps:    caps,
		pending: make(map[string]chan Frame),
		closed:  make(chan struct{}),
	}
}

// Device returns the device id the connection belongs to.
func (c *Conn) Device() string {
	return c.device
}

// Supports implements biometry.Manager from the capabilities the device
// announced in its hello frame.
func (c *Conn) Supports(op biometry.Operation) bool {
	return c.caps.Supports(op)
}

// Mount implements biometry.Manager.
func (c *Conn) Mount(ctx context.Context) error {
	_, err := c.call(ctx, Request{Op: biometry.OpMount})
	return err
}

// RequestAccess implements biometry.Manager.
func (c *Conn) RequestAccess(ctx context.Context, reason string) (bool, error) {
	f, err := c.call(ctx, Request{Op: biometry.OpRequestAccess, Reason: reason})
	if err != nil {
		return false, err
	}
	return f.Granted, nil
}

// Authenticate implements biometry.Manager.
func (c *Conn) Authenticate(ctx context.Context, reason string) (biometry.AuthResult, error) {
	f, err := c.call(ctx, Request{Op: biometry.OpAuthenticate, Reason: reason})
	if err != nil {
		return biometry.AuthResult{}, err
	}
	return biometry.AuthResult{Status: f.Status}, nil
}

// UpdateToken implements biometry.Manager.
func (c *Conn) UpdateToken(ctx context.Context, token *string) error {
	_, err := c.call(ctx, Request{Op: biometry.OpUpdateToken, Token: token})
	return err
}

func (c *Conn) call(ctx context.Context, req Request) (Frame, error) {
	if !c.Supports(req.Op) {
		return Frame{}, biometry.ErrUnsupported
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req.ID = uuid.NewString()
	reply := make(chan Frame, 1)

	c.mu.Lock()
	select {
	case <-c.closed:
		c.mu.Unlock()
		return Frame{}, ErrClosed
	default:
	}
	c.pending[req.ID] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}()

	// Never log req itself: it may carry the secret.
	c.logger.DebugContext(ctx, "bridge call", "op", string(req.Op), "id", req.ID)
	if err := wsjson.Write(ctx, c.ws, req); err != nil {
		return Frame{}, fmt.Errorf("bridge: send %s: %w", req.Op, err)
	}

	select {
	case f := <-reply:
		if f.Error != "" {
			return f, &RemoteError{Op: req.Op, Message: f.Error}
		}
		return f, nil
	case <-c.closed:
		return Frame{}, ErrClosed
	case <-ctx.Done():
		return Frame{}, fmt.Errorf("bridge: %s: %w", req.Op, ctx.Err())
	}
}

// readLoop dispatches result frames to their callers until the socket fails.
func (c *Conn) readLoop(ctx context.Context) error {
	for {
		var f Frame
		if err := wsjson.Read(ctx, c.ws, &f); err != nil {
			return err
		}
		if f.Type != frameResult {
			c.logger.Warn("ignoring unexpected bridge frame", "type", f.Type)
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[f.ID]
		c.mu.Unlock()
		if !ok {
			c.logger.Warn("bridge result for unknown call", "id", f.ID)
			continue
		}
		select {
		case reply <- f:
		default:
			c.logger.Warn("dropping duplicate bridge result", "id", f.ID)
		}
	}
}

// Close shuts the connection and fails every pending call.
func (c *Conn) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		close(c.closed)
		c.mu.Unlock()
		c.ws.Close(websocket.StatusNormalClosure, "")
	})
}
