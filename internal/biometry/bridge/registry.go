package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/nfrund/starbeam/internal/biometry"
)

// HelloTimeout bounds how long a fresh socket may take to announce itself.
const HelloTimeout = 10 * time.Second

// Registry tracks the live bridge of every device. A device has at most one
// bridge; a newer connection replaces the older one.
type Registry struct {
	callTimeout time.Duration
	// OriginPatterns is passed to websocket.Accept. Empty means same-origin.
	OriginPatterns []string

	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewRegistry returns an empty registry whose calls time out after
// callTimeout. Zero disables the per-call timeout.
func NewRegistry(callTimeout time.Duration) *Registry {
	return &Registry{
		callTimeout: callTimeout,
		conns:       make(map[string]*Conn),
	}
}

// Manager returns the biometry manager for device: its live bridge, or
// biometry.Unsupported when the device has none.
func (r *Registry) Manager(device string) biometry.Manager {
	if c, ok := r.Lookup(device); ok {
		return c
	}
	return biometry.Unsupported{}
}

// Lookup returns device's live bridge.
func (r *Registry) Lookup(device string) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[device]
	return c, ok
}

// Len returns the number of live bridges.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) register(c *Conn) {
	r.mu.Lock()
	prev := r.conns[c.device]
	r.conns[c.device] = c
	r.mu.Unlock()

	if prev != nil {
		prev.logger.Info("bridge replaced by newer connection")
		prev.Close()
	}
}

func (r *Registry) unregister(c *Conn) {
	r.mu.Lock()
	if r.conns[c.device] == c {
		delete(r.conns, c.device)
	}
	r.mu.Unlock()
}

// Serve upgrades the request to a websocket bound to device and blocks until
// the socket closes or ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, w http.ResponseWriter, req *http.Request, device string) error {
	if device == "" {
		return errors.New("bridge: empty device id")
	}

	ws, err := websocket.Accept(w, req, &websocket.AcceptOptions{
		OriginPatterns: r.OriginPatterns,
	})
	if err != nil {
		return fmt.Errorf("bridge: accept: %w", err)
	}

	caps, err := readHello(ctx, ws)
	if err != nil {
		ws.Close(websocket.StatusPolicyViolation, "expected hello")
		return err
	}

	conn := newConn(ws, device, caps, r.callTimeout)
	r.register(conn)
	conn.logger.Info("bridge connected", "capabilities", len(caps))

	err = conn.readLoop(ctx)

	r.unregister(conn)
	conn.Close()

	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
		conn.logger.Info("bridge disconnected")
		return nil
	}
	conn.logger.Warn("bridge read failed", "error", err)
	return err
}

func readHello(ctx context.Context, ws *websocket.Conn) (biometry.Capabilities, error) {
	ctx, cancel := context.WithTimeout(ctx, HelloTimeout)
	defer cancel()

	var hello Frame
	if err := wsjson.Read(ctx, ws, &hello); err != nil {
		return nil, fmt.Errorf("bridge: read hello: %w", err)
	}
	if hello.Type != frameHello {
		return nil, fmt.Errorf("bridge: first frame is %q, want %q", hello.Type, frameHello)
	}

	caps := biometry.Capabilities{}
	for _, op := range hello.Capabilities {
		caps[op] = true
	}
	return caps, nil
}
