// Package spectate streams live session snapshots to websocket clients.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

// FrameType is the type tag of every message the hub sends.
const FrameType = "FRAME"

// Frame is one snapshot as sent to spectators.
type Frame struct {
	Type     string          `json:"type"`
	Seq      uint64          `json:"seq"`
	Tick     uint32          `json:"tick"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// Options configures a Hub.
type Options struct {
	// AllowRemote accepts clients from non-loopback addresses.
	AllowRemote bool
	// Buffer is the number of frames queued per client. A client whose
	// queue is full is disconnected.
	Buffer int
	Logger *log.Logger
}

type client struct {
	id   uint64
	out  chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.out) })
}

// Hub fans snapshots out to connected spectators. Publish never blocks the
// caller. It is safe for concurrent use.
type Hub struct {
	opts     Options
	log      *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uint64]*client
	last    []byte
	closed  bool

	seq    atomic.Uint64
	nextID atomic.Uint64
}

// NewHub creates a hub with no clients.
func NewHub(opts Options) *Hub {
	if opts.Buffer <= 0 {
		opts.Buffer = 16
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
		logger.SetLevel(log.FatalLevel)
	}
	return &Hub{
		opts:    opts,
		log:     logger,
		clients: make(map[uint64]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Publish encodes snap once and queues it for every client. Clients that
// cannot keep up are dropped.
func (h *Hub) Publish(snap engine.Snapshot) {
	b, err := json.Marshal(Frame{
		Type:     FrameType,
		Seq:      h.seq.Add(1),
		Tick:     snap.Tick,
		Snapshot: snap,
	})
	if err != nil {
		h.log.Error("encode frame", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last = b
	for id, c := range h.clients {
		select {
		case c.out <- b:
		default:
			h.log.Warn("dropping slow spectator", "client", id)
			delete(h.clients, id)
			c.close()
		}
	}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		c.close()
	}
}

func (h *Hub) register() (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	c := &client{id: h.nextID.Add(1), out: make(chan []byte, h.opts.Buffer)}
	// New spectators see the current state right away.
	if h.last != nil {
		c.out <- h.last
	}
	h.clients[c.id] = c
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		c.close()
	}
}

// ServeHTTP upgrades the request to a websocket and streams frames until
// the client goes away or is dropped.
func (h *Hub) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if !h.opts.AllowRemote && !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c, ok := h.register()
	if !ok {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
		return
	}
	h.log.Info("spectator connected", "client", c.id, "remote", r.RemoteAddr)
	defer h.log.Info("spectator disconnected", "client", c.id)

	// Reader: spectators never send anything meaningful, but reading is
	// needed to notice a closed connection.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			h.unregister(c)
			return
		case b, ok := <-c.out:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"), time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

// ListenAndServe serves the hub on addr under /ws until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info("spectator stream listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("spectate: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectate: listen %s: %w", addr, err)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
