package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lavictoria/club-api/internal/entry"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/metrics"
	"github.com/lavictoria/club-api/internal/shared/token"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

const (
	DefaultWriteTimeout = 5 * time.Second

	maxDecodeErrorsPerConn = 3
	maxFrameBytes          = 4 << 10
)

// EntrySource loads the list pushed to subscribers.
type EntrySource interface {
	TodayPoolEntries(ctx context.Context) ([]entry.EntryResponse, error)
}

type Config struct {
	RequireAuth    bool
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// Hub keeps the pool entry subscribers and pushes today's list to them.
type Hub struct {
	source  EntrySource
	tokens  token.Manager
	cfg     Config
	metrics *metrics.Metrics

	mu    sync.Mutex
	peers map[*peer]struct{}
}

func NewHub(source EntrySource, tokens token.Manager, cfg Config, m *metrics.Metrics) *Hub {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	return &Hub{
		source:  source,
		tokens:  tokens,
		cfg:     cfg,
		metrics: m,
		peers:   make(map[*peer]struct{}),
	}
}

var _ entry.Notifier = (*Hub)(nil)

type peer struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration
	log          *slog.Logger

	mu sync.Mutex
}

func (p *peer) write(frame Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeLocked(frame)
}

func (p *peer) writeLocked(frame Frame) error {
	if err := p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout)); err != nil {
		return err
	}
	return websocket.JSON.Send(p.conn, frame)
}

// ServeHTTP authenticates the request when required and upgrades it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.cfg.RequireAuth {
		raw := strings.TrimSpace(r.URL.Query().Get("token"))
		if raw == "" {
			log.Warn("Websocket rejected: missing token", "remote", r.RemoteAddr)
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if _, err := h.tokens.ValidateToken(raw); err != nil {
			log.Warn("Websocket rejected: invalid token", "remote", r.RemoteAddr, "error", err)
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
	}

	server := websocket.Server{
		Handshake: h.checkOrigin,
		Handler:   h.serveConn,
	}
	server.ServeHTTP(w, r)
}

// checkOrigin accepts clients without an Origin header (mobile apps) and browsers on the allow-list.
func (h *Hub) checkOrigin(cfg *websocket.Config, r *http.Request) error {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return nil
	}

	parsed, err := websocket.Origin(cfg, r)
	if err != nil {
		return err
	}
	cfg.Origin = parsed

	if len(h.cfg.AllowedOrigins) == 0 || slices.Contains(h.cfg.AllowedOrigins, "*") {
		return nil
	}
	if slices.Contains(h.cfg.AllowedOrigins, origin) {
		return nil
	}
	return fmt.Errorf("realtime: origin %q not allowed", origin)
}

func (h *Hub) serveConn(conn *websocket.Conn) {
	ctx := context.WithoutCancel(conn.Request().Context())
	id := uuid.NewString()
	p := &peer{
		id:           id,
		conn:         conn,
		writeTimeout: h.cfg.WriteTimeout,
		log:          logger.FromContext(ctx).With("peer_id", id),
	}
	conn.MaxPayloadBytes = maxFrameBytes

	defer func() {
		h.remove(p)
		_ = conn.Close()
	}()

	// The initial list must reach the client before any broadcast does.
	p.mu.Lock()
	h.add(p)
	err := h.sendList(ctx, p, "", true)
	p.mu.Unlock()
	if err != nil {
		p.log.Error("Initial pool entries failed, closing connection", "error", err)
		return
	}
	p.log.Info("Realtime subscriber connected")

	decodeErrors := 0
	for {
		var frame Frame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			if errors.Is(err, io.EOF) {
				p.log.Info("Realtime subscriber disconnected")
				return
			}
			if !isDecodeError(err) {
				p.log.Info("Realtime subscriber disconnected", "error", err)
				return
			}

			decodeErrors++
			_ = p.write(errorFrame("", "INVALID_FRAME", "invalid frame payload"))
			if decodeErrors >= maxDecodeErrorsPerConn {
				p.log.Warn("Closing connection after repeated malformed frames")
				return
			}
			continue
		}
		decodeErrors = 0

		switch frame.Type {
		case FramePoolEntriesGet:
			if err := h.sendList(ctx, p, frame.RequestID, false); err != nil {
				p.log.Error("Pool entries request failed", "error", err)
				_ = p.write(errorFrame(frame.RequestID, "UNAVAILABLE", "Error obteniendo registros de pileta"))
			}
		default:
			_ = p.write(errorFrame(frame.RequestID, "UNSUPPORTED_FRAME", "unsupported frame type"))
		}
	}
}

// sendList loads today's pool entries and writes them to p. locked means p.mu is already held.
func (h *Hub) sendList(ctx context.Context, p *peer, requestID string, locked bool) error {
	entries, err := h.source.TodayPoolEntries(ctx)
	if err != nil {
		return fmt.Errorf("load pool entries: %w", err)
	}

	frame, err := newFrame(FramePoolEntries, requestID, entries)
	if err != nil {
		return fmt.Errorf("encode pool entries: %w", err)
	}

	if locked {
		return p.writeLocked(frame)
	}
	return p.write(frame)
}

// NotifyPoolEntry announces a new pool entry and then pushes the refreshed list to everyone.
func (h *Hub) NotifyPoolEntry(ctx context.Context, created entry.EntryResponse) error {
	frame, err := newFrame(FramePoolEntryCreated, "", created)
	if err != nil {
		return fmt.Errorf("encode pool entry: %w", err)
	}
	h.broadcast(ctx, frame)

	return h.BroadcastList(ctx)
}

// BroadcastList pushes the current list of today's pool entries to every subscriber.
func (h *Hub) BroadcastList(ctx context.Context) error {
	entries, err := h.source.TodayPoolEntries(ctx)
	if err != nil {
		return fmt.Errorf("load pool entries: %w", err)
	}

	frame, err := newFrame(FramePoolEntries, "", entries)
	if err != nil {
		return fmt.Errorf("encode pool entries: %w", err)
	}
	h.broadcast(ctx, frame)
	return nil
}

// broadcast writes frame to every peer. A peer that fails is dropped and closed.
func (h *Hub) broadcast(ctx context.Context, frame Frame) {
	var failed []*peer
	for _, p := range h.snapshot() {
		if err := p.write(frame); err != nil {
			p.log.Warn("Realtime write failed, dropping subscriber", "frame", frame.Type, "error", err)
			failed = append(failed, p)
		}
	}

	for _, p := range failed {
		h.remove(p)
		_ = p.conn.Close()
	}

	logger.FromContext(ctx).Debug("Realtime frame broadcast",
		"frame", frame.Type, "failed", len(failed))
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	count := len(h.peers)
	h.mu.Unlock()

	h.metrics.SetRealtimeSubscribers(count)
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	delete(h.peers, p)
	count := len(h.peers)
	h.mu.Unlock()

	h.metrics.SetRealtimeSubscribers(count)
}

func (h *Hub) snapshot() []*peer {
	h.mu.Lock()
	defer h.mu.Unlock()

	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	return peers
}

// Subscribers is the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Close disconnects every subscriber. Used on shutdown.
func (h *Hub) Close() {
	for _, p := range h.snapshot() {
		h.remove(p)
		_ = p.conn.Close()
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, websocket.ErrFrameTooLarge)
}
