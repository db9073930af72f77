// Package browsercapture is the one external collaborator allowed to open a
// browser or a socket for the premws live-odds feed. It drives a headless
// Chrome instance, watches every WebSocket frame the page's scripts open,
// and hands frames from the matching socket to a livefeed.Engine. Nothing
// in livefeed imports this package; the dependency runs the other way.
package browsercapture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/klauspost/compress/flate"

	"github.com/Vodeneev/premwsfeed/internal/pkg/config"
	"github.com/Vodeneev/premwsfeed/internal/pkg/livefeed"
	"github.com/Vodeneev/premwsfeed/internal/pkg/performance"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// UpdateHandler receives the change events produced by one Process call.
type UpdateHandler func(updates []livefeed.MatchUpdate)

// Collector drives a headless Chrome instance and feeds captured WebSocket
// frames into a livefeed.Engine. It is the only place in this repo that
// opens a browser or a socket on the core's behalf.
type Collector struct {
	cfg      config.PremwsConfig
	engine   *livefeed.Engine
	onUpdate UpdateHandler

	mu        sync.Mutex
	socketIDs map[network.RequestID]bool // sockets whose URL matched SocketURLSubstring

	// engineMu serializes frame processing against Snapshot queries; the
	// engine itself is lock-free and expects its embedding to do this.
	engineMu sync.Mutex
}

// New returns a Collector that decodes captured frames through engine and
// reports resulting updates to onUpdate (may be nil).
func New(cfg config.PremwsConfig, engine *livefeed.Engine, onUpdate UpdateHandler) *Collector {
	return &Collector{
		cfg:       cfg,
		engine:    engine,
		onUpdate:  onUpdate,
		socketIDs: make(map[network.RequestID]bool),
	}
}

// Run opens the configured page, watches the matching WebSocket, and blocks
// until ctx is canceled or the browser allocator fails. Reconnection is the
// caller's concern; Run returns an error on disconnect so the caller can
// retry with cfg.ReconnectBackoff.
func (c *Collector) Run(ctx context.Context) error {
	chromeDir, err := os.MkdirTemp("", "premws_chrome_")
	if err != nil {
		return fmt.Errorf("premws: create chrome temp dir: %w", err)
	}
	defer os.RemoveAll(chromeDir)

	userAgent := c.cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserDataDir(chromeDir),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		if os.Getenv("PREMWS_DEBUG") == "1" {
			slog.Debug("premws: chromedp", "message", fmt.Sprintf(format, v...))
		}
	}))
	defer cancelBrowser()

	chromedp.ListenTarget(browserCtx, c.handleEvent)

	navigateURL := c.cfg.NavigateURL
	slog.Info("premws: navigating", "url", navigateURL, "socket_substring", c.cfg.SocketURLSubstring)

	if err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(navigateURL),
	); err != nil {
		return fmt.Errorf("premws: chromedp navigate: %w", err)
	}

	<-browserCtx.Done()
	if err := browserCtx.Err(); err != nil && err != context.Canceled {
		return fmt.Errorf("premws: browser context ended: %w", err)
	}
	return nil
}

// handleEvent is the chromedp.ListenTarget callback. It tracks which
// sockets match SocketURLSubstring and feeds frames from those sockets to
// the engine.
func (c *Collector) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case *network.EventWebSocketCreated:
		if strings.Contains(e.URL, c.cfg.SocketURLSubstring) {
			c.mu.Lock()
			c.socketIDs[e.RequestID] = true
			c.mu.Unlock()
			slog.Info("premws: matched websocket", "url", e.URL, "request_id", e.RequestID)
		}
	case *network.EventWebSocketClosed:
		c.mu.Lock()
		delete(c.socketIDs, e.RequestID)
		c.mu.Unlock()
	case *network.EventWebSocketFrameReceived:
		c.handleFrame(e.RequestID, e.Response)
	case *network.EventWebSocketFrameSent:
		// outbound frames (subscriptions, pings) carry no odds data
	}
}

func (c *Collector) handleFrame(reqID network.RequestID, frame *network.WebSocketFrame) {
	if frame == nil {
		return
	}
	c.mu.Lock()
	matched := c.socketIDs[reqID]
	c.mu.Unlock()
	if !matched {
		return
	}

	raw, err := decodeFramePayload(frame.PayloadData)
	if err != nil {
		slog.Warn("premws: failed to decode frame payload", "error", err)
		return
	}

	start := time.Now()
	c.engineMu.Lock()
	updates, err := c.engine.Process(raw)
	matchCount := c.engine.MatchCount()
	c.engineMu.Unlock()
	elapsed := time.Since(start)
	performance.GetTracker().RecordFrame(elapsed, len(updates), matchCount)
	if err != nil {
		// the engine never returns a non-nil error today; kept defensive
		// for the collaborator boundary, which does do I/O.
		slog.Error("premws: engine.Process failed", "error", err)
		return
	}
	if len(updates) > 0 && c.onUpdate != nil {
		c.onUpdate(updates)
	}
}

// Snapshot runs fn with the engine while no frame is being processed.
// Health handlers and the snapshot sink read engine state through this.
func (c *Collector) Snapshot(fn func(e *livefeed.Engine)) {
	c.engineMu.Lock()
	defer c.engineMu.Unlock()
	fn(c.engine)
}

// decodeFramePayload decodes a CDP WebSocket frame's PayloadData. CDP
// base64-encodes binary frames and passes text frames through verbatim; a
// payload that fails base64 decoding is assumed to already be plain text.
// Binary frames negotiated with permessage-deflate are additionally
// inflated with klauspost/compress/flate.
func decodeFramePayload(payload string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return []byte(payload), nil
	}
	if looksDeflated(decoded) {
		inflated, err := inflate(decoded)
		if err == nil {
			return inflated, nil
		}
		slog.Warn("premws: flate inflate failed, using raw frame", "error", err)
	}
	return decoded, nil
}

// looksDeflated is a best-effort heuristic: raw deflate streams have no
// magic number, so this checks whether the payload fails to decode as
// plain ASCII wire grammar (printable bytes, whitespace and the framing
// control bytes only).
func looksDeflated(b []byte) bool {
	for _, c := range b {
		if c >= 0x7f {
			return true
		}
		if c < 0x20 && (c < 0x09 || c > 0x0d) && c != 0x00 && c != 0x01 && c != 0x08 && c != 0x14 && c != 0x15 {
			return true
		}
	}
	return false
}

func inflate(b []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(b))
	defer r.Close()
	return io.ReadAll(r)
}
