package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"PillarSight/internal/domain/models"
	drepo "PillarSight/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a SnapshotStream backed by the market-data service's
// WebSocket feed. Snapshot construction (indicators, depth, derivatives)
// happens upstream; this client only transports finished frames.
type Client struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a snapshot feed client.
func New(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration) drepo.SnapshotStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("feed: connected")
	return nil
}

// Subscribe subscribes to snapshot frames for the configured symbols.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("feed not connected")
	}
	for _, s := range c.symbols {
		msg := map[string]string{"type": "subscribe", "channel": "snapshots", "symbol": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		log.Printf("feed: subscribed %s", s)
	}
	return nil
}

type feedFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Read streams snapshots and errors until the context ends or the
// connection drops.
func (c *Client) Read(ctx context.Context) (<-chan *models.Snapshot, <-chan error) {
	snaps := make(chan *models.Snapshot, 256)
	errs := make(chan error, 1)

	// keepalive loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(snaps)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("feed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("feed read: %w", err)
					return
				}
				var frame feedFrame
				if err := json.Unmarshal(b, &frame); err != nil {
					// ignore non-JSON keepalive frames
					continue
				}
				if frame.Type != "snapshot" {
					continue
				}
				var snap models.Snapshot
				if err := json.Unmarshal(frame.Data, &snap); err != nil {
					continue
				}
				select {
				case snaps <- &snap:
				default:
					// drop on backpressure; the next frame supersedes
				}
			}
		}
	}()

	return snaps, errs
}

// Reconnect closes and re-establishes the subscription.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
