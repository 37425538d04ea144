// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// FeedConfig bounds the live-feed read/write cycle
type FeedConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultFeedConfig returns the default live-feed configuration
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// feedEvent wraps a bus message with its subject so feed consumers can
// tell detections, score changes, and alert triggers apart.
type feedEvent struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}

// feedClient is one connected live-feed client
type feedClient struct {
	conn          *websocket.Conn
	send          chan []byte
	subscriptions []*nats.Subscription
	closeOnce     sync.Once
	logger        *zap.Logger
}

// LiveFeedHandler upgrades the connection and bridges the given NATS
// subjects into it. Clients receive every published trend and alert
// event as {subject, data} frames.
func LiveFeedHandler(natsConn *nats.Conn, subjects []string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if natsConn == nil {
			respondError(w, http.StatusServiceUnavailable, "Live feed is not enabled", "")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("failed to upgrade live feed connection", zap.Error(err))
			return
		}

		client := &feedClient{
			conn:   conn,
			send:   make(chan []byte, 256),
			logger: logger,
		}

		if err := client.subscribe(natsConn, subjects); err != nil {
			logger.Error("failed to subscribe live feed client", zap.Error(err))
			client.close()
			return
		}

		go client.writePump()
		go client.readPump()

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":     "connected",
			"subjects": subjects,
			"time":     time.Now().UTC(),
		})
		client.send <- welcome

		logger.Info("live feed client connected", zap.String("remote", r.RemoteAddr))
	}
}

// subscribe bridges each NATS subject into the client's send channel.
// Events the client cannot drain in time are dropped.
func (c *feedClient) subscribe(natsConn *nats.Conn, subjects []string) error {
	for _, subject := range subjects {
		sub, err := natsConn.Subscribe(subject, func(msg *nats.Msg) {
			event, err := json.Marshal(feedEvent{Subject: msg.Subject, Data: msg.Data})
			if err != nil {
				return
			}
			select {
			case c.send <- event:
			default:
			}
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		c.subscriptions = append(c.subscriptions, sub)
	}
	return nil
}

// readPump services pings and detects disconnects. The feed is
// one-way; inbound frames are discarded.
func (c *feedClient) readPump() {
	cfg := DefaultFeedConfig()

	defer c.close()

	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("live feed read failed", zap.Error(err))
			}
			return
		}
	}
}

// writePump pumps bridged events to the client and keeps the
// connection alive with pings
func (c *feedClient) writePump() {
	cfg := DefaultFeedConfig()
	ticker := time.NewTicker(cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			writer, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			writer.Write(message)

			// Flush any queued events into the same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				writer.Write([]byte{'\n'})
				writer.Write(<-c.send)
			}

			if err := writer.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close unsubscribes from NATS and closes the connection. The send
// channel is left open so late bus callbacks cannot panic; they drop
// their events once the buffer fills.
func (c *feedClient) close() {
	c.closeOnce.Do(func() {
		for _, sub := range c.subscriptions {
			_ = sub.Unsubscribe()
		}
		c.conn.Close()
		c.logger.Info("live feed client disconnected")
	})
}
