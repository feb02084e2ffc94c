// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package notify

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		// In production, you should validate the origin
		return true
	},
}

// recentKey is the Redis list of recent run notices, replayed to clients
// when they connect.
const recentKey = "roster:notifications:recent"

// recentLimit caps how many notices are kept for replay.
const recentLimit = 50

// RunNotice is a message pushed to clients when a parse run finishes.
type RunNotice struct {
	Type       string `json:"type"`
	RunID      string `json:"runId"`
	URL        string `json:"url"`
	SourceDate string `json:"sourceDate"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Level      string `json:"level"`
}

// Hub manages WebSocket connections and fans out run notices to every
// connected client. When a Redis client is provided, recent notices are
// kept there and replayed on connect so a client that was offline during
// a run still sees it.
type Hub struct {
	clients     map[string]*websocket.Conn
	clientsMu   sync.RWMutex
	redisClient *redis.Client
	pingTicker  *time.Ticker
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a notification hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		clients:     make(map[string]*websocket.Conn),
		redisClient: redisClient,
		pingTicker:  time.NewTicker(30 * time.Second),
		ctx:         ctx,
		cancel:      cancel,
	}

	go h.pingLoop()

	return h
}

// pingLoop sends ping messages to all connected clients
func (h *Hub) pingLoop() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.pingTicker.C:
			h.pingAllClients()
		}
	}
}

// pingAllClients sends ping to all connected clients and removes dead connections
func (h *Hub) pingAllClients() {
	h.clientsMu.RLock()
	clients := make(map[string]*websocket.Conn)
	for id, conn := range h.clients {
		clients[id] = conn
	}
	h.clientsMu.RUnlock()

	for clientID, conn := range clients {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))

		if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
			log.Printf("Failed to ping client %s, removing connection: %v", clientID, err)
			h.clientsMu.Lock()
			delete(h.clients, clientID)
			h.clientsMu.Unlock()
			conn.Close()
			continue
		}

		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}

// HandleWebSocket handles WebSocket connections
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.New().String()
	}

	log.Printf("WebSocket client connected: %s", clientID)

	h.clientsMu.Lock()
	h.clients[clientID] = conn
	h.clientsMu.Unlock()

	defer func() {
		h.clientsMu.Lock()
		delete(h.clients, clientID)
		h.clientsMu.Unlock()
		log.Printf("WebSocket client disconnected: %s", clientID)
	}()

	// Replay recent notices so a freshly connected client has context
	if err := h.sendRecent(conn); err != nil {
		log.Printf("Failed to replay recent notices to %s: %v", clientID, err)
	}

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	// Keep connection alive; clients don't send anything meaningful
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for client %s: %v", clientID, err)
			}
			break
		}

		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		log.Printf("Received message from client %s: %s", clientID, string(message))
	}
}

// Broadcast sends a notice to every connected client and records it for
// replay. Dead connections are dropped.
func (h *Hub) Broadcast(notice RunNotice) {
	data, err := json.Marshal(notice)
	if err != nil {
		log.Printf("Broadcast: failed to marshal notice: %v", err)
		return
	}

	h.clientsMu.RLock()
	clients := make(map[string]*websocket.Conn)
	for id, conn := range h.clients {
		clients[id] = conn
	}
	h.clientsMu.RUnlock()

	for clientID, conn := range clients {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Failed to send notice to client %s: %v", clientID, err)
			h.clientsMu.Lock()
			delete(h.clients, clientID)
			h.clientsMu.Unlock()
			conn.Close()
		}
	}

	h.recordRecent(data)
}

// recordRecent keeps the last N notices in Redis for replay on connect.
func (h *Hub) recordRecent(data []byte) {
	if h.redisClient == nil {
		return
	}
	ctx := context.Background()
	if err := h.redisClient.LPush(ctx, recentKey, data).Err(); err != nil {
		log.Printf("Failed to record notice in Redis: %v", err)
		return
	}
	h.redisClient.LTrim(ctx, recentKey, 0, recentLimit-1)
}

// sendRecent replays stored notices, oldest first.
func (h *Hub) sendRecent(conn *websocket.Conn) error {
	if h.redisClient == nil {
		return nil
	}

	ctx := context.Background()
	items, err := h.redisClient.LRange(ctx, recentKey, 0, recentLimit-1).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	for i := len(items) - 1; i >= 0; i-- {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(items[i])); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops the ping ticker and cleans up resources
func (h *Hub) Stop() {
	h.cancel()
	if h.pingTicker != nil {
		h.pingTicker.Stop()
	}

	h.clientsMu.Lock()
	for clientID, conn := range h.clients {
		conn.Close()
		delete(h.clients, clientID)
	}
	h.clientsMu.Unlock()

	log.Printf("Notification hub stopped")
}
