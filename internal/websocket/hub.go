package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-studyprep-be/internal/pkg/logger"
	"ai-studyprep-be/pkg/pipeline/progress"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProgressUpdate is the wire payload pushed to clients as a session moves
// through the pipeline.
type ProgressUpdate struct {
	SessionId  string `json:"session_id"`
	Step       string `json:"step"`
	StepPct    int    `json:"step_pct"`
	OverallPct int    `json:"overall_pct"`
	EtaSeconds int    `json:"eta_seconds"`
	Message    string `json:"message,omitempty"`
	Status     string `json:"status"`
}

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendProgress delivers a progress update to every device of one user,
// fanning out through Redis so other instances reach their clients too.
func (h *Hub) SendProgress(userID uuid.UUID, update ProgressUpdate) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "progress",
		"data": update,
	})

	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_user_id": userID.String(),
			"message":        data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// SendProgressSnapshot adapts a pipeline progress snapshot to the wire
// payload. This is what the processing service's delivery sink calls.
func (h *Hub) SendProgressSnapshot(userID uuid.UUID, snap progress.Snapshot) {
	h.SendProgress(userID, ProgressUpdate{
		SessionId:  snap.SessionId.String(),
		Step:       string(snap.Step),
		StepPct:    snap.StepPct,
		OverallPct: snap.OverallPct,
		EtaSeconds: snap.ETASeconds,
		Message:    snap.Message,
		Status:     string(snap.Status),
	})
}

// subscribeToRedis listens on the shared channel and delivers messages to
// locally connected targets. Every instance subscribes; whoever holds the
// user's connection forwards.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[uid]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
