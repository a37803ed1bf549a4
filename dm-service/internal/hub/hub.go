package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/choosenname/OneTeam/dm-service/internal/config"
	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/pkg/log"
)

var ErrHubStopped = errors.New("hub stopped")

// Hub fans published payloads out to the WebSocket clients subscribed to a
// routing key on this instance.
type Hub struct {
	clients    map[string]*Client            // clientID -> client
	topics     map[string]map[string]*Client // routing key -> clientID -> client
	register   chan *registration
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

type registration struct {
	client *Client
	ack    chan error
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		topics:     make(map[string]map[string]*Client),
		register:   make(chan *registration),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		config:     cfg,
	}
}

// Run serializes client registration until ctx is cancelled or Stop is called.
func (h *Hub) Run(ctx context.Context) {
	defer h.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return

		case reg := <-h.register:
			h.mu.Lock()
			select {
			case <-h.done:
				h.mu.Unlock()
				reg.ack <- ErrHubStopped
				continue
			default:
			}
			h.clients[reg.client.ID] = reg.client
			h.mu.Unlock()
			reg.ack <- nil
			l := log.L()
			l.Debug().Str(log.FieldClientID, reg.client.ID).Str(log.FieldUserID, reg.client.UserID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client unregistered")
		}
	}
}

// Stop closes every client's send channel and makes the hub reject new
// registrations. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()
		for _, client := range h.clients {
			h.dropLocked(client)
		}
	})
}

// dropLocked removes the client from every topic and closes its send channel.
// Callers hold h.mu.
func (h *Hub) dropLocked(client *Client) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	for key := range client.keys {
		if subs, ok := h.topics[key]; ok {
			delete(subs, client.ID)
			if len(subs) == 0 {
				delete(h.topics, key)
			}
		}
	}
	client.keys = nil
	delete(h.clients, client.ID)
	close(client.Send)
}

// Register adds the client and returns once it can subscribe.
func (h *Hub) Register(client *Client) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	reg := &registration{client: client, ack: make(chan error, 1)}
	select {
	case h.register <- reg:
	case <-h.done:
		return ErrHubStopped
	}
	return <-reg.ack
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribe adds the client to key. It reports false when the client is no
// longer registered.
func (h *Hub) Subscribe(client *Client, key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return false
	}
	if _, ok := h.topics[key]; !ok {
		h.topics[key] = make(map[string]*Client)
	}
	h.topics[key][client.ID] = client
	if client.keys == nil {
		client.keys = make(map[string]struct{})
	}
	client.keys[key] = struct{}{}

	l := log.L()
	l.Info().Str(log.FieldClientID, client.ID).Str(log.FieldRoutingKey, key).Msg("client subscribed")
	return true
}

func (h *Hub) Unsubscribe(client *Client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.topics[key]; ok {
		delete(subs, client.ID)
		if len(subs) == 0 {
			delete(h.topics, key)
		}
	}
	delete(client.keys, key)

	l := log.L()
	l.Info().Str(log.FieldClientID, client.ID).Str(log.FieldRoutingKey, key).Msg("client unsubscribed")
}

// Publish delivers payload to every client subscribed to key. Sends never
// block: a client whose buffer is full is disconnected instead.
func (h *Hub) Publish(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(&domain.EventFrame{
		Type: domain.FrameEvent,
		Key:  key,
		Data: data,
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.topics[key] {
		select {
		case client.Send <- frame:
		default:
			l := log.Ctx(ctx)
			l.Warn().Str(log.FieldClientID, client.ID).Str(log.FieldRoutingKey, key).Msg("client send buffer full, disconnecting")
			go h.Unregister(client)
		}
	}
	return nil
}

func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[key])
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
