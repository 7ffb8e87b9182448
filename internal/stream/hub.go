// Package stream pushes tour log changes to websocket clients. With Redis
// configured, events travel through pub/sub so clients of every instance
// receive them.
package stream

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"tourplanner/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	channelPrefix  = "tours:"
	channelSuffix  = ":logs"
	channelPattern = channelPrefix + "*" + channelSuffix

	subscribeTimeout = 2 * time.Second
	publishTimeout   = time.Second
	clientBuffer     = 64
)

type Event struct {
	Action string `json:"action"`
	TourID string `json:"tour_id"`
	Data   any    `json:"data,omitempty"`
}

type Hub struct {
	redis  *redis.Client
	pubsub *redis.PubSub
	logger zerolog.Logger
	done   chan struct{}

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

type Client struct {
	TourID string
	Send   chan []byte
}

// NewHub subscribes to the tour log channels when rdb is set. If the
// subscription cannot be confirmed the hub delivers to local clients only.
func NewHub(rdb *redis.Client, logger zerolog.Logger) *Hub {
	h := &Hub{
		logger:  logger,
		done:    make(chan struct{}),
		clients: map[string]map[*Client]struct{}{},
	}
	if rdb == nil {
		close(h.done)
		return h
	}

	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	defer cancel()
	ps := rdb.PSubscribe(ctx, channelPattern)
	if _, err := ps.Receive(ctx); err != nil {
		logger.Warn().Err(err).Msg("redis subscribe failed, delivering to local clients only")
		_ = ps.Close()
		close(h.done)
		return h
	}

	h.redis = rdb
	h.pubsub = ps
	go h.forward(ps.Channel())
	return h
}

func (h *Hub) forward(ch <-chan *redis.Message) {
	defer close(h.done)
	for msg := range ch {
		tourID, ok := tourIDFromChannel(msg.Channel)
		if !ok {
			continue
		}
		h.deliver(tourID, []byte(msg.Payload))
	}
}

func (h *Hub) Register(tourID string) *Client {
	client := &Client{
		TourID: strings.Clone(tourID),
		Send:   make(chan []byte, clientBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tourID] == nil {
		h.clients[tourID] = map[*Client]struct{}{}
	}
	h.clients[tourID][client] = struct{}{}
	metrics.StreamClientConnected()
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tourClients, ok := h.clients[client.TourID]
	if !ok {
		return
	}
	if _, ok := tourClients[client]; !ok {
		return
	}
	delete(tourClients, client)
	if len(tourClients) == 0 {
		delete(h.clients, client.TourID)
	}
	close(client.Send)
	metrics.StreamClientDisconnected()
}

// Publish sends ev to every client watching ev.TourID. Through Redis the
// event reaches local clients via the subscription, so it is not delivered
// twice.
func (h *Hub) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("tour_id", ev.TourID).Msg("encode stream event")
		return
	}
	metrics.IncStreamEvent(ev.Action)

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		err := h.redis.Publish(ctx, channel(ev.TourID), payload).Err()
		if err == nil {
			return
		}
		h.logger.Warn().Err(err).Str("tour_id", ev.TourID).Msg("redis publish failed, delivering locally")
	}
	h.deliver(ev.TourID, payload)
}

// deliver drops the message for clients whose buffer is full.
func (h *Hub) deliver(tourID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[tourID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	err := h.pubsub.Close()
	<-h.done
	return err
}

func channel(tourID string) string {
	return channelPrefix + tourID + channelSuffix
}

func tourIDFromChannel(ch string) (string, bool) {
	if len(ch) <= len(channelPrefix)+len(channelSuffix) ||
		!strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return "", false
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)], true
}

func (h *Hub) ClientCount(tourID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[tourID])
}
