package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
)

const (
	notifySendBufferSize = 16
	notifyWriteTimeout   = 5 * time.Second
)

// NotifierService pushes notification events to connected websocket clients.
// Events arrive over NATS so delivery works across API replicas; each client
// only sees events addressed to their user id.
type NotifierService interface {
	ServeConnection(conn *websocket.Conn, userID uint)
	Start(ctx context.Context) error
	Stop()
}

type notifierService struct {
	nats   *nats.Conn
	logger zerolog.Logger
	hub    *notifyHub
	subs   []*nats.Subscription
}

type notifyHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*notifyClient]struct{}
}

type notifyClient struct {
	conn   *websocket.Conn
	send   chan dto.NotificationEvent
	closed chan struct{}
	once   sync.Once
}

// NewNotifierService builds the notifier. A nil NATS connection disables
// cross-replica delivery; connections still open but receive nothing.
func NewNotifierService(natsConn *nats.Conn, logger zerolog.Logger) NotifierService {
	return &notifierService{
		nats:   natsConn,
		logger: logger.With().Str("component", "notifier_service").Logger(),
		hub:    &notifyHub{clients: make(map[uint]map[*notifyClient]struct{})},
	}
}

func (s *notifierService) Start(ctx context.Context) error {
	if s.nats == nil {
		s.logger.Warn().Msg("nats disabled, realtime notifications unavailable")
		return nil
	}

	if err := s.subscribe(SubjectMessageSent, s.onMessageSent); err != nil {
		return err
	}
	for _, subject := range []string{
		SubjectCompensationRequested,
		SubjectCompensationApproved,
		SubjectCompensationRejected,
		SubjectCompensationCompleted,
	} {
		if err := s.subscribe(subject, s.onCompensationEvent(subject)); err != nil {
			return err
		}
	}

	return nil
}

func (s *notifierService) Stop() {
	for _, sub := range s.subs {
		_ = sub.Drain()
	}
}

func (s *notifierService) subscribe(subject string, handler nats.MsgHandler) error {
	sub, err := s.nats.Subscribe(subject, handler)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *notifierService) onMessageSent(msg *nats.Msg) {
	var event MessageEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Error().Err(err).Msg("discarding undecodable message event")
		return
	}

	s.hub.deliver(event.RecipientID, dto.NotificationEvent{
		Kind:      "message.received",
		UserID:    event.RecipientID,
		Payload:   event,
		CreatedAt: event.OccurredAt,
	})
}

func (s *notifierService) onCompensationEvent(subject string) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var event CompensationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			s.logger.Error().Err(err).Msg("discarding undecodable compensation event")
			return
		}

		// The requesting user follows the request through its lifecycle.
		s.hub.deliver(event.StudentID, dto.NotificationEvent{
			Kind:      subject,
			UserID:    event.StudentID,
			Payload:   event,
			CreatedAt: event.OccurredAt,
		})
	}
}

func (s *notifierService) ServeConnection(conn *websocket.Conn, userID uint) {
	client := &notifyClient{
		conn:   conn,
		send:   make(chan dto.NotificationEvent, notifySendBufferSize),
		closed: make(chan struct{}),
	}

	s.hub.register(userID, client)
	s.logger.Info().Uint("user_id", userID).Msg("notification stream connected")

	go client.writer()
	client.reader()

	s.hub.unregister(userID, client)
	s.logger.Info().Uint("user_id", userID).Msg("notification stream disconnected")
}

func (h *notifyHub) register(userID uint, client *notifyClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*notifyClient]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *notifyHub) unregister(userID uint, client *notifyClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[userID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.clients, userID)
		}
	}
	client.close()
}

func (h *notifyHub) deliver(userID uint, event dto.NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- event:
		default:
			// Slow consumer, drop rather than block the hub.
		}
	}
}

func (c *notifyClient) writer() {
	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(notifyWriteTimeout))
			if err := c.conn.WriteJSON(event); err != nil {
				c.close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *notifyClient) reader() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.close()
			return
		}
	}
}

func (c *notifyClient) close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}
