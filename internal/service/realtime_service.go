package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/observability"
)

const realtimeSendBufferSize = 32

// RealtimeConnectionOptions wraps metadata extracted during the HTTP upgrade.
type RealtimeConnectionOptions struct {
	CorrelationID string
	Context       context.Context
}

// RealtimeService tracks connected participants and routes targeted events to
// their live sockets. Delivery is advisory only: an emit to a participant with
// no registered connection is a silent no-op, and callers rely on durable
// records for eventual visibility.
type RealtimeService interface {
	ServeConnection(conn *websocket.Conn, opts RealtimeConnectionOptions)
	EmitToParticipant(participantID, event string, payload interface{}) bool
	BroadcastTyping(conversationID, participantID string)
	BroadcastStoppedTyping(conversationID, participantID string)
	MembersOf(room string) int
}

type realtimeService struct {
	hub    *presenceHub
	logger zerolog.Logger
}

// presenceHub owns all registry and room state. A room named after a
// participant id holds every live connection of that participant; conversation
// rooms hold whichever connections have an open chat screen.
type presenceHub struct {
	mu    sync.RWMutex
	rooms map[string]map[*realtimeClient]struct{}
	log   zerolog.Logger
}

type realtimeClient struct {
	conn          *websocket.Conn
	send          chan dto.RealtimeEvent
	participantID string
	rooms         map[string]struct{}
	service       *realtimeService
	closed        chan struct{}
	once          sync.Once
	baseCtx       context.Context
}

// NewRealtimeService constructs the presence and delivery service. It is
// created once by the composition root and injected into every service that
// pushes live updates.
func NewRealtimeService(logger zerolog.Logger) RealtimeService {
	hub := &presenceHub{
		rooms: make(map[string]map[*realtimeClient]struct{}),
		log:   logger.With().Str("component", "presence_hub").Logger(),
	}

	return &realtimeService{
		hub:    hub,
		logger: logger.With().Str("component", "realtime_service").Logger(),
	}
}

func (s *realtimeService) ServeConnection(conn *websocket.Conn, opts RealtimeConnectionOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &realtimeClient{
		conn:    conn,
		send:    make(chan dto.RealtimeEvent, realtimeSendBufferSize),
		rooms:   make(map[string]struct{}),
		service: s,
		closed:  make(chan struct{}),
		baseCtx: baseCtx,
	}

	observability.RealtimeConnectionsActive().Inc()
	defer observability.RealtimeConnectionsActive().Dec()

	go client.writer()
	client.reader()
}

// EmitToParticipant delivers an event to every live connection of the
// participant. Returns whether at least one connection received the emit; a
// missing or empty participant id is treated as "recipient offline" and never
// raises an error.
func (s *realtimeService) EmitToParticipant(participantID, event string, payload interface{}) bool {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		s.logger.Debug().Str("event", event).Msg("emit skipped: empty participant id")
		return false
	}

	delivered := s.hub.broadcast(participantID, dto.RealtimeEvent{Event: event, Data: payload}, nil)
	observability.RealtimeEmitsTotal().WithLabelValues(event).Inc()
	if delivered == 0 {
		observability.RealtimeEmitsDropped().WithLabelValues(event).Inc()
		s.logger.Debug().Str("participant_id", participantID).Str("event", event).Msg("recipient offline, emit dropped")
		return false
	}

	return true
}

// BroadcastTyping pushes a typing indicator to everyone in the conversation
// room except the typist's own connections. Nothing is persisted and nothing
// expires server-side; clients clear stale indicators themselves.
func (s *realtimeService) BroadcastTyping(conversationID, participantID string) {
	s.broadcastSignal(conversationID, participantID, dto.EventUserTyping)
}

// BroadcastStoppedTyping clears a typing indicator for conversation peers.
func (s *realtimeService) BroadcastStoppedTyping(conversationID, participantID string) {
	s.broadcastSignal(conversationID, participantID, dto.EventUserStoppedTyping)
}

func (s *realtimeService) broadcastSignal(conversationID, participantID, event string) {
	conversationID = strings.TrimSpace(conversationID)
	participantID = strings.TrimSpace(participantID)
	if conversationID == "" || participantID == "" {
		return
	}

	payload := dto.TypingPayload{UserID: participantID, ConversationID: conversationID}
	s.hub.broadcast(conversationID, dto.RealtimeEvent{Event: event, Data: payload}, func(c *realtimeClient) bool {
		return c.participantID == participantID
	})
}

// MembersOf reports the current room population. Diagnostic only; the value
// may be stale the moment it is returned.
func (s *realtimeService) MembersOf(room string) int {
	return s.hub.members(room)
}

// register associates a connection with a participant identity and joins it to
// the room named after that id. Re-announcing is idempotent.
func (h *presenceHub) register(client *realtimeClient, participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.participantID != "" && client.participantID != participantID {
		h.leaveLocked(client, client.participantID)
	}
	client.participantID = participantID
	h.joinLocked(client, participantID)

	h.log.Info().Str("participant_id", participantID).Int("connections", len(h.rooms[participantID])).Msg("participant joined")
}

// deregister removes the connection from every room it occupies. Safe to call
// for connections that never announced an identity.
func (h *presenceHub) deregister(client *realtimeClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range client.rooms {
		h.leaveLocked(client, room)
	}

	if client.participantID != "" {
		h.log.Info().Str("participant_id", client.participantID).Msg("participant disconnected")
	}
}

func (h *presenceHub) join(client *realtimeClient, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinLocked(client, room)
}

func (h *presenceHub) leave(client *realtimeClient, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(client, room)
}

func (h *presenceHub) joinLocked(client *realtimeClient, room string) {
	if room == "" {
		return
	}
	if _, exists := h.rooms[room]; !exists {
		h.rooms[room] = make(map[*realtimeClient]struct{})
	}
	h.rooms[room][client] = struct{}{}
	client.rooms[room] = struct{}{}
}

func (h *presenceHub) leaveLocked(client *realtimeClient, room string) {
	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// broadcast emits to every connection in the room, skipping connections for
// which exclude returns true. Slow consumers are dropped rather than awaited.
// Returns the number of connections the event was handed to.
func (h *presenceHub) broadcast(room string, event dto.RealtimeEvent, exclude func(*realtimeClient) bool) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.rooms[room] {
		if exclude != nil && exclude(client) {
			continue
		}
		select {
		case client.send <- event:
			delivered++
		default:
			h.log.Warn().Str("room", room).Str("participant_id", client.participantID).Str("event", event.Event).Msg("dropping event for slow client")
		}
	}

	return delivered
}

func (h *presenceHub) members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (c *realtimeClient) reader() {
	defer c.close()

	for {
		var frame dto.RealtimeClientFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			c.service.logger.Debug().Err(err).Msg("realtime read loop ended")
			return
		}
		c.handleFrame(frame)
	}
}

func (c *realtimeClient) handleFrame(frame dto.RealtimeClientFrame) {
	s := c.service

	switch frame.Event {
	case dto.FrameJoin:
		participantID := strings.TrimSpace(frame.ParticipantID)
		if participantID == "" {
			// Connection stays unassociated until a valid announcement.
			s.logger.Warn().Msg("join announcement without participant id ignored")
			return
		}
		s.hub.register(c, participantID)
	case dto.FrameJoinConversation:
		room := strings.TrimSpace(frame.ConversationID)
		if room == "" {
			return
		}
		s.hub.join(c, room)
	case dto.FrameLeaveConversation:
		room := strings.TrimSpace(frame.ConversationID)
		if room == "" {
			return
		}
		s.hub.leave(c, room)
	case dto.FrameTyping:
		s.BroadcastTyping(frame.ConversationID, c.typistID(frame))
	case dto.FrameStoppedTyping:
		s.BroadcastStoppedTyping(frame.ConversationID, c.typistID(frame))
	default:
		s.logger.Warn().Str("event", frame.Event).Msg("unknown realtime frame ignored")
	}
}

// typistID prefers the announced identity over the frame's userId field so a
// client cannot impersonate another typist after joining.
func (c *realtimeClient) typistID(frame dto.RealtimeClientFrame) string {
	c.service.hub.mu.RLock()
	defer c.service.hub.mu.RUnlock()
	if c.participantID != "" {
		return c.participantID
	}
	return strings.TrimSpace(frame.UserID)
}

func (c *realtimeClient) writer() {
	defer c.close()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.service.logger.Debug().Err(err).Msg("realtime write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("realtime ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *realtimeClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.deregister(c)
		_ = c.conn.Close()
	})
}
