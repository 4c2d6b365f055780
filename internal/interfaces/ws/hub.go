package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appnotification "github.com/promanage/backend/internal/application/notification"
	"github.com/promanage/backend/internal/domain/chat"
	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/domain/task"
	"github.com/promanage/backend/internal/infrastructure/auth"
)

// inboundEvent pairs a decoded envelope with the connection it arrived on
type inboundEvent struct {
	client *Client
	env    Envelope
}

// Hub brokers chat, presence and task-status events between connected
// clients. All connection, identity and room maps are owned by the
// single Run goroutine; clients and HTTP handlers communicate with it
// only through channels.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent

	clients map[*Client]struct{}
	users   map[*Client]uuid.UUID
	rooms   map[uuid.UUID]map[*Client]struct{}

	messages chat.MessageRepository
	presence chat.PresenceRepository
	online   chat.OnlineSet
	tasks    task.Repository
	profiles identity.Repository
	notifier *appnotification.Service
	jwt      *auth.JWTService
	logger   *zap.Logger
}

// NewHub creates a relay hub
func NewHub(
	messages chat.MessageRepository,
	presence chat.PresenceRepository,
	online chat.OnlineSet,
	tasks task.Repository,
	profiles identity.Repository,
	notifier *appnotification.Service,
	jwt *auth.JWTService,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundEvent, 256),
		clients:    make(map[*Client]struct{}),
		users:      make(map[*Client]uuid.UUID),
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		messages:   messages,
		presence:   presence,
		online:     online,
		tasks:      tasks,
		profiles:   profiles,
		notifier:   notifier,
		jwt:        jwt,
		logger:     logger,
	}
}

// Run owns the hub state until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			h.removeClient(ctx, c)
		case ev := <-h.inbound:
			h.handle(ctx, ev.client, ev.env)
		}
	}
}

func (h *Hub) handle(ctx context.Context, c *Client, env Envelope) {
	if _, registered := h.clients[c]; !registered {
		return
	}

	if env.Event == EventAuthenticate {
		h.handleAuthenticate(ctx, c, env.Data)
		return
	}

	// Every other event requires an identified connection
	userID, identified := h.users[c]
	if !identified {
		h.logger.Debug("dropping event from anonymous connection",
			zap.String("event", env.Event))
		return
	}

	switch env.Event {
	case EventJoinRoom:
		h.handleJoinRoom(c, env.Data)
	case EventLeaveRoom:
		h.handleLeaveRoom(c, env.Data)
	case EventSendMessage:
		h.handleSendMessage(ctx, c, userID, env.Data)
	case EventTypingStart:
		h.handleTyping(c, userID, env.Data, true)
	case EventTypingStop:
		h.handleTyping(c, userID, env.Data, false)
	case EventMarkRead:
		h.handleMarkRead(ctx, c, userID, env.Data)
	case EventTaskStatusUpdated:
		h.handleTaskStatusUpdated(ctx, userID, env.Data)
	default:
		h.logger.Debug("unknown socket event", zap.String("event", env.Event))
	}
}

func (h *Hub) handleAuthenticate(ctx context.Context, c *Client, raw json.RawMessage) {
	var payload authenticatePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Token == "" {
		h.logger.Debug("invalid authenticate payload")
		return
	}

	claims, err := h.jwt.ValidateToken(payload.Token)
	if err != nil {
		h.logger.Debug("socket authentication failed", zap.Error(err))
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return
	}

	h.users[c] = userID

	// Presence writes are secondary; failures are logged, the
	// connection stays identified
	now := time.Now()
	if err := h.presence.Upsert(ctx, userID, true, now); err != nil {
		h.logger.Warn("failed to persist presence online",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
	if err := h.online.Add(ctx, userID); err != nil {
		h.logger.Warn("failed to update online set", zap.Error(err))
	}

	h.broadcastAll(marshalEvent(EventUserOnline, presencePayload{UserID: userID}))
}

func (h *Hub) handleJoinRoom(c *Client, raw json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == uuid.Nil {
		return
	}
	members, ok := h.rooms[payload.RoomID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[payload.RoomID] = members
	}
	members[c] = struct{}{}
}

func (h *Hub) handleLeaveRoom(c *Client, raw json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == uuid.Nil {
		return
	}
	h.dropFromRoom(payload.RoomID, c)
}

func (h *Hub) handleSendMessage(ctx context.Context, c *Client, userID uuid.UUID, raw json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == uuid.Nil {
		c.enqueue(marshalEvent(EventMessageError, messageErrorPayload{Error: "invalid message payload"}))
		return
	}

	msg, err := chat.NewMessage(payload.RoomID, userID, payload.Body)
	if err != nil {
		c.enqueue(marshalEvent(EventMessageError, messageErrorPayload{Error: err.Error()}))
		return
	}
	if payload.Kind == string(chat.MessageKindFile) {
		msg.Kind = chat.MessageKindFile
		msg.FileName = payload.FileName
		msg.FileURL = payload.FileURL
	}

	if err := h.messages.Save(ctx, msg); err != nil {
		h.logger.Warn("failed to persist chat message",
			zap.String("room_id", payload.RoomID.String()),
			zap.Error(err))
		c.enqueue(marshalEvent(EventMessageError, messageErrorPayload{Error: "failed to save message"}))
		return
	}

	// Broadcast the saved row enriched with the display name from the
	// event payload; sender fields are not re-fetched
	h.broadcastToRoom(payload.RoomID, marshalEvent(EventNewMessage, newMessagePayload{
		Message:    *msg,
		SenderName: payload.SenderName,
	}), nil)
}

func (h *Hub) handleTyping(c *Client, userID uuid.UUID, raw json.RawMessage, started bool) {
	var payload typingPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == uuid.Nil {
		return
	}

	event := EventUserStoppedTyping
	if started {
		event = EventUserTyping
	}
	h.broadcastToRoom(payload.RoomID, marshalEvent(event, userTypingPayload{
		RoomID:   payload.RoomID,
		UserID:   userID,
		UserName: payload.UserName,
	}), c)
}

func (h *Hub) handleMarkRead(ctx context.Context, c *Client, userID uuid.UUID, raw json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == uuid.Nil {
		return
	}

	now := time.Now()
	if err := h.messages.MarkRead(ctx, payload.RoomID, userID, now); err != nil {
		h.logger.Warn("failed to mark room read",
			zap.String("room_id", payload.RoomID.String()),
			zap.Error(err))
		return
	}

	h.broadcastToRoom(payload.RoomID, marshalEvent(EventMessagesRead, messagesReadPayload{
		RoomID: payload.RoomID,
		UserID: userID,
		ReadAt: now,
	}), nil)
}

// handleTaskStatusUpdated reacts to a task moving to done or
// in-progress. All fetch/notify failures are logged and never surface
// to the emitting client.
func (h *Hub) handleTaskStatusUpdated(ctx context.Context, userID uuid.UUID, raw json.RawMessage) {
	var payload taskStatusPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.TaskID == uuid.Nil {
		return
	}

	status := task.Status(payload.NewStatus)
	if status != task.StatusDone && status != task.StatusInProgress {
		return
	}

	t, err := h.tasks.FindByID(ctx, payload.TaskID)
	if err != nil {
		h.logger.Warn("task status event: failed to load task",
			zap.String("task_id", payload.TaskID.String()),
			zap.Error(err))
		return
	}

	employeeName := ""
	if emitter, err := h.profiles.FindByID(ctx, userID); err == nil {
		employeeName = emitter.FullName
	}

	switch status {
	case task.StatusDone:
		creator, err := h.profiles.FindByID(ctx, t.CreatedBy)
		if err != nil {
			h.logger.Warn("task status event: failed to load creator profile",
				zap.String("task_id", t.ID.String()),
				zap.Error(err))
			return
		}
		// The in-app row is written even when the creator has no email;
		// the email is simply skipped in that case
		result := h.notifier.NotifyTaskCompleted(ctx, appnotification.TaskCompletedInput{
			TaskID:       t.ID,
			ProjectID:    t.ProjectID,
			TaskTitle:    t.Title,
			ManagerID:    creator.ID,
			ManagerEmail: creator.Email,
			ManagerName:  creator.FullName,
			EmployeeName: employeeName,
		})
		if !result.Success {
			h.logger.Warn("task completed notification failed",
				zap.String("task_id", t.ID.String()),
				zap.String("error", result.Error))
		}
	case task.StatusInProgress:
		result := h.notifier.NotifyTaskStarted(ctx, appnotification.TaskStartedInput{
			TaskID:       t.ID,
			ProjectID:    t.ProjectID,
			TaskTitle:    t.Title,
			CreatorID:    t.CreatedBy,
			EmployeeName: employeeName,
		})
		if !result.Success {
			h.logger.Warn("task started notification failed",
				zap.String("task_id", t.ID.String()),
				zap.String("error", result.Error))
		}
	}
}

// removeClient tears down a connection: room membership, identity,
// durable presence, online set, and the offline broadcast.
func (h *Hub) removeClient(ctx context.Context, c *Client) {
	if _, registered := h.clients[c]; !registered {
		return
	}
	delete(h.clients, c)
	close(c.send)

	for roomID := range h.rooms {
		h.dropFromRoom(roomID, c)
	}

	userID, identified := h.users[c]
	if !identified {
		return
	}
	delete(h.users, c)

	// The same user may hold another connection; only the last one
	// going away flips presence
	for _, other := range h.users {
		if other == userID {
			return
		}
	}

	now := time.Now()
	if err := h.presence.Upsert(ctx, userID, false, now); err != nil {
		h.logger.Warn("failed to persist presence offline",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
	if err := h.online.Remove(ctx, userID); err != nil {
		h.logger.Warn("failed to update online set", zap.Error(err))
	}

	h.broadcastAll(marshalEvent(EventUserOffline, presencePayload{UserID: userID}))
}

func (h *Hub) dropFromRoom(roomID uuid.UUID, c *Client) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// broadcastToRoom delivers msg to every member of one room, optionally
// excluding a client. Clients whose buffers are full are dropped.
func (h *Hub) broadcastToRoom(roomID uuid.UUID, msg []byte, except *Client) {
	if msg == nil {
		return
	}
	for c := range h.rooms[roomID] {
		if c == except {
			continue
		}
		if !c.enqueue(msg) {
			h.logger.Debug("dropping slow client")
			h.removeClient(context.Background(), c)
		}
	}
}

// broadcastAll delivers msg to every registered connection
func (h *Hub) broadcastAll(msg []byte) {
	if msg == nil {
		return
	}
	for c := range h.clients {
		if !c.enqueue(msg) {
			h.logger.Debug("dropping slow client")
			h.removeClient(context.Background(), c)
		}
	}
}
