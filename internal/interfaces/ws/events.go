package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/chat"
)

// Client to server events
const (
	EventAuthenticate      = "authenticate"
	EventJoinRoom          = "join-room"
	EventLeaveRoom         = "leave-room"
	EventSendMessage       = "send-message"
	EventTypingStart       = "typing-start"
	EventTypingStop        = "typing-stop"
	EventMarkRead          = "mark-read"
	EventTaskStatusUpdated = "task-status-updated"
)

// Server to client events
const (
	EventUserOnline        = "user-online"
	EventUserOffline       = "user-offline"
	EventNewMessage        = "new-message"
	EventUserTyping        = "user-typing"
	EventUserStoppedTyping = "user-stopped-typing"
	EventMessagesRead      = "messages-read"
	EventMessageError      = "message-error"
)

// Envelope is the wire format for every socket event in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// authenticatePayload carries the bearer token that identifies a
// connection
type authenticatePayload struct {
	Token string `json:"token"`
}

type roomPayload struct {
	RoomID uuid.UUID `json:"room_id"`
}

type sendMessagePayload struct {
	RoomID     uuid.UUID `json:"room_id"`
	Body       string    `json:"body"`
	Kind       string    `json:"kind"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	SenderName string    `json:"sender_name"`
}

type typingPayload struct {
	RoomID   uuid.UUID `json:"room_id"`
	UserName string    `json:"user_name"`
}

type taskStatusPayload struct {
	TaskID    uuid.UUID `json:"task_id"`
	NewStatus string    `json:"new_status"`
	ProjectID uuid.UUID `json:"project_id"`
}

type presencePayload struct {
	UserID uuid.UUID `json:"user_id"`
}

type newMessagePayload struct {
	chat.Message
	SenderName string `json:"sender_name,omitempty"`
}

type userTypingPayload struct {
	RoomID   uuid.UUID `json:"room_id"`
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name,omitempty"`
}

type messagesReadPayload struct {
	RoomID uuid.UUID `json:"room_id"`
	UserID uuid.UUID `json:"user_id"`
	ReadAt time.Time `json:"read_at"`
}

type messageErrorPayload struct {
	Error string `json:"error"`
}

// marshalEvent serializes one outbound event. A marshal failure here is
// a programming error; callers get a nil slice and skip the send.
func marshalEvent(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	out, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return nil
	}
	return out
}
