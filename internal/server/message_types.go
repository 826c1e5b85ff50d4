package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants for the client-server protocol
const (
	// Client to server messages
	MessageTypeHello       MessageType = "hello"
	MessageTypeCreateRoom  MessageType = "create_room"
	MessageTypeJoinRoom    MessageType = "join_room"
	MessageTypeLeaveRoom   MessageType = "leave_room"
	MessageTypeListRooms   MessageType = "list_rooms"
	MessageTypeSetReady    MessageType = "set_ready"
	MessageTypeSetNotReady MessageType = "set_not_ready"
	MessageTypePlayCard    MessageType = "play_card"
	MessageTypeGetState    MessageType = "get_state"

	// Server to client messages
	MessageTypeWelcome      MessageType = "welcome"
	MessageTypeRoomCreated  MessageType = "room_created"
	MessageTypeRoomJoined   MessageType = "room_joined"
	MessageTypeRoomLeft     MessageType = "room_left"
	MessageTypeRoomList     MessageType = "room_list"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypeTurnReminder MessageType = "turn_reminder"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
