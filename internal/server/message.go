package server

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mmai/thevalley/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type HelloData struct {
	Name string `json:"name"`
}

type CreateRoomData struct {
	Name      string `json:"name,omitempty"`
	SeatCount int    `json:"seatCount,omitempty"`
	HandSize  int    `json:"handSize,omitempty"`
}

type JoinRoomData struct {
	RoomID string `json:"roomId"`
}

type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

type ReadyData struct {
	RoomID string `json:"roomId"`
}

type PlayCardData struct {
	RoomID string `json:"roomId"`
	Card   string `json:"card"`
}

type GetStateData struct {
	RoomID string `json:"roomId"`
}

// Server → Client Messages

type WelcomeData struct {
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name"`
}

type RoomCreatedData struct {
	RoomID  string       `json:"roomId"`
	Name    string       `json:"name"`
	Variant game.Variant `json:"variant"`
}

type RoomJoinedData struct {
	RoomID string    `json:"roomId"`
	Seat   game.Seat `json:"seat"`
}

type RoomLeftData struct {
	RoomID string `json:"roomId"`
}

type RoomInfo struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Variant     game.Variant `json:"variant"`
	PlayerCount int          `json:"playerCount"`
	Joinable    bool         `json:"joinable"`
	Stage       string       `json:"stage"`
}

type RoomListData struct {
	Rooms []RoomInfo `json:"rooms"`
}

type TurnReminderData struct {
	RoomID         string    `json:"roomId"`
	Seat           game.Seat `json:"seat"`
	TimeoutSeconds int       `json:"timeoutSeconds"`
}

type GameStateData struct {
	RoomID   string        `json:"roomId"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
