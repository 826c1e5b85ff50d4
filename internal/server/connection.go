package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mmai/thevalley/internal/deck"
	"github.com/mmai/thevalley/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn       *websocket.Conn
	send       chan *Message
	playerID   uuid.UUID
	playerName string
	roomID     string
	server     *Server
	logger     *log.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
	closeOnce  sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for delivery to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown.
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// PlayerID returns the server-issued identity, or uuid.Nil before hello
func (c *Connection) PlayerID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// PlayerName returns the display name sent in hello
func (c *Connection) PlayerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// RoomID returns the room this connection has joined, if any
func (c *Connection) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *Connection) setIdentity(id uuid.UUID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
	c.playerName = name
}

func (c *Connection) setRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage dispatches one client message
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.PlayerID())

	switch msg.Type {
	case MessageTypeHello:
		var data HelloData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse hello data")
			return
		}
		c.handleHello(data)

	case MessageTypeCreateRoom:
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create room data")
			return
		}
		c.handleCreateRoom(data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join room data")
			return
		}
		c.handleJoinRoom(data)

	case MessageTypeLeaveRoom:
		var data LeaveRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse leave room data")
			return
		}
		c.handleLeaveRoom(data)

	case MessageTypeListRooms:
		c.handleListRooms()

	case MessageTypeSetReady:
		var data ReadyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse ready data")
			return
		}
		c.handleSetReady(data, true)

	case MessageTypeSetNotReady:
		var data ReadyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse ready data")
			return
		}
		c.handleSetReady(data, false)

	case MessageTypePlayCard:
		var data PlayCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse play card data")
			return
		}
		c.handlePlayCard(data)

	case MessageTypeGetState:
		var data GetStateData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse get state data")
			return
		}
		c.handleGetState(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}

// identified guards every command that needs a player identity
func (c *Connection) identified() (uuid.UUID, bool) {
	id := c.PlayerID()
	if id == uuid.Nil {
		c.sendError("not_identified", "Send hello first")
		return uuid.Nil, false
	}
	return id, true
}

func (c *Connection) handleHello(data HelloData) {
	c.logger.Info("Hello", "name", data.Name)

	if data.Name == "" {
		c.sendError("invalid_hello", "Player name required")
		return
	}
	if c.PlayerID() != uuid.Nil {
		c.sendError("already_identified", "Hello was already sent on this connection")
		return
	}

	// Identity is issued server side. Clients never pick their own id,
	// which keeps snapshots addressed to the right hands.
	id := uuid.New()
	c.setIdentity(id, data.Name)

	response, _ := NewMessage(MessageTypeWelcome, WelcomeData{
		PlayerID: id,
		Name:     data.Name,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleCreateRoom(data CreateRoomData) {
	if _, ok := c.identified(); !ok {
		return
	}
	c.logger.Info("Create room request", "name", data.Name, "player", c.PlayerName())

	variant := c.server.config.DefaultVariant()
	if data.SeatCount > 0 {
		variant.SeatCount = data.SeatCount
	}
	if data.HandSize > 0 {
		variant.HandSize = data.HandSize
	}

	room, err := c.server.Rooms().CreateRoom(data.Name, variant)
	if err != nil {
		c.sendError("create_failed", err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeRoomCreated, RoomCreatedData{
		RoomID:  room.ID,
		Name:    room.Name,
		Variant: room.Variant,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinRoom(data JoinRoomData) {
	id, ok := c.identified()
	if !ok {
		return
	}
	c.logger.Info("Join room request", "room", data.RoomID, "player", c.PlayerName())

	room, err := c.server.Rooms().GetRoom(data.RoomID)
	if err != nil {
		c.sendError("room_not_found", err.Error())
		return
	}

	seat, err := room.Join(game.PlayerInfo{ID: id, Name: c.PlayerName()})
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}
	c.setRoom(data.RoomID)

	response, _ := NewMessage(MessageTypeRoomJoined, RoomJoinedData{
		RoomID: data.RoomID,
		Seat:   seat,
	})
	_ = c.SendMessage(response)
	c.server.SendSnapshots(room)
}

func (c *Connection) handleLeaveRoom(data LeaveRoomData) {
	id, ok := c.identified()
	if !ok {
		return
	}
	c.logger.Info("Leave room request", "room", data.RoomID, "player", c.PlayerName())

	room, err := c.server.Rooms().GetRoom(data.RoomID)
	if err != nil {
		c.sendError("room_not_found", err.Error())
		return
	}

	if err := room.Leave(id); err != nil {
		c.sendError("leave_failed", err.Error())
		return
	}
	c.setRoom("")

	response, _ := NewMessage(MessageTypeRoomLeft, RoomLeftData{RoomID: data.RoomID})
	_ = c.SendMessage(response)
	c.server.SendSnapshots(room)
}

func (c *Connection) handleListRooms() {
	if _, ok := c.identified(); !ok {
		return
	}

	response, _ := NewMessage(MessageTypeRoomList, RoomListData{
		Rooms: c.server.Rooms().ListRooms(),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleSetReady(data ReadyData, ready bool) {
	id, ok := c.identified()
	if !ok {
		return
	}

	room, err := c.server.Rooms().GetRoom(data.RoomID)
	if err != nil {
		c.sendError("room_not_found", err.Error())
		return
	}

	if ready {
		if _, err := room.SetReady(id); err != nil {
			c.sendError("ready_failed", err.Error())
			return
		}
	} else {
		if err := room.SetNotReady(id); err != nil {
			c.sendError("ready_failed", err.Error())
			return
		}
	}

	c.server.SendSnapshots(room)
}

func (c *Connection) handlePlayCard(data PlayCardData) {
	id, ok := c.identified()
	if !ok {
		return
	}

	card, err := deck.ParseCard(data.Card)
	if err != nil {
		c.sendError("invalid_card", err.Error())
		return
	}

	room, err := c.server.Rooms().GetRoom(data.RoomID)
	if err != nil {
		c.sendError("room_not_found", err.Error())
		return
	}

	if err := room.Play(id, card); err != nil {
		c.sendError("play_failed", err.Error())
		return
	}

	c.server.SendSnapshots(room)
}

func (c *Connection) handleGetState(data GetStateData) {
	id, ok := c.identified()
	if !ok {
		return
	}

	room, err := c.server.Rooms().GetRoom(data.RoomID)
	if err != nil {
		c.sendError("room_not_found", err.Error())
		return
	}

	snap, err := room.Snapshot(id)
	if err != nil {
		c.sendError("state_failed", err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeGameState, GameStateData{
		RoomID:   data.RoomID,
		Snapshot: snap,
	})
	_ = c.SendMessage(response)
}
