package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSessionUpdate MessageType = "session_update"
	MsgGameStarted   MessageType = "game_started"
	MsgGameFinished  MessageType = "game_finished"
	MsgPlayerJoined  MessageType = "player_joined"
	MsgError         MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for game sessions
type Hub struct {
	// sessionCode -> playerID -> conn
	conns map[string]map[string]*Connection

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionCode string
	PlayerID    string
	Send        chan []byte
	Hub         *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionCode string
	ToPlayer    string // Empty means all players, specific ID means one player
	Message     *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionCode] == nil {
				h.conns[conn.SessionCode] = make(map[string]*Connection)
			}
			h.conns[conn.SessionCode][conn.PlayerID] = conn
			log.Printf("Player %s connected to session %s", conn.PlayerID, conn.SessionCode)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if players, ok := h.conns[conn.SessionCode]; ok {
				if existing, ok := players[conn.PlayerID]; ok && existing == conn {
					delete(players, conn.PlayerID)
					close(conn.Send)
					log.Printf("Player %s disconnected from session %s", conn.PlayerID, conn.SessionCode)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if players, ok := h.conns[msg.SessionCode]; ok {
				if msg.ToPlayer != "" {
					if conn, ok := players[msg.ToPlayer]; ok {
						select {
						case conn.Send <- data:
						default:
							// Drop message if buffer full
						}
					}
				} else {
					for _, conn := range players {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToSession sends a message to everyone in a session (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionCode string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionCode: sessionCode,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToPlayer sends a message to a specific player (implements service.Broadcaster)
func (h *Hub) BroadcastToPlayer(sessionCode, playerID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionCode: sessionCode,
		ToPlayer:    playerID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
