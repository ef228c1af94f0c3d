package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionCode string, msgType string, payload interface{})
	BroadcastToPlayer(sessionCode, playerID string, msgType string, payload interface{})
}
