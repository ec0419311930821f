package socket

import (
	"context"
	"log"

	"matchq_server/models"
	"matchq_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// SubscribeRequest starts a matchmaking session for a connection.
type SubscribeRequest struct {
	ParticipantID string `json:"participantId"`
	ActivityType  string `json:"activityType"`
}

// NewSocketServer initializes the Socket.IO server that delivers match
// events. One session per connection: "subscribeMatch" starts the scanner and
// notifier for the caller, a single "matched" event comes back when a pairing
// commits from either side. "leave" tears the session down and deletes the
// intent; a bare disconnect only stops the session, leaving the intent for a
// reconnect.
func NewSocketServer(svc *services.MatchmakingService) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		c.SetContext(nil)
		return nil
	})

	server.OnEvent("/", "subscribeMatch", func(c socketio.Conn, req SubscribeRequest) {
		if req.ParticipantID == "" || !models.IsValidActivityType(req.ActivityType) {
			c.Emit("error", map[string]string{"message": "participantId and a valid activityType are required"})
			return
		}

		// Replace any previous session on this connection.
		closeSession(c)

		session, err := svc.StartSession(req.ParticipantID, req.ActivityType, func(result models.MatchResult) {
			c.Emit("matched", result)
		})
		if err != nil {
			log.Printf("❌ Failed to start session for %s: %v", req.ParticipantID, err)
			c.Emit("error", map[string]string{"message": err.Error()})
			return
		}
		c.SetContext(session)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn) {
		session, ok := c.Context().(*services.MatchSession)
		if !ok || session == nil {
			return
		}
		c.SetContext(nil)
		go func() {
			if err := session.Leave(context.Background()); err != nil {
				log.Printf("⚠️ Leave failed for %s: %v", session.ParticipantID(), err)
			}
			c.Emit("left", map[string]string{"participantId": session.ParticipantID()})
		}()
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("👋 Socket disconnected:", c.ID(), reason)
		closeSession(c)
	})

	return server
}

// closeSession stops the connection's session without touching the intent
// record. Runs off the event goroutine: Close waits for the notifier, and the
// notifier may be mid-delivery.
func closeSession(c socketio.Conn) {
	session, ok := c.Context().(*services.MatchSession)
	if !ok || session == nil {
		return
	}
	c.SetContext(nil)
	go session.Close()
}
