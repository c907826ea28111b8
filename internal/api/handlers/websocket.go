package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/weekly-tracker/backend/internal/navigation"
	ws "github.com/weekly-tracker/backend/internal/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 65536
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The UI may be served from a different origin during development
		return true
	},
}

// currentWeekCommand is the payload of a week.current command.
type currentWeekCommand struct {
	Target string `json:"target"`
}

// WebSocketUpgrade returns a handler that upgrades HTTP connections to WebSocket.
func WebSocketUpgrade(hub *ws.Hub, svc *navigation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		client := ws.NewClient(hub)
		hub.Register(client)

		go writePump(conn, client)
		go readPump(conn, client, hub, svc)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func writePump(conn *websocket.Conn, client *ws.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps commands from the WebSocket connection to the service.
func readPump(conn *websocket.Conn, client *ws.Client, hub *ws.Hub, svc *navigation.Service) {
	defer func() {
		hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessage)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		handleClientMessage(message, client, svc)
	}
}

// handleClientMessage answers one client command on the client's own channel.
func handleClientMessage(message []byte, client *ws.Client, svc *navigation.Service) {
	cmd, err := ws.ParseCommand(message)
	if err != nil {
		client.Reply(ws.NewMessage(ws.TypeError, ws.ErrorPayload{
			Code:    "bad_request",
			Message: "Invalid message format",
		}))
		return
	}

	switch cmd.Type {
	case ws.TypePing:
		client.Reply(ws.NewMessage(ws.TypePong, nil))

	case ws.TypeCurrentWeek:
		var req currentWeekCommand
		if len(cmd.Payload) > 0 {
			if err := json.Unmarshal(cmd.Payload, &req); err != nil {
				client.Reply(ws.NewMessage(ws.TypeError, ws.ErrorPayload{
					Code:         "bad_request",
					Message:      "Invalid payload",
					OriginalType: string(cmd.Type),
				}))
				return
			}
		}

		res, err := svc.CurrentWeek(req.Target)
		if err != nil {
			client.Reply(ws.NewMessage(ws.TypeError, ws.ErrorPayload{
				Code:         "week_unavailable",
				Message:      err.Error(),
				OriginalType: string(cmd.Type),
			}))
			return
		}
		client.Reply(ws.NewMessage(ws.TypeCurrentWeek, res))

	default:
		client.Reply(ws.NewMessage(ws.TypeError, ws.ErrorPayload{
			Code:         "unknown_command",
			Message:      "Unknown command type",
			OriginalType: string(cmd.Type),
		}))
	}
}
