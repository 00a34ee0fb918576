package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"snappy/sink"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The browser client is served from a different origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeTimeout = 10 * time.Second

// inboundFrame is what a client sends over the socket. The only inbound
// event is add-user: message sending goes through the REST surface so
// that persistence always precedes live delivery.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type addUserData struct {
	UserID string `json:"userId"`
}

// handleWebSocket upgrades the connection, waits for the client to
// declare its identity, and pumps events out until the transport closes.
// The read loop doubles as the disconnect detector: its error is the
// exactly-once close notification.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	snk := sink.NewWebSocket(s.log, s.connectionBufferSize)

	// Write pump. Owns all writes on the connection.
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case e := <-snk.Events:
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(e); err != nil {
					s.log.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}()

	var identity string
	defer func() {
		close(done)
		if identity != "" {
			// Pass the sink so a superseded connection cannot unbind
			// its replacement.
			s.lifecycle.Disconnect(context.Background(), identity, snk)
		}
	}()

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		switch frame.Event {
		case "add-user":
			var data addUserData
			if err := json.Unmarshal(frame.Data, &data); err != nil {
				s.log.Debug("malformed add-user frame", "error", err)
				continue
			}
			if err := s.lifecycle.Connect(r.Context(), data.UserID, snk); err != nil {
				s.log.Warn("identity bind failed", "user_id", data.UserID, "error", err)
				continue
			}
			identity = data.UserID
		default:
			s.log.Debug("ignoring unknown websocket event", "event", frame.Event)
		}
	}
}
