package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// maxFrameSize bounds one command line received over the terminal socket.
	maxFrameSize = 4096
	closeTimeout = time.Second
)

// handleTerminal runs a command loop over a WebSocket: each text frame is one
// command line and each reply is one JSON frame. Frames count against the
// client's rate limit. The socket is closed once its session is gone.
func (a *api) handleTerminal(w http.ResponseWriter, r *http.Request) {
	session := a.session(w, r)
	if session == nil {
		return
	}
	client := clientKey(r)

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("websocket upgrade failed", "error", err, "session", session.ID)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.logger.Warn("terminal read failed", "error", err, "session", session.ID)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var reply interface{}
		if !a.limiter.allow(client) {
			reply = errorBody("rate_limited", "rate limit exceeded")
		} else {
			res, err := a.sm.Execute(session, string(message))
			if errors.Is(err, ErrSessionClosed) {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
				conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
				return
			}
			a.metrics.ObserveCommand(res)
			reply = newCommandResponse(res)
		}

		if err := conn.WriteJSON(reply); err != nil {
			a.logger.Warn("terminal write failed", "error", err, "session", session.ID)
			return
		}
	}
}
