package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soundtag-tech/soundtag/internal/codec"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketRequest is a codec request sent over WebSocket. Type selects
// the operation: "encode" consumes MediaRef, "decode" consumes Symbols.
type WebSocketRequest struct {
	Type     string `json:"type"`
	MediaRef uint64 `json:"media_ref,omitempty"`
	Symbols  []int  `json:"symbols,omitempty"`
}

// WebSocketResponse is the result of one codec request.
type WebSocketResponse struct {
	Type      string `json:"type"`
	Status    string `json:"status"` // "completed" or "error"
	MediaRef  uint64 `json:"media_ref,omitempty"`
	Symbols   []int  `json:"symbols,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// decodeWebSocketHandler handles WebSocket connections for interactive
// encoding and decoding, e.g. a scanner UI streaming candidate symbol
// sequences as the user adjusts the camera.
func (s *Server) decodeWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage processes a single codec request.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err), "")
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	switch req.Type {
	case "encode":
		symbols, err := codec.Encode(req.MediaRef)
		if err != nil {
			codecRequestsTotal.WithLabelValues("encode", "error").Inc()
			s.sendWebSocketError(conn, "codec_error", err.Error(), requestID)
			return
		}
		codecRequestsTotal.WithLabelValues("encode", "ok").Inc()
		s.sendWebSocketResponse(conn, WebSocketResponse{
			Type:      "codec_response",
			Status:    "completed",
			Symbols:   symbols,
			RequestID: requestID,
		})
	case "decode":
		mediaRef, err := codec.Decode(req.Symbols)
		if err != nil {
			codecRequestsTotal.WithLabelValues("decode", "error").Inc()
			s.sendWebSocketError(conn, "codec_error", err.Error(), requestID)
			return
		}
		codecRequestsTotal.WithLabelValues("decode", "ok").Inc()
		s.sendWebSocketResponse(conn, WebSocketResponse{
			Type:      "codec_response",
			Status:    "completed",
			MediaRef:  mediaRef,
			RequestID: requestID,
		})
	default:
		s.sendWebSocketError(conn, "invalid_request", "Unsupported request type: "+req.Type, requestID)
	}
}

func (s *Server) sendWebSocketResponse(conn *websocket.Conn, resp WebSocketResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to write WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

func (s *Server) sendWebSocketError(conn *websocket.Conn, errorType, message, requestID string) {
	s.sendWebSocketResponse(conn, WebSocketResponse{
		Type:      "codec_response",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
		RequestID: requestID,
	})
}
