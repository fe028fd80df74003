package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundtag-tech/soundtag/internal/codec"
)

func dialTestWebSocket(t *testing.T) (*websocket.Conn, func()) {
	t.Helper()
	s := newTestServer(t)
	ts := httptest.NewServer(http.HandlerFunc(s.decodeWebSocketHandler))

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	return conn, func() {
		_ = conn.Close()
		ts.Close()
	}
}

func TestWebSocket_EncodeDecode(t *testing.T) {
	conn, cleanup := dialTestWebSocket(t)
	defer cleanup()

	require.NoError(t, conn.WriteJSON(WebSocketRequest{Type: "encode", MediaRef: 57639171874}))

	var resp WebSocketResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "completed", resp.Status)

	want, err := codec.Encode(57639171874)
	require.NoError(t, err)
	assert.Equal(t, want, resp.Symbols)

	require.NoError(t, conn.WriteJSON(WebSocketRequest{Type: "decode", Symbols: resp.Symbols}))
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "completed", resp.Status)
	assert.Equal(t, uint64(57639171874), resp.MediaRef)
}

func TestWebSocket_InvalidType(t *testing.T) {
	conn, cleanup := dialTestWebSocket(t)
	defer cleanup()

	require.NoError(t, conn.WriteJSON(WebSocketRequest{Type: "transcode"}))

	var resp WebSocketResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "invalid_request", resp.ErrorType)
}

func TestWebSocket_DecodeError(t *testing.T) {
	conn, cleanup := dialTestWebSocket(t)
	defer cleanup()

	require.NoError(t, conn.WriteJSON(WebSocketRequest{Type: "decode", Symbols: []int{1, 2, 3}}))

	var resp WebSocketResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "codec_error", resp.ErrorType)
}
