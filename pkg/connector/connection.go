package connector

import (
	"io"
	"strings"
	"sync/atomic"

	"github.com/razzie/jsonrpc"
	"github.com/surajk/reallybot/pkg/reallybot"
	"golang.org/x/net/websocket"
)

// Connection joins a server-hosted bot session over its websocket
// JSON-RPC surface. Updates pushed by the server arrive on C; calls
// are synchronous.
type Connection struct {
	ws      io.Closer
	client  *jsonrpc.JsonRPC
	updates chan *reallybot.Update
	C       <-chan *reallybot.Update
	State   atomic.Pointer[reallybot.Update]
}

func NewConnection(sessionURL string) (*Connection, error) {
	wsURL := strings.NewReplacer("http://", "ws://", "https://", "wss://", "/room/", "/ws/").Replace(sessionURL)
	ws, err := websocket.Dial(wsURL, "", wsURL)
	if err != nil {
		return nil, err
	}
	conn := &Connection{
		ws:      ws,
		client:  jsonrpc.NewJsonRpc(ws),
		updates: make(chan *reallybot.Update),
	}
	conn.C = conn.updates
	conn.client.Register(&Session{conn: conn}, "")
	go conn.client.Serve()
	return conn, nil
}

// NewGame starts a fresh game; color is the local player's side.
func (conn *Connection) NewGame(color string) (*reallybot.Update, error) {
	var resp reallybot.Update
	if err := conn.client.Call("Session.NewGame", color, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Move submits a move in coordinate notation.
func (conn *Connection) Move(uci string) (*reallybot.Update, error) {
	var resp reallybot.Update
	if err := conn.client.Call("Session.Move", uci, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (conn *Connection) Resign() (*reallybot.Update, error) {
	var resp reallybot.Update
	if err := conn.client.Call("Session.Resign", "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (conn *Connection) Close() error {
	return conn.ws.Close()
}

func (conn *Connection) update(update *reallybot.Update) {
	conn.State.Store(update)
	go func() {
		conn.updates <- update
	}()
}
