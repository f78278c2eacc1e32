package reallybot

import (
	"errors"

	"github.com/razzie/jsonrpc"
	"golang.org/x/net/websocket"
)

// sessionRPC is the websocket JSON-RPC surface of a session,
// registered under the "Session" name. User-level failures (malformed
// input, illegal move, finished game) come back inside the Update so
// clients can render them; only transport and delegate-engine failures
// surface as RPC errors. Phrase rendering happens here, not in the
// core: the core emits categories.
type sessionRPC struct {
	sess *Session
}

// NewGame is an RPC function that starts a fresh game in the room.
// color is the user's side, "w" or "b".
func (rpc *sessionRPC) NewGame(color string, resp *Update) error {
	sess := rpc.sess
	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	u, err := sess.newGameLocked(color)
	if err != nil {
		return err
	}
	renderChat(u)
	*resp = *u
	sess.updateClientsLocked(u)
	return nil
}

// Move is an RPC function that handles a user move in [from][to]
// format (like e2e4).
func (rpc *sessionRPC) Move(uci string, resp *Update) error {
	sess := rpc.sess
	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	u, err := sess.applyUserMoveLocked(uci)
	if isUserError(err) {
		*resp = Update{Err: err.Error()}
		resp.refresh(sess.game)
		return nil
	}
	if err != nil {
		return err
	}
	renderChat(u)
	*resp = *u
	sess.updateClientsLocked(u)
	return nil
}

// Resign is an RPC function that forfeits the game for the user.
func (rpc *sessionRPC) Resign(unused string, resp *Update) error {
	sess := rpc.sess
	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	u, err := sess.resignLocked()
	if isUserError(err) {
		*resp = Update{Err: err.Error()}
		resp.refresh(sess.game)
		return nil
	}
	if err != nil {
		return err
	}
	renderChat(u)
	*resp = *u
	sess.updateClientsLocked(u)
	return nil
}

func isUserError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrIllegalMove) ||
		errors.Is(err, ErrSessionTerminated)
}

// renderChat fills the literal bot phrases from the commentary
// categories the core emitted.
func renderChat(u *Update) {
	if len(u.BotChat) == 0 && u.BotTag != TagNone {
		u.BotChat = Say(u.BotTag)
	}
	if u.IsGameOver {
		if end := EndChat(u.Status); len(end) > 0 {
			u.BotChat = end
		}
	}
}

// EndChat picks the bot's sign-off line for a finished game.
func EndChat(status string) string {
	switch status {
	case "Resigned":
		return "Running away already? 😂"
	case "Checkmate":
		return "EZ clap. Thanks for playing 😎"
	case "Stalemate", "Draw":
		return "Draw? Boring, but I'll take it 😴"
	}
	return ""
}

func (sess *Session) addClient(client *jsonrpc.JsonRPC) {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	sess.clients = append(sess.clients, client)
	sess.slc.stopTimer()
}

func (sess *Session) removeClient(client *jsonrpc.JsonRPC) {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	if len(sess.clients) == 1 {
		sess.clients = nil
		sess.slc.startTimer()
		return
	}
	for i, cl := range sess.clients {
		if cl == client {
			sess.clients = append(sess.clients[:i], sess.clients[i+1:]...)
			return
		}
	}
}

func (sess *Session) updateClient(client *jsonrpc.JsonRPC, update *Update) {
	client.Notify("Session.Update", update)
}

func (sess *Session) updateClientsLocked(update *Update) {
	for _, client := range sess.clients {
		sess.updateClient(client, update)
	}
}

func (sess *Session) serve(ws *websocket.Conn) {
	client := jsonrpc.NewJsonRpc(ws)
	client.Register(&sessionRPC{sess: sess}, "Session")

	sess.addClient(client)

	sess.mtx.Lock()
	u := newUpdate(sess.game)
	sess.mtx.Unlock()
	sess.updateClient(client, u)
	client.Serve()

	sess.removeClient(client)
}
