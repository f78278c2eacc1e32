package reallybot

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/razzie/jsonrpc"
)

// Session owns one game against the bot: board state, move history,
// turn ownership and finalization. One mutex serializes all move
// requests; sessions are independent except for the shared stores and
// the delegate engine.
type Session struct {
	initOnce    sync.Once
	slc         *sessionLifecycle
	mtx         sync.Mutex
	game        *chess.Game
	sel         *Selector
	store       MoveStore
	archive     Archive
	userIsWhite bool
	finalized   bool
	clients     []*jsonrpc.JsonRPC
	now         func() time.Time
}

// sessionState is the resumable snapshot written to persistent storage
// after every accepted operation.
type sessionState struct {
	Color string `json:"color"`
	PGN   string `json:"pgn"`
}

// NewBotSession creates a standalone session with no lifecycle or
// remote clients attached; the CLI and tests drive it directly.
func NewBotSession(sel *Selector, store MoveStore, archive Archive) *Session {
	sess := &Session{}
	sess.initOnce.Do(func() {
		sess.init(nil, sel, store, archive, "")
	})
	return sess
}

func (sess *Session) init(slc *sessionLifecycle, sel *Selector, store MoveStore, archive Archive, state string) {
	sess.slc = slc
	sess.sel = sel
	sess.store = store
	sess.archive = archive
	sess.game = chess.NewGame()
	sess.userIsWhite = true
	sess.now = time.Now

	if len(state) == 0 {
		return
	}
	var saved sessionState
	if err := json.Unmarshal([]byte(state), &saved); err != nil {
		log.Printf("[bad session state: %v]", err)
		return
	}
	if game, err := gameFromPGN(saved.PGN); err == nil {
		sess.game = game
	} else {
		log.Printf("[bad session state: %v]", err)
	}
	sess.userIsWhite = saved.Color != "b"
	sess.finalized = sess.game.Outcome() != chess.NoOutcome
}

// NewGame resets the session. color is the user's side; if the bot
// holds the first move it replies before control returns.
func (sess *Session) NewGame(color string) (*Update, error) {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	return sess.newGameLocked(color)
}

// ApplyUserMove validates and applies one user move in coordinate
// notation, then triggers the bot's reply unless the game ended.
// On ErrEngine the returned update still reflects the applied user
// move; the bot produced no reply.
func (sess *Session) ApplyUserMove(uci string) (*Update, error) {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	return sess.applyUserMoveLocked(uci)
}

// Resign forfeits the game for the user from any non-terminal state.
func (sess *Session) Resign() (*Update, error) {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	return sess.resignLocked()
}

// Game exposes the underlying game for board rendering and replay.
func (sess *Session) Game() *chess.Game {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	return sess.game
}

func (sess *Session) getMoveHistory() ([]*chess.Move, []*chess.Position) {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	return sess.game.Moves(), sess.game.Positions()
}

func (sess *Session) newGameLocked(color string) (*Update, error) {
	sess.game = chess.NewGame()
	sess.userIsWhite = color != "b"
	sess.finalized = false

	side := "White"
	if !sess.userIsWhite {
		side = "Black"
	}
	u := newUpdate(sess.game)
	u.Chat = fmt.Sprintf("Game started! You're playing %s.", side)

	if !sess.userIsWhite {
		if err := sess.botReplyLocked(u); err != nil {
			return u, err
		}
	}
	go sess.slc.update(sess.saveState())
	return u, nil
}

func (sess *Session) applyUserMoveLocked(uci string) (*Update, error) {
	if sess.finalized {
		return nil, ErrSessionTerminated
	}

	pos := sess.game.Position()
	move, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedInput, uci)
	}
	valid := findValid(pos, move)
	if valid == nil {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	if err := sess.game.Move(valid); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}

	u := newUpdate(sess.game)
	u.UserMove = moveCoords(valid)
	u.Chat = "You played " + uci

	if sess.game.Outcome() != chess.NoOutcome {
		sess.finalizeLocked(u)
		go sess.slc.update(sess.saveState())
		return u, nil
	}

	if err := sess.botReplyLocked(u); err != nil {
		go sess.slc.update(sess.saveState())
		return u, err
	}
	go sess.slc.update(sess.saveState())
	return u, nil
}

// botReplyLocked runs one MoveSelector invocation and applies the
// result. Order per contract: board mutation, history append, terminal
// check, finalize.
func (sess *Session) botReplyLocked(u *Update) error {
	pos := sess.game.Position()
	move, tag, err := sess.sel.Select(pos)
	if err != nil {
		return err
	}
	valid := findValid(pos, move)
	if valid == nil {
		// A broken delegate must be visible, never papered over with
		// a substitute move.
		return fmt.Errorf("%w: engine returned illegal move", ErrEngine)
	}
	san := sanEncoder.Encode(pos, valid)
	if err := sess.game.Move(valid); err != nil {
		return fmt.Errorf("%w: %v", ErrEngine, err)
	}

	u.BotSAN = san
	u.BotMove = moveCoords(valid)
	u.BotTag = sess.sel.Reaction(tag, valid.HasTag(chess.Check))
	u.refresh(sess.game)

	if sess.game.Outcome() != chess.NoOutcome {
		sess.finalizeLocked(u)
	}
	return nil
}

func (sess *Session) resignLocked() (*Update, error) {
	if sess.finalized {
		return nil, ErrSessionTerminated
	}
	if sess.userIsWhite {
		sess.game.Resign(chess.White)
	} else {
		sess.game.Resign(chess.Black)
	}
	u := newUpdate(sess.game)
	sess.finalizeLocked(u)
	go sess.slc.update(sess.saveState())
	return u, nil
}

// finalizeLocked runs exactly once per finished game: stamps the PGN
// headers, feeds the line into the learned-move store and archives the
// record. Persistence failures downgrade to warnings; the result
// reported to the user is never lost.
func (sess *Session) finalizeLocked(u *Update) {
	if sess.finalized {
		return
	}
	sess.finalized = true

	now := sess.now()
	white, black := "You", "ReallyBot"
	if !sess.userIsWhite {
		white, black = black, white
	}
	sess.game.AddTagPair("Event", "Training vs ReallyBot")
	sess.game.AddTagPair("Date", now.Format("2006.01.02"))
	sess.game.AddTagPair("White", white)
	sess.game.AddTagPair("Black", black)

	u.refresh(sess.game)

	if sess.store != nil {
		if err := sess.store.RecordGame(sess.game); err != nil {
			log.Printf("[warn] move store update failed: %v", err)
		}
	}
	if sess.archive != nil {
		rec := newGameRecord(sess.game, u.Result, now)
		if err := sess.archive.Save(rec); err != nil {
			log.Printf("[warn] game record save failed: %v", err)
		}
	}
}

func (sess *Session) saveState() string {
	color := "w"
	if !sess.userIsWhite {
		color = "b"
	}
	raw, _ := json.Marshal(&sessionState{
		Color: color,
		PGN:   sess.game.String(),
	})
	return string(raw)
}
