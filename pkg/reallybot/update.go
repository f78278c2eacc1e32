package reallybot

import (
	"github.com/notnil/chess"
)

type Move [2]string

// Update is one snapshot of the session pushed to clients after every
// accepted operation. Chat fields carry rendered phrases; tag fields
// carry the raw commentary categories for clients that render their own.
type Update struct {
	FEN        string `json:"fen"`
	PGN        string `json:"pgn,omitempty"`
	Turn       string `json:"turn"`
	Status     string `json:"status"`
	Result     string `json:"result,omitempty"`
	IsGameOver bool   `json:"gameOver"`
	Chat       string `json:"chat,omitempty"`
	BotSAN     string `json:"botSan,omitempty"`
	BotChat    string `json:"botChat,omitempty"`
	BotTag     Tag    `json:"botTag,omitempty"`
	UserMove   Move   `json:"um"`
	BotMove    Move   `json:"bm"`
	Err        string `json:"error,omitempty"`
}

func newUpdate(game *chess.Game) *Update {
	u := &Update{
		FEN:    game.FEN(),
		Turn:   turnString(game),
		Status: statusString(game),
	}
	if game.Outcome() != chess.NoOutcome {
		u.IsGameOver = true
		u.Result = game.Outcome().String()
	}
	return u
}

// refresh re-derives the board-state fields after further mutation,
// keeping move/chat fields intact.
func (u *Update) refresh(game *chess.Game) {
	u.FEN = game.FEN()
	u.Turn = turnString(game)
	u.Status = statusString(game)
	if game.Outcome() != chess.NoOutcome {
		u.IsGameOver = true
		u.Result = game.Outcome().String()
	}
}

func moveCoords(move *chess.Move) Move {
	return Move{move.S1().String(), move.S2().String()}
}
