package reallybot

import (
	"crypto/rand"
	"io"

	"github.com/notnil/chess"
)

const (
	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	csLen   = byte(len(charset))
)

func GenerateID(length int) string {
	if length == 0 {
		return ""
	}
	output := make([]byte, 0, length)
	batchSize := length + length/4
	buf := make([]byte, batchSize)
	for {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			panic(err)
		}
		for _, b := range buf {
			if b < (csLen * 4) {
				output = append(output, charset[b%csLen])
				if len(output) == length {
					return string(output)
				}
			}
		}
	}
}

// findValid matches a move against the position's valid move set and
// returns the generator's tagged copy, or nil if the move is illegal.
// Decoded and engine moves carry no tags, so this is both the legality
// check and the way to get check/capture tags for commentary.
func findValid(pos *chess.Position, move *chess.Move) *chess.Move {
	if move == nil {
		return nil
	}
	for _, m := range pos.ValidMoves() {
		if m.S1() == move.S1() && m.S2() == move.S2() && m.Promo() == move.Promo() {
			return m
		}
	}
	return nil
}

func statusString(game *chess.Game) string {
	switch game.Method() {
	case chess.Checkmate:
		return "Checkmate"
	case chess.Stalemate:
		return "Stalemate"
	case chess.Resignation:
		return "Resigned"
	}
	if game.Outcome() == chess.Draw {
		return "Draw"
	}
	if game.Outcome() != chess.NoOutcome {
		return "GameOver"
	}
	return "Ongoing"
}

func turnString(game *chess.Game) string {
	if game.Position().Turn() == chess.White {
		return "w"
	}
	return "b"
}
