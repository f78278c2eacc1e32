package reallybot

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/notnil/chess"
)

// Selector implements the bot's move decision policy. Precedence per
// call, first satisfied wins:
//
//  1. imitation: a learned-table hit, gated by a uniform draw against
//     the style's blunder chance, weighted-random by count
//  2. persona book: same gate, weighted-random over the book entry
//  3. blunder: an independent second draw against the blunder chance,
//     uniform over the legal moves
//  4. delegate engine
//
// Learned and book moves are stored as SAN strings; they are re-parsed
// against the live position and discarded silently if stale. The two
// blunder draws are intentionally independent: a blunder can fire even
// after an imitation candidate fell through.
type Selector struct {
	book   *Book
	store  MoveStore
	engine Engine
	style  *Style
	limit  Limit
	rng    *rand.Rand
}

func NewSelector(book *Book, store MoveStore, engine Engine, style *Style, limit Limit, seed int64) *Selector {
	if book == nil {
		book = NewBook()
	}
	if style == nil {
		style = DefaultStyle()
	}
	return &Selector{
		book:   book,
		store:  store,
		engine: engine,
		style:  style,
		limit:  limit,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (sel *Selector) Style() *Style {
	return sel.style
}

// Select picks exactly one move for the side to move. The caller
// guarantees the position is not terminal.
func (sel *Selector) Select(pos *chess.Position) (*chess.Move, Tag, error) {
	fen := pos.String()

	if sel.rng.Float64() >= sel.style.BlunderChance {
		if counts := sel.store.Lookup(fen); len(counts) > 0 {
			if move := sel.pickLearned(pos, counts); move != nil {
				return move, TagEngine, nil
			}
		} else if entry := sel.book.Lookup(fen); len(entry) > 0 {
			if move := sel.pickFromBook(pos, entry); move != nil {
				return move, TagEngine, nil
			}
		}
	}

	if sel.rng.Float64() < sel.style.BlunderChance {
		legal := pos.ValidMoves()
		return legal[sel.rng.Intn(len(legal))], TagBlunder, nil
	}

	move, err := sel.engine.Play(pos, sel.limit)
	if err != nil {
		return nil, TagNone, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	return move, TagEngine, nil
}

// Reaction runs the unconditional commentary step after a move was
// applied: a check overrides the move-source tag, otherwise a latent
// draw occasionally fires filler chatter.
func (sel *Selector) Reaction(tag Tag, isCheck bool) Tag {
	if isCheck {
		return TagCheck
	}
	if sel.rng.Float64() < 0.1 {
		return TagRandom
	}
	return tag
}

// pickLearned draws one move from the tallies, weighted by count, and
// validates it against the live position. A stale pick returns nil and
// the caller falls through.
func (sel *Selector) pickLearned(pos *chess.Position, counts map[string]int) *chess.Move {
	sans := make([]string, 0, len(counts))
	for san := range counts {
		sans = append(sans, san)
	}
	sort.Strings(sans)

	total := 0
	for _, san := range sans {
		total += counts[san]
	}
	if total <= 0 {
		return nil
	}
	draw := sel.rng.Intn(total)
	for _, san := range sans {
		draw -= counts[san]
		if draw < 0 {
			return sel.decodeSAN(pos, san)
		}
	}
	return nil
}

func (sel *Selector) pickFromBook(pos *chess.Position, entry []BookMove) *chess.Move {
	total := 0
	for _, bm := range entry {
		total += bm.Count
	}
	if total <= 0 {
		return nil
	}
	draw := sel.rng.Intn(total)
	for _, bm := range entry {
		draw -= bm.Count
		if draw < 0 {
			return sel.decodeSAN(pos, bm.SAN)
		}
	}
	return nil
}

func (sel *Selector) decodeSAN(pos *chess.Position, san string) *chess.Move {
	move, err := sanEncoder.Decode(pos, san)
	if err != nil {
		return nil
	}
	return findValid(pos, move)
}
