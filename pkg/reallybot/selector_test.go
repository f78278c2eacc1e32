package reallybot

import (
	"errors"
	"testing"

	"github.com/notnil/chess"
)

// fakeEngine plays a scripted line, falling back to the first valid
// move once the script runs out.
type fakeEngine struct {
	moves []string
	calls int
	err   error
}

func (e *fakeEngine) Play(pos *chess.Position, _ Limit) (*chess.Move, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if e.calls <= len(e.moves) {
		return chess.UCINotation{}.Decode(pos, e.moves[e.calls-1])
	}
	return pos.ValidMoves()[0], nil
}

func (e *fakeEngine) Close() error { return nil }

func styleWithBlunder(chance float64) *Style {
	style := DefaultStyle()
	style.BlunderChance = chance
	return style
}

func startingPosition() *chess.Position {
	return chess.NewGame().Position()
}

func TestSelectImitationPrecedence(t *testing.T) {
	store := NewMemoryMoveStore()
	fen := startingPosition().String()
	store.table[fen] = map[string]int{"e4": 3, "d4": 1}

	eng := &fakeEngine{err: errors.New("engine must not be consulted")}
	sel := NewSelector(NewBook(), store, eng, styleWithBlunder(0), Limit{}, 1)

	for i := 0; i < 200; i++ {
		pos := startingPosition()
		move, tag, err := sel.Select(pos)
		if err != nil {
			t.Fatal(err)
		}
		if tag != TagEngine {
			t.Fatalf("tag = %q, want %q", tag, TagEngine)
		}
		san := sanEncoder.Encode(pos, move)
		if san != "e4" && san != "d4" {
			t.Fatalf("selected %s, want a learned move", san)
		}
	}
	if eng.calls != 0 {
		t.Fatalf("engine consulted %d times", eng.calls)
	}
}

func TestSelectBlunderUniform(t *testing.T) {
	store := NewMemoryMoveStore()
	book := NewBook()
	fen := startingPosition().String()
	book.entries[fen] = []BookMove{{SAN: "e4", Count: 5}}

	eng := &fakeEngine{err: errors.New("engine must not be consulted")}
	sel := NewSelector(book, store, eng, styleWithBlunder(1), Limit{}, 2)

	const trials = 4000
	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		pos := startingPosition()
		move, tag, err := sel.Select(pos)
		if err != nil {
			t.Fatal(err)
		}
		if tag != TagBlunder {
			t.Fatalf("tag = %q, want %q", tag, TagBlunder)
		}
		counts[move.String()]++
	}
	if eng.calls != 0 {
		t.Fatalf("engine consulted %d times", eng.calls)
	}

	legal := len(startingPosition().ValidMoves())
	if len(counts) != legal {
		t.Fatalf("saw %d distinct moves, want %d", len(counts), legal)
	}
	expected := trials / legal
	for move, n := range counts {
		if n < expected/2 || n > expected*2 {
			t.Errorf("move %s drawn %d times, expected around %d", move, n, expected)
		}
	}
}

func TestSelectStaleLearnedMoveFallsThrough(t *testing.T) {
	store := NewMemoryMoveStore()
	fen := startingPosition().String()
	store.table[fen] = map[string]int{"Ke2": 1} // not legal from the start

	eng := &fakeEngine{moves: []string{"g1f3"}}
	sel := NewSelector(NewBook(), store, eng, styleWithBlunder(0), Limit{}, 3)

	pos := startingPosition()
	move, tag, err := sel.Select(pos)
	if err != nil {
		t.Fatal(err)
	}
	if tag != TagEngine {
		t.Fatalf("tag = %q, want %q", tag, TagEngine)
	}
	if got := move.String(); got != "g1f3" {
		t.Fatalf("selected %s, want the delegate's g1f3", got)
	}
	if eng.calls != 1 {
		t.Fatalf("engine consulted %d times, want 1", eng.calls)
	}
}

func TestSelectBookWhenStoreEmpty(t *testing.T) {
	book := NewBook()
	fen := startingPosition().String()
	book.entries[fen] = []BookMove{{SAN: "e4", Count: 2}, {SAN: "d4", Count: 1}}

	eng := &fakeEngine{err: errors.New("engine must not be consulted")}
	sel := NewSelector(book, NewMemoryMoveStore(), eng, styleWithBlunder(0), Limit{}, 4)

	for i := 0; i < 100; i++ {
		pos := startingPosition()
		move, _, err := sel.Select(pos)
		if err != nil {
			t.Fatal(err)
		}
		san := sanEncoder.Encode(pos, move)
		if san != "e4" && san != "d4" {
			t.Fatalf("selected %s, want a book move", san)
		}
	}
}

func TestSelectDelegateFailure(t *testing.T) {
	eng := &fakeEngine{err: errors.New("process died")}
	sel := NewSelector(NewBook(), NewMemoryMoveStore(), eng, styleWithBlunder(0), Limit{}, 5)

	_, _, err := sel.Select(startingPosition())
	if !errors.Is(err, ErrEngine) {
		t.Fatalf("err = %v, want ErrEngine", err)
	}
}

func TestReaction(t *testing.T) {
	sel := NewSelector(NewBook(), NewMemoryMoveStore(), &fakeEngine{}, DefaultStyle(), Limit{}, 6)

	for i := 0; i < 50; i++ {
		if tag := sel.Reaction(TagBlunder, true); tag != TagCheck {
			t.Fatalf("check must override, got %q", tag)
		}
	}

	random := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		switch tag := sel.Reaction(TagEngine, false); tag {
		case TagRandom:
			random++
		case TagEngine:
		default:
			t.Fatalf("unexpected tag %q", tag)
		}
	}
	if random < trials/20 || random > trials/5 {
		t.Errorf("filler chatter fired %d/%d times, expected around 10%%", random, trials)
	}
}
