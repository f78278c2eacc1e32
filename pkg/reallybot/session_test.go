package reallybot

import (
	"errors"
	"testing"
)

func newTestSession(store MoveStore, archive Archive, engineMoves ...string) (*Session, *fakeEngine) {
	eng := &fakeEngine{moves: engineMoves}
	sel := NewSelector(NewBook(), store, eng, styleWithBlunder(0), Limit{}, 42)
	return NewBotSession(sel, store, archive), eng
}

func TestUserMoveAndBotReply(t *testing.T) {
	sess, _ := newTestSession(NewMemoryMoveStore(), nil, "e7e5")
	if _, err := sess.NewGame("w"); err != nil {
		t.Fatal(err)
	}

	u, err := sess.ApplyUserMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	if u.BotSAN != "e5" {
		t.Fatalf("bot replied %q, want e5", u.BotSAN)
	}
	if u.Turn != "w" {
		t.Fatalf("turn = %q after two plies, want w", u.Turn)
	}
	if got := len(sess.Game().Moves()); got != 2 {
		t.Fatalf("history length = %d, want 2", got)
	}
	if u.UserMove != (Move{"e2", "e4"}) {
		t.Fatalf("user move coords = %v", u.UserMove)
	}
	if u.BotMove != (Move{"e7", "e5"}) {
		t.Fatalf("bot move coords = %v", u.BotMove)
	}
}

func TestIllegalMoveMutatesNothing(t *testing.T) {
	sess, eng := newTestSession(NewMemoryMoveStore(), nil)
	if _, err := sess.NewGame("w"); err != nil {
		t.Fatal(err)
	}
	before := sess.Game().FEN()

	_, err := sess.ApplyUserMove("e2e5")
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
	if sess.Game().FEN() != before {
		t.Fatal("board changed on illegal move")
	}
	if len(sess.Game().Moves()) != 0 {
		t.Fatal("history changed on illegal move")
	}
	if eng.calls != 0 {
		t.Fatal("bot replied to an illegal move")
	}
}

func TestMalformedInput(t *testing.T) {
	sess, _ := newTestSession(NewMemoryMoveStore(), nil)
	if _, err := sess.NewGame("w"); err != nil {
		t.Fatal(err)
	}
	_, err := sess.ApplyUserMove("pawn to e4")
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestBotMovesFirstWhenUserIsBlack(t *testing.T) {
	sess, _ := newTestSession(NewMemoryMoveStore(), nil, "e2e4")
	u, err := sess.NewGame("b")
	if err != nil {
		t.Fatal(err)
	}
	if u.BotSAN != "e4" {
		t.Fatalf("bot opened with %q, want e4", u.BotSAN)
	}
	if u.Turn != "b" {
		t.Fatalf("turn = %q, want b", u.Turn)
	}
}

func TestBotCheckmateFinalizesOnce(t *testing.T) {
	store := NewMemoryMoveStore()
	sess, _ := newTestSession(store, nil, "e7e5", "d8h4")
	if _, err := sess.NewGame("w"); err != nil {
		t.Fatal(err)
	}

	if _, err := sess.ApplyUserMove("f2f3"); err != nil {
		t.Fatal(err)
	}
	u, err := sess.ApplyUserMove("g2g4")
	if err != nil {
		t.Fatal(err)
	}
	if u.BotSAN != "Qh4#" {
		t.Fatalf("bot played %q, want Qh4#", u.BotSAN)
	}
	if u.Status != "Checkmate" || u.Result != "0-1" || !u.IsGameOver {
		t.Fatalf("terminal update = %+v", u)
	}
	if u.BotTag != TagCheck {
		t.Fatalf("tag = %q, want check override", u.BotTag)
	}

	if _, err := sess.ApplyUserMove("a2a3"); !errors.Is(err, ErrSessionTerminated) {
		t.Fatalf("err = %v, want ErrSessionTerminated", err)
	}

	// finalize ran exactly once: the opening move is tallied once
	start := startingPosition().String()
	if got := store.Lookup(start); got["f3"] != 1 {
		t.Fatalf("learned counts at start = %v, want f3 x1", got)
	}
}

func TestUserCheckmateEndsWithoutBotReply(t *testing.T) {
	store := NewMemoryMoveStore()
	archive := NewDirArchive(t.TempDir())
	sess, eng := newTestSession(store, archive, "e7e5", "b8c6", "g8f6")
	if _, err := sess.NewGame("w"); err != nil {
		t.Fatal(err)
	}

	for _, uci := range []string{"e2e4", "d1h5", "f1c4"} {
		if _, err := sess.ApplyUserMove(uci); err != nil {
			t.Fatal(err)
		}
	}
	u, err := sess.ApplyUserMove("h5f7")
	if err != nil {
		t.Fatal(err)
	}
	if len(u.BotSAN) != 0 {
		t.Fatalf("bot replied %q to checkmate", u.BotSAN)
	}
	if u.Status != "Checkmate" || u.Result != "1-0" {
		t.Fatalf("terminal update = %+v", u)
	}
	if eng.calls != 3 {
		t.Fatalf("engine consulted %d times, want 3", eng.calls)
	}

	ids, err := archive.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("archived %d games, want 1", len(ids))
	}
	replay, err := archive.Load(ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if got := len(replay.Moves()); got != 7 {
		t.Fatalf("replayed %d moves, want 7", got)
	}

	start := startingPosition().String()
	if got := store.Lookup(start); got["e4"] != 1 {
		t.Fatalf("learned counts at start = %v, want e4 x1", got)
	}
}

func TestResign(t *testing.T) {
	sess, _ := newTestSession(NewMemoryMoveStore(), nil, "e7e5")
	if _, err := sess.NewGame("w"); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.ApplyUserMove("e2e4"); err != nil {
		t.Fatal(err)
	}

	u, err := sess.Resign()
	if err != nil {
		t.Fatal(err)
	}
	if u.Status != "Resigned" || u.Result != "0-1" {
		t.Fatalf("resign update = %+v, want black win by resignation", u)
	}

	if _, err := sess.Resign(); !errors.Is(err, ErrSessionTerminated) {
		t.Fatalf("second resign err = %v, want ErrSessionTerminated", err)
	}
}

func TestDelegateFailureSurfaces(t *testing.T) {
	eng := &fakeEngine{err: errors.New("engine gone")}
	sel := NewSelector(NewBook(), NewMemoryMoveStore(), eng, styleWithBlunder(0), Limit{}, 7)
	sess := NewBotSession(sel, NewMemoryMoveStore(), nil)
	if _, err := sess.NewGame("w"); err != nil {
		t.Fatal(err)
	}

	u, err := sess.ApplyUserMove("e2e4")
	if !errors.Is(err, ErrEngine) {
		t.Fatalf("err = %v, want ErrEngine", err)
	}
	// the user's move stands even though the bot could not reply
	if u == nil || len(sess.Game().Moves()) != 1 {
		t.Fatal("user move lost on delegate failure")
	}
}

func TestNewGameResetsFinishedSession(t *testing.T) {
	sess, _ := newTestSession(NewMemoryMoveStore(), nil, "e7e5")
	if _, err := sess.NewGame("w"); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.ApplyUserMove("e2e4"); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Resign(); err != nil {
		t.Fatal(err)
	}

	u, err := sess.NewGame("w")
	if err != nil {
		t.Fatal(err)
	}
	if u.Status != "Ongoing" || len(sess.Game().Moves()) != 0 {
		t.Fatalf("session not reset: %+v", u)
	}
	if _, err := sess.ApplyUserMove("d2d4"); err != nil {
		t.Fatalf("fresh game rejected a move: %v", err)
	}
}
