package reallybot

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/notnil/chess"
)

func gameWithMoves(t *testing.T, sans ...string) *chess.Game {
	t.Helper()
	game := chess.NewGame()
	for _, san := range sans {
		move, err := sanEncoder.Decode(game.Position(), san)
		if err != nil {
			t.Fatalf("bad test move %s: %v", san, err)
		}
		if err := game.Move(move); err != nil {
			t.Fatalf("bad test move %s: %v", san, err)
		}
	}
	return game
}

func TestRecordGameAdditive(t *testing.T) {
	store := NewMemoryMoveStore()
	game := gameWithMoves(t, "e4", "e5", "Nf3")

	if err := store.RecordGame(game); err != nil {
		t.Fatal(err)
	}
	once := make(map[string]map[string]int)
	for _, p := range replayGame(game) {
		once[p.FEN] = store.Lookup(p.FEN)
	}

	if err := store.RecordGame(game); err != nil {
		t.Fatal(err)
	}
	for fen, counts := range once {
		twice := store.Lookup(fen)
		for san, n := range counts {
			if twice[san] != 2*n {
				t.Errorf("%s %s: count %d after double record, want %d", fen, san, twice[san], 2*n)
			}
		}
	}
}

func TestRecordGameCountsBothSides(t *testing.T) {
	store := NewMemoryMoveStore()
	game := gameWithMoves(t, "e4", "e5")
	if err := store.RecordGame(game); err != nil {
		t.Fatal(err)
	}

	start := chess.NewGame().Position().String()
	if got := store.Lookup(start); got["e4"] != 1 {
		t.Errorf("white move not tallied: %v", got)
	}
	afterE4 := gameWithMoves(t, "e4").Position().String()
	if got := store.Lookup(afterE4); got["e5"] != 1 {
		t.Errorf("black move not tallied: %v", got)
	}
}

func TestSeedMoveStore(t *testing.T) {
	store := NewMemoryMoveStore()
	games, err := SeedMoveStore(strings.NewReader(testCorpus), store)
	if err != nil {
		t.Fatal(err)
	}
	if games != 2 {
		t.Fatalf("games = %d, want 2", games)
	}

	start := chess.NewGame().Position().String()
	if got := store.Lookup(start); got["e4"] != 2 {
		t.Errorf("start tallies = %v, want e4 x2", got)
	}
	afterE4 := gameWithMoves(t, "e4").Position().String()
	if got := store.Lookup(afterE4); got["e5"] != 1 || got["c5"] != 1 {
		t.Errorf("tallies after e4 = %v, want e5 x1 and c5 x1", got)
	}
}

func TestLookupUnseenPosition(t *testing.T) {
	store := NewMemoryMoveStore()
	if got := store.Lookup("nonsense"); len(got) != 0 {
		t.Fatalf("unseen position returned %v", got)
	}
}

func TestFileMoveStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "move_db.json")

	store, err := OpenFileMoveStore(path)
	if err != nil {
		t.Fatal(err)
	}
	game := gameWithMoves(t, "d4", "d5", "c4")
	if err := store.RecordGame(game); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenFileMoveStore(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range replayGame(game) {
		if !reflect.DeepEqual(store.Lookup(p.FEN), reopened.Lookup(p.FEN)) {
			t.Errorf("counts for %s differ after reload", p.FEN)
		}
	}

	// the snapshot write must not leave temp files behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".move_db-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}
