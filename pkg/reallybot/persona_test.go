package reallybot

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/notnil/chess"
)

const testCorpus = `[Event "Test"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 1-0

[Event "Test"]
[Result "1/2-1/2"]

1. e4 c5 1/2-1/2
`

func TestBuildBook(t *testing.T) {
	book, games, err := BuildBook(strings.NewReader(testCorpus), 2)
	if err != nil {
		t.Fatal(err)
	}
	if games != 2 {
		t.Fatalf("games = %d, want 2", games)
	}

	start := chess.NewGame().Position().String()
	entry := book.Lookup(start)
	if len(entry) != 1 || entry[0].SAN != "e4" || entry[0].Count != 2 {
		t.Fatalf("starting entry = %v, want e4 x2", entry)
	}

	afterE4 := gameWithMoves(t, "e4").Position().String()
	entry = book.Lookup(afterE4)
	want := []BookMove{{SAN: "e5", Count: 1}, {SAN: "c5", Count: 1}}
	if !reflect.DeepEqual(entry, want) {
		t.Fatalf("entry after e4 = %v, want %v (ties keep first-seen order)", entry, want)
	}

	// ply limit: the position after two plies must not appear
	afterE4E5 := gameWithMoves(t, "e4", "e5").Position().String()
	if entry := book.Lookup(afterE4E5); entry != nil {
		t.Fatalf("position past the ply limit has entry %v", entry)
	}
}

func TestBookRanking(t *testing.T) {
	corpus := `[Result "1-0"]

1. d4 d5 1-0

[Result "1-0"]

1. e4 e5 1-0

[Result "1-0"]

1. e4 c5 1-0
`
	book, _, err := BuildBook(strings.NewReader(corpus), 4)
	if err != nil {
		t.Fatal(err)
	}
	start := chess.NewGame().Position().String()
	entry := book.Lookup(start)
	if len(entry) != 2 || entry[0].SAN != "e4" || entry[0].Count != 2 || entry[1].SAN != "d4" {
		t.Fatalf("entry = %v, want e4 ranked above d4", entry)
	}
}

func TestBookSaveLoad(t *testing.T) {
	book, _, err := BuildBook(strings.NewReader(testCorpus), 4)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), BookFileName)
	if err := book.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadBook(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(book.entries, loaded.entries) {
		t.Fatal("book changed across save/load")
	}
}

func TestBuildStyle(t *testing.T) {
	corpus := `[Result "1-0"]

1. e4 d5 2. exd5 Qxd5 3. Nc3 Qe5+ 1-0
`
	style, err := BuildStyle(strings.NewReader(corpus))
	if err != nil {
		t.Fatal(err)
	}
	if style.CapturesPerMove != 0.333 {
		t.Errorf("captures per move = %v, want 0.333", style.CapturesPerMove)
	}
	if style.ChecksPerMove != 0.167 {
		t.Errorf("checks per move = %v, want 0.167", style.ChecksPerMove)
	}
	if style.BlunderChance < 0.01 || style.BlunderChance > 0.03 {
		t.Errorf("blunder chance = %v, out of heuristic range", style.BlunderChance)
	}
	if style.Randomness < 0.15 || style.Randomness > 0.6 {
		t.Errorf("randomness = %v, out of heuristic range", style.Randomness)
	}
}

func TestLoadPersonaFallback(t *testing.T) {
	book, style := LoadPersona(t.TempDir())
	if book.Len() != 0 {
		t.Errorf("expected empty fallback book, got %d entries", book.Len())
	}
	if style.BlunderChance != DefaultStyle().BlunderChance {
		t.Errorf("expected default style, got %+v", style)
	}
}
