package reallybot

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/notnil/chess"
)

const (
	BookFileName  = "opening_book.json"
	StyleFileName = "style.json"

	// DefaultBookPlies bounds book building to the opening phase.
	DefaultBookPlies = 16
)

// BookMove is one candidate move with its observed frequency.
type BookMove struct {
	SAN   string `json:"san"`
	Count int    `json:"count"`
}

// Book is the precomputed persona opening book: position key to ranked
// candidate moves. Read-only after construction, safe for concurrent
// lookups.
type Book struct {
	entries map[string][]BookMove
}

func NewBook() *Book {
	return &Book{entries: make(map[string][]BookMove)}
}

// Lookup returns the ranked candidates for a position, nil if unseen.
func (book *Book) Lookup(fen string) []BookMove {
	return book.entries[fen]
}

func (book *Book) Len() int {
	return len(book.entries)
}

// BuildBook replays every game in a PGN corpus up to maxPlies and
// tallies the move played at each position-before-move. Entries are
// sorted by descending count; ties keep first-seen order.
func BuildBook(r io.Reader, maxPlies int) (*Book, int, error) {
	if maxPlies <= 0 {
		maxPlies = DefaultBookPlies
	}
	book := NewBook()
	index := make(map[string]map[string]int) // fen -> san -> entry index
	games := 0

	scanner := chess.NewScanner(r)
	for scanner.Scan() {
		game := scanner.Next()
		games++
		moves := game.Moves()
		positions := game.Positions()
		for ply, move := range moves {
			if ply >= maxPlies {
				break
			}
			pos := positions[ply]
			fen := pos.String()
			san := sanEncoder.Encode(pos, move)
			byMove, ok := index[fen]
			if !ok {
				byMove = make(map[string]int)
				index[fen] = byMove
			}
			if i, seen := byMove[san]; seen {
				book.entries[fen][i].Count++
			} else {
				byMove[san] = len(book.entries[fen])
				book.entries[fen] = append(book.entries[fen], BookMove{SAN: san, Count: 1})
			}
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, games, err
	}

	for fen := range book.entries {
		sort.SliceStable(book.entries[fen], func(i, j int) bool {
			return book.entries[fen][i].Count > book.entries[fen][j].Count
		})
	}
	return book, games, nil
}

func (book *Book) Save(path string) error {
	raw, err := json.Marshal(book.entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func LoadBook(path string) (*Book, error) {
	book := NewBook()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &book.entries); err != nil {
		return nil, err
	}
	return book, nil
}

// Style holds the persona's tunable scalars. Only BlunderChance gates
// runtime decisions; the rest are informational, derived at training
// time from heuristic ratios over the reference corpus.
type Style struct {
	Randomness      float64 `json:"randomness"`
	BlunderChance   float64 `json:"blunder_chance"`
	CapturesPerMove float64 `json:"captures_per_move"`
	ChecksPerMove   float64 `json:"checks_per_move"`
	Notes           string  `json:"notes,omitempty"`
}

func DefaultStyle() *Style {
	return &Style{
		Randomness:      0.15,
		BlunderChance:   0.01,
		CapturesPerMove: 0.2,
		ChecksPerMove:   0.05,
	}
}

// BuildStyle derives the style knobs from capture/check ratios over the
// corpus: more checks means more spice, more captures means slightly
// fewer blunders.
func BuildStyle(r io.Reader) (*Style, error) {
	captures, checks, total := 0, 0, 0

	scanner := chess.NewScanner(r)
	for scanner.Scan() {
		game := scanner.Next()
		moves := game.Moves()
		positions := game.Positions()
		for i, move := range moves {
			san := sanEncoder.Encode(positions[i], move)
			total++
			if strings.Contains(san, "x") {
				captures++
			}
			if strings.Contains(san, "+") {
				checks++
			}
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, err
	}

	capRatio, chkRatio := 0.2, 0.05
	if total > 0 {
		capRatio = float64(captures) / float64(total)
		chkRatio = float64(checks) / float64(total)
	}
	randomness := 0.15 + 0.7*chkRatio
	if randomness > 0.6 {
		randomness = 0.6
	}
	blunder := 0.03 - 0.02*capRatio
	if blunder < 0.01 {
		blunder = 0.01
	}
	return &Style{
		Randomness:      round2(randomness),
		BlunderChance:   round3(blunder),
		CapturesPerMove: round3(capRatio),
		ChecksPerMove:   round3(chkRatio),
		Notes:           "Heuristic defaults. You can edit these numbers.",
	}, nil
}

func (style *Style) Save(path string) error {
	raw, err := json.MarshalIndent(style, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func LoadStyle(path string) (*Style, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	style := &Style{}
	if err := json.Unmarshal(raw, style); err != nil {
		return nil, err
	}
	return style, nil
}

// LoadPersona loads the book and style from a persona directory.
// Missing files are a valid (if weak) fallback: an empty book and
// default style, with a warning.
func LoadPersona(dir string) (*Book, *Style) {
	book, err := LoadBook(filepath.Join(dir, BookFileName))
	if err != nil {
		log.Println("[persona] no opening book:", err)
		book = NewBook()
	}
	style, err := LoadStyle(filepath.Join(dir, StyleFileName))
	if err != nil {
		log.Println("[persona] no style file, using defaults:", err)
		style = DefaultStyle()
	}
	return book, style
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
