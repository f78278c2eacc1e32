package reallybot

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/notnil/chess"
)

// MoveStore is the learned-move capability: an accumulating record of
// moves actually played across finished games, keyed by the canonical
// position string before each move. Injectable so sessions and tests
// can substitute an in-memory fake.
type MoveStore interface {
	// Lookup returns the move tallies for a position, empty if unseen.
	Lookup(fen string) map[string]int
	// RecordGame replays a finished game from its start position and
	// increments the count of every (position, move) pair along the
	// line actually played, both sides included. Recording the same
	// game twice double-counts; that is the contract (reinforcement).
	RecordGame(game *chess.Game) error
	Close() error
}

// MoveCount is one (position, move) tally delta.
type MoveCount struct {
	FEN   string
	SAN   string
	Count int
}

var sanEncoder chess.AlgebraicNotation

// replayGame walks a game's mainline and emits one MoveCount per
// half-move, keyed by the position before the move.
func replayGame(game *chess.Game) []MoveCount {
	moves := game.Moves()
	positions := game.Positions()
	pairs := make([]MoveCount, 0, len(moves))
	for i, move := range moves {
		pos := positions[i]
		pairs = append(pairs, MoveCount{
			FEN:   pos.String(),
			SAN:   sanEncoder.Encode(pos, move),
			Count: 1,
		})
	}
	return pairs
}

// SeedMoveStore bulk-loads an existing PGN corpus into a store, each
// game going through the same update rule a finished live game does.
// Returns the number of games recorded.
func SeedMoveStore(r io.Reader, store MoveStore) (int, error) {
	games := 0
	scanner := chess.NewScanner(r)
	for scanner.Scan() {
		if err := store.RecordGame(scanner.Next()); err != nil {
			return games, err
		}
		games++
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return games, err
	}
	return games, nil
}

// MemoryMoveStore keeps the table in memory only. Used by tests and by
// the CLI when no database path is given.
type MemoryMoveStore struct {
	mtx   sync.RWMutex
	table map[string]map[string]int
}

func NewMemoryMoveStore() *MemoryMoveStore {
	return &MemoryMoveStore{table: make(map[string]map[string]int)}
}

func (store *MemoryMoveStore) Lookup(fen string) map[string]int {
	store.mtx.RLock()
	defer store.mtx.RUnlock()
	counts := make(map[string]int, len(store.table[fen]))
	for san, n := range store.table[fen] {
		counts[san] = n
	}
	return counts
}

func (store *MemoryMoveStore) RecordGame(game *chess.Game) error {
	store.mtx.Lock()
	defer store.mtx.Unlock()
	for _, p := range replayGame(game) {
		moves, ok := store.table[p.FEN]
		if !ok {
			moves = make(map[string]int)
			store.table[p.FEN] = moves
		}
		moves[p.SAN] += p.Count
	}
	return nil
}

func (store *MemoryMoveStore) Close() error {
	return nil
}

// FileMoveStore persists the whole table as one JSON snapshot
// (the original move_db.json format). Writes build the new snapshot in
// a temp file and rename it over the old one, so a crash mid-write
// never corrupts prior state.
type FileMoveStore struct {
	mtx   sync.RWMutex
	path  string
	table map[string]map[string]int
}

func OpenFileMoveStore(path string) (*FileMoveStore, error) {
	store := &FileMoveStore{
		path:  path,
		table: make(map[string]map[string]int),
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := json.Unmarshal(raw, &store.table); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return store, nil
}

func (store *FileMoveStore) Lookup(fen string) map[string]int {
	store.mtx.RLock()
	defer store.mtx.RUnlock()
	counts := make(map[string]int, len(store.table[fen]))
	for san, n := range store.table[fen] {
		counts[san] = n
	}
	return counts
}

func (store *FileMoveStore) RecordGame(game *chess.Game) error {
	store.mtx.Lock()
	defer store.mtx.Unlock()
	for _, p := range replayGame(game) {
		moves, ok := store.table[p.FEN]
		if !ok {
			moves = make(map[string]int)
			store.table[p.FEN] = moves
		}
		moves[p.SAN] += p.Count
	}
	return store.writeSnapshot()
}

func (store *FileMoveStore) writeSnapshot() error {
	raw, err := json.MarshalIndent(store.table, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	tmp, err := os.CreateTemp(dir, ".move_db-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), store.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (store *FileMoveStore) Close() error {
	return nil
}

// RedisMoveStore keeps the table in Redis, one hash per position.
// Each game lands in a single pipeline, so partial updates are never
// visible to concurrent readers.
type RedisMoveStore struct {
	db *DB
}

func NewRedisMoveStore(db *DB) *RedisMoveStore {
	return &RedisMoveStore{db: db}
}

func (store *RedisMoveStore) Lookup(fen string) map[string]int {
	counts, err := store.db.MoveCounts(fen)
	if err != nil {
		log.Println("Redis error:", err)
		return nil
	}
	return counts
}

func (store *RedisMoveStore) RecordGame(game *chess.Game) error {
	if err := store.db.IncrMoveCounts(replayGame(game)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (store *RedisMoveStore) Close() error {
	return nil
}
