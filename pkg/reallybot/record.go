package reallybot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/notnil/chess"
)

// GameRecord is one finished game: full move list (as PGN), result and
// timestamp.
type GameRecord struct {
	ID        string
	PGN       string
	Result    string
	Timestamp time.Time
}

func newGameRecord(game *chess.Game, result string, now time.Time) *GameRecord {
	return &GameRecord{
		// random suffix keeps two games finishing the same second apart
		ID:        "game_" + now.Format("20060102_150405") + "_" + GenerateID(4),
		PGN:       strings.TrimSpace(game.String()) + "\n",
		Result:    result,
		Timestamp: now,
	}
}

// Archive persists finished game records and replays them later.
type Archive interface {
	Save(rec *GameRecord) error
	List() ([]string, error)
	Load(id string) (*chess.Game, error)
}

// DirArchive writes one PGN file per game into a directory.
type DirArchive struct {
	dir string
}

func NewDirArchive(dir string) *DirArchive {
	return &DirArchive{dir: dir}
}

func (a *DirArchive) Save(rec *GameRecord) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(a.dir, rec.ID+".pgn"), []byte(rec.PGN), 0o644)
}

func (a *DirArchive) List() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if name := e.Name(); strings.HasSuffix(name, ".pgn") {
			ids = append(ids, strings.TrimSuffix(name, ".pgn"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (a *DirArchive) Load(id string) (*chess.Game, error) {
	raw, err := os.ReadFile(filepath.Join(a.dir, filepath.Base(id)+".pgn"))
	if err != nil {
		return nil, err
	}
	return gameFromPGN(string(raw))
}

// RedisArchive stores records as Redis string keys.
type RedisArchive struct {
	db *DB
}

func NewRedisArchive(db *DB) *RedisArchive {
	return &RedisArchive{db: db}
}

func (a *RedisArchive) Save(rec *GameRecord) error {
	return a.db.SaveGameRecord(rec.ID, rec.PGN)
}

func (a *RedisArchive) List() ([]string, error) {
	ids, err := a.db.ListGameRecords()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (a *RedisArchive) Load(id string) (*chess.Game, error) {
	pgn, err := a.db.LoadGameRecord(id)
	if err != nil {
		return nil, err
	}
	return gameFromPGN(pgn)
}

func gameFromPGN(pgn string) (*chess.Game, error) {
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return nil, fmt.Errorf("bad game record: %v", err)
	}
	return chess.NewGame(opt), nil
}
