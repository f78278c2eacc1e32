package reallybot

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	roomKeyPrefix = "room:"
	moveKeyPrefix = "moves:"
	gameKeyPrefix = "game:"
)

type DB redis.Client

func NewDB(redisURL string) (*DB, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	db := redis.NewClient(opt)
	if err := db.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return (*DB)(db), nil
}

func (db *DB) redis() *redis.Client {
	return (*redis.Client)(db)
}

// LoadSessions returns the saved state of every live room.
func (db *DB) LoadSessions() map[string]string {
	rooms, err := db.redis().Keys(context.Background(), roomKeyPrefix+"*").Result()
	if err != nil {
		log.Println("Redis error:", err)
		return nil
	}
	results := make(map[string]string)
	for _, room := range rooms {
		state, err := db.redis().Get(context.Background(), room).Result()
		if err != nil {
			log.Println("Redis error:", err)
			continue
		}
		results[strings.TrimPrefix(room, roomKeyPrefix)] = state
	}
	return results
}

func (db *DB) SaveSession(room, state string, expiration time.Duration) {
	if err := db.redis().Set(context.Background(), roomKeyPrefix+room, state, expiration).Err(); err != nil {
		log.Println("Redis error:", err)
	}
}

func (db *DB) DeleteSession(room string) {
	if err := db.redis().Del(context.Background(), roomKeyPrefix+room).Err(); err != nil {
		log.Println("Redis error:", err)
	}
}

// MoveCounts returns the learned move tallies for one position key.
func (db *DB) MoveCounts(fen string) (map[string]int, error) {
	raw, err := db.redis().HGetAll(context.Background(), moveKeyPrefix+fen).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(raw))
	for san, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		counts[san] = n
	}
	return counts, nil
}

// IncrMoveCounts applies one completed game's (position, move) tallies
// in a single pipeline so other sessions never observe a partial game.
func (db *DB) IncrMoveCounts(pairs []MoveCount) error {
	pipe := db.redis().TxPipeline()
	for _, p := range pairs {
		pipe.HIncrBy(context.Background(), moveKeyPrefix+p.FEN, p.SAN, int64(p.Count))
	}
	_, err := pipe.Exec(context.Background())
	return err
}

func (db *DB) SaveGameRecord(id, pgn string) error {
	return db.redis().Set(context.Background(), gameKeyPrefix+id, pgn, 0).Err()
}

func (db *DB) ListGameRecords() ([]string, error) {
	keys, err := db.redis().Keys(context.Background(), gameKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, gameKeyPrefix))
	}
	return ids, nil
}

func (db *DB) LoadGameRecord(id string) (string, error) {
	return db.redis().Get(context.Background(), gameKeyPrefix+id).Result()
}
