package main

import (
	"embed"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"

	"github.com/surajk/reallybot/pkg/reallybot"
)

//go:embed assets/*
var assets embed.FS

func main() {
	configPath := flag.String("config", "", "path to config.json")
	addr := flag.String("addr", "", "listen address (overrides config)")
	redisURL := flag.String("redis", "", "redis URL (overrides config)")
	enginePath := flag.String("engine", "", "UCI engine binary (overrides config)")
	personaDir := flag.String("persona", "", "persona directory (overrides config)")
	dataDir := flag.String("data", "", "data directory (overrides config)")
	flag.Parse()

	cfg, err := reallybot.LoadConfig(*configPath)
	if err != nil {
		log.Fatalln("config error:", err)
	}
	if len(*addr) > 0 {
		cfg.Addr = *addr
	}
	if len(*redisURL) > 0 {
		cfg.RedisURL = *redisURL
	}
	if len(*enginePath) > 0 {
		cfg.EnginePath = *enginePath
	}
	if len(*personaDir) > 0 {
		cfg.PersonaDir = *personaDir
	}
	if len(*dataDir) > 0 {
		cfg.DataDir = *dataDir
	}

	book, style := reallybot.LoadPersona(cfg.PersonaDir)
	log.Printf("[persona: %d book positions, blunder chance %.3f]", book.Len(), style.BlunderChance)

	var engine reallybot.Engine
	if len(cfg.EnginePath) > 0 {
		engine, err = reallybot.NewUCIEngine(cfg.EnginePath, reallybot.EngineOptions{
			SkillLevel: cfg.SkillLevel,
			UCIElo:     cfg.UCIElo,
		})
		if err != nil {
			log.Fatalln("engine error:", err)
		}
	} else {
		log.Println("[no UCI engine configured, using built-in search]")
		engine = reallybot.NewBlunderEngine()
	}

	var db *reallybot.DB
	if len(cfg.RedisURL) > 0 {
		db, err = reallybot.NewDB(cfg.RedisURL)
		if err != nil {
			log.Println("Redis error:", err)
			db = nil
		}
	}

	var store reallybot.MoveStore
	var archive reallybot.Archive
	if db != nil {
		store = reallybot.NewRedisMoveStore(db)
		archive = reallybot.NewRedisArchive(db)
	} else {
		store, err = reallybot.OpenFileMoveStore(filepath.Join(cfg.DataDir, "move_db.json"))
		if err != nil {
			log.Fatalln("move store error:", err)
		}
		archive = reallybot.NewDirArchive(filepath.Join(cfg.DataDir, "games"))
	}

	mgr := reallybot.NewSessionMgr(cfg, db, book, style, store, archive, engine)
	defer mgr.Close()

	assets, _ := fs.Sub(assets, "assets")
	srv := reallybot.NewServer(assets, mgr)

	log.Printf("[listening on %s]", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		log.Fatalln(err)
	}
}
