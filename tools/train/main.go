package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/surajk/reallybot/pkg/reallybot"
)

func main() {
	pgnPath := flag.String("pgn", filepath.Join("data", "all_games.pgn"), "reference PGN corpus")
	outDir := flag.String("out", "persona", "output directory")
	plies := flag.Int("plies", reallybot.DefaultBookPlies, "opening book ply limit")
	movedbPath := flag.String("movedb", filepath.Join("data", "move_db.json"), "learned move table to seed from the corpus (empty to skip)")
	flag.Parse()

	f, err := os.Open(*pgnPath)
	if err != nil {
		log.Fatalln("cannot read corpus:", err)
	}
	book, games, err := reallybot.BuildBook(f, *plies)
	f.Close()
	if err != nil {
		log.Fatalln("book build failed:", err)
	}

	f, err = os.Open(*pgnPath)
	if err != nil {
		log.Fatalln("cannot read corpus:", err)
	}
	style, err := reallybot.BuildStyle(f)
	f.Close()
	if err != nil {
		log.Fatalln("style build failed:", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalln(err)
	}
	if err := book.Save(filepath.Join(*outDir, reallybot.BookFileName)); err != nil {
		log.Fatalln(err)
	}
	if err := style.Save(filepath.Join(*outDir, reallybot.StyleFileName)); err != nil {
		log.Fatalln(err)
	}

	fmt.Printf("Built opening book from %d games -> %d positions.\n", games, book.Len())
	fmt.Printf("Saved %s and %s under %s\n", reallybot.BookFileName, reallybot.StyleFileName, *outDir)

	if len(*movedbPath) > 0 {
		store, err := reallybot.OpenFileMoveStore(*movedbPath)
		if err != nil {
			log.Fatalln("move store error:", err)
		}
		f, err = os.Open(*pgnPath)
		if err != nil {
			log.Fatalln("cannot read corpus:", err)
		}
		seeded, err := reallybot.SeedMoveStore(f, store)
		f.Close()
		if err != nil {
			log.Fatalln("move table seed failed:", err)
		}
		fmt.Printf("Seeded learned move table with %d games -> %s\n", seeded, *movedbPath)
	}
}
