package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/surajk/reallybot/pkg/connector"
	"github.com/surajk/reallybot/pkg/reallybot"
)

func colored(s string, c termenv.Color) string {
	return termenv.String(s).Foreground(c).String()
}

func say(chat string) {
	if len(chat) > 0 {
		fmt.Println(colored("💬 ReallyBot:", termenv.ANSICyan), chat)
	}
}

func main() {
	personaDir := flag.String("persona", "persona", "persona directory")
	dataDir := flag.String("data", "data", "data directory (move db + game records)")
	enginePath := flag.String("engine", "", "UCI engine binary (empty: built-in search)")
	moveTime := flag.Duration("time", 100*time.Millisecond, "engine time per move")
	depth := flag.Int("depth", 12, "engine depth limit")
	sessionURL := flag.String("url", "", "play against a running server session instead of locally")
	flag.Parse()

	in := bufio.NewScanner(os.Stdin)

	fmt.Println(colored("🎉 Game started! Type moves in UCI format (e2e4, g1f3, etc.)", termenv.ANSIGreen))
	fmt.Println(colored("Type 'resign' or 'quit' to exit anytime.", termenv.ANSIYellow))
	fmt.Print(colored("\nDo you want to play as White or Black? (w/b): ", termenv.ANSIYellow))
	if !in.Scan() {
		return
	}
	color := strings.TrimSpace(strings.ToLower(in.Text()))
	if color != "b" {
		color = "w"
	}

	if len(*sessionURL) > 0 {
		playRemote(*sessionURL, color, in)
		return
	}

	book, style := reallybot.LoadPersona(*personaDir)

	var engine reallybot.Engine
	var err error
	if len(*enginePath) > 0 {
		engine, err = reallybot.NewUCIEngine(*enginePath, reallybot.EngineOptions{})
		if err != nil {
			log.Fatalln("engine error:", err)
		}
	} else {
		engine = reallybot.NewBlunderEngine()
	}
	defer engine.Close()

	store, err := reallybot.OpenFileMoveStore(filepath.Join(*dataDir, "move_db.json"))
	if err != nil {
		log.Fatalln("move store error:", err)
	}
	archive := reallybot.NewDirArchive(filepath.Join(*dataDir, "games"))

	limit := reallybot.Limit{MoveTime: *moveTime, Depth: *depth}
	sel := reallybot.NewSelector(book, store, engine, style, limit, time.Now().UnixNano())
	sess := reallybot.NewBotSession(sel, store, archive)

	say("Ready to lose? Let's go! 😎")

	u, err := sess.NewGame(color)
	if err != nil {
		log.Fatalln(err)
	}
	printUpdate(sess, u)

	for !u.IsGameOver {
		fmt.Print(colored("\nYour move: ", termenv.ANSIYellow))
		if !in.Scan() {
			return
		}
		input := strings.TrimSpace(strings.ToLower(in.Text()))

		if input == "quit" || input == "resign" {
			u, err = sess.Resign()
			if err != nil {
				log.Fatalln(err)
			}
			fmt.Println(colored("You resigned. Game over.", termenv.ANSIRed))
			break
		}

		u, err = sess.ApplyUserMove(input)
		switch {
		case errors.Is(err, reallybot.ErrIllegalMove):
			fmt.Println(colored("Illegal move, try again.", termenv.ANSIRed))
			continue
		case errors.Is(err, reallybot.ErrMalformedInput):
			fmt.Println(colored("Invalid input. Use UCI like 'e2e4'.", termenv.ANSIRed))
			continue
		case err != nil:
			log.Fatalln(err)
		}
		printUpdate(sess, u)
	}

	fmt.Println(colored("\nResult: "+u.Result, termenv.ANSIGreen))
	say(reallybot.EndChat(u.Status))
}

func printUpdate(sess *reallybot.Session, u *reallybot.Update) {
	fmt.Println()
	fmt.Println(sess.Game().Position().Board().Draw())
	if len(u.BotSAN) > 0 {
		fmt.Println(colored("Bot plays: "+u.BotSAN, termenv.ANSIMagenta))
		chat := u.BotChat
		if len(chat) == 0 {
			chat = reallybot.Say(u.BotTag)
		}
		say(chat)
	}
}

// playRemote drives a server-hosted room instead of a local session.
func playRemote(sessionURL, color string, in *bufio.Scanner) {
	conn, err := connector.NewConnection(sessionURL)
	if err != nil {
		log.Fatalln(err)
	}
	defer conn.Close()

	u, err := conn.NewGame(color)
	if err != nil {
		log.Fatalln(err)
	}
	printRemote(u)

	for !u.IsGameOver {
		fmt.Print(colored("\nYour move: ", termenv.ANSIYellow))
		if !in.Scan() {
			return
		}
		input := strings.TrimSpace(strings.ToLower(in.Text()))

		if input == "quit" || input == "resign" {
			u, err = conn.Resign()
			if err != nil {
				log.Fatalln(err)
			}
			fmt.Println(colored("You resigned. Game over.", termenv.ANSIRed))
			break
		}

		u, err = conn.Move(input)
		if err != nil {
			log.Fatalln(err)
		}
		if len(u.Err) > 0 {
			fmt.Println(colored(u.Err, termenv.ANSIRed))
			continue
		}
		printRemote(u)
	}

	fmt.Println(colored("\nResult: "+u.Result, termenv.ANSIGreen))
}

func printRemote(u *reallybot.Update) {
	fmt.Println("\n" + u.FEN)
	if len(u.BotSAN) > 0 {
		fmt.Println(colored("Bot plays: "+u.BotSAN, termenv.ANSIMagenta))
		say(u.BotChat)
	}
}
