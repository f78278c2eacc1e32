package reallybot

import (
	"encoding/json"
	"html/template"
	"io/fs"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

func init() {
	rand.Seed(time.Now().Unix())
}

type Server struct {
	http.ServeMux
	mgr   *SessionMgr
	index *template.Template
}

func NewServer(assets fs.FS, mgr *SessionMgr) *Server {
	indexRaw, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		panic(err)
	}
	srv := &Server{
		mgr:   mgr,
		index: template.Must(template.New("").Parse(string(indexRaw))),
	}

	srv.Handle("/js/", http.FileServer(http.FS(assets)))

	srv.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) <= 1 {
			http.Redirect(w, r, "/room/"+uuid.NewString(), http.StatusTemporaryRedirect)
		}
	})

	srv.HandleFunc("/room/", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Path[6:]
		if len(roomID) == 0 {
			http.Redirect(w, r, "/room/"+uuid.NewString(), http.StatusTemporaryRedirect)
			return
		}
		srv.index.Execute(w, roomID)
	})

	srv.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Path[4:]
		mgr.GetSessionServer(roomID).ServeHTTP(w, r)
	})

	srv.HandleFunc("/gif/", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Path[5:]
		w.Header().Set("Content-Disposition", "attachment; filename="+roomID+".gif")
		w.Header().Set("Content-Type", "image/gif")
		if err := mgr.MoveHistoryToGIF(w, roomID); err != nil {
			http.Error(w, "Session not found", http.StatusNotFound)
		}
	})

	srv.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		ids, err := mgr.archive.List()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ids)
	})

	srv.HandleFunc("/games/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[7:]
		if len(id) > 4 && id[len(id)-4:] == ".gif" {
			game, err := mgr.archive.Load(id[:len(id)-4])
			if err != nil {
				http.Error(w, "Game not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "image/gif")
			GameToGIF(w, game)
			return
		}
		game, err := mgr.archive.Load(id)
		if err != nil {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/x-chess-pgn")
		w.Write([]byte(game.String()))
	})

	return srv
}
