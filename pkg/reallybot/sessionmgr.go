package reallybot

import (
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

const DefaultKillTimeout = time.Hour

// SessionMgr owns the process-wide shared state — persona book, style,
// learned-move store, game archive, the delegate engine — and the
// registry of live sessions.
type SessionMgr struct {
	killTimeout time.Duration
	sessions    sync.Map
	db          *DB
	book        *Book
	style       *Style
	store       MoveStore
	archive     Archive
	engine      Engine
	limit       Limit
}

func NewSessionMgr(cfg *Config, db *DB, book *Book, style *Style, store MoveStore, archive Archive, engine Engine) *SessionMgr {
	mgr := &SessionMgr{
		killTimeout: cfg.SessionKillTimeout(),
		db:          db,
		book:        book,
		style:       style,
		store:       store,
		archive:     archive,
		engine:      engine,
		limit:       cfg.MoveLimit(),
	}
	if mgr.db != nil {
		mgr.loadSessions()
	}
	return mgr
}

func (mgr *SessionMgr) GetSession(roomID string) *Session {
	v, _ := mgr.sessions.LoadOrStore(roomID, &Session{})
	sess := v.(*Session)
	// two goroutines can race on a brand-new room; only one may init
	sess.initOnce.Do(func() {
		sess.init(newSessionLifecycle(mgr, roomID), mgr.newSelector(), mgr.store, mgr.archive, "")
		log.Printf("[new session: %s]", roomID)
	})
	return sess
}

func (mgr *SessionMgr) GetSessionServer(roomID string) http.Handler {
	return websocket.Handler(mgr.GetSession(roomID).serve)
}

// MoveHistoryToGIF renders a live session's move history.
func (mgr *SessionMgr) MoveHistoryToGIF(w io.Writer, roomID string) error {
	sess, loaded := mgr.sessions.Load(roomID)
	if !loaded {
		return ErrSessionTerminated
	}
	moves, positions := sess.(*Session).getMoveHistory()
	return MoveHistoryToGIF(w, moves, positions)
}

func (mgr *SessionMgr) newSelector() *Selector {
	return NewSelector(mgr.book, mgr.store, mgr.engine, mgr.style, mgr.limit, time.Now().UnixNano())
}

func (mgr *SessionMgr) loadSessions() {
	for roomID, state := range mgr.db.LoadSessions() {
		log.Printf("[loading session from persistent storage: %s]", roomID)
		sess := &Session{}
		sess.initOnce.Do(func() {
			sess.init(newSessionLifecycle(mgr, roomID), mgr.newSelector(), mgr.store, mgr.archive, state)
		})
		mgr.sessions.Store(roomID, sess)
	}
}

func (mgr *SessionMgr) updateSession(roomID, state string) {
	if mgr.db != nil && len(roomID) > 0 {
		mgr.db.SaveSession(roomID, state, mgr.killTimeout)
	}
}

func (mgr *SessionMgr) killSession(roomID string) {
	log.Printf("[session expired: %s]", roomID)
	mgr.sessions.Delete(roomID)
}

func (mgr *SessionMgr) Close() error {
	if mgr.engine != nil {
		mgr.engine.Close()
	}
	if mgr.store != nil {
		mgr.store.Close()
	}
	return nil
}
