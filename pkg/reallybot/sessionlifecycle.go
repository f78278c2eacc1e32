package reallybot

import (
	"time"
)

// sessionLifecycle ties a session to its manager: persistence of state
// snapshots and expiry once the last client disconnects. A nil
// lifecycle (standalone CLI/test sessions) is a no-op.
type sessionLifecycle struct {
	mgr         *SessionMgr
	roomID      string
	killTimer   *time.Timer
	killTimeout time.Duration
}

func newSessionLifecycle(mgr *SessionMgr, roomID string) *sessionLifecycle {
	slc := &sessionLifecycle{
		mgr:         mgr,
		roomID:      roomID,
		killTimer:   time.NewTimer(mgr.killTimeout),
		killTimeout: mgr.killTimeout,
	}
	go func() {
		<-slc.killTimer.C
		mgr.killSession(roomID)
	}()
	return slc
}

func (slc *sessionLifecycle) update(state string) {
	if slc == nil {
		return
	}
	slc.mgr.updateSession(slc.roomID, state)
}

func (slc *sessionLifecycle) startTimer() {
	if slc == nil {
		return
	}
	slc.killTimer.Reset(slc.killTimeout)
}

func (slc *sessionLifecycle) stopTimer() {
	if slc == nil {
		return
	}
	slc.killTimer.Stop()
}
