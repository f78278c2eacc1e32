package reallybot

import (
	"sync"
	"testing"
)

func TestGetSessionConcurrentInit(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	mgr := NewSessionMgr(cfg, nil, NewBook(), DefaultStyle(), NewMemoryMoveStore(), nil, &fakeEngine{})

	// all goroutines race for the same brand-new room
	const n = 16
	sessions := make([]*Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = mgr.GetSession("room")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if sessions[i] != sessions[0] {
			t.Fatal("concurrent GetSession returned different sessions")
		}
	}
	if sessions[0].Game() == nil {
		t.Fatal("session handed out before init")
	}
}
