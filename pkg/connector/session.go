package connector

import (
	"github.com/surajk/reallybot/pkg/reallybot"
)

// Session receives the server's push notifications.
type Session struct {
	conn *Connection
}

func (sess *Session) Update(update *reallybot.Update, unused *bool) error {
	sess.conn.update(update)
	return nil
}
