package realtime

import (
	"encoding/json"
	"errors"
	"net"
	"sync"

	"github.com/gobwas/ws/wsutil"
)

// ErrMalformedEvent marks frames that arrived intact but do not decode to
// an event envelope. The session loop skips them instead of closing.
var ErrMalformedEvent = errors.New("malformed event")

// Conn is the bidirectional transport a session runs over. The websocket
// adapter is the production implementation; tests substitute their own.
type Conn interface {
	ReadEvent() (*Event, error)
	WriteEvent(ev *Event) error
	Close() error
}

// wsConn adapts a gobwas/ws upgraded net.Conn to Conn. Events are JSON
// text frames.
type wsConn struct {
	conn net.Conn
	wmu  sync.Mutex
}

func newWSConn(conn net.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadEvent() (*Event, error) {
	data, err := wsutil.ReadClientText(c.conn)
	if err != nil {
		return nil, err
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil || ev.Event == "" {
		return nil, ErrMalformedEvent
	}
	return &ev, nil
}

func (c *wsConn) WriteEvent(ev *Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return wsutil.WriteServerText(c.conn, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
