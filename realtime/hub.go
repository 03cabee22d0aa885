package realtime

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// client is one attached connection with its outbound queue.
type client struct {
	id   string
	conn Conn
	send chan Event
	done chan struct{}
	once sync.Once
}

func newClient(id string, conn Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan Event, 16),
		done: make(chan struct{}),
	}
}

func (c *client) writePump() {
	for {
		select {
		case ev := <-c.send:
			if err := c.conn.WriteEvent(&ev); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// trySend queues an event without blocking; a full queue drops the event.
// Delivery on this channel is best-effort, durability lives in the store.
func (c *client) trySend(ev Event) {
	select {
	case c.send <- ev:
	default:
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Hub owns presence and channel membership for the whole process. Presence
// maps a user to a single connection (last announce wins); channels fan a
// user-addressed event out to every member connection. All state is
// in-memory and process-local.
type Hub struct {
	mu          sync.RWMutex
	conns       map[string]*client           // connID -> connection
	online      map[int64]string             // userID -> connID (presence)
	owners      map[string]int64             // connID -> announced userID
	channels    map[int64]map[string]*client // channel userID -> members
	memberships map[string]map[int64]bool    // connID -> joined channels
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:       make(map[string]*client),
		online:      make(map[int64]string),
		owners:      make(map[string]int64),
		channels:    make(map[int64]map[string]*client),
		memberships: make(map[string]map[int64]bool),
		logger:      logger,
	}
}

// Attach registers a freshly upgraded connection and starts its write pump.
func (h *Hub) Attach(connID string, conn Conn) {
	cl := newClient(connID, conn)
	h.mu.Lock()
	h.conns[connID] = cl
	h.mu.Unlock()
	go cl.writePump()
}

// Announce records userID as reachable through connID, overwriting any prior
// entry for that user, joins the personal channel, and broadcasts the updated
// online set to every attached connection. Idempotent.
func (h *Hub) Announce(connID string, userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl, ok := h.conns[connID]
	if !ok {
		return
	}
	h.online[userID] = connID
	h.owners[connID] = userID
	h.joinLocked(cl, userID)
	h.broadcastOnlineLocked()
	h.logger.Debug("user online", zap.Int64("user_id", userID), zap.String("conn_id", connID))
}

// Lookup reports the connection currently registered for userID.
func (h *Hub) Lookup(userID int64) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	connID, ok := h.online[userID]
	return connID, ok
}

// Remove is invoked on transport close. It purges the connection's channel
// memberships and, when the connection had announced a user, drops that
// user's presence entry and broadcasts the updated online set. Closing a
// never-announced connection is a silent no-op on presence.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl, ok := h.conns[connID]
	if !ok {
		return
	}
	delete(h.conns, connID)
	cl.close()
	for userID := range h.memberships[connID] {
		h.leaveLocked(cl, userID)
	}
	delete(h.memberships, connID)

	userID, announced := h.owners[connID]
	if !announced {
		return
	}
	delete(h.owners, connID)
	delete(h.online, userID)
	h.broadcastOnlineLocked()
	h.logger.Debug("user offline", zap.Int64("user_id", userID), zap.String("conn_id", connID))
}

// Join adds the connection to the personal channel named userID. Joining
// does not leave previously joined channels; an explicit Leave is required.
func (h *Hub) Join(connID string, userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl, ok := h.conns[connID]
	if !ok {
		return
	}
	h.joinLocked(cl, userID)
}

// Leave removes the connection from the channel named userID.
func (h *Hub) Leave(connID string, userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl, ok := h.conns[connID]
	if !ok {
		return
	}
	h.leaveLocked(cl, userID)
}

func (h *Hub) joinLocked(cl *client, userID int64) {
	if h.channels[userID] == nil {
		h.channels[userID] = make(map[string]*client)
	}
	h.channels[userID][cl.id] = cl
	if h.memberships[cl.id] == nil {
		h.memberships[cl.id] = make(map[int64]bool)
	}
	h.memberships[cl.id][userID] = true
}

func (h *Hub) leaveLocked(cl *client, userID int64) {
	if members, ok := h.channels[userID]; ok {
		delete(members, cl.id)
		if len(members) == 0 {
			delete(h.channels, userID)
		}
	}
	if set, ok := h.memberships[cl.id]; ok {
		delete(set, userID)
	}
}

// NotifyUser delivers a named event to every connection joined to the
// user's personal channel. No member means the event is silently dropped.
func (h *Hub) NotifyUser(userID int64, event string, payload any) {
	ev, err := NewEvent(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	members := h.channels[userID]
	snapshot := make([]*client, 0, len(members))
	for _, cl := range members {
		snapshot = append(snapshot, cl)
	}
	h.mu.RUnlock()

	for _, cl := range snapshot {
		cl.trySend(ev)
	}
}

// OnlineUsers returns the announced user ids, ascending.
func (h *Hub) OnlineUsers() []int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onlineUsersLocked()
}

func (h *Hub) onlineUsersLocked() []int64 {
	users := make([]int64, 0, len(h.online))
	for userID := range h.online {
		users = append(users, userID)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

// broadcastOnlineLocked pushes the full online set to every attached
// connection, announced or not.
func (h *Hub) broadcastOnlineLocked() {
	ev, err := NewEvent(EventUpdateOnlineUsers, h.onlineUsersLocked())
	if err != nil {
		h.logger.Error("failed to encode online set", zap.Error(err))
		return
	}
	for _, cl := range h.conns {
		cl.trySend(ev)
	}
}
