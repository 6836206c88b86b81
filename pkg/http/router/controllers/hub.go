package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"sort"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/livetraffic/pkg/concurrent"
	"go.uber.org/zap"
)

const broadcastWorkers = 8

type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// ReadLoop consumes client frames until the connection closes. Control frames are answered by wsutil;
// data frames are ignored since the feed is push-only.
func (u *User) ReadLoop() error {
	for {
		if _, _, err := wsutil.ReadClientData(u.conn); err != nil {
			return err
		}
	}
}

// Hub fans every published traffic snapshot out to the connected websocket users.
type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	trafficService TrafficService
	log            *zap.Logger
}

func NewHub(trafficService TrafficService, log *zap.Logger) *Hub {
	return &Hub{
		ns:             make(map[uint]*User),
		us:             make([]*User, 0),
		trafficService: trafficService,
		log:            log,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	// us is ordered by id
	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs

	user.conn.Close()
}

func (h *Hub) RemoveAllUser() {
	for _, user := range h.Users() {
		h.Remove(user)
	}
}

func (h *Hub) Users() []*User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*User(nil), h.us...)
}

// Send writes the current traffic snapshot to a single user, used right after the handshake.
func (h *Hub) Send(user *User) error {
	return user.write(envelope{"data": NewTrafficResponse(h.trafficService.TrafficSnapshot())})
}

// Broadcast writes x to every user; users whose write fails are removed.
func (h *Hub) Broadcast(x interface{}) {
	users := h.Users()
	if len(users) == 0 {
		return
	}
	failed := concurrent.RunAll[*User, *User](broadcastWorkers, users, func(u *User) *User {
		if err := u.write(x); err != nil {
			h.log.Debug("websocket write failed", zap.Uint("user", u.id), zap.Error(err))
			return u
		}
		return nil
	})
	for _, u := range failed {
		if u != nil {
			h.Remove(u)
		}
	}
}

// Start subscribes to published snapshots and broadcasts them until ctx is done, then disconnects
// everyone. The returned channel is closed once the hub stopped.
func (h *Hub) Start(ctx context.Context) <-chan struct{} {
	snapshots := h.trafficService.Subscribe(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range snapshots {
			h.Broadcast(envelope{"data": NewTrafficResponse(snap)})
		}
		h.RemoveAllUser()
	}()
	return done
}
