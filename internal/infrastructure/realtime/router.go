package realtime

import (
	"sync"
)

// Router tracks which connections belong to which user and which conversation
// rooms each connection subscribed to. A user may hold several connections at
// once (multi-device); the first registered connection marks the user online
// and removing the last one marks them offline.
//
// All operations are atomic with respect to each other so interleaved
// connect/disconnect handlers can never observe a partially-updated set.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	userSessions map[string]map[string]struct{}    // userID -> set of sessionIDs
	rooms        map[string]map[string]*Connection // conversationID -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}    // sessionID -> set of conversationIDs
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]map[string]struct{}),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for its user and starts its write loop.
func (r *Router) Attach(conn *Connection) {
	r.mu.Lock()
	r.sessions[conn.ID] = conn
	set := r.userSessions[conn.UserID]
	if set == nil {
		set = make(map[string]struct{})
		r.userSessions[conn.UserID] = set
	}
	set[conn.ID] = struct{}{}
	r.sessionRooms[conn.ID] = make(map[string]struct{})
	r.mu.Unlock()

	conn.Start()
}

// Detach removes a connection if it is still tracked, dropping it from every
// room it joined.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// IsOnline reports whether the user has at least one live connection.
func (r *Router) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userSessions[userID]) > 0
}

// OnlineCount returns the number of users with at least one live connection.
func (r *Router) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userSessions)
}

// Join adds the connection to the conversation room. Authorization is the
// caller's concern; the router only manages subscription sets.
func (r *Router) Join(conversationID string, conn *Connection) {
	r.mu.Lock()
	if _, ok := r.sessions[conn.ID]; !ok {
		r.mu.Unlock()
		return
	}

	room := r.rooms[conversationID]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[conversationID] = room
	}
	room[conn.ID] = conn

	memberships := r.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.sessionRooms[conn.ID] = memberships
	}
	memberships[conversationID] = struct{}{}
	r.mu.Unlock()
}

// Leave removes the connection from the conversation room. Leaving is always
// permitted.
func (r *Router) Leave(conversationID string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(conversationID, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to every connection currently subscribed to the
// conversation, the sender's included. Delivery is at-most-once per
// subscriber; connections that join later receive nothing.
func (r *Router) Broadcast(conversationID string, payload []byte) int {
	return r.broadcast(conversationID, payload, "")
}

// BroadcastExcept is Broadcast minus one connection, used for relaying
// signaling frames back to everyone but the originating socket.
func (r *Router) BroadcastExcept(conversationID string, payload []byte, excludeSessionID string) int {
	return r.broadcast(conversationID, payload, excludeSessionID)
}

func (r *Router) broadcast(conversationID string, payload []byte, excludeSessionID string) int {
	r.mu.RLock()
	room := r.rooms[conversationID]
	if len(room) == 0 {
		r.mu.RUnlock()
		return 0
	}

	delivered := 0
	for id, conn := range room {
		if excludeSessionID != "" && id == excludeSessionID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// NotifyUser delivers payload to every live connection of the given user.
func (r *Router) NotifyUser(userID string, payload []byte) bool {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.userSessions[userID]))
	for id := range r.userSessions[userID] {
		if conn := r.sessions[id]; conn != nil {
			conns = append(conns, conn)
		}
	}
	r.mu.RUnlock()

	delivered := false
	for _, conn := range conns {
		if conn.Send(payload) == nil {
			delivered = true
		}
	}
	return delivered
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userSessions = make(map[string]map[string]struct{})
	r.rooms = make(map[string]map[string]*Connection)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if set, ok := r.userSessions[conn.UserID]; ok {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(r.userSessions, conn.UserID)
		}
	}

	for roomID := range r.sessionRooms[sessionID] {
		r.leaveLocked(roomID, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Router) leaveLocked(conversationID string, sessionID string) {
	if sessionID == "" {
		return
	}
	room := r.rooms[conversationID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, conversationID)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, conversationID)
		if len(memberships) == 0 {
			delete(r.sessionRooms, sessionID)
		}
	}
}
