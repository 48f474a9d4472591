package state

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Saver schedules a persistence write of the current document. The store never
// blocks on it; committing a mutation means the save has been requested.
type Saver interface {
	Request()
}

// Store owns the live state document behind a lock so interleaved handlers
// cannot observe or produce a partially-updated document. All mutations go
// through Update, which requests a coalesced save before returning.
type Store struct {
	mu    sync.RWMutex
	doc   *Document
	saver Saver
	log   zerolog.Logger
}

// NewStore wraps a loaded document. Attach the persistence coalescer with
// AttachSaver once it is constructed; until then mutations stay in memory.
func NewStore(doc *Document, log zerolog.Logger) *Store {
	if doc == nil {
		doc = NewDocument()
	}
	doc.Normalize()
	return &Store{doc: doc, log: log}
}

// AttachSaver wires the write-coalescing persistence sink.
func (s *Store) AttachSaver(saver Saver) {
	s.mu.Lock()
	s.saver = saver
	s.mu.Unlock()
}

// View runs fn with read access to the document. fn must not retain pointers
// into the document past its return.
func (s *Store) View(fn func(d *Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// Update runs fn with exclusive access. If fn returns nil the mutation is
// committed and a save is requested. A non-nil error discards nothing; fn is
// expected to leave the document untouched on failure.
func (s *Store) Update(fn func(d *Document) error) error {
	s.mu.Lock()
	err := fn(s.doc)
	saver := s.saver
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if saver != nil {
		saver.Request()
	}
	return nil
}

// Snapshot deep-copies the document for the persistence layer.
func (s *Store) Snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// UserByID resolves an account by id. The returned value is a copy.
func (s *Store) UserByID(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.doc.Users {
		if u.ID == id {
			cp := *u
			cp.Friends = append([]string(nil), u.Friends...)
			cp.Roles = append([]string(nil), u.Roles...)
			return &cp, true
		}
	}
	return nil, false
}

// UserByEmail resolves an account by email, case-insensitively.
func (s *Store) UserByEmail(email string) (*User, bool) {
	needle := NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.doc.Users {
		if u.Email == needle {
			cp := *u
			cp.Friends = append([]string(nil), u.Friends...)
			cp.Roles = append([]string(nil), u.Roles...)
			return &cp, true
		}
	}
	return nil, false
}

// ConversationByID returns a copy of the conversation if it exists.
func (s *Store) ConversationByID(id string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.doc.Conversations {
		if c.ID == id {
			return c.clone(), true
		}
	}
	return nil, false
}

// IsMember checks live conversation membership. Join authorization must use
// this rather than any cached copy, since membership changes between attempts.
func (s *Store) IsMember(conversationID, userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.doc.Conversations {
		if c.ID == conversationID {
			return c.HasMember(userID)
		}
	}
	return false
}

// MessagesFor returns up to limit most recent messages of the conversation in
// insertion order.
func (s *Store) MessagesFor(conversationID string, limit int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Message
	for _, m := range s.doc.Messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// RecordLog appends an audit entry to the snapshot, requests a save, and
// mirrors the entry to the process logger.
func (s *Store) RecordLog(level, message string, context map[string]any) {
	entry := &AuditEntry{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Context:   context,
		Timestamp: time.Now().UTC(),
	}
	s.mu.Lock()
	s.doc.Logs = append(s.doc.Logs, entry)
	saver := s.saver
	s.mu.Unlock()
	if saver != nil {
		saver.Request()
	}

	evt := s.log.Info()
	if level == "error" {
		evt = s.log.Error()
	} else if level == "warn" {
		evt = s.log.Warn()
	}
	evt.Fields(context).Msg(message)
}

// NormalizeEmail lowercases and trims an address for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
