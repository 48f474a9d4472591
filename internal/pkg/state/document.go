package state

import "time"

// SystemUserID is the reserved sender id for auto-created resources such as
// direct conversations opened on friend-request acceptance. It never resolves
// to a real account and can never authenticate.
const SystemUserID = "system"

// MessageType distinguishes plain text from file-share messages.
type MessageType string

const (
	MessageTypeText MessageType = "text"
	MessageTypeFile MessageType = "file"
)

// FriendRequestStatus is the lifecycle state of a friend request.
// A request transitions out of pending exactly once.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

// User is a registered account. PasswordHash is persisted with the snapshot
// but must never leave the process; use Summary for anything client-facing.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Friends      []string  `json:"friends"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the password-free shape of a user.
type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Friends   []string  `json:"friends"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary strips the credential hash for client delivery.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Friends:   append([]string(nil), u.Friends...),
		Roles:     append([]string(nil), u.Roles...),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == "admin" {
			return true
		}
	}
	return false
}

// HasFriend reports whether id is in the user's friend list.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// Conversation is a direct (two-member) or group thread.
type Conversation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsGroup   bool      `json:"isGroup"`
	Members   []string  `json:"members"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasMember reports current membership.
func (c *Conversation) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

func (c *Conversation) clone() *Conversation {
	cp := *c
	cp.Members = append([]string(nil), c.Members...)
	return &cp
}

// Message is an immutable log entry within a conversation. Messages are
// appended in insertion order; that order is the only ordering guarantee.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	SenderID       string      `json:"senderId"`
	Type           MessageType `json:"type"`
	Content        string      `json:"content"`
	FileID         *string     `json:"fileId"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// FileRecord describes a validated upload tied to a conversation.
type FileRecord struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	UploaderID     string    `json:"uploaderId"`
	Path           string    `json:"path"`
	OriginalName   string    `json:"originalName"`
	MimeType       string    `json:"mimeType"`
	Size           int64     `json:"size"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FriendRequest tracks a pending/accepted/declined relationship request.
type FriendRequest struct {
	ID        string              `json:"id"`
	FromID    string              `json:"fromId"`
	ToID      string              `json:"toId"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	HandledAt *time.Time          `json:"handledAt,omitempty"`
}

// AuditEntry is one line of the in-snapshot audit log.
type AuditEntry struct {
	ID        string         `json:"id"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context"`
	Timestamp time.Time      `json:"timestamp"`
}

// Document is the whole persisted application state. It is read in full at
// startup and written in full (coalesced) on every mutation.
type Document struct {
	Users          []*User          `json:"users"`
	Conversations  []*Conversation  `json:"conversations"`
	Messages       []*Message       `json:"messages"`
	Files          []*FileRecord    `json:"files"`
	FriendRequests []*FriendRequest `json:"friendRequests"`
	Logs           []*AuditEntry    `json:"logs"`
}

// NewDocument returns an empty document with all collections initialized.
func NewDocument() *Document {
	return &Document{
		Users:          []*User{},
		Conversations:  []*Conversation{},
		Messages:       []*Message{},
		Files:          []*FileRecord{},
		FriendRequests: []*FriendRequest{},
		Logs:           []*AuditEntry{},
	}
}

// Normalize repairs collections that may be missing from older snapshots.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []*User{}
	}
	if d.Conversations == nil {
		d.Conversations = []*Conversation{}
	}
	if d.Messages == nil {
		d.Messages = []*Message{}
	}
	if d.Files == nil {
		d.Files = []*FileRecord{}
	}
	if d.FriendRequests == nil {
		d.FriendRequests = []*FriendRequest{}
	}
	if d.Logs == nil {
		d.Logs = []*AuditEntry{}
	}
	for _, u := range d.Users {
		if u.Friends == nil {
			u.Friends = []string{}
		}
		if u.Roles == nil {
			u.Roles = []string{"user"}
		}
	}
}

// Clone produces a deep copy suitable for handing to the persistence layer
// while the live document keeps mutating.
func (d *Document) Clone() *Document {
	out := &Document{
		Users:          make([]*User, 0, len(d.Users)),
		Conversations:  make([]*Conversation, 0, len(d.Conversations)),
		Messages:       make([]*Message, 0, len(d.Messages)),
		Files:          make([]*FileRecord, 0, len(d.Files)),
		FriendRequests: make([]*FriendRequest, 0, len(d.FriendRequests)),
		Logs:           make([]*AuditEntry, 0, len(d.Logs)),
	}
	for _, u := range d.Users {
		cp := *u
		cp.Friends = append([]string(nil), u.Friends...)
		cp.Roles = append([]string(nil), u.Roles...)
		out.Users = append(out.Users, &cp)
	}
	for _, c := range d.Conversations {
		out.Conversations = append(out.Conversations, c.clone())
	}
	for _, m := range d.Messages {
		cp := *m
		if m.FileID != nil {
			fid := *m.FileID
			cp.FileID = &fid
		}
		out.Messages = append(out.Messages, &cp)
	}
	for _, f := range d.Files {
		cp := *f
		out.Files = append(out.Files, &cp)
	}
	for _, r := range d.FriendRequests {
		cp := *r
		if r.HandledAt != nil {
			t := *r.HandledAt
			cp.HandledAt = &t
		}
		out.FriendRequests = append(out.FriendRequests, &cp)
	}
	for _, l := range d.Logs {
		cp := *l
		if l.Context != nil {
			cp.Context = make(map[string]any, len(l.Context))
			for k, v := range l.Context {
				cp.Context[k] = v
			}
		}
		out.Logs = append(out.Logs, &cp)
	}
	return out
}
