// Package engine classifies inbound chat events, resolves the class they
// belong to, mutates the persisted state and composes the replies.
package engine

import "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"

// ChatType is the platform chat category.
type ChatType string

const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSupergroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
)

// Media references a file already hosted by the platform.
type Media struct {
	Kind   state.MediaKind
	FileID string
}

// Event is the normalized shape of one inbound message.
type Event struct {
	SenderID       int64
	SenderName     string
	SenderUsername string

	ChatID   int64
	ChatType ChatType
	// ThreadID is non-zero only when the message was posted inside a forum topic.
	ThreadID  int64
	MessageID int64

	Text    string
	Caption string
	Media   *Media
}

// IsPrivate reports whether the event came from a 1:1 chat.
func (e Event) IsPrivate() bool {
	return e.ChatType == ChatPrivate
}

// HasMedia reports whether a file handle is attached.
func (e Event) HasMedia() bool {
	return e.Media != nil && e.Media.FileID != ""
}

// Reply returns the target addressing the originating chat and topic.
func (e Event) Reply() Target {
	return Target{ChatID: e.ChatID, ThreadID: e.ThreadID}
}
