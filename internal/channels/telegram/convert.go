package telegram

import (
	"strconv"
	"strings"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
)

// EffectiveMessage returns the message carried by u. Edits are not
// replayed: the original message was already processed.
func (u Update) EffectiveMessage() *Message {
	if u.Message != nil {
		return u.Message
	}
	return u.ChannelPost
}

// DedupKey identifies the update for redelivery suppression.
func (u Update) DedupKey() string {
	if u.UpdateID == 0 {
		return ""
	}
	return strconv.FormatInt(u.UpdateID, 10)
}

// ToEvent normalizes msg. It reports false when msg has no chat.
func ToEvent(msg *Message) (engine.Event, bool) {
	if msg == nil || msg.Chat == nil {
		return engine.Event{}, false
	}
	ev := engine.Event{
		ChatID:    msg.Chat.ID,
		ChatType:  chatType(msg.Chat.Type),
		MessageID: msg.MessageID,
		Text:      msg.Text,
		Caption:   msg.Caption,
		Media:     mediaOf(msg),
	}
	if msg.IsTopicMessage {
		ev.ThreadID = msg.MessageThreadID
	}
	if msg.From != nil {
		ev.SenderID = msg.From.ID
		ev.SenderName = strings.TrimSpace(strings.TrimSpace(msg.From.FirstName) + " " + strings.TrimSpace(msg.From.LastName))
		ev.SenderUsername = strings.TrimSpace(msg.From.Username)
	}
	return ev, true
}

func chatType(raw string) engine.ChatType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "private":
		return engine.ChatPrivate
	case "supergroup":
		return engine.ChatSupergroup
	case "channel":
		return engine.ChatChannel
	default:
		return engine.ChatGroup
	}
}

// mediaOf picks the attachment. Photos arrive as several sizes; the largest
// one is kept.
func mediaOf(msg *Message) *engine.Media {
	if len(msg.Photo) > 0 {
		best := msg.Photo[0]
		for _, p := range msg.Photo[1:] {
			if p.Width*p.Height > best.Width*best.Height ||
				(p.Width*p.Height == best.Width*best.Height && p.FileSize > best.FileSize) {
				best = p
			}
		}
		if best.FileID != "" {
			return &engine.Media{Kind: state.MediaPhoto, FileID: best.FileID}
		}
	}
	if msg.Video != nil && msg.Video.FileID != "" {
		return &engine.Media{Kind: state.MediaVideo, FileID: msg.Video.FileID}
	}
	if msg.Document != nil && msg.Document.FileID != "" {
		return &engine.Media{Kind: state.MediaDocument, FileID: msg.Document.FileID}
	}
	return nil
}
