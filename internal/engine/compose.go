package engine

import (
	"strings"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
)

// BuildPrefix returns the persona prefix for replies to ev.
//
//	disabled: "@user," or ""
//	enabled:  "@user, <name>:" or "<name>:"
func BuildPrefix(st *state.GlobalState, ev Event) string {
	mention := ""
	if username := strings.TrimPrefix(strings.TrimSpace(ev.SenderUsername), "@"); username != "" {
		mention = "@" + username + ","
	}
	if st == nil || !st.ReplyPrefixEnabled {
		return mention
	}
	name := strings.TrimSpace(st.TeacherDisplayName)
	if name == "" {
		name = state.DefaultTeacherDisplayName
	}
	if mention == "" {
		return name + ":"
	}
	return mention + " " + name + ":"
}

// Compose joins a prefix and a body with one space; an empty prefix leaves
// the body untouched.
func Compose(prefix, text string) string {
	if prefix == "" {
		return text
	}
	if text == "" {
		return prefix
	}
	return prefix + " " + text
}

// senderLabel renders the sender for teacher notifications.
func senderLabel(ev Event) string {
	name := strings.TrimSpace(ev.SenderName)
	username := strings.TrimPrefix(strings.TrimSpace(ev.SenderUsername), "@")
	switch {
	case name != "" && username != "":
		return name + " (@" + username + ")"
	case name != "":
		return name
	case username != "":
		return "@" + username
	default:
		return "пользователь без имени"
	}
}
