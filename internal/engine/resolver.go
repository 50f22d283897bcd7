package engine

import (
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/textmatch"
)

// ResolveClass attributes an event to one class, or reports none. Callers
// must no-op on false rather than guess.
//
// Precedence: chat binding, then a known class code found in fallbackText,
// then the default class for private chats, then the only class when exactly
// one exists.
func ResolveClass(st *state.GlobalState, ev Event, fallbackText string) (string, bool) {
	if st == nil {
		return "", false
	}
	if code, ok := st.ClassByChat(ev.ChatID); ok {
		return code, true
	}
	if code, ok := textmatch.ExtractClassCode(fallbackText); ok && st.HasClass(code) {
		return code, true
	}
	if ev.IsPrivate() && st.DefaultClassCode != "" && st.HasClass(st.DefaultClassCode) {
		return st.DefaultClassCode, true
	}
	if len(st.Classes) == 1 {
		for code := range st.Classes {
			return code, true
		}
	}
	return "", false
}
