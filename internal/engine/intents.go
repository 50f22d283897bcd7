package engine

import (
	"fmt"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/textmatch"
)

// Intent names a natural-language request.
type Intent string

const (
	IntentSchedule    Intent = "schedule"
	IntentTransport   Intent = "transport"
	IntentBells       Intent = "bells"
	IntentCardBalance Intent = "card_balance"
	IntentCardTopup   Intent = "card_topup"
	IntentIllness     Intent = "illness"
	IntentAbsence     Intent = "absence"
	IntentGreeting    Intent = "greeting"
)

// intentContext is what a responder needs besides the turn.
type intentContext struct {
	code   string
	rec    *state.ClassRecord
	prefix string
	raw    string
}

type intentRule struct {
	intent  Intent
	matches func(text string) bool
	// respond returns false when the artifact it needs is missing, letting
	// the next rule try.
	respond func(t *turn, ic intentContext) bool
}

// intentRules is evaluated top to bottom; the first rule that matches and
// responds wins.
var intentRules = []intentRule{
	{IntentSchedule, matchSchedule, respondSchedule},
	{IntentTransport, matchTransport, respondTransport},
	{IntentBells, matchBells, respondBells},
	{IntentCardBalance, matchCardBalance, respondCardList(state.CardBalance, msgBalanceNote)},
	{IntentCardTopup, matchCardTopup, respondCardList(state.CardTopup, msgTopupNote)},
	{IntentIllness, matchIllness, respondAbsence(msgIllnessReply)},
	{IntentAbsence, matchAbsence, respondAbsence(msgAbsenceReply)},
	{IntentGreeting, matchGreeting, respondGreeting},
}

func matchSchedule(text string) bool {
	return textmatch.ContainsAny(text, textmatch.ScheduleKeywords) &&
		!textmatch.ContainsAny(text, textmatch.TransportKeywords()) &&
		!textmatch.ContainsAny(text, textmatch.BellTimingKeywords)
}

func matchTransport(text string) bool {
	return textmatch.ContainsAny(text, textmatch.TransportKeywords())
}

func matchBells(text string) bool {
	return textmatch.ContainsAny(text, textmatch.BellTimingKeywords)
}

func matchCardBalance(text string) bool {
	return textmatch.ContainsAll(text, textmatch.BalanceKeywords, textmatch.CardKeywords) ||
		textmatch.ContainsAny(text, textmatch.BalancePhrases)
}

func matchCardTopup(text string) bool {
	return textmatch.ContainsAll(text, textmatch.TopupKeywords, textmatch.CardKeywords) ||
		textmatch.ContainsAny(text, textmatch.TopupPhrases)
}

func matchIllness(text string) bool {
	return textmatch.ContainsAny(text, textmatch.IllnessKeywords)
}

func matchAbsence(text string) bool {
	return textmatch.ContainsAny(text, textmatch.AbsenceKeywords)
}

func matchGreeting(text string) bool {
	return textmatch.ContainsAny(text, textmatch.GreetingKeywords)
}

// MatchIntents lists, in evaluation order, every intent whose vocabulary
// matches text. Artifact presence is not considered.
func MatchIntents(text string) []Intent {
	norm := textmatch.Normalize(text)
	var out []Intent
	for _, rule := range intentRules {
		if rule.matches(norm) {
			out = append(out, rule.intent)
		}
	}
	return out
}

func scheduleCaption(code string, slot *state.ArtifactSlot) string {
	if slot.LastUpdated != nil {
		return fmt.Sprintf(msgScheduleDated, code, slot.LastUpdated.Format("02.01.2006"))
	}
	return fmt.Sprintf(msgScheduleNote, code)
}

func respondSchedule(t *turn, ic intentContext) bool {
	slot := ic.rec.Slot(state.SlotSchedule)
	if slot == nil {
		return false
	}
	t.replyFile(slot.Kind, slot.FileID, Compose(ic.prefix, scheduleCaption(ic.code, slot)))
	return true
}

func respondTransport(t *turn, ic intentContext) bool {
	if slot := ic.rec.Slot(state.SlotShuttle); slot != nil {
		t.replyFile(slot.Kind, slot.FileID, Compose(ic.prefix, fmt.Sprintf(msgShuttleNote, ic.code)))
		return true
	}
	if slot := ic.rec.Slot(state.SlotBus); slot != nil {
		t.replyFile(slot.Kind, slot.FileID, Compose(ic.prefix, fmt.Sprintf(msgBusNote, ic.code)))
		return true
	}
	return false
}

func respondBells(t *turn, ic intentContext) bool {
	slot := ic.rec.Slot(state.SlotBells)
	if slot == nil {
		return false
	}
	t.replyFile(slot.Kind, slot.FileID, Compose(ic.prefix, fmt.Sprintf(msgBellsNote, ic.code)))
	return true
}

// respondCardList sends a prefixed lead line only when there is a prefix,
// then every stored item in order.
func respondCardList(list state.CardList, note string) func(*turn, intentContext) bool {
	return func(t *turn, ic intentContext) bool {
		items := ic.rec.Items(list)
		if len(items) == 0 {
			return false
		}
		if ic.prefix != "" {
			t.reply(Compose(ic.prefix, fmt.Sprintf(note, ic.code)))
		}
		for _, item := range items {
			t.replyFile(item.Kind, item.FileID, item.Caption)
		}
		return true
	}
}

// respondAbsence always handles the event and forwards the original text to
// the teacher when one is configured.
func respondAbsence(reply string) func(*turn, intentContext) bool {
	return func(t *turn, ic intentContext) bool {
		t.reply(Compose(ic.prefix, reply))
		if t.st.TeacherID != nil {
			notice := fmt.Sprintf(msgTeacherNotice, ic.code, senderLabel(t.ev), ic.raw)
			t.send(SendText, Target{ChatID: *t.st.TeacherID}, Payload{Text: notice})
		}
		return true
	}
}

func respondGreeting(t *turn, ic intentContext) bool {
	t.reply(Compose(ic.prefix, msgGreetingReply))
	return true
}

func handleIntent(t *turn, text string) Result {
	code, ok := ResolveClass(t.st, t.ev, text)
	if !ok {
		return ignored()
	}
	ic := intentContext{
		code:   code,
		rec:    t.st.Class(code),
		prefix: BuildPrefix(t.st, t.ev),
		raw:    t.ev.Text,
	}
	norm := textmatch.Normalize(text)
	for _, rule := range intentRules {
		if !rule.matches(norm) {
			continue
		}
		if rule.respond(t, ic) {
			return Result{Outcome: OutcomeHandled, Route: "intent:" + string(rule.intent), ClassCode: code}
		}
	}
	return Result{Outcome: OutcomeUnhandled, Route: RouteIgnored, ClassCode: code}
}
