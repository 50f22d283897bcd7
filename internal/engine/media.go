package engine

import (
	"fmt"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/textmatch"
)

// Category is the artifact a tagged upload is filed under.
type Category string

const (
	CategoryBells       Category = "bells"
	CategoryShuttle     Category = "shuttle"
	CategoryBus         Category = "bus"
	CategorySchedule    Category = "schedule"
	CategoryCardBalance Category = "card_balance"
	CategoryCardTopup   Category = "card_topup"
)

var categoryTitles = map[Category]string{
	CategoryBells:       "звонки",
	CategoryShuttle:     "подвоз",
	CategoryBus:         "автобус",
	CategorySchedule:    "расписание",
	CategoryCardBalance: "баланс карты",
	CategoryCardTopup:   "пополнение карты",
}

// Title is the Russian name used in confirmations.
func (c Category) Title() string {
	return categoryTitles[c]
}

type mediaRule struct {
	category Category
	matches  func(label string) bool
}

// mediaRules is evaluated top to bottom and the first match wins. A label
// mentioning both bells and the schedule is filed under bells.
var mediaRules = []mediaRule{
	{CategoryBells, func(l string) bool {
		return textmatch.ContainsAny(l, textmatch.BellKeywords)
	}},
	{CategoryShuttle, func(l string) bool {
		return textmatch.ContainsAny(l, textmatch.ShuttleKeywords)
	}},
	{CategoryBus, func(l string) bool {
		return textmatch.ContainsAny(l, textmatch.BusKeywords)
	}},
	{CategorySchedule, func(l string) bool {
		return textmatch.ContainsAny(l, []string{"расписан"}) && !textmatch.ContainsAny(l, textmatch.BellKeywords)
	}},
	{CategoryCardBalance, func(l string) bool {
		return textmatch.ContainsAll(l, []string{"баланс", "остаток"}, []string{"карт"}) ||
			textmatch.ContainsAny(l, textmatch.BalancePhrases)
	}},
	{CategoryCardTopup, func(l string) bool {
		return textmatch.ContainsAny(l, []string{"пополн"})
	}},
}

// ClassifyLabel returns the category for a caption label.
func ClassifyLabel(label string) (Category, bool) {
	norm := textmatch.Normalize(label)
	for _, rule := range mediaRules {
		if rule.matches(norm) {
			return rule.category, true
		}
	}
	return "", false
}

func handleMedia(t *turn) Result {
	code, label, ok := textmatch.ParseCaptionTag(t.ev.Caption)
	if !ok {
		return ignored()
	}
	// Uploads from anyone but the teacher are not an error, just not ours.
	if !t.st.IsTeacher(t.ev.SenderID) {
		return ignored()
	}

	category, ok := ClassifyLabel(label)
	if !ok {
		return Result{Outcome: OutcomeHandled, Route: "media:unrecognized", ClassCode: code}
	}

	rec := t.st.Class(code)
	kind := t.ev.Media.Kind
	if kind == "" {
		kind = state.MediaDocument
	}
	slot := state.ArtifactSlot{Kind: kind, FileID: t.ev.Media.FileID, Caption: label}

	switch category {
	case CategoryBells:
		rec.SetSlot(state.SlotBells, slot, t.now)
	case CategoryShuttle:
		rec.SetSlot(state.SlotShuttle, slot, t.now)
	case CategoryBus:
		rec.SetSlot(state.SlotBus, slot, t.now)
	case CategorySchedule:
		rec.SetSlot(state.SlotSchedule, slot, t.now)
	case CategoryCardBalance, CategoryCardTopup:
		list := state.CardBalance
		if category == CategoryCardTopup {
			list = state.CardTopup
		}
		n := rec.Append(list, state.ArtifactItem{Kind: kind, FileID: slot.FileID, Caption: label})
		t.mutated()
		t.reply(fmt.Sprintf(msgSavedList, code, category.Title(), n))
		return Result{Outcome: OutcomeHandled, Route: "media:" + string(category), ClassCode: code}
	}

	t.mutated()
	t.reply(fmt.Sprintf(msgSaved, code, category.Title()))
	return Result{Outcome: OutcomeHandled, Route: "media:" + string(category), ClassCode: code}
}
