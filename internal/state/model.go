// Package state defines the persisted bot state and the adapter that loads
// and saves it as a single blob through a key-value store.
package state

import (
	"sort"
	"time"
)

// DefaultTeacherDisplayName is used until the teacher sets a persona name.
const DefaultTeacherDisplayName = "Классный руководитель"

// MediaKind identifies how a stored file handle must be sent back.
type MediaKind string

const (
	MediaPhoto    MediaKind = "photo"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// ArtifactSlot holds the latest file uploaded for one category.
type ArtifactSlot struct {
	Kind        MediaKind  `json:"kind,omitempty"`
	FileID      string     `json:"file_id"`
	Caption     string     `json:"caption,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// ArtifactItem is one entry of an append-only artifact list.
type ArtifactItem struct {
	Kind    MediaKind `json:"kind"`
	FileID  string    `json:"file_id"`
	Caption string    `json:"caption,omitempty"`
}

// ClassRecord is created lazily on first reference and never deleted.
type ClassRecord struct {
	GeneralChatID *int64 `json:"general_chat_id,omitempty"`
	ParentsChatID *int64 `json:"parents_chat_id,omitempty"`

	Schedule *ArtifactSlot `json:"schedule,omitempty"`
	Bus      *ArtifactSlot `json:"bus,omitempty"`
	Shuttle  *ArtifactSlot `json:"shuttle,omitempty"`
	Bells    *ArtifactSlot `json:"bells,omitempty"`

	CardBalanceMedia []ArtifactItem `json:"card_balance_media"`
	CardTopupMedia   []ArtifactItem `json:"card_topup_media"`

	// PickupTimes is carried for forward compatibility and not read by
	// any current logic.
	PickupTimes *string `json:"pickup_times,omitempty"`
}

// GlobalState is the single persisted record of the bot.
type GlobalState struct {
	Version            int64                   `json:"version"`
	UpdatedAt          *time.Time              `json:"updated_at,omitempty"`
	TeacherID          *int64                  `json:"teacher_id,omitempty"`
	TeacherDisplayName string                  `json:"teacher_display_name"`
	DefaultClassCode   string                  `json:"default_class_code,omitempty"`
	ReplyPrefixEnabled bool                    `json:"reply_prefix_enabled"`
	Classes            map[string]*ClassRecord `json:"classes"`
}

// New returns a state with every sub-record defaulted.
func New() *GlobalState {
	st := &GlobalState{}
	st.applyDefaults(DefaultTeacherDisplayName)
	return st
}

func (s *GlobalState) applyDefaults(displayName string) {
	if s.TeacherDisplayName == "" {
		s.TeacherDisplayName = displayName
	}
	if s.Classes == nil {
		s.Classes = make(map[string]*ClassRecord)
	}
	for code, rec := range s.Classes {
		if rec == nil {
			rec = &ClassRecord{}
			s.Classes[code] = rec
		}
		rec.applyDefaults()
	}
}

func (r *ClassRecord) applyDefaults() {
	if r.CardBalanceMedia == nil {
		r.CardBalanceMedia = []ArtifactItem{}
	}
	if r.CardTopupMedia == nil {
		r.CardTopupMedia = []ArtifactItem{}
	}
}

// IsTeacher reports whether senderID is the configured teacher.
func (s *GlobalState) IsTeacher(senderID int64) bool {
	return s.TeacherID != nil && *s.TeacherID == senderID
}

// HasClass reports whether a record exists for code without creating one.
func (s *GlobalState) HasClass(code string) bool {
	_, ok := s.Classes[code]
	return ok
}

// Class returns the record for code, materializing it when missing.
// Materialization alone is not a persisted mutation.
func (s *GlobalState) Class(code string) *ClassRecord {
	if s.Classes == nil {
		s.Classes = make(map[string]*ClassRecord)
	}
	rec, ok := s.Classes[code]
	if !ok || rec == nil {
		rec = &ClassRecord{}
		rec.applyDefaults()
		s.Classes[code] = rec
	}
	return rec
}

// ClassCodes returns the known class codes in sorted order.
func (s *GlobalState) ClassCodes() []string {
	codes := make([]string, 0, len(s.Classes))
	for code := range s.Classes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ClassByChat returns the class bound to chatID as general or parents chat.
// Codes are scanned in sorted order so the first match is stable.
func (s *GlobalState) ClassByChat(chatID int64) (string, bool) {
	for _, code := range s.ClassCodes() {
		rec := s.Classes[code]
		if rec == nil {
			continue
		}
		if (rec.GeneralChatID != nil && *rec.GeneralChatID == chatID) ||
			(rec.ParentsChatID != nil && *rec.ParentsChatID == chatID) {
			return code, true
		}
	}
	return "", false
}

// ChatBinding selects which chat of a class is bound.
type ChatBinding string

const (
	BindGeneral ChatBinding = "general"
	BindParents ChatBinding = "parents"
)

// Bind attaches chatID to the class record under the given role.
func (r *ClassRecord) Bind(role ChatBinding, chatID int64) {
	id := chatID
	switch role {
	case BindParents:
		r.ParentsChatID = &id
	default:
		r.GeneralChatID = &id
	}
}

// CardList selects one of the append-only artifact lists.
type CardList string

const (
	CardBalance CardList = "balance"
	CardTopup   CardList = "topup"
)

// Append adds an item to the selected list and returns the new length.
func (r *ClassRecord) Append(list CardList, item ArtifactItem) int {
	switch list {
	case CardTopup:
		r.CardTopupMedia = append(r.CardTopupMedia, item)
		return len(r.CardTopupMedia)
	default:
		r.CardBalanceMedia = append(r.CardBalanceMedia, item)
		return len(r.CardBalanceMedia)
	}
}

// Clear resets the selected lists to empty, leaving the others untouched.
func (r *ClassRecord) Clear(lists ...CardList) {
	for _, list := range lists {
		switch list {
		case CardBalance:
			r.CardBalanceMedia = []ArtifactItem{}
		case CardTopup:
			r.CardTopupMedia = []ArtifactItem{}
		}
	}
}

// Items returns the selected list.
func (r *ClassRecord) Items(list CardList) []ArtifactItem {
	if list == CardTopup {
		return r.CardTopupMedia
	}
	return r.CardBalanceMedia
}

// SlotName identifies a single-value artifact slot.
type SlotName string

const (
	SlotSchedule SlotName = "schedule"
	SlotBus      SlotName = "bus"
	SlotShuttle  SlotName = "shuttle"
	SlotBells    SlotName = "bells"
)

// Slot returns the stored slot or nil when it was never filled.
func (r *ClassRecord) Slot(name SlotName) *ArtifactSlot {
	var slot *ArtifactSlot
	switch name {
	case SlotSchedule:
		slot = r.Schedule
	case SlotBus:
		slot = r.Bus
	case SlotShuttle:
		slot = r.Shuttle
	case SlotBells:
		slot = r.Bells
	}
	if slot == nil || slot.FileID == "" {
		return nil
	}
	return slot
}

// SetSlot overwrites the named slot. Only the schedule slot keeps a timestamp.
func (r *ClassRecord) SetSlot(name SlotName, slot ArtifactSlot, now time.Time) {
	if name == SlotSchedule {
		stamp := now
		slot.LastUpdated = &stamp
	} else {
		slot.LastUpdated = nil
	}
	stored := slot
	switch name {
	case SlotSchedule:
		r.Schedule = &stored
	case SlotBus:
		r.Bus = &stored
	case SlotShuttle:
		r.Shuttle = &stored
	case SlotBells:
		r.Bells = &stored
	}
}
