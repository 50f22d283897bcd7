package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
)

func TestClassifyLabelPriority(t *testing.T) {
	cases := []struct {
		label string
		want  Category
		ok    bool
	}{
		{"расписание звонков", CategoryBells, true},
		{"Расписание на неделю", CategorySchedule, true},
		{"перемены и расписание", CategoryBells, true},
		{"подвоз автобус", CategoryShuttle, true},
		{"автобус до деревни", CategoryShuttle, true},
		{"расписание автобуса", CategoryBus, true},
		{"маршрут", CategoryBus, true},
		{"баланс карты", CategoryCardBalance, true},
		{"карта: остаток", CategoryCardBalance, true},
		{"проверить баланс", CategoryCardBalance, true},
		{"пополнение карты", CategoryCardTopup, true},
		{"фото с экскурсии", "", false},
	}
	for _, tc := range cases {
		got, ok := ClassifyLabel(tc.label)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ClassifyLabel(%q) = %q,%v; want %q,%v", tc.label, got, ok, tc.want, tc.ok)
		}
	}
}

func TestScheduleUploadScenario(t *testing.T) {
	h := newHarness(t).withTeacher()
	h.repo.saves = 0

	res := h.handle(teacherUpload("#1Б расписание на неделю", state.MediaDocument, "doc-1"))

	if !res.Handled() || res.Route != "media:schedule" || res.ClassCode != "1Б" {
		t.Fatalf("unexpected result %+v", res)
	}
	if h.repo.saves != 1 {
		t.Fatalf("expected one store write, got %d", h.repo.saves)
	}
	slot := h.state().Classes["1Б"].Slot(state.SlotSchedule)
	if slot == nil || slot.FileID != "doc-1" || slot.Kind != state.MediaDocument {
		t.Fatalf("schedule slot not stored: %+v", slot)
	}
	if slot.LastUpdated == nil || !slot.LastUpdated.Equal(fixedNow) {
		t.Fatalf("expected schedule timestamp %v, got %v", fixedNow, slot.LastUpdated)
	}
	calls := h.transport.Calls()
	want := []TransportCall{{Kind: SendText, ChatID: teacherID, Text: "Сохранено (1Б — расписание)."}}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("unexpected sends (-want +got):\n%s", diff)
	}
}

func TestBellsWinOverSchedule(t *testing.T) {
	h := newHarness(t).withTeacher()
	res := h.handle(teacherUpload("#2а Расписание звонков", state.MediaPhoto, "bells-1"))
	if res.Route != "media:bells" || res.ClassCode != "2А" {
		t.Fatalf("expected bells for 2А, got %+v", res)
	}
	rec := h.state().Classes["2А"]
	if rec.Slot(state.SlotSchedule) != nil {
		t.Fatal("schedule slot must stay empty")
	}
	if rec.Slot(state.SlotBells) == nil {
		t.Fatal("bells slot must be filled")
	}
}

func TestSlotOverwriteAndListGrowth(t *testing.T) {
	h := newHarness(t).withTeacher()
	h.handle(teacherUpload("#1Б автобус", state.MediaPhoto, "bus-1"))
	h.handle(teacherUpload("#1Б автобус новый", state.MediaPhoto, "bus-2"))
	h.handle(teacherUpload("#1Б баланс карты", state.MediaPhoto, "bal-1"))
	h.handle(teacherUpload("#1Б баланс карты шаг 2", state.MediaVideo, "bal-2"))
	h.handle(teacherUpload("#1Б пополнение карты", state.MediaDocument, "top-1"))

	rec := h.state().Classes["1Б"]
	if bus := rec.Slot(state.SlotBus); bus.FileID != "bus-2" || bus.Caption != "автобус новый" {
		t.Fatalf("expected overwritten bus slot, got %+v", bus)
	}
	if bus := rec.Slot(state.SlotBus); bus.LastUpdated != nil {
		t.Fatal("bus slot must not carry a timestamp")
	}
	wantBalance := []state.ArtifactItem{
		{Kind: state.MediaPhoto, FileID: "bal-1", Caption: "баланс карты"},
		{Kind: state.MediaVideo, FileID: "bal-2", Caption: "баланс карты шаг 2"},
	}
	if diff := cmp.Diff(wantBalance, rec.CardBalanceMedia); diff != "" {
		t.Fatalf("balance list mismatch (-want +got):\n%s", diff)
	}
	if len(rec.CardTopupMedia) != 1 {
		t.Fatalf("expected one top-up item, got %d", len(rec.CardTopupMedia))
	}

	calls := h.transport.Calls()
	if got := calls[3].Text; got != "Сохранено (1Б — баланс карты, всего: 2)." {
		t.Fatalf("unexpected list confirmation %q", got)
	}
	if got := calls[4].Text; got != "Сохранено (1Б — пополнение карты, всего: 1)." {
		t.Fatalf("unexpected top-up confirmation %q", got)
	}
}

func TestMediaFromNonTeacherIsIgnored(t *testing.T) {
	h := newHarness(t).withTeacher()
	h.repo.saves = 0
	ev := teacherUpload("#1Б расписание", state.MediaDocument, "doc")
	ev.SenderID = parentID

	res := h.handle(ev)
	if res.Handled() || res.Route != RouteIgnored {
		t.Fatalf("expected ignored, got %+v", res)
	}
	if h.repo.saves != 0 || len(h.transport.Calls()) != 0 {
		t.Fatal("expected no writes and no sends")
	}
	if h.state().HasClass("1Б") {
		t.Fatal("class must not be materialized by a rejected upload")
	}
}

func TestMediaWithoutTeacherConfiguredIsIgnored(t *testing.T) {
	h := newHarness(t)
	res := h.handle(teacherUpload("#1Б расписание", state.MediaDocument, "doc"))
	if res.Handled() {
		t.Fatalf("expected ignored without a teacher, got %+v", res)
	}
}

func TestUnrecognizedLabelIsSilentlyHandled(t *testing.T) {
	h := newHarness(t).withTeacher()
	h.repo.saves = 0
	res := h.handle(teacherUpload("#1Б фото с праздника", state.MediaPhoto, "p"))
	if !res.Handled() || res.Route != "media:unrecognized" {
		t.Fatalf("expected handled unrecognized, got %+v", res)
	}
	if h.repo.saves != 0 || len(h.transport.Calls()) != 0 {
		t.Fatal("expected no writes and no sends")
	}
}

func TestUntaggedMediaIsIgnored(t *testing.T) {
	h := newHarness(t).withTeacher()
	for _, caption := range []string{"", "расписание", "#1Б", "#100Б расписание"} {
		res := h.handle(teacherUpload(caption, state.MediaPhoto, "p"))
		if res.Handled() {
			t.Fatalf("caption %q: expected ignored, got %+v", caption, res)
		}
	}
	if len(h.transport.Calls()) != 0 {
		t.Fatal("expected no sends")
	}
}
