package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		want parsedCommand
		ok   bool
	}{
		{"/bind 1Б", parsedCommand{name: "bind", args: []string{"1Б"}, rest: "1Б"}, true},
		{"/Bind@TeacherBot 1Б parents", parsedCommand{name: "bind", args: []string{"1Б", "parents"}, rest: "1Б parents"}, true},
		{"/setname  Анна   Петровна ", parsedCommand{name: "setname", args: []string{"Анна", "Петровна"}, rest: "Анна   Петровна"}, true},
		{"/ping", parsedCommand{name: "ping", args: []string{}, rest: ""}, true},
		{"/", parsedCommand{}, false},
		{"ping", parsedCommand{}, false},
	}
	for _, tc := range cases {
		got, ok := parseCommand(tc.in)
		if ok != tc.ok {
			t.Fatalf("parseCommand(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if diff := cmp.Diff(tc.want, got, cmp.AllowUnexported(parsedCommand{})); diff != "" {
			t.Fatalf("parseCommand(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestIAmTeacher(t *testing.T) {
	h := newHarness(t)

	res := h.handle(teacherCommand(groupChatID, ChatGroup, "/iamteacher"))
	if !res.Handled() || h.transport.Calls()[0].Text != msgPrivateOnly {
		t.Fatalf("expected private-only reply, got %+v", h.transport.Calls())
	}
	if h.state().TeacherID != nil {
		t.Fatal("teacher must not be set from a group chat")
	}

	h.handle(teacherCommand(teacherID, ChatPrivate, "/iamteacher"))
	if st := h.state(); !st.IsTeacher(teacherID) {
		t.Fatal("expected teacher to be set")
	}

	h.transport.Reset()
	other := teacherCommand(parentID, ChatPrivate, "/iamteacher")
	other.SenderID = parentID
	h.handle(other)
	if calls := h.transport.Calls(); len(calls) != 1 || calls[0].Text != msgDenied {
		t.Fatalf("expected denial for second claimant, got %+v", calls)
	}
	if !h.state().IsTeacher(teacherID) {
		t.Fatal("teacher must be set only once")
	}
}

func TestBindFromNonTeacherIsDenied(t *testing.T) {
	h := newHarness(t).withTeacher()
	h.repo.saves = 0
	before := h.state()

	ev := parentText(groupChatID, "/bind 3В")
	res := h.handle(ev)

	if !res.Handled() || res.Route != "command:bind" {
		t.Fatalf("unexpected result %+v", res)
	}
	calls := h.transport.Calls()
	if len(calls) != 1 || calls[0].Text != msgDenied {
		t.Fatalf("expected denial text, got %+v", calls)
	}
	if h.repo.saves != 0 {
		t.Fatal("denied command must not write state")
	}
	if diff := cmp.Diff(before, h.state()); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
}

func TestBindAndConflict(t *testing.T) {
	h := newHarness(t).withTeacher()

	res := h.handle(teacherCommand(groupChatID, ChatGroup, "/bind 3в parents"))
	if res.ClassCode != "3В" || h.transport.Calls()[0].Text != "Чат привязан к классу 3В (родительский чат)." {
		t.Fatalf("unexpected bind reply %+v", h.transport.Calls())
	}
	rec := h.state().Classes["3В"]
	if rec.ParentsChatID == nil || *rec.ParentsChatID != groupChatID || rec.GeneralChatID != nil {
		t.Fatalf("expected parents binding, got %+v", rec)
	}

	h.transport.Reset()
	h.repo.saves = 0
	h.handle(teacherCommand(groupChatID, ChatGroup, "/bind 4А"))
	if calls := h.transport.Calls(); len(calls) != 1 || calls[0].Text != "Этот чат уже привязан к классу 3В." {
		t.Fatalf("expected conflict reply, got %+v", calls)
	}
	if h.repo.saves != 0 || h.state().HasClass("4А") {
		t.Fatal("conflicting bind must not mutate state")
	}

	h.transport.Reset()
	for _, bad := range []string{"/bind", "/bind 123", "/bind 1Б teachers"} {
		h.handle(teacherCommand(groupChatID, ChatGroup, bad))
	}
	for _, call := range h.transport.Calls() {
		if call.Text != usageBind {
			t.Fatalf("expected usage hint, got %q", call.Text)
		}
	}
}

func TestPersonaCommands(t *testing.T) {
	h := newHarness(t).withTeacher()

	h.handle(teacherCommand(teacherID, ChatPrivate, "/setname Анна Петровна"))
	h.handle(teacherCommand(teacherID, ChatPrivate, "/prefix"))
	st := h.state()
	if st.TeacherDisplayName != "Анна Петровна" || !st.ReplyPrefixEnabled {
		t.Fatalf("expected name and prefix set, got %q %v", st.TeacherDisplayName, st.ReplyPrefixEnabled)
	}

	h.handle(teacherCommand(teacherID, ChatPrivate, "/prefix off"))
	if h.state().ReplyPrefixEnabled {
		t.Fatal("expected prefix disabled")
	}

	h.transport.Reset()
	h.handle(teacherCommand(teacherID, ChatPrivate, "/prefix maybe"))
	h.handle(teacherCommand(teacherID, ChatPrivate, "/setname"))
	want := []string{usagePrefix, usageSetName}
	for i, call := range h.transport.Calls() {
		if call.Text != want[i] {
			t.Fatalf("call %d = %q, want %q", i, call.Text, want[i])
		}
	}
}

func TestSetDefaultDrivesPrivateResolution(t *testing.T) {
	h := newHarness(t).withTeacher()
	h.seed(func(st *state.GlobalState) {
		st.Class("1А")
		st.Class("2Б").SetSlot(state.SlotBells, state.ArtifactSlot{Kind: state.MediaPhoto, FileID: "bells"}, fixedNow)
	})
	h.handle(teacherCommand(teacherID, ChatPrivate, "/setdefault 2б"))
	if h.state().DefaultClassCode != "2Б" {
		t.Fatal("expected default class 2Б")
	}

	h.transport.Reset()
	ev := parentText(parentID, "расписание звонков")
	ev.ChatType = ChatPrivate
	res := h.handle(ev)
	if res.ClassCode != "2Б" || res.Route != "intent:bells" {
		t.Fatalf("expected bells for default class, got %+v", res)
	}
}

func TestClearCard(t *testing.T) {
	seed := func(st *state.GlobalState) {
		rec := st.Class("1Б")
		rec.Append(state.CardBalance, state.ArtifactItem{FileID: "b"})
		rec.Append(state.CardTopup, state.ArtifactItem{FileID: "t"})
	}

	cases := []struct {
		target      string
		wantBalance int
		wantTopup   int
	}{
		{"balance", 0, 1},
		{"topup", 1, 0},
		{"both", 0, 0},
		{"ALL", 0, 0},
	}
	for _, tc := range cases {
		h := newHarness(t).withTeacher()
		h.seed(seed)
		h.handle(teacherCommand(teacherID, ChatPrivate, "/clearcard 1Б "+tc.target))
		rec := h.state().Classes["1Б"]
		if len(rec.CardBalanceMedia) != tc.wantBalance || len(rec.CardTopupMedia) != tc.wantTopup {
			t.Fatalf("target %s: got balance=%d topup=%d", tc.target, len(rec.CardBalanceMedia), len(rec.CardTopupMedia))
		}
	}

	h := newHarness(t).withTeacher()
	h.seed(seed)
	h.repo.saves = 0
	for _, bad := range []string{"/clearcard 1Б everything", "/clearcard 1Б", "/clearcard x balance"} {
		h.handle(teacherCommand(teacherID, ChatPrivate, bad))
	}
	if h.repo.saves != 0 {
		t.Fatal("invalid targets must not write")
	}
	for _, call := range h.transport.Calls() {
		if call.Text != usageClearCard {
			t.Fatalf("expected usage hint, got %q", call.Text)
		}
	}
}

func TestShowCommands(t *testing.T) {
	h := newHarness(t).withTeacher()
	h.seed(fillSlot("1Б", state.SlotSchedule, state.MediaPhoto, "sched"))
	h.seed(fillSlot("1Б", state.SlotBus, state.MediaDocument, "bus"))
	h.seed(fillSlot("1Б", state.SlotShuttle, state.MediaDocument, "shuttle"))
	h.repo.saves = 0

	h.handle(teacherCommand(teacherID, ChatPrivate, "/schedule"))
	h.handle(teacherCommand(teacherID, ChatPrivate, "/transport 1б"))
	h.handle(teacherCommand(teacherID, ChatPrivate, "/schedule 7Д"))

	calls := h.transport.Calls()
	if len(calls) != 4 {
		t.Fatalf("expected 4 sends, got %+v", calls)
	}
	if calls[0].Kind != SendPhoto || calls[0].FileID != "sched" {
		t.Fatalf("expected schedule photo, got %+v", calls[0])
	}
	if calls[1].FileID != "shuttle" || calls[2].FileID != "bus" {
		t.Fatalf("expected shuttle then bus, got %+v %+v", calls[1], calls[2])
	}
	if calls[3].Text != "Расписание для 7Д ещё не загружено." {
		t.Fatalf("unexpected missing reply %q", calls[3].Text)
	}
	if h.repo.saves != 0 || h.state().HasClass("7Д") {
		t.Fatal("show commands must not mutate state")
	}
}

func TestHelpPingAndUnknown(t *testing.T) {
	h := newHarness(t).withTeacher()
	h.handle(teacherCommand(teacherID, ChatPrivate, "/help"))
	h.handle(teacherCommand(teacherID, ChatPrivate, "/ping@teacher_bot"))
	res := h.handle(teacherCommand(teacherID, ChatPrivate, "/start"))

	calls := h.transport.Calls()
	if len(calls) != 2 || calls[0].Text != helpText {
		t.Fatalf("unexpected help reply %+v", calls)
	}
	if calls[1].Text != "pong (версия состояния 1)" {
		t.Fatalf("unexpected ping reply %q", calls[1].Text)
	}
	if res.Handled() {
		t.Fatal("unknown command must be unhandled")
	}

	h.transport.Reset()
	h.handle(parentText(groupChatID, "/help"))
	if calls := h.transport.Calls(); len(calls) != 1 || calls[0].Text != msgDenied {
		t.Fatalf("expected denial for non-teacher help, got %+v", calls)
	}
}
