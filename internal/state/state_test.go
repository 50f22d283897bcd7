package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/storage/kv"
)

func TestNewStateDefaults(t *testing.T) {
	st := New()
	if st.TeacherDisplayName != DefaultTeacherDisplayName {
		t.Fatalf("expected default display name, got %q", st.TeacherDisplayName)
	}
	if st.Classes == nil {
		t.Fatal("expected classes map to be initialized")
	}
	if st.TeacherID != nil || st.ReplyPrefixEnabled {
		t.Fatal("expected no teacher and prefix disabled")
	}
}

func TestClassMaterializesLazily(t *testing.T) {
	st := New()
	if st.HasClass("1Б") {
		t.Fatal("class must not exist before first reference")
	}
	rec := st.Class("1Б")
	if rec == nil || !st.HasClass("1Б") {
		t.Fatal("expected class to be materialized")
	}
	if rec.CardBalanceMedia == nil || rec.CardTopupMedia == nil {
		t.Fatal("expected lists to be non-nil")
	}
	if st.Class("1Б") != rec {
		t.Fatal("expected the same record on second reference")
	}
}

func TestSlotOverwriteAndScheduleTimestamp(t *testing.T) {
	rec := New().Class("1Б")
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

	if rec.Slot(SlotSchedule) != nil {
		t.Fatal("empty slot must read as nil")
	}
	rec.SetSlot(SlotSchedule, ArtifactSlot{Kind: MediaDocument, FileID: "f1", Caption: "c1"}, now)
	rec.SetSlot(SlotSchedule, ArtifactSlot{Kind: MediaPhoto, FileID: "f2", Caption: "c2"}, now.Add(time.Hour))
	slot := rec.Slot(SlotSchedule)
	if slot == nil || slot.FileID != "f2" || slot.Caption != "c2" {
		t.Fatalf("expected overwrite, got %+v", slot)
	}
	if slot.LastUpdated == nil || !slot.LastUpdated.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected schedule timestamp, got %v", slot.LastUpdated)
	}

	rec.SetSlot(SlotBells, ArtifactSlot{FileID: "b1", LastUpdated: &now}, now)
	if rec.Slot(SlotBells).LastUpdated != nil {
		t.Fatal("only the schedule slot tracks a timestamp")
	}
}

func TestListsAppendAndClearIndependently(t *testing.T) {
	rec := New().Class("2А")
	if n := rec.Append(CardBalance, ArtifactItem{FileID: "a"}); n != 1 {
		t.Fatalf("expected length 1, got %d", n)
	}
	if n := rec.Append(CardBalance, ArtifactItem{FileID: "b"}); n != 2 {
		t.Fatalf("expected length 2, got %d", n)
	}
	rec.Append(CardTopup, ArtifactItem{FileID: "t"})

	want := []ArtifactItem{{FileID: "a"}, {FileID: "b"}}
	if diff := cmp.Diff(want, rec.Items(CardBalance)); diff != "" {
		t.Fatalf("balance list mismatch (-want +got):\n%s", diff)
	}

	rec.Clear(CardBalance)
	if len(rec.CardBalanceMedia) != 0 {
		t.Fatal("expected balance list cleared")
	}
	if len(rec.CardTopupMedia) != 1 {
		t.Fatal("clearing balance must not touch top-up")
	}
}

func TestClassByChat(t *testing.T) {
	st := New()
	st.Class("1А").Bind(BindGeneral, -100)
	st.Class("2Б").Bind(BindParents, -200)

	if code, ok := st.ClassByChat(-200); !ok || code != "2Б" {
		t.Fatalf("expected 2Б, got %q %v", code, ok)
	}
	if code, ok := st.ClassByChat(-100); !ok || code != "1А" {
		t.Fatalf("expected 1А, got %q %v", code, ok)
	}
	if _, ok := st.ClassByChat(-300); ok {
		t.Fatal("unbound chat must not resolve")
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewRepository(store, RepositoryConfig{TeacherDisplayName: "Анна Петровна"})
	ctx := context.Background()

	st, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.TeacherDisplayName != "Анна Петровна" {
		t.Fatalf("expected configured display name, got %q", st.TeacherDisplayName)
	}

	teacher := int64(42)
	st.TeacherID = &teacher
	st.Class("1Б").SetSlot(SlotBus, ArtifactSlot{Kind: MediaPhoto, FileID: "bus"}, time.Now())
	if err := repo.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	if st.Version != 1 || st.UpdatedAt == nil {
		t.Fatalf("expected version bump, got %d", st.Version)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(st, loaded); diff != "" {
		t.Fatalf("state mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestRepositoryDefaultsMissingLists(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	if err := store.Put(ctx, DefaultKey, []byte(`{"classes":{"3В":{}}}`), 0); err != nil {
		t.Fatal(err)
	}
	st, err := NewRepository(store, RepositoryConfig{}).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rec := st.Classes["3В"]
	if rec == nil || rec.CardBalanceMedia == nil || rec.CardTopupMedia == nil {
		t.Fatalf("expected defaulted class record, got %+v", rec)
	}
	if st.TeacherDisplayName != DefaultTeacherDisplayName {
		t.Fatalf("expected default display name, got %q", st.TeacherDisplayName)
	}
}

type failingStore struct{ kv.Store }

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("boom")
}

func TestRepositoryLoadPropagatesStoreError(t *testing.T) {
	_, err := NewRepository(failingStore{}, RepositoryConfig{}).Load(context.Background())
	if err == nil {
		t.Fatal("expected load error")
	}
}

func TestRepositoryReportsVersions(t *testing.T) {
	var seen []int64
	repo := NewRepository(kv.NewMemoryStore(), RepositoryConfig{OnVersion: func(v int64) { seen = append(seen, v) }})
	ctx := context.Background()

	st, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := repo.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	if diff := cmp.Diff([]int64{0, 1}, seen); diff != "" {
		t.Fatalf("version reports mismatch (-want +got):\n%s", diff)
	}
}
