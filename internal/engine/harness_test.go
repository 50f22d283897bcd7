package engine

import (
	"context"
	"testing"
	"time"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/storage/kv"
)

const (
	teacherID   int64 = 1001
	parentID    int64 = 2002
	groupChatID int64 = -100500
)

var fixedNow = time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC)

// countingRepo counts saves and can inject failures.
type countingRepo struct {
	*state.Repository
	saves   int
	loadErr error
	saveErr error
}

func (r *countingRepo) Load(ctx context.Context) (*state.GlobalState, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.Repository.Load(ctx)
}

func (r *countingRepo) Save(ctx context.Context, st *state.GlobalState) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	return r.Repository.Save(ctx, st)
}

type harness struct {
	t         *testing.T
	repo      *countingRepo
	transport *RecordingTransport
	engine    *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := &countingRepo{Repository: state.NewRepository(kv.NewMemoryStore(), state.RepositoryConfig{})}
	transport := NewRecordingTransport()
	return &harness{
		t:         t,
		repo:      repo,
		transport: transport,
		engine:    New(repo, transport, WithLogger(logging.Nop()), WithClock(func() time.Time { return fixedNow })),
	}
}

// seed mutates the stored state directly and resets the save counter.
func (h *harness) seed(mutate func(st *state.GlobalState)) {
	h.t.Helper()
	ctx := context.Background()
	st, err := h.repo.Repository.Load(ctx)
	if err != nil {
		h.t.Fatalf("seed load: %v", err)
	}
	mutate(st)
	if err := h.repo.Repository.Save(ctx, st); err != nil {
		h.t.Fatalf("seed save: %v", err)
	}
}

func (h *harness) withTeacher() *harness {
	h.seed(func(st *state.GlobalState) {
		id := teacherID
		st.TeacherID = &id
	})
	return h
}

func (h *harness) state() *state.GlobalState {
	h.t.Helper()
	st, err := h.repo.Repository.Load(context.Background())
	if err != nil {
		h.t.Fatalf("load: %v", err)
	}
	return st
}

func (h *harness) handle(ev Event) Result {
	h.t.Helper()
	res, err := h.engine.Handle(context.Background(), ev)
	if err != nil {
		h.t.Fatalf("handle: %v", err)
	}
	return res
}

func teacherUpload(caption string, kind state.MediaKind, fileID string) Event {
	return Event{
		SenderID:   teacherID,
		SenderName: "Анна Петровна",
		ChatID:     teacherID,
		ChatType:   ChatPrivate,
		Caption:    caption,
		Media:      &Media{Kind: kind, FileID: fileID},
	}
}

func parentText(chatID int64, text string) Event {
	return Event{
		SenderID:       parentID,
		SenderName:     "Иван Смирнов",
		SenderUsername: "ivan",
		ChatID:         chatID,
		ChatType:       ChatGroup,
		Text:           text,
	}
}

func teacherCommand(chatID int64, chatType ChatType, text string) Event {
	return Event{
		SenderID: teacherID,
		ChatID:   chatID,
		ChatType: chatType,
		Text:     text,
	}
}

func bindGeneral(code string, chatID int64) func(*state.GlobalState) {
	return func(st *state.GlobalState) {
		st.Class(code).Bind(state.BindGeneral, chatID)
	}
}
