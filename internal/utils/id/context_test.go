package id

import (
	"context"
	"strings"
	"testing"
)

func TestWithIDsAndFromContext(t *testing.T) {
	ids := IDs{LogID: "log-1", UpdateID: "42", ChatID: "-100"}
	got := IDsFromContext(WithIDs(context.Background(), ids))
	if got != ids {
		t.Fatalf("expected %+v, got %+v", ids, got)
	}
}

func TestEmptyValuesAreIgnored(t *testing.T) {
	ctx := WithLogID(context.Background(), "log-1")
	ctx = WithLogID(ctx, "")
	if got := LogIDFromContext(ctx); got != "log-1" {
		t.Fatalf("expected stored log id to remain, got %s", got)
	}
	if got := UpdateIDFromContext(nil); got != "" {
		t.Fatalf("expected empty update id from nil context, got %s", got)
	}
}

func TestEnsureLogID(t *testing.T) {
	ctx, generated := EnsureLogID(context.Background(), func() string { return "log-a" })
	if generated != "log-a" {
		t.Fatalf("expected generated id log-a, got %s", generated)
	}
	_, again := EnsureLogID(ctx, func() string { return "log-b" })
	if again != "log-a" {
		t.Fatalf("expected existing id to be reused, got %s", again)
	}
	if _, none := EnsureLogID(context.Background(), nil); none != "" {
		t.Fatalf("expected no id without generator, got %s", none)
	}
}

func TestNewLogIDIsPrefixedAndUnique(t *testing.T) {
	a, b := NewLogID(), NewLogID()
	if !strings.HasPrefix(a, "log-") {
		t.Fatalf("expected log- prefix, got %s", a)
	}
	if a == b {
		t.Fatal("expected distinct ids")
	}
}
