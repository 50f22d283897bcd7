package jsonx

import (
	"strings"
	"testing"
)

func TestMarshalPrettyKeepsCyrillicAndHTML(t *testing.T) {
	out, err := MarshalPretty(map[string]string{"name": "Анна <Петровна>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, "Анна <Петровна>") {
		t.Fatalf("expected unescaped text, got %q", got)
	}
	if !strings.HasSuffix(got, "\n") || !strings.Contains(got, "\n  \"name\"") {
		t.Fatalf("expected indented output, got %q", got)
	}
	if !Valid(out) {
		t.Fatal("expected valid json")
	}
}
