package notify

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLogNotifierFormatsLevel(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(log.New(&buf, "", 0))

	Success(n, "Quiz completed! You scored %d/%d points!", 5, 5)

	got := strings.TrimSpace(buf.String())
	want := "[SUCCESS] Quiz completed! You scored 5/5 points!"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder

	if _, ok := r.Last(); ok {
		t.Fatal("empty recorder should have no last message")
	}

	Info(&r, "loading")
	Error(&r, "failed: %s", "boom")

	msgs := r.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	last, _ := r.Last()
	if last.Level != LevelError || last.Text != "failed: boom" {
		t.Errorf("unexpected last message %+v", last)
	}
}
