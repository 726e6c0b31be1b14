package logger

import "testing"

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		log, err := New(level)
		if err != nil {
			t.Fatalf("New(%q): %v", level, err)
		}
		if log == nil {
			t.Fatalf("New(%q) returned nil logger", level)
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
