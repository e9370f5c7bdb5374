package view

import (
	"strings"
	"testing"

	tuitheme "github.com/abhinav-dholi/todo-cli/internal/tui/theme"
)

func TestFooter_ShowsSearchOnlyWhenActive(t *testing.T) {
	th := tuitheme.Default()

	plain := stripANSI(Footer(2, 5, "", 0, false, th))
	if strings.Contains(plain, "search") {
		t.Fatalf("expected no search segment, got %q", plain)
	}
	if !strings.Contains(plain, "2 shown") || !strings.Contains(plain, "5 total") {
		t.Fatalf("expected counts, got %q", plain)
	}

	plain = stripANSI(Footer(1, 5, "milk", 1, true, th))
	if !strings.Contains(plain, `"milk" (1)`) {
		t.Fatalf("expected search segment, got %q", plain)
	}
	if !strings.Contains(plain, "edit") {
		t.Fatalf("expected edit mode, got %q", plain)
	}
}

func TestMessage_States(t *testing.T) {
	th := tuitheme.Default()

	if got := stripANSI(Message(false, false, "", "", th)); !strings.Contains(got, "idle") || !strings.Contains(got, "Ready") {
		t.Fatalf("unexpected idle message: %q", got)
	}
	if got := stripANSI(Message(true, false, "", "", th)); !strings.Contains(got, "loading") {
		t.Fatalf("unexpected loading message: %q", got)
	}
	if got := stripANSI(Message(false, true, "", "fetch todos: boom", th)); !strings.Contains(got, "warning") || !strings.Contains(got, "boom") {
		t.Fatalf("unexpected warning message: %q", got)
	}
}
