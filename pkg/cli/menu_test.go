package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/tasker/pkg/model"
)

func runMenu(t *testing.T, s *fakeStore, input ...string) string {
	t.Helper()

	var out bytes.Buffer
	m := NewMenu(s, log.New(io.Discard), strings.NewReader(strings.Join(input, "\n")+"\n"), &out)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return out.String()
}

func TestMenuAddAndList(t *testing.T) {
	s := newFakeStore()

	out := runMenu(t, s,
		"1", "Write report", "work", "2024-03-01",
		"1", "Buy milk", "", "",
		"2", "deadline",
		"8",
	)

	if !strings.Contains(out, "Task added with ID 1.") || !strings.Contains(out, "Task added with ID 2.") {
		t.Fatalf("expected both tasks to be added, got:\n%s", out)
	}
	want := "ID: 1 | Description: Write report | Category: work | Deadline: 2024-03-01 | Status: ✗"
	if !strings.Contains(out, want) {
		t.Errorf("expected %q in output:\n%s", want, out)
	}
	if !strings.Contains(out, "ID: 2 | Description: Buy milk | Category: None | Deadline: None | Status: ✗") {
		t.Errorf("expected uncategorized task line in output:\n%s", out)
	}
	if strings.Index(out, "ID: 1 |") > strings.Index(out, "ID: 2 |") {
		t.Errorf("expected dated task before undated task:\n%s", out)
	}
}

func TestMenuValidationMessages(t *testing.T) {
	s := newFakeStore()

	out := runMenu(t, s,
		"1", "  ", "", "",
		"1", "x", "", "bad",
		"8",
	)

	if !strings.Contains(out, "Description cannot be empty.") {
		t.Errorf("expected empty description message:\n%s", out)
	}
	if !strings.Contains(out, "Invalid deadline format. Use YYYY-MM-DD.") {
		t.Errorf("expected deadline format message:\n%s", out)
	}
	if len(s.tasks) != 0 {
		t.Errorf("expected no tasks to be stored, got %d", len(s.tasks))
	}
}

func TestMenuNotFoundAndBadIDs(t *testing.T) {
	s := newFakeStore()

	out := runMenu(t, s,
		"3", "42",
		"4", "42",
		"6", "42", "new", "", "",
		"3", "abc",
		"8",
	)

	if n := strings.Count(out, "Task ID not found."); n != 3 {
		t.Errorf("expected 3 not-found messages, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "Invalid input. Enter a number.") {
		t.Errorf("expected invalid input message:\n%s", out)
	}
}

func TestMenuCompleteUpdateRemoveSummary(t *testing.T) {
	s := newFakeStore()
	s.Create(context.Background(), model.Draft{Description: "A"})
	s.Create(context.Background(), model.Draft{Description: "B", Category: "home"})

	out := runMenu(t, s,
		"4", "1",
		"6", "2", "", "work", "2025-01-31",
		"7",
		"5", "work", "",
		"3", "1",
		"8",
	)

	for _, want := range []string{
		"Task marked as completed.",
		"Task updated.",
		"Total tasks: 2",
		"Completed tasks: 1",
		"Pending tasks: 1",
		"ID: 2 | Description: B | Category: work | Deadline: 2025-01-31 | Status: ✗",
		"Task removed.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if _, ok := s.tasks[1]; ok {
		t.Errorf("expected task 1 to be removed")
	}
}

func TestMenuInvalidChoices(t *testing.T) {
	s := newFakeStore()

	out := runMenu(t, s, "9", "2", "priority", "2", "none", "8")

	if !strings.Contains(out, "Invalid option. Please try again.") {
		t.Errorf("expected invalid option message:\n%s", out)
	}
	if !strings.Contains(out, "Invalid sort option.") {
		t.Errorf("expected invalid sort message:\n%s", out)
	}
	if !strings.Contains(out, "No tasks found!") {
		t.Errorf("expected empty list message:\n%s", out)
	}
}

func TestMenuStopsAtEOF(t *testing.T) {
	var out bytes.Buffer
	m := NewMenu(newFakeStore(), log.New(io.Discard), strings.NewReader("7\n"), &out)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("expected clean exit at EOF, got %v", err)
	}
	if !strings.Contains(out.String(), "Total tasks: 0") {
		t.Errorf("expected summary before EOF:\n%s", out.String())
	}
}

func TestMenuLogsStorageErrors(t *testing.T) {
	s := newFakeStore()
	s.failWith = errDiskFull

	var logs bytes.Buffer
	var out bytes.Buffer
	m := NewMenu(s, log.New(&logs), strings.NewReader("7\n8\n"), &out)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !strings.Contains(logs.String(), "disk full") {
		t.Errorf("expected storage error in log, got %q", logs.String())
	}
	if !strings.Contains(out.String(), "Something went wrong") {
		t.Errorf("expected a generic failure message:\n%s", out.String())
	}
}

func TestMenuStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var logs bytes.Buffer
	var out bytes.Buffer
	m := NewMenu(newFakeStore(), log.New(&logs), strings.NewReader("7\n7\n8\n"), &out)

	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if strings.Contains(out.String(), "Something went wrong") || logs.Len() != 0 {
		t.Errorf("expected no store calls after cancel, out:\n%s\nlogs: %s", out.String(), logs.String())
	}
}
