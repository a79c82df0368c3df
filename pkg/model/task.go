package model

import (
	"fmt"
	"strings"
)

// Task is a single tracked unit of work as stored in the tasks table.
type Task struct {
	ID          int64  `db:"id"`
	Description string `db:"description"`
	Category    string `db:"category"` // "" when uncategorized
	Deadline    string `db:"deadline"` // "" when absent, otherwise YYYY-MM-DD...
	Completed   bool   `db:"completed"`
}

// Draft holds the fields accepted when a task is created.
type Draft struct {
	Description string
	Category    string
	Deadline    string
}

// Patch holds the fields to overwrite on update. Empty fields are left
// untouched; a whitespace-only description counts as empty.
type Patch struct {
	Description string
	Category    string
	Deadline    string
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return strings.TrimSpace(p.Description) == "" && p.Category == "" && p.Deadline == ""
}

type Summary struct {
	Total     int
	Completed int
	Pending   int
}

// SortBy selects the ordering used by List.
type SortBy int

const (
	SortNone SortBy = iota
	SortDeadline
	SortStatus
)

func (s SortBy) String() string {
	switch s {
	case SortDeadline:
		return "deadline"
	case SortStatus:
		return "status"
	default:
		return "none"
	}
}

// ParseSortBy accepts "", "none", "deadline" or "status" in any case.
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "deadline":
		return SortDeadline, nil
	case "status":
		return SortStatus, nil
	}
	return SortNone, fmt.Errorf("unknown sort option %q", s)
}

// Outcome is the non-error result of a mutation that targets a task by id.
type Outcome int

const (
	NotFound Outcome = iota
	Updated
	Completed
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Completed:
		return "completed"
	case Removed:
		return "removed"
	default:
		return "not found"
	}
}
