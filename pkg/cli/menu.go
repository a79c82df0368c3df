// Package cli is the interactive text menu that drives a store.TaskStore.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/tasker/pkg/model"
	"github.com/harrisonrobin/tasker/pkg/store"
)

const options = `
Options:
1. Add Task
2. List Tasks
3. Remove Task
4. Mark Task as Completed
5. Search Tasks
6. Update Task
7. Task Summary
8. Exit`

// errInvalidID is the caller-side parse failure for a task id.
var errInvalidID = errors.New("invalid task id")

type Menu struct {
	Store store.TaskStore
	Log   *log.Logger

	in  *bufio.Scanner
	out io.Writer
}

func NewMenu(s store.TaskStore, logger *log.Logger, in io.Reader, out io.Writer) *Menu {
	return &Menu{Store: s, Log: logger, in: bufio.NewScanner(in), out: out}
}

// Run loops until the user picks Exit, input ends or ctx is cancelled. Storage errors are
// logged and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Welcome to tasker, an easy-to-use task manager")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(m.out, options)
		choice, ok := m.prompt("Select an option: ")
		if !ok {
			return m.in.Err()
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = m.add(ctx)
		case "2":
			err = m.list(ctx)
		case "3":
			err = m.remove(ctx)
		case "4":
			err = m.complete(ctx)
		case "5":
			err = m.search(ctx)
		case "6":
			err = m.update(ctx)
		case "7":
			err = m.summary(ctx)
		case "8":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Please try again.")
		}
		if err != nil {
			m.report(err)
		}
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) promptID(label string) (int64, error) {
	raw, _ := m.prompt(label)
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, errInvalidID):
		fmt.Fprintln(m.out, "Invalid input. Enter a number.")
	case errors.Is(err, store.ErrEmptyDescription):
		fmt.Fprintln(m.out, "Description cannot be empty.")
	case errors.Is(err, store.ErrBadDeadlineFormat):
		fmt.Fprintln(m.out, "Invalid deadline format. Use YYYY-MM-DD.")
	default:
		m.Log.Error("operation failed", "err", err)
		fmt.Fprintln(m.out, "Something went wrong, see the log for details.")
	}
}

func (m *Menu) add(ctx context.Context) error {
	var d model.Draft
	d.Description, _ = m.prompt("Enter task description: ")
	d.Category, _ = m.prompt("Enter task category (optional): ")
	d.Deadline, _ = m.prompt("Enter task deadline (optional, YYYY-MM-DD): ")

	id, err := m.Store.Create(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Task added with ID %d.\n", id)
	return nil
}

func (m *Menu) list(ctx context.Context) error {
	raw, _ := m.prompt("Sort by (deadline/status/none): ")
	sortBy, err := model.ParseSortBy(raw)
	if err != nil || strings.TrimSpace(raw) == "" {
		fmt.Fprintln(m.out, "Invalid sort option.")
		return nil
	}

	tasks, err := m.Store.List(ctx, sortBy)
	if err != nil {
		return err
	}
	m.printTasks(tasks)
	return nil
}

func (m *Menu) remove(ctx context.Context) error {
	id, err := m.promptID("Enter task ID to remove: ")
	if err != nil {
		return err
	}
	outcome, err := m.Store.Remove(ctx, id)
	if err != nil {
		return err
	}
	m.printOutcome(outcome, "Task removed.")
	return nil
}

func (m *Menu) complete(ctx context.Context) error {
	id, err := m.promptID("Enter task ID to mark as completed: ")
	if err != nil {
		return err
	}
	outcome, err := m.Store.MarkCompleted(ctx, id)
	if err != nil {
		return err
	}
	m.printOutcome(outcome, "Task marked as completed.")
	return nil
}

func (m *Menu) search(ctx context.Context) error {
	category, _ := m.prompt("Enter category to search (optional): ")
	deadline, _ := m.prompt("Enter deadline to search (optional, YYYY-MM-DD): ")

	tasks, err := m.Store.Search(ctx, category, deadline)
	if err != nil {
		return err
	}
	m.printTasks(tasks)
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	id, err := m.promptID("Enter task ID to update: ")
	if err != nil {
		return err
	}

	var p model.Patch
	p.Description, _ = m.prompt("Enter new description (optional): ")
	p.Category, _ = m.prompt("Enter new category (optional): ")
	p.Deadline, _ = m.prompt("Enter new deadline (optional, YYYY-MM-DD): ")

	outcome, err := m.Store.Update(ctx, id, p)
	if err != nil {
		return err
	}
	m.printOutcome(outcome, "Task updated.")
	return nil
}

func (m *Menu) summary(ctx context.Context) error {
	sum, err := m.Store.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Total tasks: %d\n", sum.Total)
	fmt.Fprintf(m.out, "Completed tasks: %d\n", sum.Completed)
	fmt.Fprintf(m.out, "Pending tasks: %d\n", sum.Pending)
	return nil
}

func (m *Menu) printOutcome(outcome model.Outcome, success string) {
	if outcome == model.NotFound {
		fmt.Fprintln(m.out, "Task ID not found.")
		return
	}
	fmt.Fprintln(m.out, success)
}

func (m *Menu) printTasks(tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(m.out, "No tasks found!")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(m.out, FormatTask(t))
	}
}

// FormatTask renders one task on a single line.
func FormatTask(t model.Task) string {
	status := "✗"
	if t.Completed {
		status = "✓"
	}
	return fmt.Sprintf("ID: %d | Description: %s | Category: %s | Deadline: %s | Status: %s",
		t.ID, t.Description, orNone(t.Category), orNone(t.Deadline), status)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
