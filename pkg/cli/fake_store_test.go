package cli

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/harrisonrobin/tasker/pkg/model"
	"github.com/harrisonrobin/tasker/pkg/store"
)

// fakeStore keeps tasks in a map. failWith, when set, is returned by every call.
type fakeStore struct {
	nextID   int64
	tasks    map[int64]model.Task
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, tasks: make(map[int64]model.Task)}
}

var _ store.TaskStore = (*fakeStore)(nil)

func (f *fakeStore) Initialize(context.Context) error {
	return f.failWith
}

func (f *fakeStore) Create(_ context.Context, d model.Draft) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	if strings.TrimSpace(d.Description) == "" {
		return 0, store.ErrEmptyDescription
	}
	if d.Deadline != "" && !store.ValidDeadline(d.Deadline) {
		return 0, store.ErrBadDeadlineFormat
	}
	id := f.nextID
	f.nextID++
	f.tasks[id] = model.Task{ID: id, Description: strings.TrimSpace(d.Description), Category: d.Category, Deadline: d.Deadline}
	return id, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return model.Task{}, store.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) sorted() []model.Task {
	out := make([]model.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) List(_ context.Context, sortBy model.SortBy) ([]model.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := f.sorted()
	switch sortBy {
	case model.SortStatus:
		sort.SliceStable(out, func(i, j int) bool { return !out[i].Completed && out[j].Completed })
	case model.SortDeadline:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Deadline, out[j].Deadline
			if a == "" || b == "" {
				return a != "" && b == ""
			}
			return a < b
		})
	}
	return out, nil
}

func (f *fakeStore) Search(_ context.Context, category, deadline string) ([]model.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []model.Task
	for _, t := range f.sorted() {
		if category != "" && t.Category != category {
			continue
		}
		if deadline != "" && t.Deadline != deadline {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, p model.Patch) (model.Outcome, error) {
	if f.failWith != nil {
		return model.NotFound, f.failWith
	}
	if p.Deadline != "" && !store.ValidDeadline(p.Deadline) {
		return model.NotFound, store.ErrBadDeadlineFormat
	}
	t, ok := f.tasks[id]
	if !ok {
		return model.NotFound, nil
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		t.Description = d
	}
	if p.Category != "" {
		t.Category = p.Category
	}
	if p.Deadline != "" {
		t.Deadline = p.Deadline
	}
	f.tasks[id] = t
	return model.Updated, nil
}

func (f *fakeStore) MarkCompleted(_ context.Context, id int64) (model.Outcome, error) {
	if f.failWith != nil {
		return model.NotFound, f.failWith
	}
	t, ok := f.tasks[id]
	if !ok {
		return model.NotFound, nil
	}
	t.Completed = true
	f.tasks[id] = t
	return model.Completed, nil
}

func (f *fakeStore) Remove(_ context.Context, id int64) (model.Outcome, error) {
	if f.failWith != nil {
		return model.NotFound, f.failWith
	}
	if _, ok := f.tasks[id]; !ok {
		return model.NotFound, nil
	}
	delete(f.tasks, id)
	return model.Removed, nil
}

func (f *fakeStore) Summary(context.Context) (model.Summary, error) {
	if f.failWith != nil {
		return model.Summary{}, f.failWith
	}
	var sum model.Summary
	for _, t := range f.tasks {
		sum.Total++
		if t.Completed {
			sum.Completed++
		}
	}
	sum.Pending = sum.Total - sum.Completed
	return sum, nil
}

var errDiskFull = errors.New("disk full")
