package google

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/tasker/pkg/model"
	"github.com/harrisonrobin/tasker/pkg/store"
	"github.com/harrisonrobin/tasker/pkg/util"
)

type SyncReport struct {
	Synced  int
	Skipped int
	Deleted int
}

// Sync pushes every task with a deadline to the calendar and removes events
// whose task is gone or can no longer be scheduled. Failures on single
// tasks are logged and skipped; their events are left alone.
func Sync(ctx context.Context, s store.TaskStore, c *CalendarClient, logger *log.Logger, now time.Time) (SyncReport, error) {
	var report SyncReport

	tasks, err := s.List(ctx, model.SortDeadline)
	if err != nil {
		return report, fmt.Errorf("list tasks for sync: %w", err)
	}

	// schedulable holds every live task that belongs on the calendar,
	// whether or not this pass managed to push it.
	schedulable := make(map[int64]bool, len(tasks))
	for _, task := range tasks {
		if task.Deadline == "" {
			report.Skipped++
			continue
		}
		if _, err := util.DeadlineDate(task.Deadline); err != nil {
			logger.Warn("skipping task", "id", task.ID, "err", err)
			report.Skipped++
			continue
		}
		schedulable[task.ID] = true

		event, err := c.SyncEvent(task, now)
		if err != nil {
			logger.Warn("could not sync task", "id", task.ID, "err", err)
			report.Skipped++
			continue
		}
		report.Synced++
		logger.Debug("synced task", "id", task.ID, "event", event.Id)
	}

	for eventID, taskID := range c.staleEvents(ctx, schedulable, logger) {
		if err := c.DeleteEvent(eventID); err != nil {
			logger.Warn("could not delete stale event", "id", taskID, "event", eventID, "err", err)
			continue
		}
		if c.index != nil && c.index.Get(taskID) == eventID {
			c.index.Remove(taskID)
		}
		report.Deleted++
	}

	if c.index != nil {
		if err := c.index.Save(); err != nil {
			logger.Warn("failed to save event index", "err", err)
		}
	}
	if c.colors != nil {
		if err := c.colors.Save(); err != nil {
			logger.Warn("failed to save color cache", "err", err)
		}
	}

	return report, nil
}

// staleEvents maps event id to task id for every tasker event whose task is
// not in keep. Indexed events are found locally; tagged events missing from
// the index are found by listing the calendar.
func (c *CalendarClient) staleEvents(ctx context.Context, keep map[int64]bool, logger *log.Logger) map[string]int64 {
	stale := make(map[string]int64)
	if c.index != nil {
		for _, id := range c.index.TaskIDs() {
			if !keep[id] {
				stale[c.index.Get(id)] = id
			}
		}
	}

	events, err := c.ListEvents(ctx)
	if err != nil {
		logger.Warn("could not look for unindexed events", "err", err)
		return stale
	}
	for _, ev := range events {
		if id, ok := util.GetTaskIDFromEvent(ev); ok && !keep[id] {
			stale[ev.Id] = id
		}
	}
	return stale
}
