package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/tasker/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// TaskIDProperty is the private extended property that links an event back to its task.
const TaskIDProperty = "tasker_id"

const dateLayout = "2006-01-02"

// DeadlineDate parses the leading YYYY-MM-DD of a deadline. Deadlines that
// pass the store's prefix check but are not real dates ("2024-13-99") fail here.
func DeadlineDate(deadline string) (time.Time, error) {
	if len(deadline) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("deadline %q is too short", deadline)
	}
	d, err := time.Parse(dateLayout, deadline[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline %q is not a calendar date: %w", deadline, err)
	}
	return d, nil
}

// EventNeedsUpdate returns a patch event if the fields shared between the
// existing event and the freshly converted target differ, or nil.
func EventNeedsUpdate(existingEvent *calendar.Event, targetEvent *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existingEvent.Summary != targetEvent.Summary {
		patch.Summary = targetEvent.Summary
		needsUpdate = true
	}
	if existingEvent.Description != targetEvent.Description {
		patch.Description = targetEvent.Description
		needsUpdate = true
	}
	if existingEvent.ColorId != targetEvent.ColorId {
		patch.ColorId = targetEvent.ColorId
		needsUpdate = true
	}
	if eventDate(existingEvent.Start) != eventDate(targetEvent.Start) || eventDate(existingEvent.End) != eventDate(targetEvent.End) {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func eventDate(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	return dt.Date
}

// ConvertTaskToCalendarEvent builds an all-day event on the task's deadline.
func ConvertTaskToCalendarEvent(task model.Task, colorID string, now time.Time) (*calendar.Event, error) {
	if task.Deadline == "" {
		return nil, fmt.Errorf("task %d has no deadline", task.ID)
	}
	day, err := DeadlineDate(task.Deadline)
	if err != nil {
		return nil, err
	}

	prefix := ""
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if task.Completed {
		prefix = "✓"
	} else if day.Before(today) {
		prefix = "!"
	}

	summary := task.Description
	if prefix != "" {
		summary = fmt.Sprintf("%s %s", prefix, task.Description)
	}

	var desc strings.Builder
	status := "pending"
	if task.Completed {
		status = "completed"
	}
	desc.WriteString(fmt.Sprintf("Status: %s\n", status))
	if task.Category != "" {
		desc.WriteString(fmt.Sprintf("Category: %s\n", task.Category))
	}
	desc.WriteString(fmt.Sprintf("Deadline: %s\n", task.Deadline))
	desc.WriteString(fmt.Sprintf("ID: %d\n", task.ID))

	return &calendar.Event{
		Summary:     summary,
		ColorId:     colorID,
		Start:       &calendar.EventDateTime{Date: day.Format(dateLayout)},
		End:         &calendar.EventDateTime{Date: day.AddDate(0, 0, 1).Format(dateLayout)},
		Description: desc.String(),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TaskIDProperty: strconv.FormatInt(task.ID, 10),
			},
		},
	}, nil
}

// GetTaskIDFromEvent returns the task id from the private extended property.
// Events without it were not created by tasker.
func GetTaskIDFromEvent(event *calendar.Event) (int64, bool) {
	if event.ExtendedProperties == nil {
		return 0, false
	}
	raw, ok := event.ExtendedProperties.Private[TaskIDProperty]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
