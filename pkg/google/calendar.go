package google

import (
	"context"
	"fmt"
	"time"

	"github.com/harrisonrobin/tasker/pkg/colors"
	"github.com/harrisonrobin/tasker/pkg/index"
	"github.com/harrisonrobin/tasker/pkg/model"
	"github.com/harrisonrobin/tasker/pkg/util"
	"google.golang.org/api/calendar/v3"
)

// CalendarClient is a Google Calendar API client.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	colors     *colors.ColorCache
}

// NewCalendarClient creates a new Google Calendar client. idx and cache may be nil.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex, cache *colors.ColorCache) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx, colors: cache}
}

func (c *CalendarClient) colorFor(category string) string {
	if c.colors == nil {
		return colors.UncategorizedColor
	}
	return c.colors.GetColorID(category)
}

// SyncEvent creates a new event or updates an existing one.
func (c *CalendarClient) SyncEvent(task model.Task, now time.Time) (*calendar.Event, error) {
	event, err := util.ConvertTaskToCalendarEvent(task, c.colorFor(task.Category), now)
	if err != nil {
		return nil, err
	}

	var existingEvent *calendar.Event
	// 1. Try local index first
	if c.index != nil {
		if eventID := c.index.Get(task.ID); eventID != "" {
			existingEvent, err = c.srv.Events.Get(c.calendarID, eventID).Do()
			if err != nil || existingEvent.Status == "cancelled" {
				existingEvent = nil
			}
		}
	}

	// 2. Fallback to API search
	if existingEvent == nil {
		existingEvent, err = c.GetEventByTaskID(task.ID)
		if err != nil {
			return nil, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existingEvent != nil {
		patch := util.EventNeedsUpdate(existingEvent, event)
		if patch == nil {
			if c.index != nil {
				c.index.Set(task.ID, existingEvent.Id)
			}
			return existingEvent, nil
		}
		updatedEvent, err := c.PatchEvent(existingEvent.Id, patch)
		if err == nil && c.index != nil {
			c.index.Set(task.ID, updatedEvent.Id)
		}
		return updatedEvent, err
	}

	createdEvent, err := c.srv.Events.Insert(c.calendarID, event).Do()
	if err == nil && c.index != nil {
		c.index.Set(task.ID, createdEvent.Id)
	}
	return createdEvent, err
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Do()
}

// ListEvents fetches every event on the calendar, following pagination.
func (c *CalendarClient) ListEvents(ctx context.Context) ([]*calendar.Event, error) {
	var items []*calendar.Event
	err := c.srv.Events.List(c.calendarID).Pages(ctx, func(page *calendar.Events) error {
		items = append(items, page.Items...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	return items, nil
}

// GetEventByTaskID searches for an event carrying the task id in its extended properties.
func (c *CalendarClient) GetEventByTaskID(taskID int64) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%d", util.TaskIDProperty, taskID)).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
