package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/tasker/pkg/auth"
	"github.com/harrisonrobin/tasker/pkg/colors"
	"github.com/harrisonrobin/tasker/pkg/index"
)

// NewClient authenticates and resolves calendarName to its calendar id.
func NewClient(ctx context.Context, calendarName string, idx *index.EventIndex, cache *colors.ColorCache) (*CalendarClient, error) {
	srv, err := auth.GetCalendarService(ctx)
	if err != nil {
		return nil, err
	}

	calendarList, err := srv.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %v", err)
	}

	var calendarID string
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			calendarID = item.Id
			break
		}
	}

	if calendarID == "" {
		return nil, fmt.Errorf("calendar '%s' not found", calendarName)
	}

	return NewCalendarClient(srv, calendarID, idx, cache), nil
}
