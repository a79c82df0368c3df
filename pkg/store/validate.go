package store

import (
	"regexp"
	"strings"

	"github.com/harrisonrobin/tasker/pkg/model"
)

// Only the leading YYYY-MM-DD shape is checked; "2024-13-99" and
// "2024-01-01 extra" are both accepted.
var deadlineRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ValidDeadline reports whether s starts with the YYYY-MM-DD pattern.
func ValidDeadline(s string) bool {
	return deadlineRegex.MatchString(s)
}

func validateDraft(d model.Draft) error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if d.Deadline != "" && !ValidDeadline(d.Deadline) {
		return ErrBadDeadlineFormat
	}
	return nil
}

func validatePatch(p model.Patch) error {
	if p.Deadline != "" && !ValidDeadline(p.Deadline) {
		return ErrBadDeadlineFormat
	}
	return nil
}
