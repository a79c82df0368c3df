package taskwarrior

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/tasker/pkg/store"
)

// Import creates one task per Taskwarrior record and returns how many were
// created. Deleted records are skipped, completed ones are marked completed.
// Records that fail validation are logged and skipped; a storage failure
// aborts the import.
func Import(ctx context.Context, s store.TaskStore, tasks []Task, logger *log.Logger) (int, error) {
	imported := 0
	for _, t := range tasks {
		if t.Status == DELETED {
			logger.Debug("skipping deleted task", "uuid", t.UUID)
			continue
		}

		id, err := s.Create(ctx, t.Draft())
		if err != nil {
			var ve *store.ValidationError
			if errors.As(err, &ve) {
				logger.Warn("skipping invalid task", "uuid", t.UUID, "err", err)
				continue
			}
			return imported, err
		}

		if t.Status == COMPLETED {
			if _, err := s.MarkCompleted(ctx, id); err != nil {
				return imported, err
			}
		}
		imported++
		logger.Debug("imported task", "uuid", t.UUID, "id", id)
	}
	return imported, nil
}
