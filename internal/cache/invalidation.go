package cache

import (
	"context"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/events"
)

// InvalidationHook purges the overdue-listing cache region whenever a
// task changes. Invalidation is coarse: any task mutation drops the
// entire namespace rather than guessing which cached pages the change
// could affect.
type InvalidationHook struct {
	gateway   *Gateway
	namespace string
	logger    *slog.Logger
}

// NewInvalidationHook creates a hook that clears every key under the
// given namespace prefix on any task change.
func NewInvalidationHook(gateway *Gateway, namespace string, logger *slog.Logger) *InvalidationHook {
	if logger == nil {
		logger = slog.Default()
	}

	return &InvalidationHook{
		gateway:   gateway,
		namespace: namespace,
		logger:    logger.With(slog.String("component", "cache_invalidation")),
	}
}

var _ events.Handler = (*InvalidationHook)(nil)

// HandleTaskChanged implements events.Handler. It always returns nil:
// a failed invalidation is logged inside the Gateway and must not fail
// the mutation that triggered it.
func (h *InvalidationHook) HandleTaskChanged(ctx context.Context, event *events.TaskChangedEvent) error {
	removed := h.gateway.DeleteByPattern(ctx, h.namespace+":*")
	h.logger.Debug("invalidated overdue listing cache",
		"action", event.Action,
		"task_id", event.TaskID,
		"removed", removed)
	return nil
}
