// Package alert pushes ranked opportunities to external channels.
package alert

import (
	"context"

	"github.com/navid-fn/radar/internal/models"
)

// Notifier delivers the ranked opportunities of one cycle. It is only called
// with a non-empty slice.
type Notifier interface {
	Notify(ctx context.Context, ops []models.Opportunity) error
	Name() string
}
