package interfaces

import (
	"context"

	"github.com/secmon-lab/dualscope/pkg/domain/model"
)

// Notifier escalates an assessment to humans
type Notifier interface {
	Notify(ctx context.Context, assessment *model.Assessment) error
}
