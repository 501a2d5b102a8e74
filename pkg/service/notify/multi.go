package notify

import (
	"context"
	"errors"

	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
)

// Multi fans an escalation out to every notifier. All notifiers are tried; their
// errors are joined.
type Multi []interfaces.Notifier

func (m Multi) Notify(ctx context.Context, a *model.Assessment) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
