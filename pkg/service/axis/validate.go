package axis

import (
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
)

var (
	ErrNotUniversal    = errors.New("axis config is not universal")
	ErrNoAxes          = errors.New("axis config has no axes")
	ErrEmptyAxisID     = errors.New("axis id is empty")
	ErrDuplicateAxisID = errors.New("axis id is duplicated")
	ErrEmptyQuestion   = errors.New("axis question is empty")
)

// Validate checks a configuration strictly. Load never calls it; it backs the
// axes validate command so operators find problems before they trigger the fallback.
func Validate(cfg *model.AxisConfig) error {
	var errs []error

	if !cfg.Universal {
		errs = append(errs, goerr.Wrap(ErrNotUniversal, "universal must be true"))
	}
	if len(cfg.Axes) == 0 {
		errs = append(errs, goerr.Wrap(ErrNoAxes, "at least one axis is required"))
	}

	seen := make(map[string]int, len(cfg.Axes))
	for i, a := range cfg.Axes {
		id := strings.TrimSpace(a.ID)
		if id == "" {
			errs = append(errs, goerr.Wrap(ErrEmptyAxisID, "axis id is required", goerr.V("index", i)))
			continue
		}
		if prev, ok := seen[id]; ok {
			errs = append(errs, goerr.Wrap(ErrDuplicateAxisID, "axis id must be unique",
				goerr.V("id", id),
				goerr.V("index", i),
				goerr.V("first_index", prev)))
			continue
		}
		seen[id] = i

		if strings.TrimSpace(a.Question) == "" {
			errs = append(errs, goerr.Wrap(ErrEmptyQuestion, "axis question is required", goerr.V("id", id)))
		}
	}

	return errors.Join(errs...)
}
