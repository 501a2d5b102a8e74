package cli

import "github.com/secmon-lab/dualscope/pkg/cli/config"

// ErrInvalidAxisConfig is returned by axes validate
var ErrInvalidAxisConfig = config.ErrInvalidAxisConfig
