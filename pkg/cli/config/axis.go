package config

import (
	"context"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/service/axis"
	"github.com/urfave/cli/v3"
)

// Axis holds CLI flags locating the risk axis configuration
type Axis struct {
	location string
	reload   bool
}

func (x *Axis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "axes",
			Usage:       "Axis configuration: local JSON/TOML path or gs://bucket/object (built-in 12 axes when empty)",
			Category:    "Axes",
			Sources:     cli.EnvVars("DUALSCOPE_AXES"),
			Destination: &x.location,
		},
		&cli.BoolFlag{
			Name:        "axes-reload",
			Usage:       "Re-read the axis configuration for every assessment",
			Category:    "Axes",
			Sources:     cli.EnvVars("DUALSCOPE_AXES_RELOAD"),
			Destination: &x.reload,
		},
	}
}

func (x Axis) LogValue() slog.Value {
	location := x.location
	if location == "" {
		location = "(embedded)"
	}
	return slog.GroupValue(
		slog.String("location", location),
		slog.Bool("reload", x.reload),
	)
}

// Source opens the configured axis source. The returned closer releases the storage
// client for gs:// locations.
func (x *Axis) Source(ctx context.Context) (axis.Source, func(), error) {
	switch {
	case x.location == "":
		return axis.EmbeddedSource{}, func() {}, nil

	case axis.IsGCSURI(x.location):
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create storage client")
		}
		src, err := axis.NewGCSSource(client, x.location)
		if err != nil {
			_ = client.Close()
			return nil, nil, goerr.Wrap(err, "invalid axis location", goerr.V("location", x.location))
		}
		return src, func() { _ = client.Close() }, nil

	default:
		return axis.NewFileSource(x.location), func() {}, nil
	}
}

// Configure returns a loader for the configured source. Load failures never stop the
// service: the loader falls back to the built-in four axes.
func (x *Axis) Configure(ctx context.Context) (*axis.Loader, func(), error) {
	src, closer, err := x.Source(ctx)
	if err != nil {
		return nil, nil, err
	}
	return axis.NewLoader(src, x.reload), closer, nil
}

// WithLocation returns a copy pointing at another location
func (x Axis) WithLocation(location string) *Axis {
	x.location = location
	return &x
}
