package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/cli/config"
	"github.com/secmon-lab/dualscope/pkg/service/axis"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAxes() *cli.Command {
	var axisCfg config.Axis
	var asJSON bool

	// target honours an optional positional location over --axes
	target := func(c *cli.Command) *config.Axis {
		if c.Args().Len() > 0 {
			return axisCfg.WithLocation(c.Args().First())
		}
		return &axisCfg
	}

	return &cli.Command{
		Name:  "axes",
		Usage: "Inspect the risk axis configuration",
		Flags: axisCfg.Flags(),
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Strictly validate an axis configuration file",
				ArgsUsage: "[path or gs://bucket/object]",
				Action: func(ctx context.Context, c *cli.Command) error {
					return validateAxes(ctx, c, target(c))
				},
			},
			{
				Name:      "show",
				Usage:     "Show the axes an assessment would use",
				ArgsUsage: "[path or gs://bucket/object]",
				Flags:     []cli.Flag{jsonFlag(&asJSON)},
				Action: func(ctx context.Context, c *cli.Command) error {
					return showAxes(ctx, c, target(c), asJSON)
				},
			},
		},
	}
}

func validateAxes(ctx context.Context, c *cli.Command, cfg *config.Axis) error {
	src, closer, err := cfg.Source(ctx)
	if err != nil {
		return err
	}
	defer closer()

	data, err := src.Read(ctx)
	if err != nil {
		return goerr.Wrap(ErrInvalidAxisConfig, err.Error(), goerr.V(config.AxisLocationKey, src.Name()))
	}

	axisConfig, err := axis.Decode(src.Name(), data)
	if err != nil {
		return goerr.Wrap(ErrInvalidAxisConfig, err.Error(), goerr.V(config.AxisLocationKey, src.Name()))
	}

	if err := axis.Validate(axisConfig); err != nil {
		logging.Default().Error("Axis configuration is invalid", "location", src.Name(), "error", err)
		return goerr.Wrap(ErrInvalidAxisConfig, err.Error(), goerr.V(config.AxisLocationKey, src.Name()))
	}

	_, _ = fmt.Fprintf(writerOf(c), "%s %s: %d axes\n",
		color.New(color.FgGreen).Sprint("OK"), src.Name(), len(axisConfig.Axes))
	return nil
}

func showAxes(ctx context.Context, c *cli.Command, cfg *config.Axis, asJSON bool) error {
	loader, closer, err := cfg.Configure(ctx)
	if err != nil {
		return err
	}
	defer closer()

	registry := loader.Registry(ctx)
	w := writerOf(c)

	if asJSON {
		return printJSON(w, map[string]any{
			"axes":           registry.Axes(),
			"sections":       registry.Sections(),
			"scoring_rubric": registry.Rubric(),
			"fallback":       registry.IsFallback(),
		})
	}

	if registry.IsFallback() {
		_, _ = color.New(color.FgYellow).Fprintln(w, "Axis configuration could not be loaded; using the built-in fallback axes")
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	section := ""
	for _, a := range registry.Axes() {
		if a.Section != section {
			section = a.Section
			_, _ = bold.Fprintf(w, "%s  %s\n", section, registry.SectionName(section))
		}
		mark := " "
		if a.ReverseScored {
			mark = "R"
		}
		_, _ = fmt.Fprintf(w, "  %-4s %s %s\n", a.ID, mark, a.Name)
		_, _ = faint.Fprintf(w, "         %s\n", a.Question)
	}
	return nil
}
