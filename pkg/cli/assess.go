package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/secmon-lab/dualscope/pkg/utils/metrics"
	"github.com/secmon-lab/dualscope/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

type assessInput struct {
	title         string
	abstract      string
	abstractFile  string
	url           string
	snippet       string
	dissemination string
	audience      string
}

func (x *assessInput) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Aliases:     []string{"t"},
			Usage:       "Paper title",
			Destination: &x.title,
		},
		&cli.StringFlag{
			Name:        "abstract",
			Aliases:     []string{"a"},
			Usage:       "Paper abstract",
			Destination: &x.abstract,
		},
		&cli.StringFlag{
			Name:        "abstract-file",
			Usage:       "Read the abstract from a file ('-' for stdin)",
			Destination: &x.abstractFile,
		},
		&cli.StringFlag{
			Name:        "url",
			Aliases:     []string{"u"},
			Usage:       "Fetch title and abstract from a paper page (arXiv, bioRxiv, ...)",
			Destination: &x.url,
		},
		&cli.StringFlag{
			Name:        "snippet",
			Usage:       "Optional methods snippet or code excerpt",
			Destination: &x.snippet,
		},
		&cli.StringFlag{
			Name:        "dissemination",
			Usage:       "Intended dissemination: " + joinValues(types.AllDisseminations()),
			Value:       types.DisseminationPreprint.String(),
			Destination: &x.dissemination,
		},
		&cli.StringFlag{
			Name:        "audience",
			Usage:       "Intended audience: " + joinValues(types.AllAudiences()),
			Value:       types.AudienceDevelopers.String(),
			Destination: &x.audience,
		},
	}
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = "'" + string(v) + "'"
	}
	return strings.Join(s, ", ")
}

func readAbstractFile(ctx context.Context, path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read abstract from stdin")
		}
		return string(data), nil
	}

	f, err := os.Open(path) // #nosec G304 -- path given by the operator
	if err != nil {
		return "", goerr.Wrap(err, "failed to open abstract file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	data, err := io.ReadAll(f)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read abstract file", goerr.V("path", path))
	}
	return string(data), nil
}

// request builds the assess request. Fetched metadata only fills fields the caller left empty.
func (x *assessInput) request(ctx context.Context, c *cli.Command, fetch func(context.Context, string) (model.FetchResult, error)) (model.AssessRequest, error) {
	req := model.AssessRequest{
		Title:         x.title,
		Abstract:      x.abstract,
		Snippet:       x.snippet,
		SourceURL:     x.url,
		Dissemination: types.Dissemination(x.dissemination),
		Audience:      types.Audience(x.audience),
	}

	if x.abstractFile != "" {
		stdin := c.Root().Reader
		if stdin == nil {
			stdin = os.Stdin
		}
		abstract, err := readAbstractFile(ctx, x.abstractFile, stdin)
		if err != nil {
			return req, err
		}
		req.Abstract = abstract
	}

	if x.url != "" && (req.Title == "" || strings.TrimSpace(req.Abstract) == "") {
		result, err := fetch(ctx, x.url)
		if err != nil {
			return req, err
		}
		if !result.Success {
			logging.From(ctx).Warn("Could not extract paper metadata, using given fields", "url", x.url, "reason", result.Error)
		}
		if req.Title == "" {
			req.Title = result.Title
		}
		if strings.TrimSpace(req.Abstract) == "" {
			req.Abstract = result.Abstract
		}
	}

	return req, nil
}

func cmdAssess() *cli.Command {
	var input assessInput
	var pipeline pipelineConfig
	var asJSON bool

	flags := input.Flags()
	flags = append(flags, jsonFlag(&asJSON))
	flags = append(flags, pipeline.Flags()...)

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Assess a single paper and store the result",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, cleanup, err := pipeline.build(ctx, metrics.New())
			if err != nil {
				return err
			}
			defer cleanup()

			req, err := input.request(ctx, c, uc.Paper.FetchURL)
			if err != nil {
				return err
			}

			assessment, err := uc.Assess.Assess(ctx, req)
			if err != nil {
				return err
			}

			w := writerOf(c)
			if asJSON {
				return printJSON(w, assessment)
			}
			printAssessment(w, assessment)
			return nil
		},
	}
}
