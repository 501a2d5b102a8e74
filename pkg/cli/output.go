package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func writerOf(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func jsonFlag(dest *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "Print as JSON",
		Destination: dest,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}

func tierColor(t types.Tier) *color.Color {
	switch t {
	case types.TierCritical:
		return color.New(color.FgRed, color.Bold)
	case types.TierHigh:
		return color.New(color.FgRed)
	case types.TierMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

// axisOrder lists score ids in the order the axes were used, then any leftovers sorted
func axisOrder(a *model.Assessment) []string {
	seen := make(map[string]bool, len(a.Scores.Scores))
	var ids []string
	for _, info := range a.AxesUsed {
		if _, ok := a.Scores.Scores[info.ID]; ok && !seen[info.ID] {
			ids = append(ids, info.ID)
			seen[info.ID] = true
		}
	}
	var rest []string
	for id := range a.Scores.Scores {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

func printAssessment(w io.Writer, a *model.Assessment) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	names := make(map[string]string, len(a.AxesUsed))
	for _, info := range a.AxesUsed {
		names[info.ID] = info.Name
	}

	_, _ = bold.Fprintf(w, "%s\n", a.Input.Title)
	_, _ = faint.Fprintf(w, "%s  %s\n", a.ID, a.Timestamp.Format("2006-01-02 15:04:05 MST"))
	_, _ = fmt.Fprintf(w, "Tier:          %s\n", tierColor(a.Tier).Sprint(a.Tier))
	category := a.Input.Category.String()
	if category == "" {
		category = "unknown"
	}
	_, _ = fmt.Fprintf(w, "Category:      %s\n", category)
	_, _ = fmt.Fprintf(w, "Dissemination: %s\n", a.Input.Dissemination)
	_, _ = fmt.Fprintf(w, "Audience:      %s\n", a.Input.Audience)

	_, _ = bold.Fprintln(w, "\nScores")
	for _, id := range axisOrder(a) {
		s := a.Scores.Scores[id]
		mark := " "
		if s.ReverseScored {
			mark = "R"
		}
		line := fmt.Sprintf("  %-4s %s %d/%d  %s", id, mark, s.Score, model.MaxAxisScore, names[id])
		if s.EffectiveScore() >= 2 {
			_, _ = color.New(color.FgYellow).Fprintln(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
		if s.Rationale != "" {
			_, _ = faint.Fprintf(w, "         %s\n", s.Rationale)
		}
	}

	_, _ = bold.Fprintln(w, "\nRecommendations")
	for i, r := range a.Recommendations {
		_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, r)
	}
}

func printAssessmentRow(w io.Writer, a *model.Assessment) {
	category := a.Input.Category.String()
	if category == "" {
		category = "unknown"
	}
	_, _ = fmt.Fprintf(w, "%s  %s  %s %-14s %s\n",
		a.ID,
		a.Timestamp.Format("2006-01-02 15:04"),
		tierColor(a.Tier).Sprintf("%-8s", a.Tier),
		category,
		a.Input.Title,
	)
}
