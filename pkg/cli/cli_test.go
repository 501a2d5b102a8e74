package cli_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dualscope/pkg/cli"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/repository/file"
	"github.com/secmon-lab/dualscope/pkg/usecase"
)

const validAxesTOML = `
universal = true

[sections]
A = "Capability"
C = "Safeguards"

[[axes]]
id = "A1"
name = "Uplift"
question = "Does the work provide direct uplift?"
section = "A"

[[axes]]
id = "C1"
name = "Safeguards"
question = "Are safeguards described?"
section = "C"
reverse_scored = true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestAxesValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid TOML file", func(t *testing.T) {
		path := writeFile(t, "axes.toml", validAxesTOML)
		gt.NoError(t, cli.Run(ctx, []string{"dualscope", "axes", "validate", path}, "test"))
	})

	t.Run("embedded configuration", func(t *testing.T) {
		gt.NoError(t, cli.Run(ctx, []string{"dualscope", "axes", "validate"}, "test"))
	})

	t.Run("not universal", func(t *testing.T) {
		path := writeFile(t, "axes.json", `{"universal": false, "axes": [{"id": "A1", "name": "x", "question": "q"}]}`)
		err := cli.Run(ctx, []string{"dualscope", "axes", "validate", path}, "test")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, cli.ErrInvalidAxisConfig))
	})

	t.Run("duplicate ids", func(t *testing.T) {
		path := writeFile(t, "axes.json", `{"universal": true, "axes": [
			{"id": "A1", "name": "x", "question": "q"},
			{"id": "A1", "name": "y", "question": "q"}
		]}`)
		err := cli.Run(ctx, []string{"dualscope", "axes", "validate", path}, "test")
		gt.True(t, errors.Is(err, cli.ErrInvalidAxisConfig))
	})

	t.Run("broken JSON", func(t *testing.T) {
		path := writeFile(t, "axes.json", `{"universal": true, "axes": [`)
		err := cli.Run(ctx, []string{"dualscope", "axes", "validate", path}, "test")
		gt.True(t, errors.Is(err, cli.ErrInvalidAxisConfig))
	})

	t.Run("missing file", func(t *testing.T) {
		err := cli.Run(ctx, []string{"dualscope", "axes", "validate", filepath.Join(t.TempDir(), "none.json")}, "test")
		gt.True(t, errors.Is(err, cli.ErrInvalidAxisConfig))
	})
}

func TestAxesShow(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "axes.toml", validAxesTOML)
	gt.NoError(t, cli.Run(ctx, []string{"dualscope", "axes", "show", "--json", path}, "test"))

	// unreadable configuration falls back instead of failing
	gt.NoError(t, cli.Run(ctx, []string{"dualscope", "axes", "show", filepath.Join(t.TempDir(), "none.json")}, "test"))
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	dataFile := filepath.Join(t.TempDir(), "assessments.json")

	repo, err := file.New(dataFile)
	gt.NoError(t, err)
	a := &model.Assessment{
		ID:        model.NewAssessmentID(),
		Timestamp: time.Now().UTC(),
		Input: model.ResearchInput{
			Title:         "Protein design",
			Abstract:      "We design proteins.",
			Dissemination: types.DisseminationPreprint,
			Audience:      types.AudienceExperts,
			Category:      types.CategoryBiomedical,
		},
		Scores:          model.NewRiskScores(),
		Tier:            types.TierHigh,
		Recommendations: []string{"Review."},
	}
	gt.NoError(t, repo.Assessment().Put(ctx, a))
	gt.NoError(t, repo.Close())

	base := []string{"dualscope", "history", "--data-file", dataFile}

	t.Run("list", func(t *testing.T) {
		gt.NoError(t, cli.Run(ctx, append(base, "list"), "test"))
		gt.NoError(t, cli.Run(ctx, append(base, "list", "--json", "-n", "1"), "test"))
	})

	t.Run("show", func(t *testing.T) {
		gt.NoError(t, cli.Run(ctx, append(base, "show", a.ID.String()), "test"))
	})

	t.Run("show unknown id", func(t *testing.T) {
		err := cli.Run(ctx, append(base, "show", "missing"), "test")
		gt.True(t, errors.Is(err, usecase.ErrAssessmentNotFound))
	})

	t.Run("show without id", func(t *testing.T) {
		gt.Error(t, cli.Run(ctx, append(base, "show"), "test"))
	})
}

func TestBuildAssessRequest(t *testing.T) {
	ctx := context.Background()
	fetched := model.FetchResult{Title: "Fetched title", Abstract: "Fetched abstract", Success: true}
	var calls int
	fetch := func(ctx context.Context, url string) (model.FetchResult, error) {
		calls++
		return fetched, nil
	}

	t.Run("fills missing fields from the url", func(t *testing.T) {
		calls = 0
		req, err := cli.BuildAssessRequestForTest(ctx, "My title", "", "", "https://arxiv.org/abs/1234.5678", fetch)
		gt.NoError(t, err)
		gt.Equal(t, req.Title, "My title")
		gt.Equal(t, req.Abstract, "Fetched abstract")
		gt.Equal(t, req.SourceURL, "https://arxiv.org/abs/1234.5678")
		gt.Equal(t, calls, 1)
	})

	t.Run("no fetch when fields are given", func(t *testing.T) {
		calls = 0
		req, err := cli.BuildAssessRequestForTest(ctx, "T", "A", "", "https://arxiv.org/abs/1", fetch)
		gt.NoError(t, err)
		gt.Equal(t, req.Abstract, "A")
		gt.Equal(t, calls, 0)
	})

	t.Run("abstract file", func(t *testing.T) {
		path := writeFile(t, "abstract.txt", "From a file.")
		req, err := cli.BuildAssessRequestForTest(ctx, "T", "ignored", path, "", fetch)
		gt.NoError(t, err)
		gt.Equal(t, req.Abstract, "From a file.")
		gt.Equal(t, req.Dissemination, types.DisseminationPreprint)
		gt.Equal(t, req.Audience, types.AudienceDevelopers)
	})

	t.Run("fetch error", func(t *testing.T) {
		_, err := cli.BuildAssessRequestForTest(ctx, "", "", "", "https://example.com", func(context.Context, string) (model.FetchResult, error) {
			return model.FetchResult{}, usecase.ErrFetchNotConfigured
		})
		gt.True(t, errors.Is(err, usecase.ErrFetchNotConfigured))
	})
}

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig("")
	gt.Array(t, cfg.Collections).Length(1)
	gt.Equal(t, cfg.Collections[0].Name, "assessments")
	gt.Array(t, cfg.Collections[0].Indexes).Length(4)
	for _, idx := range cfg.Collections[0].Indexes {
		gt.Array(t, idx.Fields).Length(2)
		gt.Equal(t, idx.Fields[1].Path, "timestamp")
	}

	gt.Equal(t, cli.GetIndexConfig("dev").Collections[0].Name, "dev_assessments")
	gt.NoError(t, cfg.Validate())
}

func TestMigrate_RequiresDatabaseID(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"dualscope", "migrate",
		"--firestore-project-id", "test-project",
		"--firestore-database-id", "",
		"--dry-run",
	}, "test")
	gt.Error(t, err).Contains("database ID is required")
}

func TestAxisOrder(t *testing.T) {
	a := &model.Assessment{
		Scores: model.RiskScores{Scores: map[string]model.AxisScore{
			"Z9": {}, "B1": {}, "A1": {}, "X1": {},
		}},
		AxesUsed: []model.AxisInfo{{ID: "B1"}, {ID: "A1"}, {ID: "C1"}},
	}
	gt.Equal(t, cli.AxisOrder(a), []string{"B1", "A1", "X1", "Z9"})
}
