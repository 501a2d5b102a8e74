package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dualscope/pkg/service/fetch"
)

const arxivPage = `<html><body>
<h1 class="title mathjax"><span class="descriptor">Title:</span>Scaling   Protein Design</h1>
<blockquote class="abstract mathjax">
  <span class="descriptor">Abstract:</span>We present a generative model
  for protein backbones.
</blockquote>
</body></html>`

func TestParseArxiv(t *testing.T) {
	res, err := fetch.ParseArxiv([]byte(arxivPage))
	gt.NoError(t, err).Required()
	gt.Bool(t, res.Success).True()
	gt.Value(t, res.Title).Equal("Scaling Protein Design")
	gt.Value(t, res.Abstract).Equal("We present a generative model for protein backbones.")

	res, err = fetch.ParseArxiv([]byte(`<html><body><p>nothing</p></body></html>`))
	gt.NoError(t, err).Required()
	gt.Bool(t, res.Success).False()
	gt.Value(t, res.Error).Equal("Could not extract title/abstract from arXiv page")
}

func TestArxivAbstractURL(t *testing.T) {
	gt.Value(t, fetch.ArxivAbstractURL("https://arxiv.org/pdf/2401.00001v2.pdf")).Equal("https://arxiv.org/abs/2401.00001v2")
	gt.Value(t, fetch.ArxivAbstractURL("https://arxiv.org/pdf/2401.00001")).Equal("https://arxiv.org/abs/2401.00001")
	gt.Value(t, fetch.ArxivAbstractURL("https://arxiv.org/abs/2401.00001")).Equal("https://arxiv.org/abs/2401.00001")
}

func TestParseHTMLPage(t *testing.T) {
	testCases := []struct {
		name     string
		page     string
		title    string
		abstract string
		success  bool
	}{
		{
			name:     "abstract class",
			page:     `<html><head><title>Site</title></head><body><h1>Paper Title</h1><div class="paper-abstract">An abstract.</div></body></html>`,
			title:    "Paper Title",
			abstract: "An abstract.",
			success:  true,
		},
		{
			name:     "paragraph starting with abstract",
			page:     `<html><head><title>Only Title</title></head><body><p>Intro</p><p>Abstract: we study things.</p></body></html>`,
			title:    "Only Title",
			abstract: "Abstract: we study things.",
			success:  true,
		},
		{
			name:     "meta description",
			page:     `<html><head><title>T</title><meta name="description" content="Meta summary."></head><body></body></html>`,
			title:    "T",
			abstract: "Meta summary.",
			success:  true,
		},
		{
			name:     "long paragraphs",
			page:     `<html><body><h1>H</h1><p>short</p><p>` + strings.Repeat("word ", 30) + `</p></body></html>`,
			title:    "H",
			abstract: strings.TrimSpace(strings.Repeat("word ", 30)),
			success:  true,
		},
		{
			name:    "empty page",
			page:    `<html><body></body></html>`,
			success: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := fetch.ParseHTMLPage([]byte(tc.page))
			gt.NoError(t, err).Required()
			gt.Value(t, res.Success).Equal(tc.success)
			gt.Value(t, res.Title).Equal(tc.title)
			gt.Value(t, res.Abstract).Equal(tc.abstract)
		})
	}
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/paper":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><h1>Served Paper</h1><section id="abstract">Served abstract.</section></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := fetch.New(fetch.WithHTTPClient(srv.Client()))
	ctx := context.Background()

	t.Run("html page", func(t *testing.T) {
		res := client.Fetch(ctx, srv.URL+"/paper")
		gt.Bool(t, res.Success).True()
		gt.Value(t, res.Title).Equal("Served Paper")
		gt.Value(t, res.Abstract).Equal("Served abstract.")
	})

	t.Run("http error", func(t *testing.T) {
		res := client.Fetch(ctx, srv.URL+"/missing")
		gt.Bool(t, res.Success).False()
		gt.String(t, res.Error).Contains("Failed to fetch/parse")
	})

	t.Run("pdf is unsupported", func(t *testing.T) {
		res := client.Fetch(ctx, srv.URL+"/paper.pdf")
		gt.Bool(t, res.Success).False()
		gt.String(t, res.Error).Contains("PDF extraction is not supported")
	})

	t.Run("bad scheme", func(t *testing.T) {
		res := client.Fetch(ctx, "ftp://example.com/paper")
		gt.Bool(t, res.Success).False()
	})
}
