package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/secmon-lab/dualscope/pkg/utils/safe"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 5 << 20
	userAgent      = "dualscope/1.0 (+https://github.com/secmon-lab/dualscope)"
)

// Client fetches paper pages and extracts a title and abstract
type Client struct {
	httpClient *http.Client
}

// Option is a functional option for Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// New creates a fetch client
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves rawURL and extracts paper metadata. Errors are reported in the result.
func (c *Client) Fetch(ctx context.Context, rawURL string) model.FetchResult {
	result, err := c.fetch(ctx, rawURL)
	if err != nil {
		logging.From(ctx).Warn("failed to fetch paper URL",
			slog.String("url", rawURL),
			slog.Any("error", err))
		return model.FetchResult{
			Success: false,
			Error:   "Failed to fetch/parse: " + err.Error(),
		}
	}
	return result
}

func (c *Client) fetch(ctx context.Context, rawURL string) (model.FetchResult, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return model.FetchResult{}, goerr.Wrap(err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return model.FetchResult{}, goerr.New("unsupported URL scheme", goerr.V("scheme", u.Scheme))
	}

	if isArxiv(u) {
		body, err := c.get(ctx, arxivAbstractURL(u))
		if err != nil {
			return model.FetchResult{}, err
		}
		return parseArxiv(body)
	}

	if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return model.FetchResult{
			Success: false,
			Error:   "PDF extraction is not supported; paste the title and abstract instead",
		}, nil
	}

	body, err := c.get(ctx, u.String())
	if err != nil {
		return model.FetchResult{}, err
	}
	return parseHTMLPage(body)
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", target))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "request failed", goerr.V("url", target))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, goerr.New("unexpected HTTP status",
			goerr.V("url", target),
			goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body", goerr.V("url", target))
	}
	return body, nil
}

func isArxiv(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == "arxiv.org" || strings.HasSuffix(host, ".arxiv.org")
}

// arxivAbstractURL maps /pdf/<id>[.pdf] to the /abs/<id> landing page
func arxivAbstractURL(u *url.URL) string {
	out := *u
	if strings.Contains(out.Path, "/pdf/") {
		out.Path = strings.TrimSuffix(strings.Replace(out.Path, "/pdf/", "/abs/", 1), ".pdf")
		out.RawPath = ""
	}
	return out.String()
}
