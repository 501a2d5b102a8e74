package fetch

import (
	"bytes"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"golang.org/x/net/html"
)

const (
	minParagraphLen  = 100
	maxFallbackChars = 1500
)

func parseArxiv(body []byte) (model.FetchResult, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return model.FetchResult{}, goerr.Wrap(err, "failed to parse arXiv page")
	}

	var title, abstract string
	if n := findFirst(doc, func(n *html.Node) bool { return isElement(n, "h1") && hasClass(n, "title") }); n != nil {
		title = strings.TrimSpace(strings.ReplaceAll(textOf(n), "Title:", ""))
	}
	if n := findFirst(doc, func(n *html.Node) bool { return isElement(n, "blockquote") && hasClass(n, "abstract") }); n != nil {
		abstract = strings.TrimSpace(strings.ReplaceAll(textOf(n), "Abstract:", ""))
	}

	if title == "" && abstract == "" {
		return model.FetchResult{
			Success: false,
			Error:   "Could not extract title/abstract from arXiv page",
		}, nil
	}

	return model.FetchResult{
		Title:    collapseSpace(title),
		Abstract: collapseSpace(abstract),
		Success:  true,
	}, nil
}

func parseHTMLPage(body []byte) (model.FetchResult, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return model.FetchResult{}, goerr.Wrap(err, "failed to parse HTML page")
	}

	title := pageTitle(doc)
	abstract := pageAbstract(doc)

	if title == "" && abstract == "" {
		return model.FetchResult{
			Success: false,
			Error:   "Could not extract content from page",
		}, nil
	}

	return model.FetchResult{
		Title:    title,
		Abstract: abstract,
		Success:  true,
	}, nil
}

func pageTitle(doc *html.Node) string {
	matchers := []func(*html.Node) bool{
		func(n *html.Node) bool { return isElement(n, "h1") },
		func(n *html.Node) bool { return isElement(n, "title") },
		func(n *html.Node) bool { return n.Type == html.ElementNode && hasClass(n, "paper-title") },
		func(n *html.Node) bool { return n.Type == html.ElementNode && hasClass(n, "article-title") },
	}
	for _, match := range matchers {
		if n := findFirst(doc, match); n != nil {
			if t := collapseSpace(textOf(n)); t != "" {
				return t
			}
		}
	}

	return metaContent(doc, "og:title")
}

func pageAbstract(doc *html.Node) string {
	n := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (attr(n, "id") == "abstract" || strings.Contains(attr(n, "class"), "abstract"))
	})
	if n != nil {
		if t := collapseSpace(textOf(n)); t != "" {
			return t
		}
	}

	for _, p := range findAll(doc, func(n *html.Node) bool { return isElement(n, "p") }) {
		t := collapseSpace(textOf(p))
		if strings.HasPrefix(strings.ToLower(t), "abstract") {
			return t
		}
	}

	for _, name := range []string{"description", "og:description"} {
		if d := metaContent(doc, name); d != "" {
			return d
		}
	}

	var sb strings.Builder
	for _, p := range findAll(doc, func(n *html.Node) bool { return isElement(n, "p") }) {
		t := collapseSpace(textOf(p))
		if len(t) < minParagraphLen {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(t)
		if sb.Len() >= maxFallbackChars {
			break
		}
	}
	return truncateRunes(sb.String(), maxFallbackChars)
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func metaContent(doc *html.Node, name string) string {
	n := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "meta") && (attr(n, "name") == name || attr(n, "property") == name)
	})
	if n == nil {
		return ""
	}
	return collapseSpace(attr(n, "content"))
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
