package fetch

import "net/url"

var (
	ParseArxiv    = parseArxiv
	ParseHTMLPage = parseHTMLPage
)

func ArxivAbstractURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return arxivAbstractURL(u)
}
