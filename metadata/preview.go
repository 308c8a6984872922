package metadata

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// miscodes maps the typos that show up in the preview index to the real
// tournament codes.
var miscodes = map[string]string{
	"8xx":            "8XX",
	"B-17":           "B17",
	"Iron Men - WSM": "WSM",
}

// skipPreviews are index cells that link category pages, not tournaments.
var skipPreviews = map[string]bool{
	"Juniors":        true,
	"Junior Events":  true,
	"Seminars":       true,
	"Demo":           true,
	"Demos":          true,
	"Demonstrations": true,
}

// ParsePreviewIndex extracts the tournament code → preview URL table from
// the yearly preview index page. Fetching the page is the caller's
// business; this only parses. Relative links are joined to siteURL.
func ParsePreviewIndex(r io.Reader, siteURL string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse preview index: %w", err)
	}

	urls := make(map[string]string)
	doc.Find("td").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Find("a").Attr("href")
		if !ok {
			return
		}

		code := previewCode(s.Text())
		if code == "" || skipPreviews[code] {
			return
		}
		if fixed, ok := miscodes[code]; ok {
			code = fixed
		} else {
			code = strings.ToUpper(code)
		}

		if strings.HasPrefix(href, "http") {
			urls[code] = href
		} else {
			urls[code] = strings.TrimSuffix(siteURL, "/") + "/" + href
		}
	})

	return urls, nil
}

// previewCode pulls the event code out of a preview cell: the last text
// token, ignoring update stamps and under-construction markers.
func previewCode(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	tokens := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			tokens = append(tokens, l)
		}
	}
	last := len(tokens) - 1
	for last >= 0 {
		switch {
		case strings.HasPrefix(tokens[last], "Under Construction"):
			return ""
		case strings.HasPrefix(tokens[last], "Updated"):
			last--
		default:
			return strings.Trim(tokens[last], "()")
		}
	}
	return ""
}
