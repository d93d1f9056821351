package markdown

import (
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// MissingAnchors returns the in-page fragments linked from r (href="#...")
// that no element in r carries as its id, in document order and without
// duplicates.
func MissingAnchors(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{})
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			ids[id] = struct{}{}
		}
	})

	var missing []string
	seen := make(map[string]struct{})
	doc.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		frag := href[1:]
		if frag == "" {
			return
		}
		if u, err := url.PathUnescape(frag); err == nil {
			frag = u
		}
		if _, ok := ids[frag]; ok {
			return
		}
		if _, ok := seen[frag]; ok {
			return
		}
		seen[frag] = struct{}{}
		missing = append(missing, frag)
	})
	return missing, nil
}
