package preview

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// document is the subset of a parsed page the extractors read.
type document struct {
	requestedURL string
	openGraph    map[string]string
	firstText    map[atom.Atom]string
	firstImage   string
	sawImage     bool
}

type extractor func(d *document) string

// Each field tries its extractors in order; the first non-empty result wins.
var (
	titleExtractors = []extractor{
		openGraph("og:title"), firstText(atom.Title), firstText(atom.H1), firstText(atom.H2),
	}
	descriptionExtractors = []extractor{openGraph("og:description"), firstText(atom.P)}
	urlExtractors         = []extractor{openGraph("og:url"), requestedURL}
	imageExtractors       = []extractor{openGraph("og:image"), firstImageSource}
)

var textTags = map[atom.Atom]bool{atom.Title: true, atom.H1: true, atom.H2: true, atom.P: true}

// Extract parses body as HTML and builds the preview of requestedURL.
func Extract(body []byte, requestedURL string) (*Data, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	doc := &document{
		requestedURL: requestedURL,
		openGraph:    make(map[string]string),
		firstText:    make(map[atom.Atom]string),
	}
	doc.walk(root)

	return &Data{
		Title:        first(doc, titleExtractors),
		Description:  first(doc, descriptionExtractors),
		CanonicalURL: first(doc, urlExtractors),
		ImageURL:     first(doc, imageExtractors),
	}, nil
}

func first(d *document, extractors []extractor) string {
	for _, extract := range extractors {
		if v := extract(d); v != "" {
			return v
		}
	}

	return ""
}

func openGraph(property string) extractor {
	return func(d *document) string {
		return d.openGraph[property]
	}
}

func firstText(tag atom.Atom) extractor {
	return func(d *document) string {
		return d.firstText[tag]
	}
}

func requestedURL(d *document) string {
	return d.requestedURL
}

func firstImageSource(d *document) string {
	return d.firstImage
}

func (d *document) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch {
		case n.DataAtom == atom.Meta:
			d.readMeta(n)
		case n.DataAtom == atom.Img && !d.sawImage:
			d.sawImage = true
			d.firstImage = strings.TrimSpace(attr(n, "src"))
		case textTags[n.DataAtom]:
			if _, done := d.firstText[n.DataAtom]; !done {
				if text := textContent(n); text != "" {
					d.firstText[n.DataAtom] = text
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c)
	}
}

func (d *document) readMeta(n *html.Node) {
	key := attr(n, "property")
	if key == "" {
		key = attr(n, "name")
	}

	key = strings.ToLower(strings.TrimSpace(key))
	if !strings.HasPrefix(key, "og:") {
		return
	}

	if _, seen := d.openGraph[key]; seen {
		return
	}

	if content := strings.TrimSpace(attr(n, "content")); content != "" {
		d.openGraph[key] = content
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}

	return ""
}

// textContent joins the descendant text of n with whitespace collapsed.
func textContent(n *html.Node) string {
	var sb strings.Builder

	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	return strings.Join(strings.Fields(sb.String()), " ")
}
