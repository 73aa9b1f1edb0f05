package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// pageDetails holds fields scraped from a posting page. Empty fields are
// left unset on the posting rather than failing the record.
type pageDetails struct {
	Company     string
	Location    string
	Salary      string
	Description string
	PostingDate string
}

const maxDescriptionLength = 2000

// extractDetails dispatches to site-specific selectors, falling back to
// generic heuristics for unknown platforms.
func extractDetails(doc *html.Node, siteDomain string) pageDetails {
	var details pageDetails
	switch {
	case strings.Contains(siteDomain, "greenhouse.io"):
		details = extractGreenhouse(doc)
	case strings.Contains(siteDomain, "lever.co"):
		details = extractLever(doc)
	case strings.Contains(siteDomain, "myworkdayjobs.com"):
		details = extractWorkday(doc)
	default:
		details = extractGeneric(doc)
	}

	if details.PostingDate == "" {
		details.PostingDate = metaContent(doc, "article:published_time", "datePublished")
	}
	return details
}

func extractGreenhouse(doc *html.Node) pageDetails {
	d := pageDetails{}
	if n := findByClass(doc, "span", "company-name"); n != nil {
		d.Company = nodeText(n)
	}
	if n := findByClass(doc, "div", "location"); n != nil {
		d.Location = nodeText(n)
	}
	if n := findByID(doc, "content"); n != nil {
		d.Description = truncate(nodeText(n), maxDescriptionLength)
	}
	if d.Description == "" {
		d.Description = genericDescription(doc)
	}
	return d
}

func extractLever(doc *html.Node) pageDetails {
	d := pageDetails{}
	if n := findByClass(doc, "div", "company-name"); n != nil {
		d.Company = nodeText(n)
	} else if n := findByClass(doc, "a", "company-name"); n != nil {
		d.Company = nodeText(n)
	}
	if n := findByClass(doc, "span", "location"); n != nil {
		d.Location = nodeText(n)
	}
	d.Description = genericDescription(doc)
	return d
}

func extractWorkday(doc *html.Node) pageDetails {
	d := pageDetails{}
	if n := findByAttr(doc, "data-automation-id", "company-name"); n != nil {
		d.Company = nodeText(n)
	}
	if n := findByAttr(doc, "data-automation-id", "locations"); n != nil {
		d.Location = nodeText(n)
	}
	d.Description = genericDescription(doc)
	return d
}

// extractGeneric pulls best-effort fields out of unknown page layouts.
func extractGeneric(doc *html.Node) pageDetails {
	d := pageDetails{}

	// A short leading heading is usually the company or the role.
	for _, tag := range []string{"h1", "h2"} {
		if n := findByTag(doc, tag); n != nil {
			text := nodeText(n)
			if text != "" && len(text) < 100 {
				d.Company = text
				break
			}
		}
	}
	if n := findByClassContains(doc, "company"); n != nil {
		if text := nodeText(n); text != "" && len(text) < 100 {
			d.Company = text
		}
	}

	d.Description = genericDescription(doc)
	return d
}

func genericDescription(doc *html.Node) string {
	for _, tag := range []string{"main", "article"} {
		if n := findByTag(doc, tag); n != nil {
			if text := nodeText(n); text != "" {
				return truncate(text, maxDescriptionLength)
			}
		}
	}
	if n := findByClassContains(doc, "description"); n != nil {
		if text := nodeText(n); text != "" {
			return truncate(text, maxDescriptionLength)
		}
	}
	if n := findByTag(doc, "body"); n != nil {
		return truncate(nodeText(n), maxDescriptionLength)
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// ── html tree walking ──────────────────────────────────────────────

func walk(n *html.Node, visit func(*html.Node) bool) *html.Node {
	if visit(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := walk(c, visit); found != nil {
			return found
		}
	}
	return nil
}

func findByTag(doc *html.Node, tag string) *html.Node {
	return walk(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	})
}

func findByID(doc *html.Node, id string) *html.Node {
	return walk(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrValue(n, "id") == id
	})
}

func findByClass(doc *html.Node, tag, class string) *html.Node {
	return walk(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag && hasClass(n, class)
	})
}

func findByClassContains(doc *html.Node, fragment string) *html.Node {
	return walk(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && strings.Contains(attrValue(n, "class"), fragment)
	})
}

func findByAttr(doc *html.Node, key, value string) *html.Node {
	return walk(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrValue(n, key) == value
	})
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// nodeText returns the visible text under a node, whitespace collapsed.
// Script and style subtrees are skipped.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return CleanText(sb.String())
}

// metaContent returns the first matching meta tag content.
func metaContent(doc *html.Node, properties ...string) string {
	var content string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "meta" {
			return false
		}
		key := attrValue(n, "property")
		if key == "" {
			key = attrValue(n, "name")
		}
		for _, p := range properties {
			if key == p {
				content = attrValue(n, "content")
				return true
			}
		}
		return false
	})
	return content
}
