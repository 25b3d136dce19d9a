package htmlreport

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the parsed tree of one uploaded report. It is owned by the
// normalization call that produced it and discarded after use.
type Document struct {
	root *html.Node
}

// ParseDocument parses raw report bytes into a navigable document tree.
func ParseDocument(data []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// SectionID identifies a report section either by exact element id or by a
// case-insensitive pattern matched against element ids and heading text.
type SectionID struct {
	id      string
	pattern *regexp.Regexp
}

// ByID matches a section container by its exact id attribute.
func ByID(id string) SectionID {
	return SectionID{id: id}
}

// ByPattern matches a section by a case-insensitive regular expression
// applied to element ids and heading text. The expression must compile;
// candidates are package-level constants, so a bad pattern is a bug.
func ByPattern(expr string) SectionID {
	return SectionID{pattern: regexp.MustCompile("(?i)" + expr)}
}

// Section is one located report section. A heading match records the
// heading node so extraction searches forward from it: in flat markup the
// heading's parent holds every sibling section, and scanning the whole
// parent would pick up the wrong table.
type Section struct {
	node    *html.Node
	heading *html.Node
}

// FindSection returns the first section matching any of the candidates,
// tried in priority order. Absence returns nil, never an error: callers
// treat a missing section as "this layout lacks it".
func (d *Document) FindSection(candidates ...SectionID) *Section {
	if d == nil || d.root == nil {
		return nil
	}
	for _, c := range candidates {
		if s := findSectionNode(d.root, c); s != nil {
			return s
		}
	}
	return nil
}

func findSectionNode(root *html.Node, c SectionID) *Section {
	var found *Section
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode {
			if id, ok := nodeAttr(n, "id"); ok {
				if c.id != "" && id == c.id {
					found = &Section{node: n}
					return
				}
				if c.pattern != nil && c.pattern.MatchString(id) {
					found = &Section{node: n}
					return
				}
			}
			if c.pattern != nil && isHeading(n) && c.pattern.MatchString(collectText(n)) {
				scope := n
				if n.Parent != nil {
					scope = n.Parent
				}
				found = &Section{node: scope, heading: n}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return found
}

// FieldAfterLabel finds the text node equal to label inside section and
// returns the trimmed text of the next <td> element in document order.
// Returns ("", false) when the label or its value cell is absent.
func FieldAfterLabel(section *Section, label string) (string, bool) {
	if section == nil || section.node == nil {
		return "", false
	}
	labelNode := section.findLabel(label)
	if labelNode == nil {
		return "", false
	}
	td := nextElement(section.node, labelNode, atom.Td)
	if td == nil {
		return "", false
	}
	return collectText(td), true
}

// findLabel locates the label's text node, searching forward from the
// heading when the section was matched by heading text.
func (s *Section) findLabel(label string) *html.Node {
	if s.heading != nil {
		return textNodeAfter(s.node, s.heading, label)
	}
	return findTextNode(s.node, label)
}

// findTextNode locates the first text node whose trimmed content equals s.
func findTextNode(root *html.Node, s string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == s {
			found = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return found
}

// textNodeAfter locates the first text node whose trimmed content equals s
// strictly after marker in a depth-first traversal of root.
func textNodeAfter(root, marker *html.Node, s string) *html.Node {
	var found *html.Node
	passed := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n == marker {
			passed = true
		} else if passed && n.Type == html.TextNode && strings.TrimSpace(n.Data) == s {
			found = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return found
}

// nextElement returns the first element with the given atom that appears
// strictly after marker in a depth-first traversal of root, excluding
// marker's own ancestors' earlier content.
func nextElement(root, marker *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	passed := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n == marker {
			passed = true
		} else if passed && n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return found
}

func nodeAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Caption:
		return true
	}
	return false
}

// collectText extracts all visible text from a node subtree, single-space
// separated and trimmed.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
