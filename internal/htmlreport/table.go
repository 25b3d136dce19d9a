package htmlreport

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractRows finds the section's data table and returns all rows after
// the header row as trimmed cell text. Header cells (<th>) are not data;
// only <td> content is collected. A section without a table yields an
// empty result, not an error.
func ExtractRows(section *Section) [][]string {
	table := section.table()
	if table == nil {
		return nil
	}

	var rows [][]string
	for _, tr := range tableRows(table) {
		cells := rowCells(tr)
		if cells != nil {
			rows = append(rows, cells)
		}
	}
	if len(rows) <= 1 {
		return nil
	}
	// The first row is the header.
	return rows[1:]
}

// tableRows collects the <tr> elements of table in document order,
// including those nested under <thead>/<tbody>, but not rows of any
// nested table.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			switch child.DataAtom {
			case atom.Tr:
				rows = append(rows, child)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(child)
			case atom.Table:
				// nested table belongs to its own extraction
			}
		}
	}
	walk(table)
	return rows
}

// rowCells returns the trimmed text of each <td> in tr. Header rows made
// only of <th> cells return an empty (non-nil) slice so they still count
// toward the header-row skip; rows with no cells at all return nil.
func rowCells(tr *html.Node) []string {
	var cells []string
	hasTH := false
	for child := tr.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch child.DataAtom {
		case atom.Td:
			cells = append(cells, collectText(child))
		case atom.Th:
			hasTH = true
		}
	}
	if len(cells) == 0 && hasTH {
		return []string{}
	}
	return cells
}

// table resolves the section's data table. Heading matches take the first
// table after the heading in document order; id matches take the first
// table inside the container.
func (s *Section) table() *html.Node {
	if s == nil || s.node == nil {
		return nil
	}
	if s.heading != nil {
		return nextElement(s.node, s.heading, atom.Table)
	}
	return firstElement(s.node, atom.Table)
}

func firstElement(root *html.Node, a atom.Atom) *html.Node {
	if root == nil {
		return nil
	}
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
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

// CoerceFloat parses a report cell into a number. It strips surrounding
// whitespace, thousands separators and a trailing percent sign. Failure
// returns (0, false); callers must record a missing-value marker, never a
// zero. Coercion applies per cell: one bad cell never invalidates the
// row's other fields.
func CoerceFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
