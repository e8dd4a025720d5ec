// Package htmldoc provides HTML table parsing.
package htmldoc

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Reader provides access to the tables of an HTML document.
type Reader struct {
	doc    *html.Node
	title  string
	tables []*ParsedTable
}

// Options configures table collection.
type Options struct {
	Navigation NavigationExclusionMode
}

// DefaultOptions returns the options used by Open and OpenReader. Every
// table is collected, including navigation and sidebar tables.
func DefaultOptions() Options {
	return Options{Navigation: NavigationExclusionNone}
}

// Open opens an HTML file for reading.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses HTML from an io.Reader using DefaultOptions.
func OpenReader(r io.Reader) (*Reader, error) {
	return OpenReaderWithOptions(r, DefaultOptions())
}

// OpenString parses HTML held in a string.
func OpenString(s string) (*Reader, error) {
	return OpenReader(strings.NewReader(s))
}

// OpenReaderWithOptions parses HTML from an io.Reader and collects every
// table in document order.
func OpenReaderWithOptions(r io.Reader, opts Options) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{
		doc:    doc,
		tables: make([]*ParsedTable, 0),
	}

	reader.extractTitle(doc)

	checker := newExclusionChecker(opts.Navigation, doc)
	reader.collectTables(doc, checker)

	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// Title returns the text of the document's <title> element.
func (r *Reader) Title() string {
	return r.title
}

// Tables returns the parsed tables in document order.
func (r *Reader) Tables() []*ParsedTable {
	return r.tables
}

// extractTitle finds the <title> element in the head.
func (r *Reader) extractTitle(n *html.Node) {
	if title := findElement(n, "title"); title != nil {
		r.title = getTextContent(title)
	}
}

// collectTables walks the tree and parses each table it meets. Tables nested
// inside a cell are collected after their enclosing table.
func (r *Reader) collectTables(n *html.Node, checker *exclusionChecker) {
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) || checker.shouldExclude(n) {
			return
		}
		if n.Data == "table" {
			table := r.parseTable(n)
			if len(table.Rows) > 0 {
				r.tables = append(r.tables, table)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.collectTables(c, checker)
	}
}

// parseTable extracts a table from an HTML table element.
func (r *Reader) parseTable(tableNode *html.Node) *ParsedTable {
	table := &ParsedTable{
		Rows:  make([][]TableCell, 0),
		Class: getAttr(tableNode, "class"),
	}

	// Find thead, tbody, tfoot, caption or direct tr children
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "caption":
				table.Caption = getTextContent(c)
			case "thead":
				table.HasHeader = true
				r.parseTableRows(c, table, true)
			case "tbody", "tfoot":
				r.parseTableRows(c, table, false)
			case "tr":
				row := r.parseTableRow(c, false)
				if len(row) > 0 {
					table.Rows = append(table.Rows, row)
				}
			}
		}
	}

	// If no explicit header but first row has th elements, mark as header
	if !table.HasHeader && len(table.Rows) > 0 {
		for _, cell := range table.Rows[0] {
			if cell.IsHeader {
				table.HasHeader = true
				break
			}
		}
	}

	return table
}

// parseTableRows parses rows within thead, tbody or tfoot.
func (r *Reader) parseTableRows(section *html.Node, table *ParsedTable, isHeader bool) {
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			row := r.parseTableRow(c, isHeader)
			if len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		}
	}
}

// parseTableRow parses a single table row.
func (r *Reader) parseTableRow(tr *html.Node, isHeader bool) []TableCell {
	row := make([]TableCell, 0)

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cell := TableCell{
				Text:     cellText(c),
				IsHeader: isHeader || c.Data == "th",
				RowSpan:  spanAttr(c, "rowspan"),
				ColSpan:  spanAttr(c, "colspan"),
			}
			row = append(row, cell)
		}
	}

	return row
}

// spanAttr parses a rowspan or colspan attribute, defaulting to 1.
// Browsers clamp colspan to 1000 and rowspan to 65534.
func spanAttr(n *html.Node, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(getAttr(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	limit := 65534
	if key == "colspan" {
		limit = 1000
	}
	return min(v, limit)
}

// cellText returns the text of a cell without the content of nested tables.
func cellText(n *html.Node) string {
	var result strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "table" {
			continue
		}
		getTextContentRecursive(c, &result)
	}
	return strings.TrimSpace(result.String())
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// getTextContent extracts all text content from a node and its descendants.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.TrimSpace(result.String())
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		// Skip script/style content
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			result.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
	// Add space after certain block elements
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "tr":
			result.WriteString(" ")
		}
	}
}
