package htmldoc

import (
	"regexp"

	"golang.org/x/net/html"
)

// boilerplatePattern matches class/id values of containers whose tables are
// navigation or maintenance boxes rather than article content.
var boilerplatePattern = regexp.MustCompile(
	`(?i)(^|[^a-z-])(nav|navbar|navbox|vertical-navbox|navigation|menu|` +
		`sidebar|widget|footer|site-footer|` +
		`metadata|ambox|mbox-small)([^a-z-]|$)`)

// exclusionChecker holds state for determining which elements to exclude.
type exclusionChecker struct {
	mode     NavigationExclusionMode
	bodyNode *html.Node
}

// newExclusionChecker creates a checker for the given mode and document.
func newExclusionChecker(mode NavigationExclusionMode, doc *html.Node) *exclusionChecker {
	checker := &exclusionChecker{mode: mode}

	checker.bodyNode = findElement(doc, "body")
	if checker.bodyNode == nil {
		checker.bodyNode = doc
	}

	return checker
}

// shouldExclude determines if a node should be excluded based on the exclusion mode.
func (ec *exclusionChecker) shouldExclude(n *html.Node) bool {
	if n.Type != html.ElementNode || ec.mode == NavigationExclusionNone {
		return false
	}
	if n.Data == "html" || n.Data == "body" {
		return false
	}

	if ec.shouldExcludeExplicit(n) {
		return true
	}

	if ec.mode >= NavigationExclusionStandard {
		return shouldExcludeByPattern(n)
	}

	return false
}

// shouldExcludeExplicit checks for explicit semantic HTML5 elements and ARIA roles.
func (ec *exclusionChecker) shouldExcludeExplicit(n *html.Node) bool {
	switch n.Data {
	case "nav", "aside":
		return true
	case "header", "footer":
		// Only page-level headers and footers; articles may use them for content.
		return n.Parent == ec.bodyNode
	}

	switch getAttr(n, "role") {
	case "navigation", "complementary":
		return true
	}

	return false
}

// shouldExcludeByPattern checks class and id attributes for boilerplate patterns.
func shouldExcludeByPattern(n *html.Node) bool {
	if class := getAttr(n, "class"); class != "" && boilerplatePattern.MatchString(class) {
		return true
	}
	if id := getAttr(n, "id"); id != "" && boilerplatePattern.MatchString(id) {
		return true
	}
	return false
}

// getAttr returns the value of an attribute on a node, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
