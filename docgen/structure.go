package docgen

import (
	"fmt"
	"html"
	"path"
	"strings"

	"docimage/ast"
)

// Page is one rendered input file.
type Page struct {
	// Source is the input path relative to the workspace.
	Source string
	// Href is the page path relative to the output directory.
	Href  string
	Title string

	Symbols []Symbol
	Main    string
}

// Symbol is an annotated declaration shown on a page.
type Symbol struct {
	Category ast.Category
	Name     string
	Anchor   string
}

type Section struct {
	Title string
	Items []Item
}

type Item struct {
	Page     *Page
	Children []Symbol
}

// DefaultStructure groups pages into Go sources and documents.
func DefaultStructure(pages []*Page) []Section {
	var sources, documents []Item
	for _, p := range pages {
		if strings.HasSuffix(p.Source, ".go") {
			sources = append(sources, Item{Page: p, Children: p.Symbols})
		} else {
			documents = append(documents, Item{Page: p})
		}
	}

	var sections []Section
	if len(documents) > 0 {
		sections = append(sections, Section{Title: "Documents", Items: documents})
	}
	if len(sources) > 0 {
		sections = append(sections, Section{Title: "Sources", Items: sources})
	}
	return sections
}

// relativeHref returns the link to target from a page at from.
func relativeHref(from, target string) string {
	dir := path.Dir(from)
	if dir == "." {
		return target
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1) + target
}

func (sect Section) renderTableOfContentsTo(sb *strings.Builder, currently string) {
	sb.WriteString(fmt.Sprintf(`<h3>%s</h3>`, html.EscapeString(sect.Title)))
	sb.WriteString("<ul>")
	for _, item := range sect.Items {
		sb.WriteString("<li>")
		item.renderTableOfContentsTo(sb, currently)
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
}

func (item Item) renderTableOfContentsTo(sb *strings.Builder, currently string) {
	url := relativeHref(currently, item.Page.Href)

	sb.WriteString(fmt.Sprintf(`<a href="%s" class="`, html.EscapeString(url)))
	if item.Page.Href == currently {
		sb.WriteString("is-current")
	}
	sb.WriteString(fmt.Sprintf(`">%s</a>`, html.EscapeString(item.Page.Title)))

	if len(item.Children) == 0 {
		return
	}
	sb.WriteString("<ul>")
	for _, sym := range item.Children {
		sb.WriteString(fmt.Sprintf(`<li><a class="code symbol-%s" href="%s#%s">%s</a></li>`,
			strings.ReplaceAll(sym.Category.String(), " ", "-"), html.EscapeString(url), sym.Anchor, html.EscapeString(sym.Name)))
	}
	sb.WriteString("</ul>")
}

func renderTableOfContents(sections []Section, currently string) string {
	var sb strings.Builder
	for _, sect := range sections {
		sect.renderTableOfContentsTo(&sb, currently)
	}
	return sb.String()
}
