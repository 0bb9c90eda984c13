package docgen

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"docimage/ast"
	"docimage/ast/extension"
	"docimage/backends"
	"docimage/logging"
	"docimage/modules"
	"docimage/rewrite"

	"github.com/urfave/cli/v2"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Embedded images other than png, gif, jpeg and webp count as dangerous
// URLs to goldmark, so raw rendering is on.
var gm = goldmark.New(
	goldmark.WithExtensions(
		&extension.ImageMarkerExtender{},
	),
	goldmark.WithParser(
		goldmark.DefaultParser(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
)

// docText is the documentation of decl including generated fragments.
func docText(decl *ast.Declaration) string {
	var lines []string
	for _, c := range decl.Group.Comments {
		if c.Role != ast.RoleDirective {
			lines = append(lines, strings.TrimPrefix(c.Text, "//"))
		}
	}
	return ast.DocText(lines)
}

func signatureOf(decl *ast.Declaration, src []byte) string {
	sig := src[decl.Span.Start:decl.Span.End]
	if i := bytes.IndexByte(sig, '\n'); i >= 0 {
		sig = sig[:i]
	}
	return strings.TrimSpace(string(sig))
}

func renderDeclaration(sb *strings.Builder, decl *ast.Declaration, src []byte, sym Symbol) error {
	docs := ast.FromDocumentationComment(docText(decl))

	rend := func(t gmast.Node) error {
		return gm.Renderer().Render(sb, docs.Source, t)
	}

	sb.WriteString(fmt.Sprintf(`<h2 id="%s"><span class="category">%s</span> %s</h2>`,
		sym.Anchor, decl.Category, template.HTMLEscapeString(sym.Name)))

	if docs.Summary != nil {
		if err := rend(docs.Summary); err != nil {
			return err
		}
	}

	sb.WriteString(fmt.Sprintf(`<pre><code>%s</code></pre>`, template.HTMLEscapeString(signatureOf(decl, src))))

	for _, disc := range docs.Discussion {
		if err := rend(disc); err != nil {
			return err
		}
	}

	return nil
}

// RenderSource rewrites a Go file in memory and renders the documentation
// of its annotated declarations. rel names the page.
func RenderSource(root, rel, name string, src []byte) (*Page, error) {
	result, _, err := rewrite.Source(root, name, src)
	if err != nil {
		return nil, err
	}

	f, err := ast.ParseFile(name, result)
	if err != nil {
		return nil, err
	}

	page := &Page{Source: rel, Href: rel + ".html", Title: rel}

	var main strings.Builder
	main.WriteString(fmt.Sprintf("<h1>%s</h1>", template.HTMLEscapeString(rel)))

	for _, decl := range f.Declarations {
		sym := Symbol{
			Category: decl.Category,
			Name:     decl.Name,
			Anchor:   fmt.Sprintf("L%d", decl.Pos.Line),
		}
		if sym.Name == "" {
			sym.Name = decl.Category.String()
		}
		page.Symbols = append(page.Symbols, sym)

		if err := renderDeclaration(&main, decl, result, sym); err != nil {
			return nil, err
		}
	}

	page.Main = main.String()
	return page, nil
}

// RenderDocument rewrites a Markdown document in memory and renders it.
func RenderDocument(root, rel, name string, src []byte) (*Page, error) {
	result, _, err := rewrite.Markdown(root, name, src)
	if err != nil {
		return nil, err
	}

	docs := ast.FromDocumentationComment(string(result))

	page := &Page{Source: rel, Href: rel + ".html", Title: rel}
	if h, ok := docs.Document.FirstChild().(*gmast.Heading); ok && h.Level == 1 {
		page.Title = string(h.Text(docs.Source))
	}

	var main strings.Builder
	if err := gm.Renderer().Render(&main, docs.Source, docs.Document); err != nil {
		return nil, err
	}

	page.Main = main.String()
	return page, nil
}

func writePage(outdir string, sections []Section, href, title, main string) error {
	args := TemplateArguments{
		Title:           title,
		Stylesheet:      relativeHref(href, "main.css"),
		Index:           relativeHref(href, "index.html"),
		TableOfContents: template.HTML(renderTableOfContents(sections, href)),
		Main:            template.HTML(main),
	}

	var out bytes.Buffer
	if err := Template.Execute(&out, args); err != nil {
		return err
	}

	dest := filepath.Join(outdir, filepath.FromSlash(href))
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return err
	}
	return os.WriteFile(dest, out.Bytes(), 0660)
}

// Preview renders files into outdir: one page per file, an index and the
// stylesheet. Every file is rendered before anything is written.
func Preview(w *modules.Workspace, outdir string, files []string) error {
	var pages []*Page
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		rel := filepath.ToSlash(w.Rel(file))

		var page *Page
		if filepath.Ext(file) == ".go" {
			page, err = RenderSource(w.Root, rel, file, src)
			if err == nil && len(page.Symbols) == 0 {
				continue
			}
		} else {
			page, err = RenderDocument(w.Root, rel, file, src)
		}
		if err != nil {
			return err
		}
		pages = append(pages, page)
	}

	if err := os.MkdirAll(outdir, 0750); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outdir, "main.css"), []byte(css), 0660); err != nil {
		return err
	}

	sections := DefaultStructure(pages)

	for _, page := range pages {
		if err := writePage(outdir, sections, page.Href, page.Title, page.Main); err != nil {
			return err
		}
		logging.Rewritten(page.Source, filepath.Join(outdir, filepath.FromSlash(page.Href)), len(page.Symbols))
	}

	var index strings.Builder
	index.WriteString("<h1>Preview</h1>")
	for _, sect := range sections {
		sect.renderTableOfContentsTo(&index, "index.html")
	}

	return writePage(outdir, sections, "index.html", "Preview", index.String())
}

var Command = &cli.Command{
	Name:      "preview",
	Usage:     "Render documentation with its embedded images to static HTML",
	ArgsUsage: "[FILES...]",
	Flags: backends.Flags(&cli.StringFlag{
		Name:    "outdir",
		Usage:   "The directory to write the HTML preview to",
		Aliases: []string{"o"},
	}),
	Action: func(cCtx *cli.Context) error {
		w, err := backends.LoadWorkspace(cCtx)
		if err != nil {
			return err
		}

		outdir := cCtx.String("outdir")
		if outdir == "" {
			outdir = w.Module.Outdir
		}
		if outdir == "" {
			return fmt.Errorf("preview needs an output directory, use --outdir")
		}

		files := cCtx.Args().Slice()
		if len(files) == 0 {
			gofiles, err := w.GoFiles()
			if err != nil {
				return err
			}
			docs, err := w.MarkdownFiles()
			if err != nil {
				return err
			}
			files = append(docs, gofiles...)
		}

		return Preview(w, outdir, files)
	},
}
