// Package checking lints image labels: every image referenced in
// documentation should have a definition, either already written or pending
// from an embed directive, and every directive should be referenced.
package checking

import (
	"fmt"
	"sort"

	"docimage/ast"
	"docimage/diagnostics"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

type Finding struct {
	Severity Severity
	Pos      diagnostics.Position
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Pos, f.Severity, f.Message)
}

// Errors counts the error-severity findings.
func Errors(findings []Finding) int {
	n := 0
	for _, f := range findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

type checker struct {
	findings []Finding
}

func (c *checker) report(sev Severity, pos diagnostics.Position, format string, args ...interface{}) {
	c.findings = append(c.findings, Finding{sev, pos, fmt.Sprintf(format, args...)})
}

// define registers the pending labels in pending and the written reference
// definitions in a child scope, reporting collisions.
func (c *checker) define(pending *Environment, pendingDefs []*Definition, doc *ast.ItemDocumentation, refPos diagnostics.Position) *Environment {
	for _, def := range pendingDefs {
		if prev, ok := pending.Define(def); !ok {
			c.report(SeverityError, def.Pos, "image %q is embedded twice (first at %s)", def.Label, prev.Pos)
			def.used = true
		}
	}

	refs := NewEnvironment(pending)

	labels := make([]string, 0, len(doc.References))
	for label := range doc.References {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		if prev, ok := pending.Search(label); ok {
			c.report(SeverityError, prev.Pos, "image %q is embedded but the documentation already defines it", prev.Label)
			prev.used = true
			continue
		}
		refs.Define(&Definition{Label: label, Origin: OriginReference, Pos: refPos})
	}

	return refs
}

func (c *checker) resolve(env *Environment, ref ast.ImageRef, pos diagnostics.Position) {
	def, ok := env.Search(ref.Label)
	if !ok {
		c.report(SeverityError, pos, "image %q has no definition and no embed directive", ref.Label)
		return
	}
	def.used = true
}

func (c *checker) unused(defs []*Definition) {
	for _, def := range defs {
		if !def.used {
			c.report(SeverityWarning, def.Pos, "embedded image %q is never referenced", def.Label)
		}
	}
}

// CheckDeclaration checks the labels of one annotated declaration. Image
// references are resolved against the declaration's own documentation,
// then against its pending directives.
func CheckDeclaration(decl *ast.Declaration) []Finding {
	c := &checker{}

	doc := ast.FromDocumentationComment(ast.DocText(decl.Doc))

	var defs []*Definition
	for _, d := range decl.Directives {
		defs = append(defs, &Definition{Label: d.Descriptor.Label, Origin: OriginDirective, Pos: d.Descriptor.Pos})
	}

	env := c.define(NewEnvironment(nil), defs, doc, decl.Pos)
	for _, ref := range doc.ImageRefs {
		c.resolve(env, ref, decl.Pos)
	}
	c.unused(defs)

	return c.findings
}

func CheckFile(f *ast.File) []Finding {
	var findings []Finding
	for _, decl := range f.Declarations {
		findings = append(findings, CheckDeclaration(decl)...)
	}
	return findings
}

// CheckMarkdown checks a Markdown document, where every marker defines a
// label for the whole document.
func CheckMarkdown(name string, src []byte) ([]Finding, error) {
	markers, err := ast.ParseMarkers(name, src)
	if err != nil {
		return nil, err
	}

	c := &checker{}
	doc := ast.FromDocumentationComment(string(src))

	var defs []*Definition
	for _, m := range markers {
		defs = append(defs, &Definition{Label: m.Descriptor.Label, Origin: OriginDirective, Pos: m.Descriptor.Pos})
	}

	env := c.define(NewEnvironment(nil), defs, doc, diagnostics.Position{File: name, Line: 1, Column: 1})
	for _, ref := range doc.ImageRefs {
		c.resolve(env, ref, ast.PositionAt(name, src, ref.Offset))
	}
	c.unused(defs)

	return c.findings, nil
}
