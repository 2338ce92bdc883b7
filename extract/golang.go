// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/inspector"
)

// DefaultCommentTags are used when a [GoExtractor] has no comment tags configured.
var DefaultCommentTags = []string{"NOTE:"}

// DefaultKeyTypes are used when a [GoExtractor] has no key types configured.
var DefaultKeyTypes = []string{"MsgKey"}

// GoExtractor extracts messages from Go source.
//
// It works on syntax alone: calls are matched by function name and only
// constant string literals, optionally joined with +, are extracted.
// Composite literals whose element type is one of KeyTypes, for example
// []i18n.MsgKey{"Home", "Settings"}, contribute their constant elements too.
//
// The zero value uses [DefaultKeywords], [DefaultKeyTypes] and [DefaultCommentTags].
type GoExtractor struct {
	Keywords    []Keyword
	KeyTypes    []string
	CommentTags []string
}

// goFile is the per-file state of one extraction.
type goFile struct {
	fset     *token.FileSet
	keywords map[string]Keyword
	keyTypes []string
	tags     []string

	// notes maps the end line of each tagged comment group to its text.
	notes map[int][]string

	out []Message

	// pos holds the position of each message's msgid argument.
	pos []token.Position
}

// Extract implements [Extractor].
func (g *GoExtractor) Extract(filename string, src []byte) ([]Message, error) {
	gf, err := g.extract(filename, src)
	if err != nil {
		return nil, err
	}

	return gf.out, nil
}

func (g *GoExtractor) extract(filename string, src []byte) (*goFile, error) {
	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	gf := &goFile{
		fset:     fset,
		keywords: make(map[string]Keyword),
		keyTypes: g.KeyTypes,
		tags:     g.CommentTags,
	}

	keywords := g.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	for _, kw := range keywords {
		gf.keywords[kw.Name] = kw
	}

	if len(gf.keyTypes) == 0 {
		gf.keyTypes = DefaultKeyTypes
	}

	if len(gf.tags) == 0 {
		gf.tags = DefaultCommentTags
	}

	gf.collectNotes(f.Comments)

	in := inspector.New([]*ast.File{f})
	in.Preorder([]ast.Node{(*ast.CallExpr)(nil), (*ast.CompositeLit)(nil)}, func(n ast.Node) {
		switch x := n.(type) {
		case *ast.CallExpr:
			gf.handleCallExpr(x)
		case *ast.CompositeLit:
			gf.handleCompositeLit(x)
		}
	})

	return gf, nil
}

// collectNotes indexes comment groups that start with one of the tags.
func (gf *goFile) collectNotes(groups []*ast.CommentGroup) {
	gf.notes = make(map[int][]string)

	for _, cg := range groups {
		text := strings.TrimSpace(cg.Text())

		for _, tag := range gf.tags {
			rest, ok := strings.CutPrefix(text, tag)
			if !ok {
				continue
			}

			var lines []string

			for line := range strings.SplitSeq(strings.TrimSpace(rest), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}

			gf.notes[gf.fset.Position(cg.End()).Line] = lines

			break
		}
	}
}

// commentsFor returns the notes attached to a call starting at line: a tagged
// group ending on the line above, or one on the same line.
func (gf *goFile) commentsFor(line int) []string {
	if c, ok := gf.notes[line-1]; ok {
		return c
	}

	return gf.notes[line]
}

func (gf *goFile) handleCallExpr(x *ast.CallExpr) {
	kw, ok := gf.keywords[funcName(x.Fun)]
	if !ok || kw.ID >= len(x.Args) {
		return
	}

	id, ok := constString(x.Args[kw.ID])
	if !ok || id == "" {
		return
	}

	var plural string

	if kw.Plural >= 0 && kw.Plural < len(x.Args) {
		plural, _ = constString(x.Args[kw.Plural])
	}

	gf.add(x.Pos(), x.Args[kw.ID].Pos(), id, plural)
}

// handleCompositeLit picks up constant elements of slices, arrays and maps of a key type.
func (gf *goFile) handleCompositeLit(x *ast.CompositeLit) {
	switch t := x.Type.(type) {
	case *ast.ArrayType:
		if !gf.isKeyType(t.Elt) {
			return
		}

		for _, elt := range x.Elts {
			gf.addConst(elt.Pos(), elt)
		}
	case *ast.MapType:
		keyIsMK, valIsMK := gf.isKeyType(t.Key), gf.isKeyType(t.Value)
		if !keyIsMK && !valIsMK {
			return
		}

		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			if keyIsMK {
				gf.addConst(kv.Pos(), kv.Key)
			}

			if valIsMK {
				gf.addConst(kv.Pos(), kv.Value)
			}
		}
	}
}

func (gf *goFile) isKeyType(expr ast.Expr) bool {
	name := funcName(expr)

	for _, t := range gf.keyTypes {
		if name == t {
			return true
		}
	}

	return false
}

func (gf *goFile) addConst(start token.Pos, expr ast.Expr) {
	if s, ok := constString(expr); ok && s != "" {
		gf.add(start, expr.Pos(), s, "")
	}
}

func (gf *goFile) add(start, at token.Pos, id, plural string) {
	pos := gf.fset.Position(at)

	gf.pos = append(gf.pos, pos)
	gf.out = append(gf.out, Message{
		Line:     pos.Line,
		ID:       id,
		Plural:   plural,
		Comments: gf.commentsFor(gf.fset.Position(start).Line),
	})
}

// funcName returns the unqualified name of an identifier or selector expression.
func funcName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		// Generic instantiation, f[T](...).
		return funcName(e.X)
	case *ast.ParenExpr:
		return funcName(e.X)
	}

	return ""
}

// constString evaluates string literals and +-concatenations of them.
// Anything else, including named constants, is not extracted.
func constString(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.STRING {
			return "", false
		}

		s, err := strconv.Unquote(e.Value)
		if err != nil {
			return "", false
		}

		return s, true
	case *ast.BinaryExpr:
		if e.Op != token.ADD {
			return "", false
		}

		l, ok := constString(e.X)
		if !ok {
			return "", false
		}

		r, ok := constString(e.Y)
		if !ok {
			return "", false
		}

		return l + r, true
	case *ast.ParenExpr:
		return constString(e.X)
	}

	return "", false
}
