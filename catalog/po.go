// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseError reports a malformed textual catalogue.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// field identifies the string a continuation line appends to.
type field int

const (
	fieldNone field = iota
	fieldID
	fieldPluralID
	fieldStr
	fieldPluralStr
)

// pending accumulates the lines of one entry until it is complete.
type pending struct {
	entry       Entry
	comments    []string
	hasID       bool
	hasStr      bool
	obsolete    bool
	current     field
	pluralIndex int
}

type poReader struct {
	path     string
	line     int
	cat      *Catalog
	p        pending
	sawFirst bool
}

// Read parses a textual catalogue from r. The path is used in errors only.
//
// Obsolete ("#~") entries are dropped. Message contexts (msgctxt) are rejected.
func Read(r io.Reader, path string) (*Catalog, error) {
	pr := &poReader{
		path: path,
		cat:  New(Header{}),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		pr.line++
		if err := pr.handle(strings.TrimRight(sc.Text(), "\r")); err != nil {
			return nil, err
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := pr.flush(); err != nil {
		return nil, err
	}

	return pr.cat, nil
}

// ReadFile parses the textual catalogue at path.
func ReadFile(path string) (*Catalog, error) {
	f, err := os.Open(path) // #nosec G304 -- catalogue paths come from the workspace
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, path)
}

func (pr *poReader) errorf(format string, args ...any) error {
	return &ParseError{Path: pr.path, Line: pr.line, Msg: fmt.Sprintf(format, args...)}
}

func (pr *poReader) handle(line string) error {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		if pr.p.hasID {
			return pr.flush()
		}

		return nil
	}

	if rest, ok := strings.CutPrefix(trimmed, "#~"); ok {
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, "|") || rest == "" {
			return nil
		}

		if strings.HasPrefix(rest, "msgid ") && pr.p.hasStr {
			if err := pr.flush(); err != nil {
				return err
			}
		}

		pr.p.obsolete = true

		return pr.keyword(rest)
	}

	if strings.HasPrefix(trimmed, "#") {
		if pr.p.hasStr {
			if err := pr.flush(); err != nil {
				return err
			}
		}

		pr.comment(trimmed)

		return nil
	}

	return pr.keyword(trimmed)
}

func (pr *poReader) comment(line string) {
	e := &pr.p.entry

	switch {
	case strings.HasPrefix(line, "#."):
		e.AutoComments = append(e.AutoComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#:"):
		for ref := range strings.FieldsSeq(line[2:]) {
			e.Locations = append(e.Locations, parseLocation(ref))
		}
	case strings.HasPrefix(line, "#,"):
		for flag := range strings.SplitSeq(line[2:], ",") {
			flag = strings.TrimSpace(flag)

			switch flag {
			case "":
			case "fuzzy":
				e.Fuzzy = true
			default:
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#|"):
		// Previous msgid; not modelled.
	default:
		text := strings.TrimPrefix(line[1:], " ")
		pr.p.comments = append(pr.p.comments, text)
	}
}

func (pr *poReader) keyword(line string) error {
	if strings.HasPrefix(line, `"`) {
		s, err := pr.unquote(line)
		if err != nil {
			return err
		}

		return pr.appendCurrent(s)
	}

	kw, rest, ok := strings.Cut(line, " ")
	if !ok {
		return pr.errorf("unexpected line %q", line)
	}

	s, err := pr.unquote(strings.TrimSpace(rest))
	if err != nil {
		return err
	}

	e := &pr.p.entry

	switch {
	case kw == "msgctxt":
		return pr.errorf("message contexts are not supported")
	case kw == "msgid":
		if pr.p.hasID {
			if err := pr.flush(); err != nil {
				return err
			}

			e = &pr.p.entry
		}

		pr.p.hasID = true
		pr.p.current = fieldID
		e.ID = s
		e.Line = pr.line
	case kw == "msgid_plural":
		if !pr.p.hasID {
			return pr.errorf("msgid_plural without msgid")
		}

		pr.p.current = fieldPluralID
		e.PluralID = s
	case kw == "msgstr":
		if !pr.p.hasID {
			return pr.errorf("msgstr without msgid")
		}

		pr.p.hasStr = true
		pr.p.current = fieldStr
		e.Translation = s
	case strings.HasPrefix(kw, "msgstr[") && strings.HasSuffix(kw, "]"):
		if !pr.p.hasID {
			return pr.errorf("msgstr without msgid")
		}

		n, err := strconv.Atoi(kw[len("msgstr[") : len(kw)-1])
		if err != nil || n < 0 {
			return pr.errorf("invalid plural index in %q", kw)
		}

		for len(e.PluralTranslations) <= n {
			e.PluralTranslations = append(e.PluralTranslations, "")
		}

		e.PluralTranslations[n] = s
		pr.p.hasStr = true
		pr.p.current = fieldPluralStr
		pr.p.pluralIndex = n
	default:
		return pr.errorf("unknown keyword %q", kw)
	}

	return nil
}

func (pr *poReader) appendCurrent(s string) error {
	e := &pr.p.entry

	switch pr.p.current {
	case fieldID:
		e.ID += s
	case fieldPluralID:
		e.PluralID += s
	case fieldStr:
		e.Translation += s
	case fieldPluralStr:
		e.PluralTranslations[pr.p.pluralIndex] += s
	case fieldNone:
		return pr.errorf("continuation line without keyword")
	}

	return nil
}

func (pr *poReader) unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", pr.errorf("expected quoted string, got %q", s)
	}

	return unescape(s[1 : len(s)-1]), nil
}

// flush completes the pending entry and resets state.
func (pr *poReader) flush() error {
	p := pr.p
	pr.p = pending{}

	if !p.hasID {
		return nil
	}

	if !p.hasStr {
		return &ParseError{Path: pr.path, Line: p.entry.Line, Msg: "missing msgstr"}
	}

	first := !pr.sawFirst
	pr.sawFirst = true

	if p.obsolete {
		return nil
	}

	e := p.entry
	e.TranslatorComments = p.comments

	if e.ID == "" {
		if !first {
			return &ParseError{Path: pr.path, Line: e.Line, Msg: "duplicate header entry"}
		}

		pr.cat.Header.parse(e.Translation)
		pr.cat.Header.Fuzzy = e.Fuzzy
		pr.cat.Header.Comments = p.comments

		return nil
	}

	if _, dup := pr.cat.Get(e.ID); dup {
		return &ParseError{Path: pr.path, Line: e.Line, Msg: fmt.Sprintf("duplicate message id %q", e.ID)}
	}

	pr.cat.Put(&e)

	return nil
}

func parseLocation(ref string) Location {
	i := strings.LastIndexByte(ref, ':')
	if i < 0 {
		return Location{Path: ref}
	}

	n, err := strconv.Atoi(ref[i+1:])
	if err != nil {
		return Location{Path: ref}
	}

	return Location{Path: ref[:i], Line: n}
}

// Write renders c in the textual form.
func Write(w io.Writer, c *Catalog) error {
	bw := bufio.NewWriter(w)

	for _, line := range c.Header.Comments {
		if line == "" {
			bw.WriteString("#\n")
		} else {
			fmt.Fprintf(bw, "# %s\n", line)
		}
	}

	if c.Header.Fuzzy {
		bw.WriteString("#, fuzzy\n")
	}

	writeString(bw, "msgid", "")
	writeString(bw, "msgstr", c.Header.String())

	nplurals := c.Header.NumPlurals()

	for e := range c.All() {
		bw.WriteByte('\n')
		writeEntry(bw, e, nplurals)
	}

	return bw.Flush()
}

// Marshal renders c in the textual form.
func Marshal(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteFile atomically replaces path with the textual form of c.
func WriteFile(path string, c *Catalog) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data)
}

func writeEntry(w *bufio.Writer, e *Entry, nplurals int) {
	for _, c := range e.TranslatorComments {
		if c == "" {
			w.WriteString("#\n")
		} else {
			fmt.Fprintf(w, "# %s\n", c)
		}
	}

	for _, c := range e.AutoComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}

	if len(e.Locations) > 0 {
		w.WriteString("#:")

		for _, loc := range e.Locations {
			w.WriteByte(' ')
			w.WriteString(loc.String())
		}

		w.WriteByte('\n')
	}

	flags := e.Flags
	if e.Fuzzy {
		flags = append([]string{"fuzzy"}, flags...)
	}

	if len(flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(flags, ", "))
	}

	writeString(w, "msgid", e.ID)

	if !e.IsPlural() {
		writeString(w, "msgstr", e.Translation)

		return
	}

	writeString(w, "msgid_plural", e.PluralID)

	n := max(nplurals, len(e.PluralTranslations))
	for i := range n {
		s := ""
		if i < len(e.PluralTranslations) {
			s = e.PluralTranslations[i]
		}

		writeString(w, "msgstr["+strconv.Itoa(i)+"]", s)
	}
}

// writeString writes a keyword and its quoted value, splitting values that
// contain inner newlines over several lines.
func writeString(w *bufio.Writer, keyword, s string) {
	pieces := strings.SplitAfter(s, "\n")
	if pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}

	if len(pieces) <= 1 {
		fmt.Fprintf(w, "%s \"%s\"\n", keyword, escape(s))

		return
	}

	fmt.Fprintf(w, "%s \"\"\n", keyword)

	for _, p := range pieces {
		fmt.Fprintf(w, "\"%s\"\n", escape(p))
	}
}

// escape encodes s for a quoted PO string.
func escape(s string) string {
	var b strings.Builder

	b.Grow(len(s) + len(s)/8)

	for i := range len(s) {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// unescape decodes the escape sequences of a quoted PO string.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])

			continue
		}

		i++

		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}

	return b.String()
}
