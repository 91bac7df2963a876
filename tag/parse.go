/*
Copyright 2026 Django Components Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package tag parses the body of a Django-style component tag (the text
// between the outer {% %} or <...> delimiters) into a typed AST with precise
// source spans, and compiles that AST into a callable producing the
// positional and keyword arguments for the tag's handler.
//
// The two entry points are Parse (and its variants) and Compile:
//
//	t, err := tag.Parse(`my_comp title="hi" ...extra disabled /`)
//	fn, err := tag.Compile(t)
//	args, kwargs, err := fn(ctx, resolvers)
//
// Parsing recognizes a small fixed expression language: string, number,
// list and dict literals, variable references with dot and bracket
// accessors, translation calls _("..."), backtick template strings with
// ${...} interpolations, |filter chains, spread markers (..., *, **), and
// key=value attributes. Evaluation of variables, filters, and translations
// is delegated entirely to caller-supplied resolver callbacks; the package
// itself performs no I/O and holds no global state.
package tag

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/django-components/djc-core-tag-parser/internal/scanner"
)

// ParseOptions configures a parse run.
type ParseOptions struct {
	// Flags is the set of identifiers that, when they appear as a bare
	// argument, become boolean flag attributes instead of variable
	// references.
	Flags []string

	// Syntax records which outer delimiter convention the body came from.
	// It is carried through to Tag.Syntax; parsing is identical for both.
	Syntax TagSyntax
}

// Parse parses a tag body with Django syntax and an empty flag set.
func Parse(input string) (*Tag, error) {
	return ParseWithOptions(input, ParseOptions{})
}

// ParseNormalized normalizes the input to Unicode Normalization Form C
// (NFC) before parsing. Spans in the returned AST refer to the normalized
// string. Use this when the template source comes from a legacy encoding or
// another non-pre-normalized Unicode source; Parse preserves the exact
// input bytes instead.
func ParseNormalized(input string) (*Tag, error) {
	return ParseWithOptions(norm.NFC.String(input), ParseOptions{})
}

// ParseWithOptions parses a tag body with the given flag set and syntax.
//
// On any grammar violation it returns a *ParseError carrying the offending
// byte offset, line/column, and a source snippet. The parser does not
// recover; the first error is reported.
func ParseWithOptions(input string, opts ParseOptions) (*Tag, error) {
	p := &parser{
		sc:     scanner.New(input),
		flags:  make(map[string]struct{}, len(opts.Flags)),
		syntax: opts.Syntax,
	}
	for _, f := range opts.Flags {
		p.flags[f] = struct{}{}
	}
	return p.parseTag()
}

// spreadContext restricts which spread markers a value position accepts.
type spreadContext int

const (
	ctxTopLevel  spreadContext = iota // ..., *, and ** permitted
	ctxListElem                       // ... permitted
	ctxDictEntry                      // ** permitted
	ctxPlain                          // no spread permitted
)

// parser holds the state for a single parse operation.
type parser struct {
	sc     *scanner.Scanner
	flags  map[string]struct{}
	syntax TagSyntax
}

// mark captures a position so a span can be formed once the production has
// been consumed.
type mark struct {
	off  int
	line int
	col  int
}

func (p *parser) mark() mark {
	return mark{off: p.sc.Offset(), line: p.sc.Line(), col: p.sc.Col()}
}

func (p *parser) spanFrom(m mark) Span {
	return Span{
		StartIndex: m.off,
		EndIndex:   p.sc.Offset(),
		LineCol:    Position{Line: m.line, Col: m.col},
	}
}

func (p *parser) lexErrorAt(m mark, msg string) error {
	return newError(LexError, msg, m.off, Position{Line: m.line, Col: m.col}, p.sc.Source())
}

func (p *parser) grammarErrorAt(m mark, msg string) error {
	return newError(GrammarError, msg, m.off, Position{Line: m.line, Col: m.col}, p.sc.Source())
}

func (p *parser) grammarErrorHere(msg string) error {
	return p.grammarErrorAt(p.mark(), msg)
}

// skipSpace consumes whitespace and {# ... #} comments. It reports whether
// anything was consumed. Comments are matched non-nestingly: the scanner
// seeks the next "#}". An unterminated comment is a lex error.
func (p *parser) skipSpace() (bool, error) {
	consumed := false
	for {
		r, ok := p.sc.Peek()
		if !ok {
			return consumed, nil
		}
		if scanner.IsSpace(r) {
			p.sc.Next()
			consumed = true
			continue
		}
		if p.sc.StartsWith("{#") {
			m := p.mark()
			p.sc.Skip(2)
			end := strings.Index(p.sc.Rest(), "#}")
			if end < 0 {
				return consumed, p.lexErrorAt(m, "unterminated comment")
			}
			p.sc.Skip(end + 2)
			consumed = true
			continue
		}
		return consumed, nil
	}
}

// scanIdent consumes an identifier. The caller must have checked that the
// next rune is a valid identifier start.
func (p *parser) scanIdent() TagToken {
	m := p.mark()
	for {
		r, ok := p.sc.Peek()
		if !ok || !scanner.IsIdentPart(r) {
			break
		}
		p.sc.Next()
	}
	return TagToken{Token: p.sc.Slice(m.off, p.sc.Offset()), Span: p.spanFrom(m)}
}

// parseTag parses the whole tag body: name, arguments, and the optional
// trailing self-closing slash.
func (p *parser) parseTag() (*Tag, error) {
	if _, err := p.skipSpace(); err != nil {
		return nil, err
	}
	r, ok := p.sc.Peek()
	if !ok || !scanner.IsIdentStart(r) {
		return nil, p.grammarErrorHere("missing tag name")
	}
	name := p.scanIdent()

	t := &Tag{Name: name, Syntax: p.syntax}
	end := name.EndIndex

	for {
		ws, err := p.skipSpace()
		if err != nil {
			return nil, err
		}
		if p.sc.EOF() {
			break
		}
		if r, _ := p.sc.Peek(); r == '/' {
			p.sc.Next()
			end = p.sc.Offset()
			t.IsSelfClosing = true
			if _, err := p.skipSpace(); err != nil {
				return nil, err
			}
			if !p.sc.EOF() {
				return nil, p.grammarErrorHere("trailing tokens after '/'")
			}
			break
		}
		if !ws {
			return nil, p.grammarErrorHere("expected whitespace before next argument")
		}
		attr, err := p.parseAttr()
		if err != nil {
			return nil, err
		}
		t.Attrs = append(t.Attrs, attr)
		end = attr.EndIndex
	}

	t.Span = Span{StartIndex: name.StartIndex, EndIndex: end, LineCol: name.LineCol}
	return t, nil
}

// leadingIdent splits an identifier off the front of s, if one is there.
// Identifier characters are ASCII, so byte-wise scanning is safe.
func leadingIdent(s string) (ident, after string, ok bool) {
	if s == "" || !scanner.IsIdentStart(rune(s[0])) {
		return "", "", false
	}
	i := 1
	for i < len(s) && scanner.IsIdentPart(rune(s[i])) {
		i++
	}
	return s[:i], s[i:], true
}

// continuesValue reports whether the byte following a bare identifier makes
// it part of a larger expression (accessor, filter chain, or translation
// call) rather than a standalone token.
func continuesValue(after string) bool {
	if after == "" {
		return false
	}
	switch after[0] {
	case '.', '[', '|', '(':
		return true
	}
	return false
}

// parseAttr parses one tag argument: a key=value pair, a flag, or a
// positional value. Disambiguation needs at most two tokens of lookahead,
// done here on the unread input without consuming it.
func (p *parser) parseAttr() (TagAttr, error) {
	m := p.mark()
	if ident, after, ok := leadingIdent(p.sc.Rest()); ok {
		if len(after) > 0 && after[0] == '=' {
			key := p.scanIdent()
			p.sc.Next() // '='
			if r, ok := p.sc.Peek(); !ok || scanner.IsSpace(r) {
				return TagAttr{}, p.grammarErrorHere("expected value after '='")
			}
			val, err := p.parseValue(ctxPlain)
			if err != nil {
				return TagAttr{}, err
			}
			return TagAttr{
				Key:   &key,
				Value: val,
				Span:  Span{StartIndex: m.off, EndIndex: val.EndIndex, LineCol: Position{Line: m.line, Col: m.col}},
			}, nil
		}
		if _, isFlag := p.flags[ident]; isFlag && !continuesValue(after) {
			tok := p.scanIdent()
			return TagAttr{
				Value:  TagValue{Token: tok, Kind: KindVariable, Span: tok.Span, src: tok.Token},
				IsFlag: true,
				Span:   tok.Span,
			}, nil
		}
	}
	val, err := p.parseValue(ctxTopLevel)
	if err != nil {
		return TagAttr{}, err
	}
	return TagAttr{
		Value: val,
		Span:  Span{StartIndex: m.off, EndIndex: val.EndIndex, LineCol: Position{Line: m.line, Col: m.col}},
	}, nil
}

// parseValue parses an optional spread marker, a primary, and a filter
// chain. ctx restricts which spread markers are legal in this position.
func (p *parser) parseValue(ctx spreadContext) (TagValue, error) {
	m := p.mark()
	spread := SpreadNone
	switch {
	case p.sc.StartsWith("..."):
		if ctx != ctxTopLevel && ctx != ctxListElem {
			return TagValue{}, p.grammarErrorAt(m, "spread '...' is not allowed here")
		}
		p.sc.Skip(3)
		spread = SpreadEllipsis
	case p.sc.StartsWith("**"):
		if ctx != ctxTopLevel && ctx != ctxDictEntry {
			return TagValue{}, p.grammarErrorAt(m, "spread '**' is not allowed here")
		}
		p.sc.Skip(2)
		spread = SpreadDoubleStar
	case p.sc.StartsWith("*"):
		if ctx != ctxTopLevel {
			return TagValue{}, p.grammarErrorAt(m, "spread '*' is not allowed here")
		}
		p.sc.Skip(1)
		spread = SpreadStar
	}

	srcStart := p.sc.Offset()
	v, err := p.parsePrimary()
	if err != nil {
		return TagValue{}, err
	}
	filters, err := p.parseFilters()
	if err != nil {
		return TagValue{}, err
	}
	v.Spread = spread
	v.Filters = filters
	v.Span = p.spanFrom(m)
	v.src = p.sc.Slice(srcStart, p.sc.Offset())
	return v, nil
}

// parsePrimary parses a single value without spread markers or filters.
func (p *parser) parsePrimary() (TagValue, error) {
	r, ok := p.sc.Peek()
	if !ok {
		return TagValue{}, p.grammarErrorHere("expected a value")
	}
	if r == '*' || p.sc.StartsWith("...") {
		return TagValue{}, p.grammarErrorHere("spread is not allowed here")
	}
	switch {
	case r == '"' || r == '\'':
		return p.parseString()
	case r == '`':
		return p.parseTemplateString()
	case r == '[':
		return p.parseList()
	case r == '{':
		return p.parseDict()
	case scanner.IsASCIIDigit(r) || r == '-':
		return p.parseNumber()
	case scanner.IsIdentStart(r):
		m := p.mark()
		ident := p.scanIdent()
		if ident.Token == "_" {
			if nr, ok := p.sc.Peek(); ok && nr == '(' {
				return p.parseTranslation(m)
			}
		}
		return p.parseVariable(m)
	}
	return TagValue{}, p.grammarErrorHere("unexpected character " + strconv.QuoteRune(r))
}

// decodeEscape maps the character following a backslash in a string literal
// to its decoded form. It reports false for unrecognized escapes, which are
// preserved verbatim (backslash included).
func decodeEscape(r rune) (rune, bool) {
	switch r {
	case '\\', '\'', '"':
		return r, true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	}
	return 0, false
}

// parseString parses a single- or double-quoted string literal. The token
// payload is the decoded string; the span covers the quotes.
func (p *parser) parseString() (TagValue, error) {
	m := p.mark()
	quote, _ := p.sc.Next()
	var b strings.Builder
	for {
		r, ok := p.sc.Next()
		if !ok {
			return TagValue{}, p.lexErrorAt(m, "unterminated string literal")
		}
		if r == quote {
			break
		}
		if r == '\\' {
			e, ok := p.sc.Next()
			if !ok {
				return TagValue{}, p.lexErrorAt(m, "unterminated string literal")
			}
			if d, known := decodeEscape(e); known {
				b.WriteRune(d)
			} else {
				b.WriteRune('\\')
				b.WriteRune(e)
			}
			continue
		}
		b.WriteRune(r)
	}
	span := p.spanFrom(m)
	return TagValue{
		Token: TagToken{Token: b.String(), Span: span},
		Kind:  KindString,
		Span:  span,
	}, nil
}

// parseNumber parses an integer or float literal: an optional leading '-',
// a required integer part, an optional fraction, and an optional exponent.
// Leading-dot forms (".5"), trailing dots ("1."), underscores, and hex are
// rejected.
func (p *parser) parseNumber() (TagValue, error) {
	m := p.mark()
	if r, _ := p.sc.Peek(); r == '-' {
		p.sc.Next()
	}
	digits := 0
	for {
		r, ok := p.sc.Peek()
		if !ok || !scanner.IsASCIIDigit(r) {
			break
		}
		p.sc.Next()
		digits++
	}
	if digits == 0 {
		return TagValue{}, p.lexErrorAt(m, "invalid number literal")
	}

	isFloat := false
	if r, ok := p.sc.Peek(); ok && r == '.' {
		nxt, ok2 := p.sc.PeekAt(1)
		if !ok2 || !scanner.IsASCIIDigit(nxt) {
			return TagValue{}, p.lexErrorAt(m, "invalid number literal")
		}
		p.sc.Next()
		for {
			r, ok := p.sc.Peek()
			if !ok || !scanner.IsASCIIDigit(r) {
				break
			}
			p.sc.Next()
		}
		isFloat = true
	}
	if r, ok := p.sc.Peek(); ok && (r == 'e' || r == 'E') {
		i := 1
		if sign, ok2 := p.sc.PeekAt(1); ok2 && (sign == '+' || sign == '-') {
			i = 2
		}
		d, ok2 := p.sc.PeekAt(i)
		if !ok2 || !scanner.IsASCIIDigit(d) {
			return TagValue{}, p.lexErrorAt(m, "invalid number literal")
		}
		p.sc.Skip(i)
		for {
			r, ok := p.sc.Peek()
			if !ok || !scanner.IsASCIIDigit(r) {
				break
			}
			p.sc.Next()
		}
		isFloat = true
	}
	// A letter or underscore glued to the end is not a separate token.
	if r, ok := p.sc.Peek(); ok && (scanner.IsIdentStart(r) || scanner.IsASCIIDigit(r)) {
		return TagValue{}, p.lexErrorAt(m, "invalid number literal")
	}

	text := p.sc.Slice(m.off, p.sc.Offset())
	kind := KindInt
	if isFloat {
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return TagValue{}, p.lexErrorAt(m, "invalid number literal")
		}
		kind = KindFloat
	} else if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return TagValue{}, p.lexErrorAt(m, "integer literal out of range")
	}
	span := p.spanFrom(m)
	return TagValue{
		Token: TagToken{Token: text, Span: span},
		Kind:  kind,
		Span:  span,
	}, nil
}

// parseVariable parses the accessor chain following an already-consumed
// identifier: zero or more ".ident" and "[primary]" segments. The token is
// the full path lexeme including accessors.
func (p *parser) parseVariable(m mark) (TagValue, error) {
	for {
		r, ok := p.sc.Peek()
		if !ok {
			break
		}
		if r == '.' {
			p.sc.Next()
			r2, ok2 := p.sc.Peek()
			if !ok2 || !scanner.IsIdentStart(r2) {
				return TagValue{}, p.grammarErrorHere("expected identifier after '.'")
			}
			p.scanIdent()
			continue
		}
		if r == '[' {
			p.sc.Next()
			if _, err := p.skipSpace(); err != nil {
				return TagValue{}, err
			}
			if _, err := p.parsePrimary(); err != nil {
				return TagValue{}, err
			}
			if _, err := p.skipSpace(); err != nil {
				return TagValue{}, err
			}
			if r2, ok2 := p.sc.Peek(); !ok2 || r2 != ']' {
				return TagValue{}, p.grammarErrorHere("expected ']'")
			}
			p.sc.Next()
			continue
		}
		break
	}
	span := p.spanFrom(m)
	lexeme := p.sc.Slice(m.off, p.sc.Offset())
	return TagValue{
		Token: TagToken{Token: lexeme, Span: span},
		Kind:  KindVariable,
		Span:  span,
		src:   lexeme,
	}, nil
}

// parseTranslation parses the remainder of a _("...") call. The leading
// underscore has been consumed and the next rune is known to be '('. The
// argument must be a literal string; the node token is the inner string
// token.
func (p *parser) parseTranslation(m mark) (TagValue, error) {
	p.sc.Next() // '('
	if _, err := p.skipSpace(); err != nil {
		return TagValue{}, err
	}
	r, ok := p.sc.Peek()
	if !ok || (r != '"' && r != '\'') {
		return TagValue{}, p.grammarErrorHere("translation argument must be a string literal")
	}
	str, err := p.parseString()
	if err != nil {
		return TagValue{}, err
	}
	if _, err := p.skipSpace(); err != nil {
		return TagValue{}, err
	}
	if r, ok := p.sc.Peek(); !ok || r != ')' {
		return TagValue{}, p.grammarErrorHere("expected ')'")
	}
	p.sc.Next()
	return TagValue{
		Token: str.Token,
		Kind:  KindTranslation,
		Span:  p.spanFrom(m),
	}, nil
}

// parseList parses a [...] literal. Elements may carry "..." spreads; a
// trailing comma is permitted.
func (p *parser) parseList() (TagValue, error) {
	m := p.mark()
	p.sc.Next() // '['
	open := TagToken{Token: "[", Span: p.spanFrom(m)}

	var children []TagValue
	if _, err := p.skipSpace(); err != nil {
		return TagValue{}, err
	}
	for {
		if r, ok := p.sc.Peek(); ok && r == ']' {
			p.sc.Next()
			break
		}
		if p.sc.EOF() {
			return TagValue{}, p.grammarErrorAt(m, "unterminated list")
		}
		elem, err := p.parseValue(ctxListElem)
		if err != nil {
			return TagValue{}, err
		}
		children = append(children, elem)
		if _, err := p.skipSpace(); err != nil {
			return TagValue{}, err
		}
		r, ok := p.sc.Peek()
		switch {
		case ok && r == ',':
			p.sc.Next()
			if _, err := p.skipSpace(); err != nil {
				return TagValue{}, err
			}
		case ok && r == ']':
			// closed on the next loop turn
		case !ok:
			return TagValue{}, p.grammarErrorAt(m, "unterminated list")
		default:
			return TagValue{}, p.grammarErrorHere("expected ',' or ']'")
		}
	}
	return TagValue{
		Token:    open,
		Kind:     KindList,
		Children: children,
		Span:     p.spanFrom(m),
	}, nil
}

// parseDict parses a {...} literal. Children alternate key, value except
// for "**" spread entries, which stand alone; a trailing comma is
// permitted.
func (p *parser) parseDict() (TagValue, error) {
	m := p.mark()
	p.sc.Next() // '{'
	open := TagToken{Token: "{", Span: p.spanFrom(m)}

	var children []TagValue
	if _, err := p.skipSpace(); err != nil {
		return TagValue{}, err
	}
	for {
		if r, ok := p.sc.Peek(); ok && r == '}' {
			p.sc.Next()
			break
		}
		if p.sc.EOF() {
			return TagValue{}, p.grammarErrorAt(m, "unterminated dict")
		}
		if p.sc.StartsWith("**") {
			entry, err := p.parseValue(ctxDictEntry)
			if err != nil {
				return TagValue{}, err
			}
			children = append(children, entry)
		} else {
			key, err := p.parseValue(ctxPlain)
			if err != nil {
				return TagValue{}, err
			}
			if _, err := p.skipSpace(); err != nil {
				return TagValue{}, err
			}
			if r, ok := p.sc.Peek(); !ok || r != ':' {
				return TagValue{}, p.grammarErrorHere("expected ':' after dict key")
			}
			p.sc.Next()
			if _, err := p.skipSpace(); err != nil {
				return TagValue{}, err
			}
			val, err := p.parseValue(ctxPlain)
			if err != nil {
				return TagValue{}, err
			}
			children = append(children, key, val)
		}
		if _, err := p.skipSpace(); err != nil {
			return TagValue{}, err
		}
		r, ok := p.sc.Peek()
		switch {
		case ok && r == ',':
			p.sc.Next()
			if _, err := p.skipSpace(); err != nil {
				return TagValue{}, err
			}
		case ok && r == '}':
			// closed on the next loop turn
		case !ok:
			return TagValue{}, p.grammarErrorAt(m, "unterminated dict")
		default:
			return TagValue{}, p.grammarErrorHere("expected ',' or '}'")
		}
	}
	return TagValue{
		Token:    open,
		Kind:     KindDict,
		Children: children,
		Span:     p.spanFrom(m),
	}, nil
}

// parseTemplateString parses a backtick-quoted template string. Literal
// segments become KindString children; ${...} interpolations nest a full
// value (without top-level spread). Escapes additionally cover the backtick
// and the dollar sign.
func (p *parser) parseTemplateString() (TagValue, error) {
	m := p.mark()
	p.sc.Next() // '`'
	open := TagToken{Token: "`", Span: p.spanFrom(m)}

	var children []TagValue
	var b strings.Builder
	seg := p.mark()

	flush := func() {
		if b.Len() == 0 {
			return
		}
		span := p.spanFrom(seg)
		children = append(children, TagValue{
			Token: TagToken{Token: b.String(), Span: span},
			Kind:  KindString,
			Span:  span,
			src:   p.sc.Slice(seg.off, p.sc.Offset()),
		})
		b.Reset()
	}

	for {
		if p.sc.EOF() {
			return TagValue{}, p.lexErrorAt(m, "unterminated template string")
		}
		if p.sc.StartsWith("${") {
			flush()
			p.sc.Skip(2)
			if _, err := p.skipSpace(); err != nil {
				return TagValue{}, err
			}
			expr, err := p.parseValue(ctxPlain)
			if err != nil {
				return TagValue{}, err
			}
			if _, err := p.skipSpace(); err != nil {
				return TagValue{}, err
			}
			r, ok := p.sc.Peek()
			if !ok {
				return TagValue{}, p.lexErrorAt(m, "unterminated template string")
			}
			if r != '}' {
				return TagValue{}, p.grammarErrorHere("expected '}' to close interpolation")
			}
			p.sc.Next()
			children = append(children, expr)
			seg = p.mark()
			continue
		}
		r, _ := p.sc.Peek()
		if r == '`' {
			flush()
			p.sc.Next()
			break
		}
		if r == '\\' {
			p.sc.Next()
			e, ok := p.sc.Next()
			if !ok {
				return TagValue{}, p.lexErrorAt(m, "unterminated template string")
			}
			switch e {
			case '`', '$':
				b.WriteRune(e)
			default:
				if d, known := decodeEscape(e); known {
					b.WriteRune(d)
				} else {
					b.WriteRune('\\')
					b.WriteRune(e)
				}
			}
			continue
		}
		p.sc.Next()
		b.WriteRune(r)
	}
	return TagValue{
		Token:    open,
		Kind:     KindTemplateString,
		Children: children,
		Span:     p.spanFrom(m),
	}, nil
}

// parseFilters parses a chain of zero or more "|name" or "|name:arg"
// applications. The argument is a single primary; it cannot carry its own
// filters or spreads. No whitespace is permitted around '|' or ':'.
func (p *parser) parseFilters() ([]TagValueFilter, error) {
	var out []TagValueFilter
	for {
		r, ok := p.sc.Peek()
		if !ok || r != '|' {
			return out, nil
		}
		m := p.mark()
		p.sc.Next()
		r2, ok2 := p.sc.Peek()
		if !ok2 || !scanner.IsIdentStart(r2) {
			return nil, p.grammarErrorHere("expected filter name after '|'")
		}
		name := p.scanIdent()
		var arg *TagValue
		if r3, ok3 := p.sc.Peek(); ok3 && r3 == ':' {
			p.sc.Next()
			am := p.mark()
			pv, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			pv.src = p.sc.Slice(am.off, p.sc.Offset())
			arg = &pv
		}
		out = append(out, TagValueFilter{Token: name, Arg: arg, Span: p.spanFrom(m)})
	}
}
