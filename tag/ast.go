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

package tag

// ValueKind discriminates the variants of a TagValue.
type ValueKind int

const (
	// KindString is a quoted string literal. Children are empty; the token
	// payload is the decoded string.
	KindString ValueKind = iota

	// KindInt is an integer literal. Children are empty.
	KindInt

	// KindFloat is a floating-point literal. Children are empty.
	KindFloat

	// KindVariable is a variable reference. The token is the full path
	// lexeme including dots and bracket accessors (e.g. "user.name",
	// "items[0]"). Children are empty.
	KindVariable

	// KindTemplateString is a backtick-quoted literal with ${...}
	// interpolations. Children hold the ordered fragments: literal segments
	// as KindString values and embedded expressions as arbitrary values.
	KindTemplateString

	// KindTranslation is a _("...") call. Children are empty; the token is
	// the inner string literal's decoded payload.
	KindTranslation

	// KindList is a [...] literal. Children hold the elements in source
	// order; an element may carry a SpreadEllipsis marker.
	KindList

	// KindDict is a {...} literal. Children hold an alternating key, value,
	// key, value sequence in source order, except that a child carrying a
	// SpreadDoubleStar marker stands alone without a key partner.
	KindDict
)

// String returns the lowercase name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindVariable:
		return "variable"
	case KindTemplateString:
		return "template_string"
	case KindTranslation:
		return "translation"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	}
	return "unknown"
}

// Spread is the optional expansion marker prefixed to a value.
type Spread int

const (
	// SpreadNone marks a plain, unexpanded value.
	SpreadNone Spread = iota

	// SpreadEllipsis is the "..." marker: splat into positional args at the
	// top level, or splat into the enclosing list.
	SpreadEllipsis

	// SpreadStar is the "*" marker: iterable-splat into positional args.
	// Permitted at the top level only.
	SpreadStar

	// SpreadDoubleStar is the "**" marker: mapping-splat into keyword pairs
	// at the top level, or into the enclosing dict.
	SpreadDoubleStar
)

// String returns the literal source form of the marker, or "" for
// SpreadNone.
func (s Spread) String() string {
	switch s {
	case SpreadEllipsis:
		return "..."
	case SpreadStar:
		return "*"
	case SpreadDoubleStar:
		return "**"
	}
	return ""
}

// TagSyntax identifies which outer delimiter convention the tag body was
// written in. The parser treats both identically; the value is carried
// through for the host, which applies the delimiter rules.
type TagSyntax int

const (
	// SyntaxDjango is a {% ... %} tag body.
	SyntaxDjango TagSyntax = iota

	// SyntaxHTML is a <... /> tag body.
	SyntaxHTML
)

// String returns "django" or "html".
func (s TagSyntax) String() string {
	if s == SyntaxHTML {
		return "html"
	}
	return "django"
}

// TagValue is an expression node. For scalar kinds the token is the primary
// lexeme; for composites (list, dict, template string) it is the opening
// bracket, brace, or quote token. The node's own span always covers the
// whole expression including any spread marker and filters.
//
// Values are immutable once produced by the parser.
type TagValue struct {
	Token    TagToken
	Children []TagValue
	Kind     ValueKind
	Spread   Spread
	Filters  []TagValueFilter
	Span

	// src is the raw source slice of the expression (filters included,
	// spread marker excluded), retained so the compiler can hand resolvers
	// exact source text. Empty on hand-built nodes; the renderer is the
	// fallback.
	src string
}

// TagValueFilter is a single filter application chained to a value with '|'.
// The token is the filter name; Arg is the optional ':'-argument.
type TagValueFilter struct {
	Token TagToken
	Arg   *TagValue
	Span
}

// TagAttr is one tag argument. Key is present for key=value attributes and
// absent for positional values and flags. If IsFlag is true, Key is absent,
// the value is a KindVariable, and the variable name is one of the
// caller-supplied flag names.
type TagAttr struct {
	Key    *TagToken
	Value  TagValue
	IsFlag bool
	Span
}

// Tag is the root node produced by parsing a tag body.
type Tag struct {
	Name          TagToken
	Attrs         []TagAttr
	IsSelfClosing bool
	Syntax        TagSyntax
	Span
}
