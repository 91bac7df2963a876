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

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Resolvers is the capability set a compiled function evaluates through.
// All four callbacks are supplied by the caller at invocation time; errors
// they return propagate out of the compiled function unchanged.
type Resolvers struct {
	// Variable resolves a variable reference. path is the source lexeme of
	// the reference including dots and bracket accessors.
	Variable func(ctx any, path string) (any, error)

	// TemplateString evaluates one template-string interpolation. expr is
	// the source text of the embedded expression.
	TemplateString func(ctx any, expr string) (any, error)

	// Translation translates a literal string.
	Translation func(ctx any, text string) (any, error)

	// Filter applies a named filter. arg is nil when the filter was written
	// without an argument.
	Filter func(ctx any, name string, value, arg any) (any, error)
}

// Kwarg is one ordered keyword pair produced by a compiled function.
// Duplicate names are possible (e.g. a ** spread followed by an explicit
// key) and are preserved in order.
type Kwarg struct {
	Name  string
	Value any
}

// CompiledFunc evaluates a compiled tag against a context. It returns the
// positional arguments and the keyword pairs in source order. The function
// holds only immutable AST data and decoded constants; it may be invoked
// concurrently as long as the supplied resolvers are safe to invoke
// concurrently.
type CompiledFunc func(ctx any, r Resolvers) ([]any, []Kwarg, error)

// Compile lowers a parsed tag into a CompiledFunc. The AST is walked once
// here; invocations afterwards cost only resolver calls and container
// construction.
//
// Structural violations (an odd dict body, a spread in a forbidden
// position, a malformed flag node or filter argument) are reported as a
// *ParseError with Kind CompileError. The parser never produces such ASTs;
// this guards hand-built ones.
func Compile(t *Tag) (CompiledFunc, error) {
	return CompileAttrs(t.Attrs)
}

// CompileAttrs lowers a bare attribute list into a CompiledFunc. See
// Compile.
func CompileAttrs(attrs []TagAttr) (CompiledFunc, error) {
	steps := make([]attrStep, len(attrs))
	for i := range attrs {
		step, err := compileAttr(&attrs[i])
		if err != nil {
			return nil, err
		}
		steps[i] = step
	}
	return func(ctx any, r Resolvers) ([]any, []Kwarg, error) {
		out := &output{}
		for _, step := range steps {
			if err := step(ctx, r, out); err != nil {
				return nil, nil, err
			}
		}
		return out.args, out.kwargs, nil
	}, nil
}

// output accumulates the two result sequences during one invocation.
type output struct {
	args   []any
	kwargs []Kwarg
}

// attrStep appends one attribute's contribution to the output.
type attrStep func(ctx any, r Resolvers, out *output) error

// valueFunc evaluates one value node.
type valueFunc func(ctx any, r Resolvers) (any, error)

// mapEntry is one key/value pair drawn from a mapping spread source.
type mapEntry struct {
	key   any
	value any
}

func compileError(msg string, s Span, src string) error {
	return &ParseError{
		Kind:    CompileError,
		Message: msg,
		Offset:  s.StartIndex,
		LineCol: s.LineCol,
		Snippet: src,
	}
}

func compileAttr(a *TagAttr) (attrStep, error) {
	if a.IsFlag {
		if a.Key != nil {
			return nil, compileError("flag attribute must not have a key", a.Span, a.Value.src)
		}
		if a.Value.Kind != KindVariable || a.Value.Spread != SpreadNone || len(a.Value.Filters) > 0 {
			return nil, compileError("flag attribute must be a bare variable", a.Span, a.Value.src)
		}
		name := a.Value.Token.Token
		return func(_ any, _ Resolvers, out *output) error {
			out.kwargs = append(out.kwargs, Kwarg{Name: name, Value: true})
			return nil
		}, nil
	}

	if a.Key != nil {
		if a.Value.Spread != SpreadNone {
			return nil, compileError("spread is not allowed on a keyword value", a.Value.Span, a.Value.src)
		}
		eval, err := compileValue(&a.Value)
		if err != nil {
			return nil, err
		}
		name := a.Key.Token
		return func(ctx any, r Resolvers, out *output) error {
			v, err := eval(ctx, r)
			if err != nil {
				return err
			}
			out.kwargs = append(out.kwargs, Kwarg{Name: name, Value: v})
			return nil
		}, nil
	}

	eval, err := compileValue(&a.Value)
	if err != nil {
		return nil, err
	}
	switch a.Value.Spread {
	case SpreadNone:
		return func(ctx any, r Resolvers, out *output) error {
			v, err := eval(ctx, r)
			if err != nil {
				return err
			}
			out.args = append(out.args, v)
			return nil
		}, nil
	case SpreadEllipsis, SpreadStar:
		// Splatting a list literal splices its elements, and an element that
		// is itself iterable is flattened one level: "...[vals]" inserts the
		// contents of vals, not a nested list.
		flatten := a.Value.Kind == KindList && len(a.Value.Filters) == 0
		return func(ctx any, r Resolvers, out *output) error {
			v, err := eval(ctx, r)
			if err != nil {
				return err
			}
			elems, err := iterate(v)
			if err != nil {
				return err
			}
			for _, el := range elems {
				if flatten {
					if sub, subErr := iterate(el); subErr == nil {
						out.args = append(out.args, sub...)
						continue
					}
				}
				out.args = append(out.args, el)
			}
			return nil
		}, nil
	case SpreadDoubleStar:
		return func(ctx any, r Resolvers, out *output) error {
			v, err := eval(ctx, r)
			if err != nil {
				return err
			}
			entries, err := mappingEntries(v)
			if err != nil {
				return err
			}
			for _, e := range entries {
				name, ok := e.key.(string)
				if !ok {
					return fmt.Errorf("keyword spread requires string keys, got %T", e.key)
				}
				out.kwargs = append(out.kwargs, Kwarg{Name: name, Value: e.value})
			}
			return nil
		}, nil
	}
	return nil, compileError("unknown spread marker", a.Value.Span, a.Value.src)
}

// compileValue lowers a value node, its filter chain included. The caller
// is responsible for the node's own top-level spread semantics.
func compileValue(v *TagValue) (valueFunc, error) {
	eval, err := compileBare(v)
	if err != nil {
		return nil, err
	}
	for i := range v.Filters {
		f := &v.Filters[i]
		name := f.Token.Token
		if name == "" {
			return nil, compileError("filter with empty name", f.Span, v.src)
		}
		var argEval valueFunc
		if f.Arg != nil {
			if len(f.Arg.Filters) > 0 || f.Arg.Spread != SpreadNone {
				return nil, compileError("filter argument must be a plain value", f.Arg.Span, f.Arg.src)
			}
			argEval, err = compileBare(f.Arg)
			if err != nil {
				return nil, err
			}
		}
		prev := eval
		eval = func(ctx any, r Resolvers) (any, error) {
			acc, err := prev(ctx, r)
			if err != nil {
				return nil, err
			}
			var arg any
			if argEval != nil {
				if arg, err = argEval(ctx, r); err != nil {
					return nil, err
				}
			}
			return r.Filter(ctx, name, acc, arg)
		}
	}
	return eval, nil
}

// compileBare lowers a value node by kind, ignoring its spread marker and
// filter chain.
func compileBare(v *TagValue) (valueFunc, error) {
	switch v.Kind {
	case KindInt:
		n, err := strconv.ParseInt(v.Token.Token, 10, 64)
		if err != nil {
			return nil, compileError("invalid integer literal "+strconv.Quote(v.Token.Token), v.Span, v.src)
		}
		c := int(n)
		return constFunc(c), nil

	case KindFloat:
		f, err := strconv.ParseFloat(v.Token.Token, 64)
		if err != nil {
			return nil, compileError("invalid float literal "+strconv.Quote(v.Token.Token), v.Span, v.src)
		}
		return constFunc(f), nil

	case KindString:
		return constFunc(v.Token.Token), nil

	case KindVariable:
		path := v.Token.Token
		if path == "" {
			return nil, compileError("variable with empty path", v.Span, v.src)
		}
		return func(ctx any, r Resolvers) (any, error) {
			return r.Variable(ctx, path)
		}, nil

	case KindTranslation:
		text := v.Token.Token
		return func(ctx any, r Resolvers) (any, error) {
			return r.Translation(ctx, text)
		}, nil

	case KindTemplateString:
		return compileTemplateString(v)

	case KindList:
		return compileList(v)

	case KindDict:
		return compileDict(v)
	}
	return nil, compileError("unknown value kind", v.Span, v.src)
}

func constFunc(c any) valueFunc {
	return func(any, Resolvers) (any, error) { return c, nil }
}

// compileTemplateString lowers a template string to a concatenation of its
// fragments. Literal segments are constants; every other child is handed to
// the TemplateString resolver as source text and stringified.
func compileTemplateString(v *TagValue) (valueFunc, error) {
	type fragment struct {
		text   string
		isExpr bool
	}
	frags := make([]fragment, 0, len(v.Children))
	for i := range v.Children {
		c := &v.Children[i]
		if c.Spread != SpreadNone {
			return nil, compileError("spread is not allowed inside a template string", c.Span, c.src)
		}
		if c.Kind == KindString && len(c.Filters) == 0 {
			frags = append(frags, fragment{text: c.Token.Token})
			continue
		}
		frags = append(frags, fragment{text: sourceText(c), isExpr: true})
	}
	return func(ctx any, r Resolvers) (any, error) {
		var b strings.Builder
		for _, f := range frags {
			if !f.isExpr {
				b.WriteString(f.text)
				continue
			}
			v, err := r.TemplateString(ctx, f.text)
			if err != nil {
				return nil, err
			}
			b.WriteString(stringify(v))
		}
		return b.String(), nil
	}, nil
}

func compileList(v *TagValue) (valueFunc, error) {
	type element struct {
		eval   valueFunc
		spread bool
	}
	elems := make([]element, 0, len(v.Children))
	for i := range v.Children {
		c := &v.Children[i]
		switch c.Spread {
		case SpreadNone, SpreadEllipsis:
		default:
			return nil, compileError("spread '"+c.Spread.String()+"' is not allowed in a list", c.Span, c.src)
		}
		eval, err := compileValue(c)
		if err != nil {
			return nil, err
		}
		elems = append(elems, element{eval: eval, spread: c.Spread == SpreadEllipsis})
	}
	return func(ctx any, r Resolvers) (any, error) {
		out := make([]any, 0, len(elems))
		for _, e := range elems {
			v, err := e.eval(ctx, r)
			if err != nil {
				return nil, err
			}
			if !e.spread {
				out = append(out, v)
				continue
			}
			expanded, err := iterate(v)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		}
		return out, nil
	}, nil
}

func compileDict(v *TagValue) (valueFunc, error) {
	type entry struct {
		key    valueFunc // nil for a ** spread
		value  valueFunc
		spread valueFunc
	}
	var entries []entry
	for i := 0; i < len(v.Children); {
		c := &v.Children[i]
		if c.Spread == SpreadDoubleStar {
			eval, err := compileValue(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{spread: eval})
			i++
			continue
		}
		if c.Spread != SpreadNone {
			return nil, compileError("spread '"+c.Spread.String()+"' is not allowed in a dict", c.Span, c.src)
		}
		if i+1 >= len(v.Children) {
			return nil, compileError("dict has a key without a value", c.Span, v.src)
		}
		val := &v.Children[i+1]
		if val.Spread != SpreadNone {
			return nil, compileError("spread is not allowed on a dict value", val.Span, val.src)
		}
		keyEval, err := compileValue(c)
		if err != nil {
			return nil, err
		}
		valEval, err := compileValue(val)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: keyEval, value: valEval})
		i += 2
	}
	return func(ctx any, r Resolvers) (any, error) {
		om := orderedmap.New[any, any]()
		for _, e := range entries {
			if e.spread != nil {
				src, err := e.spread(ctx, r)
				if err != nil {
					return nil, err
				}
				merged, err := mappingEntries(src)
				if err != nil {
					return nil, err
				}
				for _, me := range merged {
					om.Set(me.key, me.value)
				}
				continue
			}
			k, err := e.key(ctx, r)
			if err != nil {
				return nil, err
			}
			v, err := e.value(ctx, r)
			if err != nil {
				return nil, err
			}
			om.Set(k, v)
		}
		return om, nil
	}, nil
}

// sourceText recovers the source text of a value node for the
// TemplateString resolver. Parser-built nodes retain their raw slice;
// hand-built nodes fall back to the canonical renderer.
func sourceText(v *TagValue) string {
	if v.src != "" {
		return v.src
	}
	return v.String()
}

// stringify converts a fragment value to its string form for template
// string concatenation.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// iterate expands a positional or list spread source. Any slice or array
// works; strings and maps do not.
func iterate(v any) ([]any, error) {
	if elems, ok := v.([]any); ok {
		return elems, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("spread requires an iterable value, got %T", v)
}

// mappingEntries expands a ** spread source into ordered key/value pairs.
// Ordered maps and Kwarg slices keep their insertion order; a plain
// map[string]any is emitted in sorted key order, since Go's map iteration
// order is unspecified.
func mappingEntries(v any) ([]mapEntry, error) {
	switch m := v.(type) {
	case *orderedmap.OrderedMap[any, any]:
		out := make([]mapEntry, 0, m.Len())
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, mapEntry{key: pair.Key, value: pair.Value})
		}
		return out, nil
	case *orderedmap.OrderedMap[string, any]:
		out := make([]mapEntry, 0, m.Len())
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, mapEntry{key: pair.Key, value: pair.Value})
		}
		return out, nil
	case []Kwarg:
		out := make([]mapEntry, 0, len(m))
		for _, kw := range m {
			out = append(out, mapEntry{key: kw.Name, value: kw.Value})
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]mapEntry, 0, len(keys))
		for _, k := range keys {
			out = append(out, mapEntry{key: k, value: m[k]})
		}
		return out, nil
	}
	return nil, fmt.Errorf("mapping spread requires an ordered map, map[string]any, or []Kwarg, got %T", v)
}
