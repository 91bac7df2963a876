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

//nolint:testpackage // White-box tests; behaviour of the unexported src field is exercised through Compile.
package tag

import (
	"errors"
	"strings"
	"testing"
)

// mustParse parses input and fails the test on error.
func mustParse(t *testing.T, input string) *Tag {
	t.Helper()
	tg, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return tg
}

// mustParseFlags parses input with the given flag set.
func mustParseFlags(t *testing.T, input string, flags ...string) *Tag {
	t.Helper()
	tg, err := ParseWithOptions(input, ParseOptions{Flags: flags})
	if err != nil {
		t.Fatalf("ParseWithOptions(%q, flags=%v) failed: %v", input, flags, err)
	}
	return tg
}

// assertParseError checks that parsing fails with the given error kind and
// a message containing msg.
func assertParseError(t *testing.T, input string, kind ErrorKind, msg string) *ParseError {
	t.Helper()
	_, err := Parse(input)
	if err == nil {
		t.Fatalf("Parse(%q) succeeded, want %v", input, kind)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse(%q) returned %T, want *ParseError", input, err)
	}
	if pe.Kind != kind {
		t.Errorf("Parse(%q) error kind = %v, want %v", input, pe.Kind, kind)
	}
	if !strings.Contains(pe.Message, msg) {
		t.Errorf("Parse(%q) error message = %q, want substring %q", input, pe.Message, msg)
	}
	return pe
}

// lineColOf independently computes the 1-based line/column of a byte offset.
func lineColOf(s string, off int) Position {
	line, col := 1, 1
	for _, r := range s[:off] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Col: col}
}

// walkValues visits every value node in the tag: attr values, their
// children, and filter arguments.
func walkValues(tg *Tag, fn func(v *TagValue)) {
	for i := range tg.Attrs {
		walkValue(&tg.Attrs[i].Value, fn)
	}
}

func walkValue(v *TagValue, fn func(v *TagValue)) {
	fn(v)
	for i := range v.Children {
		walkValue(&v.Children[i], fn)
	}
	for i := range v.Filters {
		if v.Filters[i].Arg != nil {
			walkValue(v.Filters[i].Arg, fn)
		}
	}
}

// equalTag compares two tags structurally, ignoring spans and retained
// source slices.
func equalTag(a, b *Tag) bool {
	if a.Name.Token != b.Name.Token ||
		a.IsSelfClosing != b.IsSelfClosing ||
		a.Syntax != b.Syntax ||
		len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for i := range a.Attrs {
		if !equalAttr(&a.Attrs[i], &b.Attrs[i]) {
			return false
		}
	}
	return true
}

func equalAttr(a, b *TagAttr) bool {
	if a.IsFlag != b.IsFlag {
		return false
	}
	if (a.Key == nil) != (b.Key == nil) {
		return false
	}
	if a.Key != nil && a.Key.Token != b.Key.Token {
		return false
	}
	return equalValue(&a.Value, &b.Value)
}

func equalValue(a, b *TagValue) bool {
	if a.Kind != b.Kind || a.Spread != b.Spread || a.Token.Token != b.Token.Token {
		return false
	}
	if len(a.Children) != len(b.Children) || len(a.Filters) != len(b.Filters) {
		return false
	}
	for i := range a.Children {
		if !equalValue(&a.Children[i], &b.Children[i]) {
			return false
		}
	}
	for i := range a.Filters {
		fa, fb := &a.Filters[i], &b.Filters[i]
		if fa.Token.Token != fb.Token.Token {
			return false
		}
		if (fa.Arg == nil) != (fb.Arg == nil) {
			return false
		}
		if fa.Arg != nil && !equalValue(fa.Arg, fb.Arg) {
			return false
		}
	}
	return true
}
