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

import "testing"

func TestRenderCanonical(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"my_tag", "my_tag"},
		{"  my_tag   a=1 ", "my_tag a=1"},
		{"my_tag/", "my_tag /"},
		{"t {# gone #} a=1", "t a=1"},
		{`t 'single'`, `t "single"`},
		{`t [1,2,  3,]`, "t [1, 2, 3]"},
		{`t {"a":1,**m,}`, `t {"a": 1, **m}`},
		{"t ...lst *it **kw", "t ...lst *it **kw"},
		{`t x=1|add:2|abs`, "t x=1|add:2|abs"},
		{`t _( "hi" )`, `t _("hi")`},
		{"t `a${ x }b`", "t `a${x}b`"},
		{`t "q\"esc\n"`, `t "q\"esc\n"`},
		{`t v["k"].w`, `t v["k"].w`},
	}
	for _, tc := range testCases {
		tg := mustParse(t, tc.input)
		if got := tg.String(); got != tc.want {
			t.Errorf("render(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRenderRoundTrip(t *testing.T) {
	inputs := []string{
		"my_tag",
		"my_tag /",
		`t a=1 b="s" c=d.e[0] disabled`,
		`t ...lst *it **kw x=y|f:1|g`,
		`t [1, [2, ...r], "s"] {"k": {1: 2}, **m}`,
		"t `lit${expr}tail` s=`${a}${b}`",
		"t `esc\\`tick\\$dollar`",
		`t _("msg") x=_('other')`,
		`t "with \"quotes\" and \n lines"`,
		`t {"a"|default:"x": 1}`,
		`t v|f:[1, 2] w|g:{"a": 1}`,
	}
	for _, in := range inputs {
		first := mustParse(t, in)
		rendered := first.String()
		second, err := Parse(rendered)
		if err != nil {
			t.Errorf("re-parse of render(%q) = %q failed: %v", in, rendered, err)
			continue
		}
		if !equalTag(first, second) {
			t.Errorf("round trip of %q changed structure (render = %q)", in, rendered)
		}
		if again := second.String(); again != rendered {
			t.Errorf("render not idempotent for %q: %q != %q", in, rendered, again)
		}
	}
}

func TestRenderFlags(t *testing.T) {
	tg := mustParseFlags(t, "t required a=1", "required")
	if got := tg.String(); got != "t required a=1" {
		t.Errorf("render = %q, want %q", got, "t required a=1")
	}
}

func TestRenderHandBuiltValue(t *testing.T) {
	v := TagValue{
		Kind: KindList,
		Children: []TagValue{
			{Kind: KindInt, Token: TagToken{Token: "1"}},
			{Kind: KindVariable, Token: TagToken{Token: "rest"}, Spread: SpreadEllipsis},
		},
	}
	if got := v.String(); got != "[1, ...rest]" {
		t.Errorf("render = %q, want %q", got, "[1, ...rest]")
	}
}
