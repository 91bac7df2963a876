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

// Package scanner provides the low-level cursor used by the tag parser. It
// exposes a reader-like interface over the input string with peeking,
// advancing, and precise position tracking: byte offsets for spans and
// 1-based line/column numbers for diagnostics.
//
// Byte offsets count bytes of the UTF-8 input; columns count code points. A
// line break is the '\n' byte, so a "\r\n" pair counts as a single break at
// the '\n'.
package scanner

import "unicode/utf8"

// Scanner is a forward-only cursor over an input string. The zero value is
// not usable; construct one with New.
type Scanner struct {
	src  string
	off  int
	line int
	col  int
}

// New creates a Scanner positioned at the start of src (offset 0, line 1,
// column 1).
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1, col: 1}
}

// Source returns the full input string the scanner was created with.
func (s *Scanner) Source() string {
	return s.src
}

// Offset returns the current read position in bytes from the start of the
// input.
func (s *Scanner) Offset() int {
	return s.off
}

// Line returns the 1-based line number of the current position.
func (s *Scanner) Line() int {
	return s.line
}

// Col returns the 1-based code-point column of the current position.
func (s *Scanner) Col() int {
	return s.col
}

// EOF reports whether the entire input has been consumed.
func (s *Scanner) EOF() bool {
	return s.off >= len(s.src)
}

// Peek returns the next rune without advancing the position.
func (s *Scanner) Peek() (rune, bool) {
	if s.off >= len(s.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.off:])
	return r, true
}

// PeekAt returns the rune n runes ahead of the current position without
// advancing. PeekAt(0) is equivalent to Peek.
func (s *Scanner) PeekAt(n int) (rune, bool) {
	off := s.off
	for {
		if off >= len(s.src) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(s.src[off:])
		if n == 0 {
			return r, true
		}
		off += size
		n--
	}
}

// Next reads and returns the next rune, advancing the position and updating
// the line/column bookkeeping.
func (s *Scanner) Next() (rune, bool) {
	if s.off >= len(s.src) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s.src[s.off:])
	s.off += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r, true
}

// StartsWith checks whether the unread input begins with the given prefix.
func (s *Scanner) StartsWith(prefix string) bool {
	if s.off+len(prefix) > len(s.src) {
		return false
	}
	return s.src[s.off:s.off+len(prefix)] == prefix
}

// Skip advances past n bytes of input. It must only be called with n no
// larger than the remaining input; position bookkeeping stays consistent
// because the advance happens rune by rune.
func (s *Scanner) Skip(n int) {
	target := s.off + n
	for s.off < target {
		if _, ok := s.Next(); !ok {
			return
		}
	}
}

// Slice returns the input between two byte offsets.
func (s *Scanner) Slice(start, end int) string {
	return s.src[start:end]
}

// Rest returns the unread portion of the input.
func (s *Scanner) Rest() string {
	return s.src[s.off:]
}
