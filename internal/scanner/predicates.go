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

package scanner

// IsASCIILetter checks if a rune is an ASCII letter.
func IsASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// IsASCIIDigit checks if a rune is an ASCII digit.
func IsASCIIDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// IsIdentStart checks if a rune may begin an identifier. Identifiers are
// ASCII-only: a letter or underscore.
func IsIdentStart(r rune) bool {
	return IsASCIILetter(r) || r == '_'
}

// IsIdentPart checks if a rune may continue an identifier. Hyphens are
// permitted after the first character.
func IsIdentPart(r rune) bool {
	return IsASCIILetter(r) || IsASCIIDigit(r) || r == '_' || r == '-'
}

// IsSpace checks if a rune is insignificant whitespace between tokens.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
