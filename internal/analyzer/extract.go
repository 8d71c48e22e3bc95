package analyzer

import (
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?s)```json[ \\t]*\\r?\\n?(.*?)```")

// ExtractJSON returns the JSON object embedded in a generator response.
// A fenced json block is preferred, otherwise the first balanced {...} span is taken.
func ExtractJSON(raw string) (string, bool) {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		if obj, ok := balancedObject(m[1]); ok {
			return obj, true
		}
	}
	return balancedObject(raw)
}

// balancedObject returns the first balanced {...} span, counting brace depth outside of string literals.
// A brace that does not open a JSON object, like "{x" in prose, is skipped when it never closes;
// an unclosed object fails the extraction.
func balancedObject(s string) (string, bool) {
	for offset := 0; offset < len(s); {
		idx := strings.IndexByte(s[offset:], '{')
		if idx < 0 {
			return "", false
		}
		start := offset + idx
		if end, ok := closingBrace(s, start); ok {
			return s[start : end+1], true
		}
		if opensObject(s[start+1:]) {
			return "", false
		}
		offset = start + 1
	}
	return "", false
}

func closingBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// opensObject reports whether the text after '{' looks like a JSON object body.
func opensObject(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return strings.HasPrefix(rest, `"`) || strings.HasPrefix(rest, "}")
}
