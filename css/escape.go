// https://drafts.csswg.org/cssom/#common-serializing-idioms
package css

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EscapeIdentifier escapes s so that it lexes as a single identifier (class, id, attribute or tag name).
func EscapeIdentifier(s string) string {
	w := &strings.Builder{}
	for i, r := range s {
		switch {
		case r == '\u0000':
			w.WriteRune('\uFFFD')
		case r >= '\u0001' && r <= '\u001F', r == '\u007F',
			i == 0 && r >= '0' && r <= '9',
			i == 1 && r >= '0' && r <= '9' && s[0] == '-':
			w.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case i == 0 && len(s) == 1 && r == '-':
			w.WriteString(`\-`)
		case r == '-' || r == '_' || r >= '\u0080' ||
			r >= '0' && r <= '9' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			w.WriteRune(r)
		default:
			w.WriteString(`\` + string(r))
		}
	}
	return w.String()
}

// EscapeString escapes s for use inside a double quoted string.
func EscapeString(s string) string {
	w := &strings.Builder{}
	for _, r := range s {
		switch {
		case r == '\u0000':
			w.WriteRune('\uFFFD')
		case r >= '\u0001' && r <= '\u001F', r == '\u007F':
			w.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case r == '"' || r == '\\':
			w.WriteString(`\` + string(r))
		default:
			w.WriteRune(r)
		}
	}
	return w.String()
}

// Unescape resolves css escapes: \ followed by up to 6 hex digits (and an optional whitespace)
// or \ followed by any other character.
func Unescape(s string) string {
	if !strings.ContainsAny(s, "\\\uFFFD") {
		return s
	}
	w := &strings.Builder{}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '\uFFFD':
			w.WriteRune('\u0000')
		case r == '\\' && i < len(s) && !isHexDigit(rune(s[i])):
			r, size := utf8.DecodeRuneInString(s[i:])
			w.WriteRune(r)
			i += size
		case r == '\\' && i < len(s):
			j := i
			for ; j < i+6 && j < len(s) && isHexDigit(rune(s[j])); j++ {
			}
			cp, _ := strconv.ParseUint(s[i:j], 16, 32)
			if cp == 0 || cp > unicode.MaxRune || cp >= 0xD800 && cp <= 0xDFFF {
				cp = unicode.ReplacementChar
			}
			w.WriteRune(rune(cp))
			if i = j; i < len(s) && unicode.IsSpace(rune(s[i])) {
				i++
			}
		default:
			w.WriteRune(r)
		}
	}
	return w.String()
}
