package qualifier

import "strings"

// Characters with special meaning in the server's basic-regular-expression
// dialect. Everything else, including ( ) { } | + ?, is a literal there.
const breSpecialChars = `\.*$[^`

// EscapeBRERegexp escapes the BRE metacharacters in base so the result
// matches base literally.
func EscapeBRERegexp(base string) string {
	var b strings.Builder
	b.Grow(len(base))
	for _, r := range base {
		if r < 128 && strings.ContainsRune(breSpecialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func regexpFor(base string, op FilterOperation) string {
	escaped := EscapeBRERegexp(base)
	switch op {
	case START_WITH:
		return "^" + escaped
	case ENDS_WITH:
		return escaped + "$"
	case EQ:
		return "^" + escaped + "$"
	}
	return escaped
}

// StartsWithRegexp returns a pattern anchored to the start of the bin value.
func StartsWithRegexp(base string) string {
	return regexpFor(base, START_WITH)
}

// EndsWithRegexp returns a pattern anchored to the end of the bin value.
func EndsWithRegexp(base string) string {
	return regexpFor(base, ENDS_WITH)
}

// ContainingRegexp returns an unanchored substring pattern.
func ContainingRegexp(base string) string {
	return regexpFor(base, CONTAINING)
}

// StringEqualsRegexp returns a fully anchored whole-value pattern.
func StringEqualsRegexp(base string) string {
	return regexpFor(base, EQ)
}
