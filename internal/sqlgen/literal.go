package sqlgen

import (
	"strconv"
	"strings"
)

// Null is the bare SQL keyword, never a quoted string.
const Null = "NULL"

// Now is the generation-time timestamp marker.
const Now = "NOW()"

// Escape doubles embedded single quotes. It is the only escaping applied: the
// scripts are reviewed by a person before anyone runs them.
func Escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Quote renders s as a single-quoted string literal.
func Quote(s string) string {
	return "'" + Escape(s) + "'"
}

// QuoteNullable renders nil as NULL and anything else as a string literal.
func QuoteNullable(s *string) string {
	if s == nil {
		return Null
	}
	return Quote(*s)
}

func Int(n int) string {
	return strconv.Itoa(n)
}

// Unescape reverses Escape on the body of a literal.
func Unescape(s string) string {
	return strings.ReplaceAll(s, "''", "'")
}

// ParseCode reads a prefecture or municipality code the way a browser's
// parseInt does: surrounding space is ignored, an optional sign and the
// leading digits are read, and anything unparseable or blank becomes 0.
func ParseCode(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
