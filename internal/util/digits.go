package util

import "strings"

// OnlyDigits drops every character of s that is not an ASCII digit.
func OnlyDigits(s string) string {
	builder := strings.Builder{}
	builder.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			builder.WriteByte(s[i])
		}
	}

	return builder.String()
}
