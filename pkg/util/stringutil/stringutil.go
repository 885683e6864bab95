// Package stringutil provides small string helpers shared across the server.
package stringutil

import (
	"fmt"
	"strings"
)

// CoalesceString returns the first non-empty string from the provided
// strings, or "" if every one of them is empty.
func CoalesceString(strs ...string) string {
	for _, str := range strs {
		if str != "" {
			return str
		}
	}
	return ""
}

// TruncateString truncates s to maxLen runes, appending "..." when it does.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// ExtractBetween returns the substring of s between the first occurrence of
// startDelim and the following occurrence of endDelim.
func ExtractBetween(s, startDelim, endDelim string) (string, error) {
	startIdx := strings.Index(s, startDelim)
	if startIdx == -1 {
		return "", fmt.Errorf("ExtractBetween: start delimiter %q not found", startDelim)
	}

	startIdx += len(startDelim)
	endIdx := strings.Index(s[startIdx:], endDelim)
	if endIdx == -1 {
		return "", fmt.Errorf("ExtractBetween: end delimiter %q not found after start delimiter", endDelim)
	}

	return s[startIdx : startIdx+endIdx], nil
}
