package utils

import "strings"

// SafeDeref safely dereferences a string pointer and returns empty string if nil
func SafeDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// LastSegment returns the part of s after the final sep, or s itself when sep is absent
func LastSegment(s string, sep byte) string {
	return s[strings.LastIndexByte(s, sep)+1:]
}
