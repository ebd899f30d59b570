// Package strings provides string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// FirstNonEmpty returns the first value with non whitespace content, or ""
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if std.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Dedupe drops blank entries and repeats while keeping first-seen order
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = std.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ContainsAny reports whether s contains at least one of subs (literal match)
func ContainsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && std.Contains(s, sub) {
			return true
		}
	}
	return false
}

// RemoveAll removes every literal occurrence of each of subs from s
func RemoveAll(s string, subs []string) string {
	for _, sub := range subs {
		if sub != "" {
			s = std.ReplaceAll(s, sub, "")
		}
	}
	return s
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}
