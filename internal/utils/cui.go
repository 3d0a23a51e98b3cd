package utils

import "strings"

// NormalizeCUI uppercases the fiscal code and strips separators, so
// "ro 123.456" and "RO123456" store identically.
func NormalizeCUI(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range strings.ToUpper(s) {
		switch r {
		case ' ', '.', '-', '/':
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
