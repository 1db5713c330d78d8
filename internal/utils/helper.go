package utils

import (
	"strconv"
	"strings"
)

// ParsePositiveInt parses s, falling back when it is empty, malformed or below 1.
func ParsePositiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// ContainsFold reports whether list holds v, ignoring case and surrounding space.
func ContainsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
