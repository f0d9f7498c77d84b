package patient

import (
	"strconv"
	"strings"
)

func formatMRN(n int64) string {
	return strconv.FormatInt(n, 10)
}

// present reports whether s is set and not blank.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// deref returns the trimmed value of s, or "" when unset. HIS columns are
// fixed-width CHAR and arrive padded.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func joinPresent(sep string, parts ...*string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if present(p) {
			out = append(out, deref(p))
		}
	}
	return strings.Join(out, sep)
}
