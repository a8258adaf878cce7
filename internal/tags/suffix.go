package tags

import "strings"

// ApplySuffix appends suffix to every tag that does not already carry it.
// The comparison ignores case so "Beach_AI" is not double-suffixed. An empty
// suffix returns the input unchanged.
func ApplySuffix(in []string, suffix string) []string {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" || len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	lowered := strings.ToLower(suffix)
	for _, tag := range in {
		if strings.HasSuffix(strings.ToLower(tag), lowered) {
			out = append(out, tag)
			continue
		}
		out = append(out, tag+suffix)
	}
	return out
}

// StripSuffix removes suffix from every tag that carries it. Useful when
// presenting generated tags without the marker.
func StripSuffix(in []string, suffix string) []string {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" || len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	lowered := strings.ToLower(suffix)
	for _, tag := range in {
		if strings.HasSuffix(strings.ToLower(tag), lowered) {
			out = append(out, tag[:len(tag)-len(suffix)])
			continue
		}
		out = append(out, tag)
	}
	return out
}
