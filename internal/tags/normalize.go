package tags

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fold returns the canonical comparison key for a tag: NFC-normalized and
// lower-cased. Two tags with equal folds are the same tag.
func Fold(tag string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(tag)))
}

// Equal reports whether two tags are the same under the merge policy.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Normalize trims, NFC-normalizes, drops empties, and deduplicates the input
// case-insensitively while preserving first-seen order and casing.
func Normalize(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, tag := range in {
		cleaned := norm.NFC.String(strings.TrimSpace(tag))
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}

// Merge appends the members of add that are not already present in existing,
// comparing with Fold. existing is not modified; the returned slice starts
// with existing in order.
func Merge(existing, add []string) []string {
	out := make([]string, 0, len(existing)+len(add))
	seen := make(map[string]struct{}, len(existing)+len(add))
	for _, tag := range existing {
		out = append(out, tag)
		seen[Fold(tag)] = struct{}{}
	}
	for _, tag := range Normalize(add) {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
