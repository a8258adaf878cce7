package tags

import "strings"

// ParseList converts free-form model output into a clean tag slice. The
// expected shape is a single comma-separated line, but models routinely add
// numbering, bullets, or line breaks; those are stripped. maxTags caps the
// result when positive.
func ParseList(raw string, maxTags int) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})

	cleaned := make([]string, 0, len(fields))
	for _, field := range fields {
		tag := strings.TrimSpace(field)
		tag = strings.TrimLeft(tag, "-*•· \t")
		tag = trimLeadingNumbering(tag)
		tag = strings.Trim(tag, `"'`)
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		cleaned = append(cleaned, tag)
	}

	cleaned = Normalize(cleaned)
	if maxTags > 0 && len(cleaned) > maxTags {
		cleaned = cleaned[:maxTags]
	}
	return cleaned
}

// trimLeadingNumbering removes "1." / "2)" style prefixes.
func trimLeadingNumbering(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) {
		return s
	}
	if s[i] == '.' || s[i] == ')' {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
