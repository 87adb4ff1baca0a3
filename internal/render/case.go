package render

import "strings"

// toSnakeCase converts a name to a valid snake_case file/identifier name.
// Splits on word boundaries (case changes, delimiters), lowercases each part,
// and prefixes with underscore if the result starts with a digit.
func toSnakeCase(s string) string {
	rs := []rune(s)
	var parts []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			parts = append(parts, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	isWordRune := func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
	}
	for i, r := range rs {
		switch {
		case isWordRune(r):
			cur = append(cur, r)
		case r >= 'A' && r <= 'Z':
			// break before an upper rune that starts a new word: either
			// preceded by a lower rune, or the last of an acronym run
			// followed by a lower rune (HTTPError -> http, error)
			prevLower := i > 0 && isWordRune(rs[i-1])
			nextLower := i+1 < len(rs) && rs[i+1] >= 'a' && rs[i+1] <= 'z'
			if prevLower || (nextLower && len(cur) > 0) {
				flush()
			}
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()

	result := strings.Join(parts, "_")
	if result != "" && result[0] >= '0' && result[0] <= '9' {
		result = "_" + result
	}
	return result
}

// toPascalCase converts a snake/kebab/camel string to PascalCase.
func toPascalCase(s string) string {
	parts := strings.FieldsFunc(toSnakeCase(s), func(r rune) bool {
		return r == '_'
	})

	var sb strings.Builder
	for _, part := range parts {
		if part != "" {
			sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return sb.String()
}

// toCamelCase is toPascalCase with a lowercase first letter.
func toCamelCase(s string) string {
	p := toPascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}
