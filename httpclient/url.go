package httpclient

import "strings"

const schemeSeparator = "://"

// NormalizeURL joins URL parts with a single slash.
//
// A part containing "://" is split on its first occurrence and only the
// trailing slashes of the remainder are removed, so the scheme separator is
// never touched. Any other part has leading and trailing slashes removed.
// Parts that end up empty are skipped.
//
//	NormalizeURL("https://example.com/", "/v1/", "users", "123")
//	// "https://example.com/v1/users/123"
func NormalizeURL(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if c := cleanPart(part); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return strings.Join(cleaned, "/")
}

func cleanPart(part string) string {
	scheme, rest, ok := strings.Cut(part, schemeSeparator)
	if !ok {
		return strings.Trim(part, "/")
	}
	return scheme + schemeSeparator + strings.TrimRight(rest, "/")
}
