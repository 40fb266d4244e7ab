package domain

import "strings"

// MarkdownExt is the extension given to downloaded page files.
const MarkdownExt = ".md"

var unsafeReplacer = strings.NewReplacer(
	`\`, "-",
	"/", "-",
	":", "-",
	"*", "-",
	"?", "-",
	`"`, "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// SanitizeName converts a remote page name into a filesystem-safe base
// name: unsafe characters become dashes, runs of whitespace collapse to a
// single space, and surrounding whitespace is trimmed.
func SanitizeName(name string) string {
	s := unsafeReplacer.Replace(name)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// UniqueFileName derives the markdown file name for a downloaded page and
// records it in seen. When the sanitized name collides with one already
// produced in the same pass, a short suffix from the page id keeps the
// second file from overwriting the first.
func UniqueFileName(pageName, pageID string, seen map[string]bool) string {
	base := SanitizeName(pageName)
	if base == "" {
		base = "Untitled"
	}
	if seen[base] {
		base = base + "-" + idSuffix(pageID)
	}
	seen[base] = true
	if strings.HasSuffix(strings.ToLower(base), MarkdownExt) {
		return base
	}
	return base + MarkdownExt
}

// idSuffix returns up to eight filesystem-safe characters of a page id.
func idSuffix(pageID string) string {
	s := SanitizeName(pageID)
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}
