package research

import (
	"fmt"
	"strings"
)

// legalSuffixes are legal-form markers stripped before querying:
// "ТОО Алмаз" and "Алмаз" are the same company to a search engine, and
// the marker only narrows results. Matched per token because regexp
// \b is ASCII-only and never fires next to Cyrillic letters.
var legalSuffixes = map[string]struct{}{
	"тоо": {}, "ао": {}, "жшс": {}, "т.о.о": {}, "а.о": {},
	"llc": {}, "ltd": {}, "inc": {}, "corp": {}, "limited": {},
}

// cleanCompanyName drops legal-form tokens and collapses whitespace.
func cleanCompanyName(name string) string {
	fields := strings.Fields(name)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.ToLower(strings.Trim(f, `"«»'.,`))
		if _, drop := legalSuffixes[token]; drop {
			continue
		}
		// Strip the name's own quoting; buildQuery re-quotes the whole
		// phrase and nested quotes would need escaping.
		kept = append(kept, strings.Trim(f, `"«»`))
	}
	return strings.Join(kept, " ")
}

// buildQuery assembles the provider query: the quoted cleaned name,
// country context, the BIN, the locality, and official-site markers.
func buildQuery(name, bin, locality string) string {
	parts := []string{
		fmt.Sprintf("%q", cleanCompanyName(name)),
		"Казахстан OR Kazakhstan",
	}
	if bin != "" {
		parts = append(parts, "БИН "+bin)
	}
	if locality != "" {
		parts = append(parts, fmt.Sprintf("%q", locality))
	}
	parts = append(parts, "сайт OR website OR контакты OR contacts")
	return strings.Join(parts, " ")
}
