package gemini

import (
	"regexp"
	"strings"
)

// Cleaner normalizes model output: it strips the markdown code fences some
// models wrap their JSON in, and tidies narration text before speech
// synthesis. All expressions are precompiled.
type Cleaner struct {
	reFencedBlock *regexp.Regexp
	reMultiSpace  *regexp.Regexp
	charReplacer  *strings.Replacer
}

// NewCleaner creates a text cleaner with all regular expressions precompiled.
func NewCleaner() *Cleaner {
	return &Cleaner{
		reFencedBlock: regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$"),
		reMultiSpace:  regexp.MustCompile(`[ \t]{2,}`),
		charReplacer: strings.NewReplacer(
			"“", `"`,
			"”", `"`,
			"‘", "'",
			"’", "'",
			"—", "--",
			"–", "--",
			"…", "...",
			"\r", "",
		),
	}
}

// Clean prepares raw model output for JSON parsing by removing a surrounding
// code fence and trimming whitespace.
func (c *Cleaner) Clean(input string) string {
	text := strings.TrimSpace(input)

	match := c.reFencedBlock.FindStringSubmatch(text)
	if match != nil {
		text = match[1]
	}

	return strings.TrimSpace(text)
}

// NormalizeNarration tidies narration text ahead of speech synthesis:
// typographic characters are replaced with plain equivalents and runs of
// whitespace are collapsed.
func (c *Cleaner) NormalizeNarration(input string) string {
	text := c.charReplacer.Replace(input)
	text = c.reMultiSpace.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
