// Package textmatch holds the text primitives shared by the classifiers:
// case folding, substring keyword matching and class-code extraction.
package textmatch

import (
	"regexp"
	"strings"
)

// Normalize lowercases and trims text. Empty input yields an empty string.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ContainsAny reports whether any keyword is a substring of text.
// Matching is plain substring, not word-boundary; text is expected to be
// normalized already.
func ContainsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every keyword group has at least one match.
func ContainsAll(text string, groups ...[]string) bool {
	if len(groups) == 0 {
		return false
	}
	for _, group := range groups {
		if !ContainsAny(text, group) {
			return false
		}
	}
	return true
}

const classLetters = `A-ZА-ЯЁ`

var (
	// classCodePattern runs on uppercased text. The optional marker covers
	// "#1Б", "FOR 1Б", "TO 1Б" and "ДЛЯ 1Б"; the surrounding groups keep
	// "2024Г" or "1БВ" from producing a bogus code.
	classCodePattern = regexp.MustCompile(`(?:^|[^0-9` + classLetters + `])(?:(?:#|FOR|TO|ДЛЯ)\s*)?([0-9]{1,2}[` + classLetters + `])(?:[^` + classLetters + `]|$)`)

	standaloneCodePattern = regexp.MustCompile(`^[0-9]{1,2}[` + classLetters + `]$`)

	captionTagPattern = regexp.MustCompile(`(?is)^#\s*([0-9]{1,2}[a-zа-яё])\s+(.+)$`)
)

// ExtractClassCode returns the first class code found anywhere in raw text,
// normalized to uppercase digits followed by one uppercase letter.
func ExtractClassCode(raw string) (string, bool) {
	upper := strings.ToUpper(raw)
	if strings.TrimSpace(upper) == "" {
		return "", false
	}
	match := classCodePattern.FindStringSubmatch(upper)
	if len(match) < 2 {
		return "", false
	}
	return match[1], true
}

// ParseClassCode validates a bare class code argument such as "1б" or "10A".
func ParseClassCode(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	code = strings.TrimPrefix(code, "#")
	if !standaloneCodePattern.MatchString(code) {
		return "", false
	}
	return code, true
}

// ParseCaptionTag splits a teacher caption of the form "#<class> <label>".
// The label keeps its original casing; callers normalize before matching.
func ParseCaptionTag(caption string) (classCode, label string, ok bool) {
	match := captionTagPattern.FindStringSubmatch(strings.TrimSpace(caption))
	if len(match) < 3 {
		return "", "", false
	}
	label = strings.TrimSpace(match[2])
	if label == "" {
		return "", "", false
	}
	return strings.ToUpper(match[1]), label, true
}
