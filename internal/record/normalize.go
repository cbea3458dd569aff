package record

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// OpenQuestionSentinel replaces the alternative list of open-ended questions,
// whose raw alternative count exceeds the configured limit.
const OpenQuestionSentinel = "open question"

// nonResponsePrefix marks reserved missing/non-response codes in the source
// data ("ej svar - ..."). Labels carrying it are dropped during normalization.
const nonResponsePrefix = "ej svar"

var (
	// Variable-name prefixes like "f7. ", "F77a.: ", "F99a.:" — the record's
	// own variable repeated inside its question text.
	leadingVarRe = regexp.MustCompile(`(?i)^[a-z]+[0-9]+[a-z]*[.:]+\s*`)
	inlineVarRe  = regexp.MustCompile(`(?i)\b[a-z]+[0-9]+[a-z]*[.:]+\s*`)

	// Battery sub-item variables: base name plus trailing letters (f3a, f3b).
	stemVarRe = regexp.MustCompile(`^([a-z]+[0-9]+)[a-z]+$`)
)

// NormalizeText canonicalizes question text for comparison: strips variable
// prefixes, applies NFKC, lowercases, collapses whitespace and strips terminal
// punctuation. Pure and idempotent.
func NormalizeText(raw string) string {
	text := norm.NFKC.String(raw)
	text = leadingVarRe.ReplaceAllString(text, "")
	text = inlineVarRe.ReplaceAllString(text, "")
	text = strings.ToLower(text)
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ".?!:- ")
	return text
}

// NormalizeLabel canonicalizes one response-alternative or sub-item label.
// Returns "" for labels that should be dropped (empty or non-response codes).
func NormalizeLabel(raw string) string {
	text := norm.NFKC.String(raw)
	text = strings.ToLower(text)
	text = strings.Join(strings.Fields(text), " ")
	if strings.HasPrefix(text, nonResponsePrefix) {
		return ""
	}
	return text
}

// NormalizeAlternatives canonicalizes a raw alternative list: drops
// non-response codes, trims and case-folds, removes exact duplicates
// preserving first-seen order. When the raw count exceeds openLimit the whole
// list collapses to the open-question sentinel; open-ended questions are not
// comparable by alternative set.
func NormalizeAlternatives(raw []string, openLimit int) []string {
	if openLimit > 0 && len(raw) > openLimit {
		return []string{OpenQuestionSentinel}
	}

	seen := make(map[string]bool, len(raw))
	var out []string
	for _, alt := range raw {
		label := NormalizeLabel(alt)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// NormalizeSubItems canonicalizes battery sub-item labels, preserving order
// and dropping empties and duplicates.
func NormalizeSubItems(raw []string) []string {
	return NormalizeAlternatives(raw, 0)
}

// Stem returns the battery base variable with trailing sub-item letters
// stripped: "f3a" -> "f3". Non-battery-shaped variables come back lowercased
// and otherwise unchanged.
func Stem(variable string) string {
	v := strings.ToLower(strings.TrimSpace(variable))
	if m := stemVarRe.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}
