package record

import (
	"sort"
	"strings"
)

// MatchKey identifies records that are the same question by construction:
// equal normalized text and equal normalized alternative sets. Wave and
// variable are deliberately excluded so a question recurring under a renamed
// variable in a later wave still lands on the same key.
type MatchKey struct {
	Text         string
	AltSignature string
}

// BuildKey derives the exact-grouping key for a record. Records with no coded
// alternatives get an empty signature, degrading the key to text-only
// equality — wider recall for open questions at the cost of precision.
func BuildKey(rec *Record) MatchKey {
	return MatchKey{
		Text:         rec.NormalizedText,
		AltSignature: AltSignature(rec.Alternatives),
	}
}

// AltSignature builds a stable order-independent signature over normalized
// alternative labels.
func AltSignature(alternatives []string) string {
	if len(alternatives) == 0 {
		return ""
	}
	sorted := make([]string, len(alternatives))
	copy(sorted, alternatives)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}
