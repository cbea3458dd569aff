package match

import (
	"sort"
)

// PartitionLabel classifies a candidate edge by whether the two partitions
// share a wave.
type PartitionLabel string

const (
	// LabelOverlappingWaves marks pairs sharing at least one wave. The same
	// question cannot coincide with itself in one wave under two identities,
	// so these are the high-risk candidates and always need a human verdict.
	LabelOverlappingWaves PartitionLabel = "overlapping_waves"

	// LabelDisjointWaves marks the expected case of a question continuing
	// into new waves with light rewording.
	LabelDisjointWaves PartitionLabel = "disjoint_waves"
)

// CandidateEdge proposes two partitions as possibly the same question.
// The pair is unordered; RepA/RepB are stored in lexicographic order.
type CandidateEdge struct {
	ID         string         `json:"id"`
	RepA       string         `json:"record_id_a"`
	RepB       string         `json:"record_id_b"`
	Similarity float64        `json:"similarity"`
	Label      PartitionLabel `json:"partition_label"`
}

// EdgeID builds the stable identity of an unordered pair of representative
// record IDs.
func EdgeID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// ProposeCandidates finds near-duplicate pairs among partition
// representatives. A pair becomes an edge iff its text similarity meets the
// configured threshold and the alternative sets are compatible (identical,
// or one or both empty). Pairs where both sides lack coded alternatives are
// held to the stricter open-text threshold. Output is sorted by descending
// similarity, then edge ID, for a reproducible review ordering.
//
// Comparisons run over representatives, not raw records, which keeps the
// quadratic pass tractable after exact grouping.
func ProposeCandidates(partitions []*Partition, cfg Config) []CandidateEdge {
	var edges []CandidateEdge

	for i := 0; i < len(partitions); i++ {
		for j := i + 1; j < len(partitions); j++ {
			a, b := partitions[i], partitions[j]

			if !alternativesCompatible(a, b) {
				continue
			}

			threshold := cfg.SimilarityThreshold
			if a.HasOpenAlternatives() && b.HasOpenAlternatives() {
				threshold = cfg.OpenTextThreshold
			}

			sim := Similarity(a.Representative.NormalizedText, b.Representative.NormalizedText)
			if sim < threshold {
				continue
			}

			edges = append(edges, CandidateEdge{
				ID:         EdgeID(a.RepID(), b.RepID()),
				RepA:       minStr(a.RepID(), b.RepID()),
				RepB:       maxStr(a.RepID(), b.RepID()),
				Similarity: sim,
				Label:      label(a, b),
			})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Similarity != edges[j].Similarity {
			return edges[i].Similarity > edges[j].Similarity
		}
		return edges[i].ID < edges[j].ID
	})
	return edges
}

func alternativesCompatible(a, b *Partition) bool {
	if a.HasOpenAlternatives() || b.HasOpenAlternatives() {
		return true
	}
	return a.Key.AltSignature == b.Key.AltSignature
}

func label(a, b *Partition) PartitionLabel {
	small, large := a.Waves(), b.Waves()
	if len(large) < len(small) {
		small, large = large, small
	}
	for w := range small {
		if large[w] {
			return LabelOverlappingWaves
		}
	}
	return LabelDisjointWaves
}

func minStr(a, b string) string {
	if b < a {
		return b
	}
	return a
}

func maxStr(a, b string) string {
	if b > a {
		return b
	}
	return a
}
