// Package library renders canonical groups into the searchable output
// document. It performs no matching: the document is a pure projection of the
// record store plus the accepted edges, re-runnable from any ledger state.
package library

import (
	"sort"

	"somlib/kanon/internal/match"
	"somlib/kanon/internal/record"
)

// Entry type values. A question seen in more than one wave is cross-wave.
const (
	TypeCrossWave  = "cross_wave"
	TypeSingleWave = "single_wave"
)

// WaveDetail is one wave's observation of a library entry.
type WaveDetail struct {
	Variable     string   `json:"variable"`
	QuestionText string   `json:"question_text"`
	Alternatives []string `json:"response_alternatives"`
	SubItems     []string `json:"sub_items,omitempty"`
}

// Entry is one assembled question or battery with full per-wave provenance.
type Entry struct {
	QuestionText string             `json:"question_text"`
	StemVariable string             `json:"stem_variable,omitempty"`
	Waves        []int              `json:"waves"`
	WaveDetail   map[int]WaveDetail `json:"wave_detail"`
	SubItems     []string           `json:"sub_items,omitempty"`
	Type         string             `json:"type"`
}

// Document is the assembled library, the read-only output boundary consumed
// by the search page.
type Document struct {
	Waves                []int   `json:"waves"`
	TotalUniqueQuestions int     `json:"total_unique_questions"`
	TotalUniqueBatteries int     `json:"total_unique_batteries"`
	Questions            []Entry `json:"questions"`
	Batteries            []Entry `json:"batteries"`
}

// Build assembles the library from the record store and the accepted
// candidate edges. Deterministic and idempotent: the same store and ledger
// state always produce the same document, and an empty edge set degrades to
// the exact-key partitions.
func Build(store *record.Store, accepted []match.AcceptedEdge) *Document {
	partitions := match.GroupExact(store.Questions())
	groups := match.Merge(partitions, accepted)
	clusters := match.ResolveBatteries(store.Batteries())

	doc := &Document{
		Questions: make([]Entry, 0, len(groups)),
		Batteries: make([]Entry, 0, len(clusters)),
	}

	waveSet := make(map[int]bool)
	for _, rec := range store.Records() {
		waveSet[rec.Wave] = true
	}
	doc.Waves = sortedWaves(waveSet)

	for _, g := range groups {
		members := make([]*record.Record, 0, len(g.MemberIDs))
		for _, id := range g.MemberIDs {
			members = append(members, store.Get(id))
		}
		doc.Questions = append(doc.Questions, assemble(members, nil))
	}
	sort.SliceStable(doc.Questions, func(i, j int) bool {
		return doc.Questions[i].QuestionText < doc.Questions[j].QuestionText
	})

	for _, c := range clusters {
		entry := assemble(c.Members, c.SubItems)
		entry.StemVariable = c.Stem
		doc.Batteries = append(doc.Batteries, entry)
	}
	sort.SliceStable(doc.Batteries, func(i, j int) bool {
		return doc.Batteries[i].StemVariable < doc.Batteries[j].StemVariable
	})

	doc.TotalUniqueQuestions = len(doc.Questions)
	doc.TotalUniqueBatteries = len(doc.Batteries)
	return doc
}

// assemble builds one entry from group members. subItems, when non-nil, is
// the battery's canonical first-seen-across-waves superset.
func assemble(members []*record.Record, subItems []string) Entry {
	entry := Entry{
		QuestionText: canonicalText(members),
		WaveDetail:   make(map[int]WaveDetail, len(members)),
		SubItems:     subItems,
	}

	waveSet := make(map[int]bool)
	for _, m := range members {
		waveSet[m.Wave] = true
		if better(m, entry.WaveDetail[m.Wave]) {
			entry.WaveDetail[m.Wave] = WaveDetail{
				Variable:     m.Variable,
				QuestionText: m.RawText,
				Alternatives: m.Alternatives,
				SubItems:     m.SubItems,
			}
		}
	}

	entry.Waves = sortedWaves(waveSet)
	if len(entry.Waves) > 1 {
		entry.Type = TypeCrossWave
	} else {
		entry.Type = TypeSingleWave
	}
	return entry
}

// canonicalText picks the display text for a group: the longest raw text
// among members, ties broken by earliest wave, then lexicographic order.
func canonicalText(members []*record.Record) string {
	best := members[0]
	for _, m := range members[1:] {
		switch {
		case len(m.RawText) > len(best.RawText):
			best = m
		case len(m.RawText) == len(best.RawText) && m.Wave < best.Wave:
			best = m
		case len(m.RawText) == len(best.RawText) && m.Wave == best.Wave && m.RawText < best.RawText:
			best = m
		}
	}
	return best.RawText
}

// better decides whether a member should replace the current detail for its
// wave: the most complete raw text wins, ties by variable then raw text.
func better(m *record.Record, current WaveDetail) bool {
	if current.QuestionText == "" {
		return true
	}
	if len(m.RawText) != len(current.QuestionText) {
		return len(m.RawText) > len(current.QuestionText)
	}
	if m.Variable != current.Variable {
		return m.Variable < current.Variable
	}
	return m.RawText < current.QuestionText
}

func sortedWaves(set map[int]bool) []int {
	waves := make([]int, 0, len(set))
	for w := range set {
		waves = append(waves, w)
	}
	sort.Ints(waves)
	return waves
}
