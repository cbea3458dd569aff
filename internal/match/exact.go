package match

import (
	"somlib/kanon/internal/record"
)

// Partition is one exact-key cluster: records whose normalized text and
// alternative sets are identical. Partitions seed the canonical groups and
// are never split by later stages.
type Partition struct {
	Key            record.MatchKey
	Representative *record.Record
	Members        []*record.Record
	waves          map[int]bool
}

// RepID returns the stable identifier used for the partition in candidate
// edges and the union-find: the ID of its first-ingested member.
func (p *Partition) RepID() string {
	return p.Representative.ID
}

// MemberIDs returns the IDs of all member records, in ingestion order.
func (p *Partition) MemberIDs() []string {
	ids := make([]string, len(p.Members))
	for i, m := range p.Members {
		ids[i] = m.ID
	}
	return ids
}

// Waves returns the set of wave ordinals covered by the members.
func (p *Partition) Waves() map[int]bool {
	return p.waves
}

// HasOpenAlternatives reports whether the partition's records carry no coded
// alternative set, either an empty list or the open-question sentinel. Both
// leave text as the only matching evidence.
func (p *Partition) HasOpenAlternatives() bool {
	return p.Key.AltSignature == "" || p.Key.AltSignature == record.OpenQuestionSentinel
}

// GroupExact partitions records by match key. The pass is O(n), needs no
// similarity computation and is the precision-safe baseline the fuzzy stages
// only extend. Partition order and representatives follow ingestion order,
// so repeated runs over the same store agree.
func GroupExact(records []*record.Record) []*Partition {
	index := make(map[record.MatchKey]*Partition)
	var partitions []*Partition

	for _, rec := range records {
		key := record.BuildKey(rec)
		part, ok := index[key]
		if !ok {
			part = &Partition{
				Key:            key,
				Representative: rec,
				waves:          make(map[int]bool),
			}
			index[key] = part
			partitions = append(partitions, part)
		}
		part.Members = append(part.Members, rec)
		part.waves[rec.Wave] = true
	}
	return partitions
}
